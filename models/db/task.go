package dbmodels

import (
	"time"

	"docflow-backend/models"
)

type Task struct {
	BaseModel
	Title        string `gorm:"type:varchar(255)"`
	Description  string
	AssignedTo   string              `gorm:"type:varchar(36);index"`
	Assignee     *User               `gorm:"foreignKey:AssignedTo"`
	AssignedBy   string              `gorm:"type:varchar(36)"`
	Assigner     *User               `gorm:"foreignKey:AssignedBy"`
	DocumentID   *string             `gorm:"type:varchar(36);index"`
	Document     *Document           `gorm:"foreignKey:DocumentID"`
	Priority     models.TaskPriority `gorm:"type:varchar(20)"`
	Status       models.TaskStatus   `gorm:"type:varchar(20);index"`
	DueDate      *time.Time
	CompletedAt  *time.Time
}

// IsOverdue - вычисляемый признак, никогда не хранится в БД
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return t.DueDate.Before(now)
}
