package dbmodels

import (
	"fmt"
	"time"

	"docflow-backend/models"
)

// User - запись о пользователе. После создания не изменяется,
// остальные сущности ссылаются на нее по идентификатору.
type User struct {
	BaseModel
	Password   string          `gorm:"type:varchar(128)"`
	FirstName  string          `gorm:"type:varchar(150)"`
	LastName   string          `gorm:"type:varchar(150)"`
	Email      string          `gorm:"type:varchar(255);uniqueIndex"`
	Role       models.UserRole `gorm:"type:varchar(50)"`
	Department string          `gorm:"type:varchar(255);index"`
	IsActive   bool
	LastLogin  time.Time
}

func (u User) GetFullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u User) ToActor() models.Actor {
	return models.Actor{
		ID:         u.ID,
		Role:       u.Role,
		Department: u.Department,
	}
}
