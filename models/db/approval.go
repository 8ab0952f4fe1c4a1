package dbmodels

import (
	"time"

	"docflow-backend/models"
)

// Approval - задача согласования по сущности. Для пары (entity_type,
// entity_id) и согласующего допускается не более одной нерешенной записи.
type Approval struct {
	BaseModel
	EntityType models.EntityType    `gorm:"type:varchar(20);index:idx_approval_entity,priority:1"`
	EntityID   string               `gorm:"type:varchar(36);index:idx_approval_entity,priority:2"`
	UserID     string               `gorm:"type:varchar(36);index"`
	User       *User                `gorm:"foreignKey:UserID"`
	Status     models.ApprovalState `gorm:"type:varchar(20)"`
	Comments   string
	ApprovedAt *time.Time
}
