package dbmodels

import (
	"docflow-backend/models"
)

// Activity - запись журнала аудита. Только добавление,
// записи не обновляются и не удаляются.
type Activity struct {
	BaseModel
	UserID     string            `gorm:"type:varchar(36);index"`
	Action     string            `gorm:"type:varchar(100)"`
	EntityType models.EntityType `gorm:"type:varchar(20);index:idx_activity_entity,priority:1"`
	EntityID   string            `gorm:"type:varchar(36);index:idx_activity_entity,priority:2"`
	Details    ActivityDetails   `gorm:"type:jsonb"`
}
