package dbmodels

import "docflow-backend/models"

// Notification - буфер недоставленных событий для пользователя.
// Удаляется после отправки через websocket.
type Notification struct {
	BaseModel
	UserID string                  `gorm:"type:varchar(36);index:idx_notification_user"`
	Type   models.NotificationType `gorm:"type:varchar(50)"`
	Title  string                  `gorm:"type:varchar(255)"`
	Msg    string
	Link   string `gorm:"type:varchar(255)"`
}
