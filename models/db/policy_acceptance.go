package dbmodels

import "time"

// PolicyAcceptance - факт ознакомления пользователя с политикой.
// Пишется один раз, повторное принятие той же пары - no-op.
type PolicyAcceptance struct {
	BaseModel
	UserID     string    `gorm:"type:varchar(36);uniqueIndex:idx_policy_acceptance,priority:1"`
	DocumentID string    `gorm:"type:varchar(36);uniqueIndex:idx_policy_acceptance,priority:2"`
	AcceptedAt time.Time
}
