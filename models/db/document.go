package dbmodels

import (
	"docflow-backend/models"

	"github.com/lib/pq"
)

type Document struct {
	BaseModel
	Title      string `gorm:"type:varchar(255)"`
	Content    string
	Category   string                `gorm:"type:varchar(100);index"`
	Department string                `gorm:"type:varchar(255);index"`
	Version    string                `gorm:"type:varchar(20)"`
	Status     models.DocumentStatus `gorm:"type:varchar(20);index"`
	CreatedBy  string                `gorm:"type:varchar(36);index"`
	Author     *User                 `gorm:"foreignKey:CreatedBy"`
	Tags       pq.StringArray        `gorm:"type:text[]"`
	Versions   []DocumentVersion     `gorm:"foreignKey:DocumentID"`
}

// DocumentVersion - неизменяемый снимок содержимого документа.
// Пишется одна запись на каждое изменение содержимого, записи
// никогда не обновляются и не удаляются.
type DocumentVersion struct {
	BaseModel
	DocumentID string `gorm:"type:varchar(36);uniqueIndex:idx_document_version,priority:1"`
	Version    string `gorm:"type:varchar(20);uniqueIndex:idx_document_version,priority:2"`
	Content    string
	CreatedBy  string `gorm:"type:varchar(36)"`
}
