package dbmodels

// FileStorage - метаданные вложения документа, само содержимое лежит в S3
type FileStorage struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)"`
	DocumentID  string `gorm:"type:varchar(36);index"`
	ContentType string `gorm:"type:varchar(100)"`
	UploadedBy  string `gorm:"type:varchar(36)"`
}
