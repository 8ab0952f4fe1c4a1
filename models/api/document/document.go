package documentapimodels

import (
	"time"

	"github.com/pkg/errors"

	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	dbmodels "docflow-backend/models/db"
)

type DocumentCreateData struct {
	Title      string   `json:"title"`      // название документа
	Content    string   `json:"content"`    // содержимое
	Category   string   `json:"category"`   // категория (регламент/политика/инструкция)
	Department string   `json:"department"` // подразделение
	Tags       []string `json:"tags"`       // метки, порядок значим
}

func (d DocumentCreateData) Validate() error {
	if d.Title == "" {
		return errors.New("отсутствует название документа")
	}
	if d.Content == "" {
		return errors.New("отсутствует содержимое документа")
	}
	return nil
}

type DocumentUpdateData struct {
	Content string `json:"content"` // новое содержимое
}

func (d DocumentUpdateData) Validate() error {
	if d.Content == "" {
		return errors.New("отсутствует содержимое документа")
	}
	return nil
}

type DocumentSubmitData struct {
	Content string `json:"content,omitempty"` // новое содержимое при повторной отправке отклоненного документа
}

type DocumentView struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	Category     string                `json:"category"`
	Department   string                `json:"department"`
	Version      string                `json:"version"`
	Status       models.DocumentStatus `json:"status"`
	StatusName   string                `json:"status_name"`
	CreatedBy    string                `json:"created_by"`
	AuthorName   string                `json:"author_name,omitempty"`
	Tags         []string              `json:"tags"`
	CreationDate time.Time             `json:"creation_date"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func DocumentConvert(rec dbmodels.Document) DocumentView {
	result := DocumentView{
		ID:           rec.ID,
		Title:        rec.Title,
		Content:      rec.Content,
		Category:     rec.Category,
		Department:   rec.Department,
		Version:      rec.Version,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		CreatedBy:    rec.CreatedBy,
		Tags:         rec.Tags,
		CreationDate: rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Author != nil {
		result.AuthorName = rec.Author.GetFullName()
	}
	return result
}

type DocumentVersionView struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Version      string    `json:"version"`
	Content      string    `json:"content"`
	CreatedBy    string    `json:"created_by"`
	CreationDate time.Time `json:"creation_date"`
}

func DocumentVersionConvert(rec dbmodels.DocumentVersion) DocumentVersionView {
	return DocumentVersionView{
		ID:           rec.ID,
		DocumentID:   rec.DocumentID,
		Version:      rec.Version,
		Content:      rec.Content,
		CreatedBy:    rec.CreatedBy,
		CreationDate: rec.CreatedAt,
	}
}

type DocumentFilter struct {
	apimodels.Pagination
	Status     models.DocumentStatus `json:"status"`      // фильтр по статусу
	Category   string                `json:"category"`    // фильтр по категории
	Department string                `json:"department"`  // фильтр по подразделению
	CreatedBy  string                `json:"created_by"`  // фильтр по автору
	Search     string                `json:"search"`      // поиск по названию
}
