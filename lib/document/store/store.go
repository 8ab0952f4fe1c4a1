package documentstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Document) (id string, err error)
	GetByID(id string) (rec *dbmodels.Document, err error)
	// UpdateGuarded применяет изменения только если запись не менялась после
	// прочтения (сверка updated_at). ok=false - проигрыш гонки.
	UpdateGuarded(id string, prevUpdatedAt time.Time, updMap map[string]interface{}) (ok bool, err error)
	List(filter documentapimodels.DocumentFilter) (list []dbmodels.Document, err error)
	ListCount(filter documentapimodels.DocumentFilter) (rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Document) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Where("id = ?", id).
		Preload("Author").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) UpdateGuarded(id string, prevUpdatedAt time.Time, updMap map[string]interface{}) (bool, error) {
	if len(updMap) == 0 {
		return true, nil
	}
	tx := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Where("updated_at = ?", prevUpdatedAt).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter documentapimodels.DocumentFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.Department != "" {
		tx = tx.Where("department = ?", filter.Department)
	}
	if filter.CreatedBy != "" {
		tx = tx.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.Search != "" {
		tx = tx.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	return tx
}

func (i impl) List(filter documentapimodels.DocumentFilter) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.applyFilter(i.db.Model(&dbmodels.Document{}), filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Author")
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter documentapimodels.DocumentFilter) (rowCount int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.Document{}), filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}
