package auditstore

import (
	"gorm.io/gorm"

	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Activity) (id string, err error)
	ListByEntity(entityType models.EntityType, entityID string) (list []dbmodels.Activity, err error)
	ListByUser(userID string, pagination apimodels.Pagination) (list []dbmodels.Activity, err error)
	CountByEntity(entityType models.EntityType, entityID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// журнал только пополняется, методов обновления и удаления нет
func (i impl) Create(rec dbmodels.Activity) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByEntity(entityType models.EntityType, entityID string) (list []dbmodels.Activity, err error) {
	list = []dbmodels.Activity{}
	err = i.db.
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByUser(userID string, pagination apimodels.Pagination) (list []dbmodels.Activity, err error) {
	list = []dbmodels.Activity{}
	page, limit := pagination.GetPage()
	offset := (page - 1) * limit
	err = i.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByEntity(entityType models.EntityType, entityID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Activity{}).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Count(&count).
		Error
	return count, err
}
