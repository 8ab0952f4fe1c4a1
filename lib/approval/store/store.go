package approvalstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Approval) (id string, err error)
	GetByID(id string) (rec *dbmodels.Approval, err error)
	// ResolveGuarded выставляет решение только если запись все еще pending.
	// ok=false - запись уже решена параллельной операцией.
	ResolveGuarded(id string, updMap map[string]interface{}) (ok bool, err error)
	ListByEntity(entityType models.EntityType, entityID string) (list []dbmodels.Approval, err error)
	ListPendingByUser(userID string) (list []dbmodels.Approval, err error)
	PendingExists(entityType models.EntityType, entityID, userID string) (bool, error)
	CountPending(entityType models.EntityType, entityID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Approval) (id string, err error) {
	err = i.db.
		Omit("User").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Approval, error) {
	rec := dbmodels.Approval{}
	err := i.db.
		Where("id = ?", id).
		Preload("User").
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

func (i impl) ResolveGuarded(id string, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Approval{}).
		Where("id = ?", id).
		Where("status = ?", models.AStatePending).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListByEntity(entityType models.EntityType, entityID string) (list []dbmodels.Approval, err error) {
	list = []dbmodels.Approval{}
	err = i.db.
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPendingByUser(userID string) (list []dbmodels.Approval, err error) {
	list = []dbmodels.Approval{}
	err = i.db.
		Where("user_id = ?", userID).
		Where("status = ?", models.AStatePending).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) PendingExists(entityType models.EntityType, entityID, userID string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Approval{}).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Where("user_id = ?", userID).
		Where("status = ?", models.AStatePending).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) CountPending(entityType models.EntityType, entityID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Approval{}).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Where("status = ?", models.AStatePending).
		Count(&count).
		Error
	return count, err
}
