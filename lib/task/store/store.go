package taskstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docflow-backend/models"
	taskapimodels "docflow-backend/models/api/task"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Task) (id string, err error)
	GetByID(id string) (rec *dbmodels.Task, err error)
	// TransitionGuarded меняет статус только из ожидаемого текущего.
	// ok=false - статус уже изменен параллельной операцией.
	TransitionGuarded(id string, currentStatus models.TaskStatus, updMap map[string]interface{}) (ok bool, err error)
	List(filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error)
	ListCount(filter taskapimodels.TaskFilter) (rowCount int64, err error)
	FindOpenByDocument(documentID string) (list []dbmodels.Task, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Preload("Assignee").
		Preload("Assigner").
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

func (i impl) TransitionGuarded(id string, currentStatus models.TaskStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Where("status = ?", currentStatus).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter taskapimodels.TaskFilter) *gorm.DB {
	if filter.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", filter.AssignedTo)
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN ?", filter.Statuses)
	}
	if filter.DocumentID != "" {
		tx = tx.Where("document_id = ?", filter.DocumentID)
	}
	if filter.OverdueOnly {
		// просроченность не хранится - вычисляется на момент запроса
		tx = tx.Where("due_date < ?", time.Now()).
			Where("status NOT IN ?", []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusCanceled})
	}
	return tx
}

func (i impl) List(filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.applyFilter(i.db.Model(&dbmodels.Task{}), filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Assignee").
		Preload("Assigner")
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter taskapimodels.TaskFilter) (rowCount int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.Task{}), filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) FindOpenByDocument(documentID string) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	err = i.db.
		Where("document_id = ?", documentID).
		Where("status IN ?", []models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress}).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
