package audithandler

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docflow-backend/db"
	auditstore "docflow-backend/lib/audit/store"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	activityapimodels "docflow-backend/models/api/activity"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	// Record добавляет запись аудита. Вызывается внутри транзакции
	// операции - запись долговечна тогда же, когда и сама операция.
	Record(actorID, action string, entityType models.EntityType, entityID string, details dbmodels.ActivityDetails) (*dbmodels.Activity, error)
	ListByEntity(entityType models.EntityType, entityID string) ([]activityapimodels.ActivityView, error)
	ListByUser(userID string, pagination apimodels.Pagination) ([]activityapimodels.ActivityView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: auditstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: auditstore.NewInstance(tx),
	}
}

type impl struct {
	store auditstore.Provider
}

func (i impl) Record(actorID, action string, entityType models.EntityType, entityID string, details dbmodels.ActivityDetails) (*dbmodels.Activity, error) {
	rec := dbmodels.Activity{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		log.
			WithField("entity_id", entityID).
			WithField("action", action).
			WithError(err).
			Error("ошибка записи в журнал аудита")
		return nil, err
	}
	rec.ID = id
	return &rec, nil
}

func (i impl) ListByEntity(entityType models.EntityType, entityID string) ([]activityapimodels.ActivityView, error) {
	list, err := i.store.ListByEntity(entityType, entityID)
	if err != nil {
		return nil, err
	}
	result := make([]activityapimodels.ActivityView, 0, len(list))
	for _, rec := range list {
		result = append(result, activityapimodels.ActivityConvert(rec))
	}
	return result, nil
}

func (i impl) ListByUser(userID string, pagination apimodels.Pagination) ([]activityapimodels.ActivityView, error) {
	list, err := i.store.ListByUser(userID, pagination)
	if err != nil {
		return nil, err
	}
	result := make([]activityapimodels.ActivityView, 0, len(list))
	for _, rec := range list {
		result = append(result, activityapimodels.ActivityConvert(rec))
	}
	return result, nil
}
