package policyhandler

import (
	"gorm.io/gorm"

	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	audithandler "docflow-backend/lib/audit"
	documentstore "docflow-backend/lib/document/store"
	policystore "docflow-backend/lib/policy/store"
	"docflow-backend/models"
	policyapimodels "docflow-backend/models/api/policy"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	// Accept фиксирует ознакомление пользователя с согласованным документом.
	// Повторное принятие не является ошибкой и не плодит записей.
	Accept(actor models.Actor, documentID string) error
	ListMy(userID string) ([]policyapimodels.AcceptanceView, error)
	ListByDocument(documentID string) ([]policyapimodels.AcceptanceView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:        db.DB,
		store:     policystore.NewInstance(db.DB),
		documents: documentstore.NewInstance(db.DB),
		audit:     audithandler.NewHandlerWithTx(db.DB),
	}
}

type impl struct {
	db        *gorm.DB
	store     policystore.Provider
	documents documentstore.Provider
	audit     audithandler.Provider
}

func (i impl) withTx(tx *gorm.DB) impl {
	return impl{
		store:     policystore.NewInstance(tx),
		documents: documentstore.NewInstance(tx),
		audit:     audithandler.NewHandlerWithTx(tx),
	}
}

func (i impl) transaction(fn func(h impl) error) error {
	if i.db == nil {
		return fn(i)
	}
	return i.db.Transaction(func(tx *gorm.DB) error {
		return fn(i.withTx(tx))
	})
}

func (i impl) Accept(actor models.Actor, documentID string) error {
	rec, err := i.documents.GetByID(documentID)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return apperr.NotFound(models.EntityTypeDocument, documentID)
	}
	if rec.Status != models.DocStatusApproved {
		return &apperr.Error{
			Kind:       apperr.KindInvalidTransition,
			EntityType: models.EntityTypePolicy,
			EntityID:   documentID,
			Current:    string(rec.Status),
			Message:    "ознакомление возможно только с согласованным документом",
		}
	}
	return i.transaction(func(h impl) error {
		inserted, err := h.store.Accept(actor.ID, documentID)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !inserted {
			return nil
		}
		_, err = h.audit.Record(actor.ID, models.ActionAccepted, models.EntityTypePolicy, documentID, dbmodels.ActivityDetails{
			Description: "ознакомление с документом: " + rec.Title,
		})
		return err
	})
}

func (i impl) ListMy(userID string) ([]policyapimodels.AcceptanceView, error) {
	list, err := i.store.ListByUser(userID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]policyapimodels.AcceptanceView, 0, len(list))
	for _, rec := range list {
		result = append(result, policyapimodels.AcceptanceConvert(rec))
	}
	return result, nil
}

func (i impl) ListByDocument(documentID string) ([]policyapimodels.AcceptanceView, error) {
	list, err := i.store.ListByDocument(documentID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]policyapimodels.AcceptanceView, 0, len(list))
	for _, rec := range list {
		result = append(result, policyapimodels.AcceptanceConvert(rec))
	}
	return result, nil
}
