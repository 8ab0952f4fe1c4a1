package policyhandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docflow-backend/lib/apperr"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	activityapimodels "docflow-backend/models/api/activity"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
)

type fakePolicyStore struct {
	recs []dbmodels.PolicyAcceptance
}

func (s *fakePolicyStore) Accept(userID, documentID string) (bool, error) {
	for _, rec := range s.recs {
		if rec.UserID == userID && rec.DocumentID == documentID {
			return false, nil
		}
	}
	s.recs = append(s.recs, dbmodels.PolicyAcceptance{
		UserID:     userID,
		DocumentID: documentID,
		AcceptedAt: time.Now(),
	})
	return true, nil
}

func (s *fakePolicyStore) ListByUser(userID string) ([]dbmodels.PolicyAcceptance, error) {
	list := []dbmodels.PolicyAcceptance{}
	for _, rec := range s.recs {
		if rec.UserID == userID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (s *fakePolicyStore) ListByDocument(documentID string) ([]dbmodels.PolicyAcceptance, error) {
	list := []dbmodels.PolicyAcceptance{}
	for _, rec := range s.recs {
		if rec.DocumentID == documentID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeDocStore struct {
	recs map[string]*dbmodels.Document
}

func (s *fakeDocStore) Create(rec dbmodels.Document) (string, error) {
	s.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeDocStore) GetByID(id string) (*dbmodels.Document, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeDocStore) UpdateGuarded(id string, prevUpdatedAt time.Time, updMap map[string]interface{}) (bool, error) {
	return false, nil
}

func (s *fakeDocStore) List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, error) {
	return nil, nil
}

func (s *fakeDocStore) ListCount(filter documentapimodels.DocumentFilter) (int64, error) {
	return 0, nil
}

type fakeAudit struct {
	recs []dbmodels.Activity
}

func (a *fakeAudit) Record(actorID, action string, entityType models.EntityType, entityID string, details dbmodels.ActivityDetails) (*dbmodels.Activity, error) {
	a.recs = append(a.recs, dbmodels.Activity{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	return &a.recs[len(a.recs)-1], nil
}

func (a *fakeAudit) ListByEntity(entityType models.EntityType, entityID string) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func (a *fakeAudit) ListByUser(userID string, pagination apimodels.Pagination) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func TestPolicyAccept(t *testing.T) {
	store := &fakePolicyStore{}
	docs := &fakeDocStore{recs: map[string]*dbmodels.Document{}}
	audit := &fakeAudit{}
	handler := impl{store: store, documents: docs, audit: audit}

	approved := dbmodels.Document{Title: "Политика ИБ", Status: models.DocStatusApproved}
	approved.ID = "doc-approved"
	draft := dbmodels.Document{Title: "Черновик политики", Status: models.DocStatusDraft}
	draft.ID = "doc-draft"
	_, _ = docs.Create(approved)
	_, _ = docs.Create(draft)

	reader := models.Actor{ID: "u-reader", Role: models.UserRoleOperator}

	t.Run(`accept approved document check`, func(t *testing.T) {
		err := handler.Accept(reader, approved.ID)
		require.Nil(t, err)
		list, err := handler.ListMy(reader.ID)
		require.Nil(t, err)
		require.Equal(t, 1, len(list))
		require.Equal(t, models.ActionAccepted, audit.recs[len(audit.recs)-1].Action)
	})

	t.Run(`repeat accept is idempotent check`, func(t *testing.T) {
		err := handler.Accept(reader, approved.ID)
		require.Nil(t, err)
		list, err := handler.ListByDocument(approved.ID)
		require.Nil(t, err)
		require.Equal(t, 1, len(list))
		// повтор не попадает в журнал аудита
		require.Equal(t, 1, len(audit.recs))
	})

	t.Run(`draft not acceptable check`, func(t *testing.T) {
		err := handler.Accept(reader, draft.ID)
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	t.Run(`unknown document check`, func(t *testing.T) {
		err := handler.Accept(reader, "doc-missing")
		require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
