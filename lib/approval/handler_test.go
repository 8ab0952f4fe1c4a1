package approvalhandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"docflow-backend/lib/apperr"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	activityapimodels "docflow-backend/models/api/activity"
	dbmodels "docflow-backend/models/db"
)

type fakeStore struct {
	recs map[string]*dbmodels.Approval
	seq  int
}

func (s *fakeStore) Create(rec dbmodels.Approval) (string, error) {
	s.seq++
	rec.ID = fmt.Sprintf("apr-%d", s.seq)
	rec.CreatedAt = time.Now()
	s.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeStore) GetByID(id string) (*dbmodels.Approval, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) ResolveGuarded(id string, updMap map[string]interface{}) (bool, error) {
	rec, ok := s.recs[id]
	if !ok || rec.Status != models.AStatePending {
		return false, nil
	}
	for field, value := range updMap {
		switch field {
		case "status":
			rec.Status = value.(models.ApprovalState)
		case "comments":
			rec.Comments = value.(string)
		case "approved_at":
			at := value.(time.Time)
			rec.ApprovedAt = &at
		}
	}
	return true, nil
}

func (s *fakeStore) ListByEntity(entityType models.EntityType, entityID string) ([]dbmodels.Approval, error) {
	list := []dbmodels.Approval{}
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (s *fakeStore) ListPendingByUser(userID string) ([]dbmodels.Approval, error) {
	list := []dbmodels.Approval{}
	for _, rec := range s.recs {
		if rec.UserID == userID && rec.Status == models.AStatePending {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (s *fakeStore) PendingExists(entityType models.EntityType, entityID, userID string) (bool, error) {
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID &&
			rec.UserID == userID && rec.Status == models.AStatePending {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountPending(entityType models.EntityType, entityID string) (int64, error) {
	var count int64
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID && rec.Status == models.AStatePending {
			count++
		}
	}
	return count, nil
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

type recordingAdvancer struct {
	resolved   []dbmodels.Approval
	afterCalls int
}

func (a *recordingAdvancer) OnApprovalResolved(tx *gorm.DB, rec dbmodels.Approval) (func(), error) {
	a.resolved = append(a.resolved, rec)
	return func() { a.afterCalls++ }, nil
}

func newTestHandler() (impl, *fakeStore, *fakeAudit) {
	store := &fakeStore{recs: map[string]*dbmodels.Approval{}}
	audit := &fakeAudit{}
	return impl{store: store, audit: audit}, store, audit
}

var (
	assignee = models.Actor{ID: "u-manager", Role: models.UserRoleManager}
	outsider = models.Actor{ID: "u-outsider", Role: models.UserRoleOperator}
	admin    = models.Actor{ID: "u-admin", Role: models.UserRoleAdmin}
)

func TestCreateForEntity(t *testing.T) {
	handler, store, _ := newTestHandler()

	t.Run(`assignments created check`, func(t *testing.T) {
		err := handler.CreateForEntity(models.EntityTypeDocument, "doc-1", []string{"u-1", "u-2"})
		require.Nil(t, err)
		count, err := store.CountPending(models.EntityTypeDocument, "doc-1")
		require.Nil(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run(`pending assignment not duplicated check`, func(t *testing.T) {
		err := handler.CreateForEntity(models.EntityTypeDocument, "doc-1", []string{"u-1", "u-3"})
		require.Nil(t, err)
		list, err := store.ListByEntity(models.EntityTypeDocument, "doc-1")
		require.Nil(t, err)
		require.Equal(t, 3, len(list))
	})
}

func TestResolve(t *testing.T) {
	newPending := func(store *fakeStore, userID string) string {
		id, _ := store.Create(dbmodels.Approval{
			EntityType: models.EntityTypeDocument,
			EntityID:   "doc-1",
			UserID:     userID,
			Status:     models.AStatePending,
		})
		return id
	}

	t.Run(`assignee resolves check`, func(t *testing.T) {
		handler, store, audit := newTestHandler()
		id := newPending(store, assignee.ID)

		view, err := handler.Resolve(assignee, id, models.AStateApproved, "без замечаний")
		require.Nil(t, err)
		require.Equal(t, models.AStateApproved, view.Status)
		require.Equal(t, "без замечаний", view.Comments)
		require.NotNil(t, view.ApprovedAt)
		require.Equal(t, models.ActionApproved, audit.recs[len(audit.recs)-1].Action)
	})

	t.Run(`outsider forbidden check`, func(t *testing.T) {
		handler, store, _ := newTestHandler()
		id := newPending(store, assignee.ID)

		_, err := handler.Resolve(outsider, id, models.AStateApproved, "")
		require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run(`admin override check`, func(t *testing.T) {
		handler, store, _ := newTestHandler()
		id := newPending(store, assignee.ID)

		view, err := handler.Resolve(admin, id, models.AStateRejected, "не хватает раздела об ответственности")
		require.Nil(t, err)
		require.Equal(t, models.AStateRejected, view.Status)
	})

	t.Run(`second resolve rejected check`, func(t *testing.T) {
		handler, store, _ := newTestHandler()
		id := newPending(store, assignee.ID)

		_, err := handler.Resolve(assignee, id, models.AStateApproved, "")
		require.Nil(t, err)
		_, err = handler.Resolve(assignee, id, models.AStateRejected, "передумал")
		require.Equal(t, apperr.KindAlreadyResolved, apperr.KindOf(err))
	})

	t.Run(`pending is not a decision check`, func(t *testing.T) {
		handler, store, _ := newTestHandler()
		id := newPending(store, assignee.ID)

		_, err := handler.Resolve(assignee, id, models.AStatePending, "")
		require.NotNil(t, err)
	})

	t.Run(`unknown approval check`, func(t *testing.T) {
		handler, _, _ := newTestHandler()
		_, err := handler.Resolve(assignee, "apr-missing", models.AStateApproved, "")
		require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run(`parent advancer notified check`, func(t *testing.T) {
		handler, store, _ := newTestHandler()
		advancer := &recordingAdvancer{}
		RegisterAdvancer(models.EntityTypeTask, advancer)
		defer delete(advancers, models.EntityTypeTask)

		id, _ := store.Create(dbmodels.Approval{
			EntityType: models.EntityTypeTask,
			EntityID:   "task-1",
			UserID:     assignee.ID,
			Status:     models.AStatePending,
		})
		_, err := handler.Resolve(assignee, id, models.AStateApproved, "")
		require.Nil(t, err)
		require.Equal(t, 1, len(advancer.resolved))
		require.Equal(t, models.AStateApproved, advancer.resolved[0].Status)
		require.Equal(t, "task-1", advancer.resolved[0].EntityID)
		// отложенное действие выполняется после самой транзакции
		require.Equal(t, 1, advancer.afterCalls)
	})
}

func TestListMy(t *testing.T) {
	handler, store, _ := newTestHandler()
	_, _ = store.Create(dbmodels.Approval{EntityType: models.EntityTypeDocument, EntityID: "doc-1", UserID: "u-1", Status: models.AStatePending})
	_, _ = store.Create(dbmodels.Approval{EntityType: models.EntityTypeDocument, EntityID: "doc-2", UserID: "u-1", Status: models.AStateApproved})
	_, _ = store.Create(dbmodels.Approval{EntityType: models.EntityTypeDocument, EntityID: "doc-1", UserID: "u-2", Status: models.AStatePending})

	list, err := handler.ListMy("u-1")
	require.Nil(t, err)
	require.Equal(t, 1, len(list))
	require.Equal(t, "doc-1", list[0].EntityID)
}
