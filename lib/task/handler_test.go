package taskhandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docflow-backend/lib/apperr"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	activityapimodels "docflow-backend/models/api/activity"
	approvalapimodels "docflow-backend/models/api/approval"
	documentapimodels "docflow-backend/models/api/document"
	taskapimodels "docflow-backend/models/api/task"
	dbmodels "docflow-backend/models/db"
)

type fakeTaskStore struct {
	recs      map[string]*dbmodels.Task
	seq       int
	failGuard bool
}

func (s *fakeTaskStore) Create(rec dbmodels.Task) (string, error) {
	s.seq++
	rec.ID = fmt.Sprintf("task-%d", s.seq)
	rec.CreatedAt = time.Now()
	s.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeTaskStore) GetByID(id string) (*dbmodels.Task, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeTaskStore) TransitionGuarded(id string, currentStatus models.TaskStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := s.recs[id]
	if !ok || s.failGuard || rec.Status != currentStatus {
		return false, nil
	}
	for field, value := range updMap {
		switch field {
		case "status":
			rec.Status = value.(models.TaskStatus)
		case "completed_at":
			at := value.(time.Time)
			rec.CompletedAt = &at
		}
	}
	return true, nil
}

func (s *fakeTaskStore) List(filter taskapimodels.TaskFilter) ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	for _, rec := range s.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (s *fakeTaskStore) ListCount(filter taskapimodels.TaskFilter) (int64, error) {
	return int64(len(s.recs)), nil
}

func (s *fakeTaskStore) FindOpenByDocument(documentID string) ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	for _, rec := range s.recs {
		if rec.DocumentID != nil && *rec.DocumentID == documentID && !rec.Status.IsTerminal() {
			list = append(list, *rec)
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

type fakeApprovalStore struct {
	pending map[string]int64
}

func (s *fakeApprovalStore) Create(rec dbmodels.Approval) (string, error) {
	return "", nil
}

func (s *fakeApprovalStore) GetByID(id string) (*dbmodels.Approval, error) {
	return nil, nil
}

func (s *fakeApprovalStore) ResolveGuarded(id string, updMap map[string]interface{}) (bool, error) {
	return false, nil
}

func (s *fakeApprovalStore) ListByEntity(entityType models.EntityType, entityID string) ([]dbmodels.Approval, error) {
	return nil, nil
}

func (s *fakeApprovalStore) ListPendingByUser(userID string) ([]dbmodels.Approval, error) {
	return nil, nil
}

func (s *fakeApprovalStore) PendingExists(entityType models.EntityType, entityID, userID string) (bool, error) {
	return false, nil
}

func (s *fakeApprovalStore) CountPending(entityType models.EntityType, entityID string) (int64, error) {
	return s.pending[entityID], nil
}

type fakeRouter struct {
	created map[string][]string
}

func (r *fakeRouter) CreateForEntity(entityType models.EntityType, entityID string, userIDs []string) error {
	r.created[entityID] = append(r.created[entityID], userIDs...)
	return nil
}

func (r *fakeRouter) Resolve(actor models.Actor, approvalID string, decision models.ApprovalState, comments string) (*approvalapimodels.ApprovalView, error) {
	return nil, nil
}

func (r *fakeRouter) ListByEntity(entityType models.EntityType, entityID string) ([]approvalapimodels.ApprovalView, error) {
	return nil, nil
}

func (r *fakeRouter) ListMy(userID string) ([]approvalapimodels.ApprovalView, error) {
	return nil, nil
}

type fakeNotify struct {
	events []models.NotificationEvent
}

func (n *fakeNotify) Send(event models.NotificationEvent) {
	n.events = append(n.events, event)
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

type testEnv struct {
	tasks     *fakeTaskStore
	docs      *fakeDocStore
	approvals *fakeApprovalStore
	router    *fakeRouter
	audit     *fakeAudit
	notify    *fakeNotify
	handler   impl
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tasks:     &fakeTaskStore{recs: map[string]*dbmodels.Task{}},
		docs:      &fakeDocStore{recs: map[string]*dbmodels.Document{}},
		approvals: &fakeApprovalStore{pending: map[string]int64{}},
		router:    &fakeRouter{created: map[string][]string{}},
		audit:     &fakeAudit{},
		notify:    &fakeNotify{},
	}
	env.handler = impl{
		store:     env.tasks,
		documents: env.docs,
		approvals: env.approvals,
		router:    env.router,
		audit:     env.audit,
		notify:    env.notify,
	}
	return env
}

var (
	assigner = models.Actor{ID: "u-assigner", Role: models.UserRoleManager}
	assignee = models.Actor{ID: "u-assignee", Role: models.UserRoleOperator}
	outsider = models.Actor{ID: "u-outsider", Role: models.UserRoleOperator}
)

func createTask(t *testing.T, env *testEnv) string {
	view, err := env.handler.Create(assigner, taskapimodels.TaskCreateData{
		Title:      "Подготовить отчет",
		AssignedTo: assignee.ID,
		Priority:   models.TaskPriorityMedium,
	})
	require.Nil(t, err)
	return view.ID
}

func TestTaskCreate(t *testing.T) {
	env := newTestEnv()

	t.Run(`create check`, func(t *testing.T) {
		view, err := env.handler.Create(assigner, taskapimodels.TaskCreateData{
			Title:      "Подготовить отчет",
			AssignedTo: assignee.ID,
			Priority:   models.TaskPriorityHigh,
		})
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusPending, view.Status)
		require.Equal(t, assigner.ID, view.AssignedBy)
		require.Nil(t, view.CompletedAt)
	})

	t.Run(`validation check`, func(t *testing.T) {
		_, err := env.handler.Create(assigner, taskapimodels.TaskCreateData{
			Title:    "Без исполнителя",
			Priority: models.TaskPriorityLow,
		})
		require.NotNil(t, err)

		_, err = env.handler.Create(assigner, taskapimodels.TaskCreateData{
			Title:      "Неизвестный приоритет",
			AssignedTo: assignee.ID,
			Priority:   models.TaskPriority("EXTREME"),
		})
		require.NotNil(t, err)
	})

	t.Run(`unknown document check`, func(t *testing.T) {
		_, err := env.handler.Create(assigner, taskapimodels.TaskCreateData{
			Title:      "По несуществующему документу",
			AssignedTo: assignee.ID,
			Priority:   models.TaskPriorityLow,
			DocumentID: "doc-missing",
		})
		require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestTaskTransition(t *testing.T) {
	t.Run(`work flow check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		view, err := env.handler.Transition(assignee, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusInProgress, view.Status)
		require.Nil(t, view.CompletedAt)

		view, err = env.handler.Transition(assignee, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusCompleted})
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCompleted, view.Status)
		// время завершения появляется только вместе с этим статусом
		require.NotNil(t, view.CompletedAt)
	})

	t.Run(`skip in_progress forbidden check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		_, err := env.handler.Transition(assignee, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusCompleted})
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	t.Run(`terminal status absorbs check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		_, err := env.handler.Transition(assigner, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusCanceled})
		require.Nil(t, err)
		_, err = env.handler.Transition(assigner, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	t.Run(`outsider forbidden check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		_, err := env.handler.Transition(outsider, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run(`assigner without moderation forbidden check`, func(t *testing.T) {
		env := newTestEnv()
		plainAssigner := models.Actor{ID: "u-assigner-op", Role: models.UserRoleOperator}
		view, err := env.handler.Create(plainAssigner, taskapimodels.TaskCreateData{
			Title:      "Проверить реестр",
			AssignedTo: assignee.ID,
			Priority:   models.TaskPriorityLow,
		})
		require.Nil(t, err)

		// постановщик без роли модератора статусом задачи не управляет
		_, err = env.handler.Transition(plainAssigner, view.ID, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run(`guard loss conflict check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		env.tasks.failGuard = true

		_, err := env.handler.Transition(assignee, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestTaskRequestReview(t *testing.T) {
	startWork := func(t *testing.T, env *testEnv, id string) {
		_, err := env.handler.Transition(assignee, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusInProgress})
		require.Nil(t, err)
	}

	t.Run(`review request check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		startWork(t, env, id)

		view, err := env.handler.RequestReview(assignee, id)
		require.Nil(t, err)
		// задача остается в работе до решения постановщика
		require.Equal(t, models.TaskStatusInProgress, view.Status)
		require.Equal(t, []string{assigner.ID}, env.router.created[id])
		require.Equal(t, models.ActionSubmitted, env.audit.recs[len(env.audit.recs)-1].Action)
	})

	t.Run(`outsider forbidden check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		startWork(t, env, id)

		_, err := env.handler.RequestReview(outsider, id)
		require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		require.Empty(t, env.router.created[id])
	})

	t.Run(`pending task not reviewable check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		_, err := env.handler.RequestReview(assignee, id)
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	t.Run(`assigner approval completes task check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		startWork(t, env, id)
		_, err := env.handler.RequestReview(assignee, id)
		require.Nil(t, err)

		after, err := env.handler.OnApprovalResolved(nil, dbmodels.Approval{
			EntityType: models.EntityTypeTask,
			EntityID:   id,
			UserID:     assigner.ID,
			Status:     models.AStateApproved,
		})
		require.Nil(t, err)
		require.NotNil(t, after)
		rec, err := env.tasks.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCompleted, rec.Status)
		require.NotNil(t, rec.CompletedAt)
	})
}

func TestTaskOnApprovalResolved(t *testing.T) {
	approvalFor := func(id string, status models.ApprovalState) dbmodels.Approval {
		return dbmodels.Approval{
			EntityType: models.EntityTypeTask,
			EntityID:   id,
			Status:     status,
		}
	}

	t.Run(`rejection cancels task check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		_, err := env.handler.OnApprovalResolved(nil, approvalFor(id, models.AStateRejected))
		require.Nil(t, err)
		rec, err := env.tasks.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCanceled, rec.Status)
		require.Equal(t, models.SystemActorID, env.audit.recs[len(env.audit.recs)-1].UserID)
	})

	t.Run(`approval waits for remaining check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		env.approvals.pending[id] = 1

		after, err := env.handler.OnApprovalResolved(nil, approvalFor(id, models.AStateApproved))
		require.Nil(t, err)
		require.Nil(t, after)
		rec, err := env.tasks.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusPending, rec.Status)
	})

	t.Run(`last approval completes task check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)

		after, err := env.handler.OnApprovalResolved(nil, approvalFor(id, models.AStateApproved))
		require.Nil(t, err)
		rec, err := env.tasks.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCompleted, rec.Status)
		require.NotNil(t, rec.CompletedAt)

		// уведомление исполнителю уходит отложенным действием
		sent := len(env.notify.events)
		require.NotNil(t, after)
		after()
		require.Len(t, env.notify.events, sent+1)
		require.Equal(t, models.NotifyTaskTransition, env.notify.events[sent].Type)
	})

	t.Run(`terminal task untouched check`, func(t *testing.T) {
		env := newTestEnv()
		id := createTask(t, env)
		_, err := env.handler.Transition(assigner, id, taskapimodels.TaskTransitionData{NewStatus: models.TaskStatusCanceled})
		require.Nil(t, err)

		after, err := env.handler.OnApprovalResolved(nil, approvalFor(id, models.AStateApproved))
		require.Nil(t, err)
		require.Nil(t, after)
		rec, err := env.tasks.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCanceled, rec.Status)
	})
}
