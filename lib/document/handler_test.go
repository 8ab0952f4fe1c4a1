package documenthandler

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

type fakeDocStore struct {
	recs      map[string]*dbmodels.Document
	seq       int
	failGuard bool
}

func (s *fakeDocStore) Create(rec dbmodels.Document) (string, error) {
	s.seq++
	rec.ID = fmt.Sprintf("doc-%d", s.seq)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
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
	rec, ok := s.recs[id]
	if !ok || s.failGuard || !rec.UpdatedAt.Equal(prevUpdatedAt) {
		return false, nil
	}
	for field, value := range updMap {
		switch field {
		case "content":
			rec.Content = value.(string)
		case "version":
			rec.Version = value.(string)
		case "status":
			rec.Status = value.(models.DocumentStatus)
		}
	}
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Millisecond)
	return true, nil
}

func (s *fakeDocStore) List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, error) {
	list := []dbmodels.Document{}
	for _, rec := range s.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (s *fakeDocStore) ListCount(filter documentapimodels.DocumentFilter) (int64, error) {
	return int64(len(s.recs)), nil
}

type fakeVersionStore struct {
	recs []dbmodels.DocumentVersion
}

func (s *fakeVersionStore) Snapshot(documentID, content, version, actorID string) (*dbmodels.DocumentVersion, error) {
	for _, rec := range s.recs {
		if rec.DocumentID == documentID && rec.Version == version {
			return nil, apperr.VersionConflict(documentID, version)
		}
	}
	rec := dbmodels.DocumentVersion{
		DocumentID: documentID,
		Version:    version,
		Content:    content,
		CreatedBy:  actorID,
	}
	rec.ID = fmt.Sprintf("ver-%d", len(s.recs)+1)
	s.recs = append(s.recs, rec)
	return &rec, nil
}

func (s *fakeVersionStore) Last(documentID string) (*dbmodels.DocumentVersion, error) {
	var last *dbmodels.DocumentVersion
	for idx, rec := range s.recs {
		if rec.DocumentID == documentID {
			last = &s.recs[idx]
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (s *fakeVersionStore) List(documentID string) ([]dbmodels.DocumentVersion, error) {
	list := []dbmodels.DocumentVersion{}
	for _, rec := range s.recs {
		if rec.DocumentID == documentID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (s *fakeVersionStore) CountByDocument(documentID string) (int64, error) {
	list, _ := s.List(documentID)
	return int64(len(list)), nil
}

type fakeApprovalStore struct {
	recs map[string]*dbmodels.Approval
	seq  int
}

func (s *fakeApprovalStore) Create(rec dbmodels.Approval) (string, error) {
	s.seq++
	rec.ID = fmt.Sprintf("apr-%d", s.seq)
	rec.CreatedAt = time.Now()
	s.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeApprovalStore) GetByID(id string) (*dbmodels.Approval, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeApprovalStore) ResolveGuarded(id string, updMap map[string]interface{}) (bool, error) {
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

func (s *fakeApprovalStore) ListByEntity(entityType models.EntityType, entityID string) ([]dbmodels.Approval, error) {
	list := []dbmodels.Approval{}
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (s *fakeApprovalStore) ListPendingByUser(userID string) ([]dbmodels.Approval, error) {
	list := []dbmodels.Approval{}
	for _, rec := range s.recs {
		if rec.UserID == userID && rec.Status == models.AStatePending {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (s *fakeApprovalStore) PendingExists(entityType models.EntityType, entityID, userID string) (bool, error) {
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID &&
			rec.UserID == userID && rec.Status == models.AStatePending {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeApprovalStore) CountPending(entityType models.EntityType, entityID string) (int64, error) {
	var count int64
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.EntityID == entityID && rec.Status == models.AStatePending {
			count++
		}
	}
	return count, nil
}

type fakeTaskStore struct {
	recs map[string]*dbmodels.Task
	seq  int
}

func (s *fakeTaskStore) Create(rec dbmodels.Task) (string, error) {
	s.seq++
	rec.ID = fmt.Sprintf("task-%d", s.seq)
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
	if !ok || rec.Status != currentStatus {
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

type fakeRouter struct {
	store *fakeApprovalStore
}

func (r fakeRouter) CreateForEntity(entityType models.EntityType, entityID string, userIDs []string) error {
	for _, userID := range userIDs {
		exists, _ := r.store.PendingExists(entityType, entityID, userID)
		if exists {
			continue
		}
		_, err := r.store.Create(dbmodels.Approval{
			EntityType: entityType,
			EntityID:   entityID,
			UserID:     userID,
			Status:     models.AStatePending,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r fakeRouter) Resolve(actor models.Actor, approvalID string, decision models.ApprovalState, comments string) (*approvalapimodels.ApprovalView, error) {
	return nil, nil
}

func (r fakeRouter) ListByEntity(entityType models.EntityType, entityID string) ([]approvalapimodels.ApprovalView, error) {
	return nil, nil
}

func (r fakeRouter) ListMy(userID string) ([]approvalapimodels.ApprovalView, error) {
	return nil, nil
}

type fakePolicy struct {
	approvers []dbmodels.User
}

func (p fakePolicy) ApproversFor(department string) ([]dbmodels.User, error) {
	return p.approvers, nil
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
	rec := dbmodels.Activity{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	a.recs = append(a.recs, rec)
	return &rec, nil
}

func (a *fakeAudit) ListByEntity(entityType models.EntityType, entityID string) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func (a *fakeAudit) ListByUser(userID string, pagination apimodels.Pagination) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func (a *fakeAudit) lastAction() string {
	if len(a.recs) == 0 {
		return ""
	}
	return a.recs[len(a.recs)-1].Action
}

type testEnv struct {
	docs      *fakeDocStore
	versions  *fakeVersionStore
	approvals *fakeApprovalStore
	tasks     *fakeTaskStore
	audit     *fakeAudit
	notify    *fakeNotify
	handler   impl
}

func newTestEnv(approvers ...dbmodels.User) *testEnv {
	env := &testEnv{
		docs:      &fakeDocStore{recs: map[string]*dbmodels.Document{}},
		versions:  &fakeVersionStore{},
		approvals: &fakeApprovalStore{recs: map[string]*dbmodels.Approval{}},
		tasks:     &fakeTaskStore{recs: map[string]*dbmodels.Task{}},
		audit:     &fakeAudit{},
		notify:    &fakeNotify{},
	}
	env.handler = impl{
		store:     env.docs,
		versions:  env.versions,
		approvals: env.approvals,
		tasks:     env.tasks,
		router:    fakeRouter{store: env.approvals},
		policy:    fakePolicy{approvers: approvers},
		audit:     env.audit,
		notify:    env.notify,
	}
	return env
}

// markResolved помечает запись согласования пользователя решенной и
// возвращает ее, как это делает роутер согласований перед вызовом advancer
func (env *testEnv) markResolved(t *testing.T, documentID, userID string, decision models.ApprovalState) dbmodels.Approval {
	list, err := env.approvals.ListByEntity(models.EntityTypeDocument, documentID)
	require.Nil(t, err)
	for _, rec := range list {
		if rec.UserID != userID || rec.Status != models.AStatePending {
			continue
		}
		ok, err := env.approvals.ResolveGuarded(rec.ID, map[string]interface{}{
			"status": decision,
		})
		require.Nil(t, err)
		require.Equal(t, true, ok)
		rec.Status = decision
		return rec
	}
	t.Fatalf("нет нерешенного согласования для пользователя %v", userID)
	return dbmodels.Approval{}
}

// resolveAs продвигает документ по решению согласующего, включая
// отложенное действие после транзакции
func (env *testEnv) resolveAs(t *testing.T, documentID, userID string, decision models.ApprovalState) {
	rec := env.markResolved(t, documentID, userID, decision)
	after, err := env.handler.OnApprovalResolved(nil, rec)
	require.Nil(t, err)
	if after != nil {
		after()
	}
}

var (
	author    = models.Actor{ID: "u-author", Role: models.UserRoleOperator, Department: "Отдел продаж"}
	stranger  = models.Actor{ID: "u-stranger", Role: models.UserRoleOperator, Department: "Отдел продаж"}
	moderator = models.Actor{ID: "u-coordinator", Role: models.UserRoleCoordinator, Department: "Отдел кадров"}
	manager1  = dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "u-manager-1"}, Role: models.UserRoleManager}
	manager2  = dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "u-manager-2"}, Role: models.UserRoleManager}
)

func createDraft(t *testing.T, env *testEnv) string {
	view, err := env.handler.Create(author, documentapimodels.DocumentCreateData{
		Title:   "Регламент отпусков",
		Content: "Первая редакция",
	})
	require.Nil(t, err)
	return view.ID
}

func TestDocumentCreate(t *testing.T) {
	env := newTestEnv(manager1)

	t.Run(`create draft check`, func(t *testing.T) {
		view, err := env.handler.Create(author, documentapimodels.DocumentCreateData{
			Title:    "Регламент отпусков",
			Content:  "Первая редакция",
			Category: "регламент",
		})
		require.Nil(t, err)
		require.Equal(t, models.DocStatusDraft, view.Status)
		require.Equal(t, models.InitialDocVersion, view.Version)
		// подразделение по умолчанию берется из профиля автора
		require.Equal(t, author.Department, view.Department)

		count, err := env.versions.CountByDocument(view.ID)
		require.Nil(t, err)
		require.Equal(t, int64(1), count)
		require.Equal(t, models.ActionCreated, env.audit.lastAction())
	})

	t.Run(`create validation check`, func(t *testing.T) {
		_, err := env.handler.Create(author, documentapimodels.DocumentCreateData{Title: "Без содержимого"})
		require.NotNil(t, err)
	})
}

func TestDocumentUpdate(t *testing.T) {
	env := newTestEnv(manager1)
	id := createDraft(t, env)

	t.Run(`minor version bump check`, func(t *testing.T) {
		view, err := env.handler.Update(author, id, documentapimodels.DocumentUpdateData{Content: "Вторая редакция"})
		require.Nil(t, err)
		require.Equal(t, "1.1", view.Version)
		require.Equal(t, "Вторая редакция", view.Content)

		count, err := env.versions.CountByDocument(id)
		require.Nil(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run(`stranger forbidden check`, func(t *testing.T) {
		_, err := env.handler.Update(stranger, id, documentapimodels.DocumentUpdateData{Content: "Чужая правка"})
		require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run(`moderator allowed check`, func(t *testing.T) {
		view, err := env.handler.Update(moderator, id, documentapimodels.DocumentUpdateData{Content: "Правка координатора"})
		require.Nil(t, err)
		require.Equal(t, "1.2", view.Version)
	})

	t.Run(`edit outside draft forbidden check`, func(t *testing.T) {
		_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.Nil(t, err)

		_, err = env.handler.Update(author, id, documentapimodels.DocumentUpdateData{Content: "Поздняя правка"})
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	t.Run(`guard loss conflict check`, func(t *testing.T) {
		env := newTestEnv(manager1)
		id := createDraft(t, env)
		env.docs.failGuard = true

		_, err := env.handler.Update(author, id, documentapimodels.DocumentUpdateData{Content: "Гонка"})
		require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		// снимок не создается при проигрыше гонки
		count, err := env.versions.CountByDocument(id)
		require.Nil(t, err)
		require.Equal(t, int64(1), count)
	})
}

func TestDocumentReview(t *testing.T) {
	t.Run(`unanimous approval check`, func(t *testing.T) {
		env := newTestEnv(manager1, manager2)
		id := createDraft(t, env)

		view, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.Nil(t, err)
		require.Equal(t, models.DocStatusPending, view.Status)
		count, err := env.approvals.CountPending(models.EntityTypeDocument, id)
		require.Nil(t, err)
		require.Equal(t, int64(2), count)

		// первое решение не завершает согласование
		env.resolveAs(t, id, manager1.ID, models.AStateApproved)
		view, err = env.handler.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.DocStatusPending, view.Status)

		env.resolveAs(t, id, manager2.ID, models.AStateApproved)
		view, err = env.handler.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.DocStatusApproved, view.Status)
	})

	t.Run(`single rejection finishes review check`, func(t *testing.T) {
		env := newTestEnv(manager1, manager2)
		id := createDraft(t, env)

		_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.Nil(t, err)

		env.resolveAs(t, id, manager1.ID, models.AStateRejected)
		view, err := env.handler.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.DocStatusRejected, view.Status)
	})

	t.Run(`review outcome cancels open tasks check`, func(t *testing.T) {
		env := newTestEnv(manager1)
		id := createDraft(t, env)
		taskID, err := env.tasks.Create(dbmodels.Task{
			Title:      "Вычитать документ",
			AssignedTo: stranger.ID,
			DocumentID: &id,
			Status:     models.TaskStatusInProgress,
		})
		require.Nil(t, err)

		_, err = env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.Nil(t, err)
		env.resolveAs(t, id, manager1.ID, models.AStateApproved)

		task, err := env.tasks.GetByID(taskID)
		require.Nil(t, err)
		require.Equal(t, models.TaskStatusCanceled, task.Status)
	})

	t.Run(`outcome notification deferred check`, func(t *testing.T) {
		env := newTestEnv(manager1)
		id := createDraft(t, env)
		_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.Nil(t, err)

		rec := env.markResolved(t, id, manager1.ID, models.AStateApproved)
		sent := len(env.notify.events)
		after, err := env.handler.OnApprovalResolved(nil, rec)
		require.Nil(t, err)
		// уведомление автору не уходит внутри транзакции решения
		require.Len(t, env.notify.events, sent)
		require.NotNil(t, after)
		after()
		require.Len(t, env.notify.events, sent+1)
		require.Equal(t, models.NotifyDocumentResolved, env.notify.events[sent].Type)
		require.Equal(t, []string{author.ID}, env.notify.events[sent].TargetUserIDs)
	})

	t.Run(`submit without approvers check`, func(t *testing.T) {
		env := newTestEnv()
		id := createDraft(t, env)
		_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
		require.NotNil(t, err)
	})
}

func TestDocumentResubmit(t *testing.T) {
	env := newTestEnv(manager1, manager2)
	id := createDraft(t, env)

	_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
	require.Nil(t, err)
	env.resolveAs(t, id, manager1.ID, models.AStateRejected)

	t.Run(`resubmit with new content check`, func(t *testing.T) {
		view, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{Content: "Исправленная редакция"})
		require.Nil(t, err)
		require.Equal(t, models.DocStatusPending, view.Status)
		require.Equal(t, "1.1", view.Version)
		require.Equal(t, models.ActionResubmitted, env.audit.lastAction())

		count, err := env.versions.CountByDocument(id)
		require.Nil(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run(`pending approvals not duplicated check`, func(t *testing.T) {
		// у второго согласующего осталась нерешенная запись с первого круга
		list, err := env.approvals.ListByEntity(models.EntityTypeDocument, id)
		require.Nil(t, err)
		require.Equal(t, 3, len(list))
		count, err := env.approvals.CountPending(models.EntityTypeDocument, id)
		require.Nil(t, err)
		require.Equal(t, int64(2), count)
	})
}

func TestDocumentAmend(t *testing.T) {
	env := newTestEnv(manager1)
	id := createDraft(t, env)

	t.Run(`amend outside approved forbidden check`, func(t *testing.T) {
		_, err := env.handler.Amend(author, id)
		require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	})

	_, err := env.handler.Submit(author, id, documentapimodels.DocumentSubmitData{})
	require.Nil(t, err)
	env.resolveAs(t, id, manager1.ID, models.AStateApproved)

	t.Run(`amend keeps version check`, func(t *testing.T) {
		view, err := env.handler.Amend(author, id)
		require.Nil(t, err)
		require.Equal(t, models.DocStatusDraft, view.Status)
		require.Equal(t, models.InitialDocVersion, view.Version)
		// возврат в черновик не порождает снимка
		count, err := env.versions.CountByDocument(id)
		require.Nil(t, err)
		require.Equal(t, int64(1), count)
	})
}
