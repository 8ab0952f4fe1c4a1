package approvalhandler

import (
	"time"

	"gorm.io/gorm"

	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	approvalstore "docflow-backend/lib/approval/store"
	audithandler "docflow-backend/lib/audit"
	"docflow-backend/models"
	approvalapimodels "docflow-backend/models/api/approval"
	dbmodels "docflow-backend/models/db"
)

// ParentAdvancer получает управление после решения по согласованию,
// чтобы продвинуть родительскую сущность (документ, задачу). Вызов
// происходит в той же транзакции, что и само решение. Возвращаемое
// действие выполняется после фиксации транзакции - туда выносится
// доставка уведомлений, чтобы пуш не ушел по незафиксированному решению.
type ParentAdvancer interface {
	OnApprovalResolved(tx *gorm.DB, rec dbmodels.Approval) (afterCommit func(), err error)
}

var advancers = map[models.EntityType]ParentAdvancer{}

// RegisterAdvancer регистрируется при старте сервиса, до первого запроса
func RegisterAdvancer(entityType models.EntityType, advancer ParentAdvancer) {
	advancers[entityType] = advancer
}

type Provider interface {
	// CreateForEntity выдает задачи согласования указанным пользователям.
	// Для пользователя с нерешенной записью по той же сущности новая не создается.
	CreateForEntity(entityType models.EntityType, entityID string, userIDs []string) error
	Resolve(actor models.Actor, approvalID string, decision models.ApprovalState, comments string) (*approvalapimodels.ApprovalView, error)
	ListByEntity(entityType models.EntityType, entityID string) ([]approvalapimodels.ApprovalView, error)
	ListMy(userID string) ([]approvalapimodels.ApprovalView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:    db.DB,
		store: approvalstore.NewInstance(db.DB),
		audit: audithandler.NewHandlerWithTx(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		tx:    tx,
		store: approvalstore.NewInstance(tx),
		audit: audithandler.NewHandlerWithTx(tx),
	}
}

type impl struct {
	db    *gorm.DB
	tx    *gorm.DB
	store approvalstore.Provider
	audit audithandler.Provider
}

func (i impl) withTx(tx *gorm.DB) impl {
	return impl{
		tx:    tx,
		store: approvalstore.NewInstance(tx),
		audit: audithandler.NewHandlerWithTx(tx),
	}
}

// transaction выполняет fn в транзакции. Если обработчик уже привязан
// к транзакции (или работает без БД в тестах), fn выполняется как есть.
func (i impl) transaction(fn func(h impl) error) error {
	if i.db == nil {
		return fn(i)
	}
	return i.db.Transaction(func(tx *gorm.DB) error {
		return fn(i.withTx(tx))
	})
}

func (i impl) CreateForEntity(entityType models.EntityType, entityID string, userIDs []string) error {
	return i.transaction(func(h impl) error {
		for _, userID := range userIDs {
			exists, err := h.store.PendingExists(entityType, entityID, userID)
			if err != nil {
				return apperr.StorageUnavailable(err)
			}
			if exists {
				continue
			}
			_, err = h.store.Create(dbmodels.Approval{
				EntityType: entityType,
				EntityID:   entityID,
				UserID:     userID,
				Status:     models.AStatePending,
			})
			if err != nil {
				return apperr.StorageUnavailable(err)
			}
		}
		return nil
	})
}

func (i impl) Resolve(actor models.Actor, approvalID string, decision models.ApprovalState, comments string) (*approvalapimodels.ApprovalView, error) {
	if err := decision.ValidateDecision(); err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(approvalID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, &apperr.Error{
			Kind:     apperr.KindNotFound,
			EntityID: approvalID,
			Message:  "согласование не найдено",
		}
	}
	if rec.Status.IsResolved() {
		return nil, apperr.AlreadyResolved(approvalID, string(rec.Status))
	}
	if rec.UserID != actor.ID && !actor.Role.AllowApprovalOverride() {
		return nil, apperr.Forbidden(rec.EntityType, rec.EntityID, "решение доступно только назначенному согласующему")
	}
	now := time.Now()
	var afterCommit func()
	err = i.transaction(func(h impl) error {
		ok, err := h.store.ResolveGuarded(approvalID, map[string]interface{}{
			"status":      decision,
			"comments":    comments,
			"approved_at": now,
		})
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !ok {
			// решение уже принято параллельной операцией
			return apperr.AlreadyResolved(approvalID, "")
		}
		action := models.ActionApproved
		if decision == models.AStateRejected {
			action = models.ActionRejected
		}
		_, err = h.audit.Record(actor.ID, action, rec.EntityType, rec.EntityID, dbmodels.ActivityDetails{
			Description: comments,
			Data: []dbmodels.FieldChanges{
				{Field: "approval_status", OldValue: string(models.AStatePending), NewValue: string(decision)},
			},
		})
		if err != nil {
			return err
		}
		resolved := *rec
		resolved.Status = decision
		resolved.Comments = comments
		resolved.ApprovedAt = &now
		if advancer, exist := advancers[rec.EntityType]; exist {
			afterCommit, err = advancer.OnApprovalResolved(h.tx, resolved)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if afterCommit != nil {
		afterCommit()
	}
	updated, err := i.store.GetByID(approvalID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if updated == nil {
		return nil, apperr.StorageUnavailable(nil)
	}
	view := approvalapimodels.ApprovalConvert(*updated)
	return &view, nil
}

func (i impl) ListByEntity(entityType models.EntityType, entityID string) ([]approvalapimodels.ApprovalView, error) {
	list, err := i.store.ListByEntity(entityType, entityID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, nil
}

func (i impl) ListMy(userID string) ([]approvalapimodels.ApprovalView, error) {
	list, err := i.store.ListPendingByUser(userID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, nil
}
