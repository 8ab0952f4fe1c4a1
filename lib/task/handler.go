package taskhandler

import (
	"bytes"
	"fmt"
	"time"

	"gorm.io/gorm"

	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	approvalhandler "docflow-backend/lib/approval"
	approvalstore "docflow-backend/lib/approval/store"
	audithandler "docflow-backend/lib/audit"
	documentstore "docflow-backend/lib/document/store"
	xlsexport "docflow-backend/lib/export/xls"
	notifyhandler "docflow-backend/lib/notify"
	taskstore "docflow-backend/lib/task/store"
	"docflow-backend/models"
	taskapimodels "docflow-backend/models/api/task"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(actor models.Actor, data taskapimodels.TaskCreateData) (*taskapimodels.TaskView, error)
	GetByID(id string) (*taskapimodels.TaskView, error)
	List(filter taskapimodels.TaskFilter) ([]taskapimodels.TaskView, int64, error)
	// Transition переводит задачу по машине состояний:
	// pending -> in_progress -> completed, отмена из любого нетерминального
	Transition(actor models.Actor, id string, data taskapimodels.TaskTransitionData) (*taskapimodels.TaskView, error)
	// RequestReview запрашивает у постановщика подтверждение выполнения
	// задачи в работе. Итог решения закрывает задачу через OnApprovalResolved.
	RequestReview(actor models.Actor, id string) (*taskapimodels.TaskView, error)
	ExportXls(filter taskapimodels.TaskFilter) (*bytes.Buffer, error)
	// OnApprovalResolved вызывается роутером согласований в транзакции решения.
	// Возвращаемое действие роутер выполняет после фиксации транзакции.
	OnApprovalResolved(tx *gorm.DB, approval dbmodels.Approval) (func(), error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:        db.DB,
		store:     taskstore.NewInstance(db.DB),
		documents: documentstore.NewInstance(db.DB),
		approvals: approvalstore.NewInstance(db.DB),
		router:    approvalhandler.NewHandlerWithTx(db.DB),
		audit:     audithandler.NewHandlerWithTx(db.DB),
		notify:    notifyhandler.Instance,
	}
}

type impl struct {
	db        *gorm.DB
	tx        *gorm.DB
	store     taskstore.Provider
	documents documentstore.Provider
	approvals approvalstore.Provider
	router    approvalhandler.Provider
	audit     audithandler.Provider
	notify    notifyhandler.Provider
}

func (i impl) withTx(tx *gorm.DB) impl {
	return impl{
		tx:        tx,
		store:     taskstore.NewInstance(tx),
		documents: documentstore.NewInstance(tx),
		approvals: approvalstore.NewInstance(tx),
		router:    approvalhandler.NewHandlerWithTx(tx),
		audit:     audithandler.NewHandlerWithTx(tx),
		notify:    i.notify,
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

func (i impl) Create(actor models.Actor, data taskapimodels.TaskCreateData) (*taskapimodels.TaskView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec := dbmodels.Task{
		Title:       data.Title,
		Description: data.Description,
		AssignedTo:  data.AssignedTo,
		AssignedBy:  actor.ID,
		Priority:    data.Priority,
		Status:      models.TaskStatusPending,
		DueDate:     data.DueDate,
	}
	if data.DocumentID != "" {
		doc, err := i.documents.GetByID(data.DocumentID)
		if err != nil {
			return nil, apperr.StorageUnavailable(err)
		}
		if doc == nil {
			return nil, apperr.NotFound(models.EntityTypeDocument, data.DocumentID)
		}
		rec.DocumentID = &doc.ID
	}
	var id string
	err := i.transaction(func(h impl) error {
		var err error
		id, err = h.store.Create(rec)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		_, err = h.audit.Record(actor.ID, models.ActionCreated, models.EntityTypeTask, id, dbmodels.ActivityDetails{
			Description: "создана задача: " + rec.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if i.notify != nil {
		i.notify.Send(models.NotificationEvent{
			Type:          models.NotifyTaskAssigned,
			Title:         "Новая задача",
			Message:       fmt.Sprintf("Вам назначена задача %q", rec.Title),
			Link:          "/tasks/" + id,
			TargetUserIDs: []string{rec.AssignedTo},
		})
	}
	return i.GetByID(id)
}

func (i impl) GetByID(id string) (*taskapimodels.TaskView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeTask, id)
	}
	view := taskapimodels.TaskConvert(*rec, time.Now())
	return &view, nil
}

func (i impl) List(filter taskapimodels.TaskFilter) ([]taskapimodels.TaskView, int64, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, 0, apperr.StorageUnavailable(err)
	}
	rowCount, err := i.store.ListCount(filter)
	if err != nil {
		return nil, 0, apperr.StorageUnavailable(err)
	}
	now := time.Now()
	result := make([]taskapimodels.TaskView, 0, len(list))
	for _, rec := range list {
		result = append(result, taskapimodels.TaskConvert(rec, now))
	}
	return result, rowCount, nil
}

func (i impl) Transition(actor models.Actor, id string, data taskapimodels.TaskTransitionData) (*taskapimodels.TaskView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeTask, id)
	}
	if rec.AssignedTo != actor.ID && !actor.Role.AllowEntityModeration() {
		return nil, apperr.Forbidden(models.EntityTypeTask, id, "смена статуса доступна исполнителю задачи")
	}
	if !rec.Status.IsAllowChange(data.NewStatus) {
		return nil, apperr.InvalidTransition(models.EntityTypeTask, id, string(rec.Status), string(data.NewStatus))
	}
	updMap := map[string]interface{}{
		"status": data.NewStatus,
	}
	if data.NewStatus == models.TaskStatusCompleted {
		// время завершения проставляется только вместе с этим статусом
		updMap["completed_at"] = time.Now()
	}
	err = i.transaction(func(h impl) error {
		ok, err := h.store.TransitionGuarded(id, rec.Status, updMap)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !ok {
			return apperr.Conflict(models.EntityTypeTask, id)
		}
		_, err = h.audit.Record(actor.ID, models.ActionTransition, models.EntityTypeTask, id, dbmodels.ActivityDetails{
			Description: data.Comments,
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(rec.Status), NewValue: string(data.NewStatus)},
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if i.notify != nil && rec.AssignedBy != actor.ID {
		i.notify.Send(models.NotificationEvent{
			Type:          models.NotifyTaskTransition,
			Title:         "Статус задачи изменен",
			Message:       fmt.Sprintf("Задача %q: %s", rec.Title, data.NewStatus.ToHuman()),
			Link:          "/tasks/" + id,
			TargetUserIDs: []string{rec.AssignedBy},
		})
	}
	return i.GetByID(id)
}

func (i impl) RequestReview(actor models.Actor, id string) (*taskapimodels.TaskView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeTask, id)
	}
	if rec.AssignedTo != actor.ID && !actor.Role.AllowEntityModeration() {
		return nil, apperr.Forbidden(models.EntityTypeTask, id, "запрос подтверждения доступен исполнителю задачи")
	}
	if rec.Status != models.TaskStatusInProgress {
		return nil, &apperr.Error{
			Kind:       apperr.KindInvalidTransition,
			EntityType: models.EntityTypeTask,
			EntityID:   id,
			Current:    string(rec.Status),
			Message:    "подтверждение выполнения запрашивается только для задачи в работе",
		}
	}
	err = i.transaction(func(h impl) error {
		err := h.router.CreateForEntity(models.EntityTypeTask, id, []string{rec.AssignedBy})
		if err != nil {
			return err
		}
		_, err = h.audit.Record(actor.ID, models.ActionSubmitted, models.EntityTypeTask, id, dbmodels.ActivityDetails{
			Description: "запрошено подтверждение выполнения задачи",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if i.notify != nil {
		i.notify.Send(models.NotificationEvent{
			Type:          models.NotifyApprovalAssigned,
			Title:         "Задача ожидает подтверждения",
			Message:       fmt.Sprintf("Задача %q ожидает вашего решения", rec.Title),
			Link:          "/tasks/" + id,
			TargetUserIDs: []string{rec.AssignedBy},
		})
	}
	return i.GetByID(id)
}

func (i impl) ExportXls(filter taskapimodels.TaskFilter) (*bytes.Buffer, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return xlsexport.Instance.ExportTaskList(list)
}

func (i impl) OnApprovalResolved(tx *gorm.DB, approval dbmodels.Approval) (func(), error) {
	h := i
	if tx != nil {
		h = i.withTx(tx)
	}
	rec, err := h.store.GetByID(approval.EntityID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil || rec.Status.IsTerminal() {
		return nil, nil
	}
	newStatus := models.TaskStatusCanceled
	if approval.Status == models.AStateApproved {
		count, err := h.approvals.CountPending(models.EntityTypeTask, rec.ID)
		if err != nil {
			return nil, apperr.StorageUnavailable(err)
		}
		if count > 0 {
			return nil, nil
		}
		newStatus = models.TaskStatusCompleted
	}
	updMap := map[string]interface{}{
		"status": newStatus,
	}
	if newStatus == models.TaskStatusCompleted {
		updMap["completed_at"] = time.Now()
	}
	// системное закрытие задачи по итогу согласования, машина состояний не применяется
	ok, err := h.store.TransitionGuarded(rec.ID, rec.Status, updMap)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if !ok {
		return nil, apperr.Conflict(models.EntityTypeTask, rec.ID)
	}
	_, err = h.audit.Record(models.SystemActorID, models.ActionTransition, models.EntityTypeTask, rec.ID, dbmodels.ActivityDetails{
		Description: "задача закрыта по итогу согласования",
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: string(rec.Status), NewValue: string(newStatus)},
		},
	})
	if err != nil {
		return nil, err
	}
	if h.notify == nil {
		return nil, nil
	}
	event := models.NotificationEvent{
		Type:          models.NotifyTaskTransition,
		Title:         "Задача закрыта",
		Message:       fmt.Sprintf("Задача %q: %s", rec.Title, newStatus.ToHuman()),
		Link:          "/tasks/" + rec.ID,
		TargetUserIDs: []string{rec.AssignedTo},
	}
	notify := h.notify
	// уведомление уходит после фиксации транзакции решения
	return func() { notify.Send(event) }, nil
}
