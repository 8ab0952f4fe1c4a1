package documenthandler

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	approvalhandler "docflow-backend/lib/approval"
	approvalstore "docflow-backend/lib/approval/store"
	approverpolicy "docflow-backend/lib/approver-policy"
	audithandler "docflow-backend/lib/audit"
	documentstore "docflow-backend/lib/document/store"
	versionstore "docflow-backend/lib/document/version-store"
	pdfexport "docflow-backend/lib/export/pdf"
	xlsexport "docflow-backend/lib/export/xls"
	notifyhandler "docflow-backend/lib/notify"
	taskstore "docflow-backend/lib/task/store"
	versionutils "docflow-backend/lib/utils/version"
	"docflow-backend/models"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(actor models.Actor, data documentapimodels.DocumentCreateData) (*documentapimodels.DocumentView, error)
	GetByID(id string) (*documentapimodels.DocumentView, error)
	List(filter documentapimodels.DocumentFilter) ([]documentapimodels.DocumentView, int64, error)
	// Update меняет содержимое черновика с инкрементом младшего компонента
	// версии и снимком нового содержимого
	Update(actor models.Actor, id string, data documentapimodels.DocumentUpdateData) (*documentapimodels.DocumentView, error)
	// Submit отправляет черновик или отклоненный документ на согласование.
	// Для отклоненного допускается новое содержимое - тогда версия инкрементируется.
	Submit(actor models.Actor, id string, data documentapimodels.DocumentSubmitData) (*documentapimodels.DocumentView, error)
	// Amend возвращает согласованный документ в черновик для правок,
	// версия при этом не меняется
	Amend(actor models.Actor, id string) (*documentapimodels.DocumentView, error)
	ListVersions(id string) ([]documentapimodels.DocumentVersionView, error)
	ExportXls(filter documentapimodels.DocumentFilter) (*bytes.Buffer, error)
	// ApprovalSheetPdf формирует лист согласования документа
	ApprovalSheetPdf(id string) ([]byte, error)
	// OnApprovalResolved вызывается роутером согласований в транзакции решения.
	// Возвращаемое действие роутер выполняет после фиксации транзакции.
	OnApprovalResolved(tx *gorm.DB, approval dbmodels.Approval) (func(), error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:        db.DB,
		store:     documentstore.NewInstance(db.DB),
		versions:  versionstore.NewInstance(db.DB),
		approvals: approvalstore.NewInstance(db.DB),
		tasks:     taskstore.NewInstance(db.DB),
		router:    approvalhandler.NewHandlerWithTx(db.DB),
		policy:    approverpolicy.NewHandlerWithTx(db.DB),
		audit:     audithandler.NewHandlerWithTx(db.DB),
		notify:    notifyhandler.Instance,
	}
}

type impl struct {
	db        *gorm.DB
	tx        *gorm.DB
	store     documentstore.Provider
	versions  versionstore.Provider
	approvals approvalstore.Provider
	tasks     taskstore.Provider
	router    approvalhandler.Provider
	policy    approverpolicy.Provider
	audit     audithandler.Provider
	notify    notifyhandler.Provider
}

func (i impl) withTx(tx *gorm.DB) impl {
	return impl{
		tx:        tx,
		store:     documentstore.NewInstance(tx),
		versions:  versionstore.NewInstance(tx),
		approvals: approvalstore.NewInstance(tx),
		tasks:     taskstore.NewInstance(tx),
		router:    approvalhandler.NewHandlerWithTx(tx),
		policy:    approverpolicy.NewHandlerWithTx(tx),
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

func (i impl) Create(actor models.Actor, data documentapimodels.DocumentCreateData) (*documentapimodels.DocumentView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec := dbmodels.Document{
		Title:      data.Title,
		Content:    data.Content,
		Category:   data.Category,
		Department: data.Department,
		Version:    models.InitialDocVersion,
		Status:     models.DocStatusDraft,
		CreatedBy:  actor.ID,
		Tags:       data.Tags,
	}
	if rec.Department == "" {
		rec.Department = actor.Department
	}
	var id string
	err := i.transaction(func(h impl) error {
		var err error
		id, err = h.store.Create(rec)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		_, err = h.versions.Snapshot(id, rec.Content, rec.Version, actor.ID)
		if err != nil {
			return err
		}
		_, err = h.audit.Record(actor.ID, models.ActionCreated, models.EntityTypeDocument, id, dbmodels.ActivityDetails{
			Description: "создан документ: " + rec.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return i.GetByID(id)
}

func (i impl) GetByID(id string) (*documentapimodels.DocumentView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	view := documentapimodels.DocumentConvert(*rec)
	return &view, nil
}

func (i impl) List(filter documentapimodels.DocumentFilter) ([]documentapimodels.DocumentView, int64, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, 0, apperr.StorageUnavailable(err)
	}
	rowCount, err := i.store.ListCount(filter)
	if err != nil {
		return nil, 0, apperr.StorageUnavailable(err)
	}
	result := make([]documentapimodels.DocumentView, 0, len(list))
	for _, rec := range list {
		result = append(result, documentapimodels.DocumentConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Update(actor models.Actor, id string, data documentapimodels.DocumentUpdateData) (*documentapimodels.DocumentView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	if !rec.Status.AllowContentEdit() {
		return nil, &apperr.Error{
			Kind:       apperr.KindInvalidTransition,
			EntityType: models.EntityTypeDocument,
			EntityID:   id,
			Current:    string(rec.Status),
			Message:    "правка содержимого допустима только в черновике",
		}
	}
	if rec.CreatedBy != actor.ID && !actor.Role.AllowEntityModeration() {
		return nil, apperr.Forbidden(models.EntityTypeDocument, id, "правка доступна автору документа")
	}
	newVersion, err := versionutils.NextMinor(rec.Version)
	if err != nil {
		return nil, err
	}
	err = i.transaction(func(h impl) error {
		ok, err := h.store.UpdateGuarded(id, rec.UpdatedAt, map[string]interface{}{
			"content": data.Content,
			"version": newVersion,
		})
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !ok {
			return apperr.Conflict(models.EntityTypeDocument, id)
		}
		_, err = h.versions.Snapshot(id, data.Content, newVersion, actor.ID)
		if err != nil {
			return err
		}
		_, err = h.audit.Record(actor.ID, models.ActionUpdated, models.EntityTypeDocument, id, dbmodels.ActivityDetails{
			Description: "изменено содержимое документа",
			Data: []dbmodels.FieldChanges{
				{Field: "version", OldValue: rec.Version, NewValue: newVersion},
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return i.GetByID(id)
}

func (i impl) Submit(actor models.Actor, id string, data documentapimodels.DocumentSubmitData) (*documentapimodels.DocumentView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	if !rec.Status.AllowSubmit() {
		return nil, apperr.InvalidTransition(models.EntityTypeDocument, id, string(rec.Status), string(models.DocStatusPending))
	}
	if rec.CreatedBy != actor.ID && !actor.Role.AllowEntityModeration() {
		return nil, apperr.Forbidden(models.EntityTypeDocument, id, "отправка на согласование доступна автору документа")
	}
	action := models.ActionSubmitted
	updMap := map[string]interface{}{
		"status": models.DocStatusPending,
	}
	newVersion := ""
	if rec.Status == models.DocStatusRejected {
		action = models.ActionResubmitted
		if data.Content != "" && data.Content != rec.Content {
			newVersion, err = versionutils.NextMinor(rec.Version)
			if err != nil {
				return nil, err
			}
			updMap["content"] = data.Content
			updMap["version"] = newVersion
		}
	}
	approverIDs := []string{}
	err = i.transaction(func(h impl) error {
		approvers, err := h.policy.ApproversFor(rec.Department)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if len(approvers) == 0 {
			return errors.Errorf("не найдены согласующие для подразделения: %v", rec.Department)
		}
		ok, err := h.store.UpdateGuarded(id, rec.UpdatedAt, updMap)
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !ok {
			return apperr.Conflict(models.EntityTypeDocument, id)
		}
		if newVersion != "" {
			_, err = h.versions.Snapshot(id, data.Content, newVersion, actor.ID)
			if err != nil {
				return err
			}
		}
		for _, approver := range approvers {
			approverIDs = append(approverIDs, approver.ID)
		}
		err = h.router.CreateForEntity(models.EntityTypeDocument, id, approverIDs)
		if err != nil {
			return err
		}
		_, err = h.audit.Record(actor.ID, action, models.EntityTypeDocument, id, dbmodels.ActivityDetails{
			Description: "документ отправлен на согласование",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if i.notify != nil {
		i.notify.Send(models.NotificationEvent{
			Type:          models.NotifyApprovalAssigned,
			Title:         "Документ на согласовании",
			Message:       fmt.Sprintf("Документ %q ожидает вашего решения", rec.Title),
			Link:          "/documents/" + id,
			TargetUserIDs: approverIDs,
		})
	}
	return i.GetByID(id)
}

func (i impl) Amend(actor models.Actor, id string) (*documentapimodels.DocumentView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	if !rec.Status.AllowAmend() {
		return nil, apperr.InvalidTransition(models.EntityTypeDocument, id, string(rec.Status), string(models.DocStatusDraft))
	}
	if rec.CreatedBy != actor.ID && !actor.Role.AllowEntityModeration() {
		return nil, apperr.Forbidden(models.EntityTypeDocument, id, "возврат в черновик доступен автору документа")
	}
	err = i.transaction(func(h impl) error {
		ok, err := h.store.UpdateGuarded(id, rec.UpdatedAt, map[string]interface{}{
			"status": models.DocStatusDraft,
		})
		if err != nil {
			return apperr.StorageUnavailable(err)
		}
		if !ok {
			return apperr.Conflict(models.EntityTypeDocument, id)
		}
		_, err = h.audit.Record(actor.ID, models.ActionAmended, models.EntityTypeDocument, id, dbmodels.ActivityDetails{
			Description: "документ возвращен в черновик для изменений",
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(models.DocStatusApproved), NewValue: string(models.DocStatusDraft)},
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return i.GetByID(id)
}

func (i impl) ListVersions(id string) ([]documentapimodels.DocumentVersionView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	list, err := i.versions.List(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]documentapimodels.DocumentVersionView, 0, len(list))
	for _, item := range list {
		result = append(result, documentapimodels.DocumentVersionConvert(item))
	}
	return result, nil
}

func (i impl) ExportXls(filter documentapimodels.DocumentFilter) (*bytes.Buffer, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return xlsexport.Instance.ExportDocumentList(list)
}

func (i impl) ApprovalSheetPdf(id string) ([]byte, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, id)
	}
	approvals, err := i.approvals.ListByEntity(models.EntityTypeDocument, id)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return pdfexport.GenerateApprovalSheet(*rec, approvals)
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
	if rec == nil || !rec.Status.AllowResolve() {
		// документ уже вышел из согласования
		return nil, nil
	}
	switch approval.Status {
	case models.AStateRejected:
		// одно отклонение завершает согласование
		return h.finishReview(rec, models.DocStatusRejected)
	case models.AStateApproved:
		count, err := h.approvals.CountPending(models.EntityTypeDocument, rec.ID)
		if err != nil {
			return nil, apperr.StorageUnavailable(err)
		}
		if count > 0 {
			// ждем решения остальных согласующих
			return nil, nil
		}
		return h.finishReview(rec, models.DocStatusApproved)
	}
	return nil, nil
}

func (h impl) finishReview(rec *dbmodels.Document, newStatus models.DocumentStatus) (func(), error) {
	ok, err := h.store.UpdateGuarded(rec.ID, rec.UpdatedAt, map[string]interface{}{
		"status": newStatus,
	})
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if !ok {
		return nil, apperr.Conflict(models.EntityTypeDocument, rec.ID)
	}
	_, err = h.audit.Record(models.SystemActorID, models.ActionTransition, models.EntityTypeDocument, rec.ID, dbmodels.ActivityDetails{
		Description: "итог согласования документа",
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: string(rec.Status), NewValue: string(newStatus)},
		},
	})
	if err != nil {
		return nil, err
	}
	// открытые задачи ревью по документу больше не актуальны
	openTasks, err := h.tasks.FindOpenByDocument(rec.ID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	for _, task := range openTasks {
		_, err = h.tasks.TransitionGuarded(task.ID, task.Status, map[string]interface{}{
			"status": models.TaskStatusCanceled,
		})
		if err != nil {
			return nil, apperr.StorageUnavailable(err)
		}
	}
	if h.notify == nil {
		return nil, nil
	}
	title := "Документ согласован"
	if newStatus == models.DocStatusRejected {
		title = "Документ отклонен"
	}
	event := models.NotificationEvent{
		Type:          models.NotifyDocumentResolved,
		Title:         title,
		Message:       fmt.Sprintf("Документ %q: %s", rec.Title, newStatus.ToHuman()),
		Link:          "/documents/" + rec.ID,
		TargetUserIDs: []string{rec.CreatedBy},
	}
	notify := h.notify
	// уведомление уходит после фиксации транзакции решения
	return func() { notify.Send(event) }, nil
}
