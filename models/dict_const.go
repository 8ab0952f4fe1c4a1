package models

import "github.com/pkg/errors"

type DocumentStatus string

const (
	DocStatusDraft    DocumentStatus = "DRAFT"
	DocStatusPending  DocumentStatus = "PENDING"
	DocStatusApproved DocumentStatus = "APPROVED"
	DocStatusRejected DocumentStatus = "REJECTED"
)

var docStatusHumanName = map[DocumentStatus]string{
	DocStatusDraft:    "Черновик",
	DocStatusPending:  "На согласовании",
	DocStatusApproved: "Согласован",
	DocStatusRejected: "Отклонен",
}

func (s DocumentStatus) ToHuman() string {
	if human, exist := docStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// docStatusFlow - допустимые переходы статуса документа.
// draft -> pending (submit)
// pending -> approved | rejected (resolve)
// rejected -> pending (resubmit, с инкрементом версии)
// approved -> draft (amend)
var docStatusFlow = map[DocumentStatus][]DocumentStatus{
	DocStatusDraft:    {DocStatusPending},
	DocStatusPending:  {DocStatusApproved, DocStatusRejected},
	DocStatusRejected: {DocStatusPending},
	DocStatusApproved: {DocStatusDraft},
}

func (s DocumentStatus) IsAllowChange(newStatus DocumentStatus) bool {
	for _, allowed := range docStatusFlow[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// AllowSubmit - отправка на согласование возможна из черновика и после отклонения
func (s DocumentStatus) AllowSubmit() bool {
	return s == DocStatusDraft || s == DocStatusRejected
}

// AllowContentEdit - правка содержимого возможна только в черновике
func (s DocumentStatus) AllowContentEdit() bool {
	return s == DocStatusDraft
}

func (s DocumentStatus) AllowAmend() bool {
	return s == DocStatusApproved
}

func (s DocumentStatus) AllowResolve() bool {
	return s == DocStatusPending
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCanceled   TaskStatus = "CANCELED"
)

var taskStatusHumanName = map[TaskStatus]string{
	TaskStatusPending:    "Ожидает",
	TaskStatusInProgress: "В работе",
	TaskStatusCompleted:  "Выполнена",
	TaskStatusCanceled:   "Отменена",
}

func (s TaskStatus) ToHuman() string {
	if human, exist := taskStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// завершенные и отмененные задачи переходов не имеют
var taskStatusFlow = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCanceled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCanceled},
}

func (s TaskStatus) IsAllowChange(newStatus TaskStatus) bool {
	for _, allowed := range taskStatusFlow[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCanceled
}

func (s TaskStatus) IsValid() bool {
	_, exist := taskStatusHumanName[s]
	return exist
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

var taskPriorityHumanName = map[TaskPriority]string{
	TaskPriorityLow:    "Низкий",
	TaskPriorityMedium: "Средний",
	TaskPriorityHigh:   "Высокий",
	TaskPriorityUrgent: "Срочный",
}

func (p TaskPriority) ToHuman() string {
	if human, exist := taskPriorityHumanName[p]; exist {
		return human
	}
	return string(p)
}

func (p TaskPriority) Validate() error {
	if _, exist := taskPriorityHumanName[p]; !exist {
		return errors.Errorf("неизвестный приоритет задачи: %v", p)
	}
	return nil
}

type ApprovalState string

const (
	AStatePending  ApprovalState = "PENDING"
	AStateApproved ApprovalState = "APPROVED"
	AStateRejected ApprovalState = "REJECTED"
)

var approvalStateHumanName = map[ApprovalState]string{
	AStatePending:  "Ожидает решения",
	AStateApproved: "Согласовано",
	AStateRejected: "Отклонено",
}

func (s ApprovalState) ToHuman() string {
	if human, exist := approvalStateHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApprovalState) IsResolved() bool {
	return s == AStateApproved || s == AStateRejected
}

// Validate проверяет, что значение является решением (не pending)
func (s ApprovalState) ValidateDecision() error {
	if s != AStateApproved && s != AStateRejected {
		return errors.Errorf("недопустимое решение по согласованию: %v", s)
	}
	return nil
}

type EntityType string

const (
	EntityTypeDocument EntityType = "DOCUMENT"
	EntityTypeTask     EntityType = "TASK"
	EntityTypePolicy   EntityType = "POLICY"
)

var entityTypeHumanName = map[EntityType]string{
	EntityTypeDocument: "Документ",
	EntityTypeTask:     "Задача",
	EntityTypePolicy:   "Политика",
}

func (t EntityType) ToHuman() string {
	if human, exist := entityTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

// действия для журнала аудита
const (
	ActionCreated     = "created"
	ActionSubmitted   = "submitted"
	ActionUpdated     = "updated"
	ActionResubmitted = "resubmitted"
	ActionAmended     = "amended"
	ActionApproved    = "approved"
	ActionRejected    = "rejected"
	ActionAccepted    = "accepted"
	ActionTransition  = "transition"
	ActionFileUpload  = "file_uploaded"
)

// InitialDocVersion - версия, присваиваемая документу при создании
const InitialDocVersion = "1.0"
