package apperr

import (
	"fmt"

	"github.com/pkg/errors"

	"docflow-backend/models"
)

type Kind string

const (
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindForbidden          Kind = "FORBIDDEN"
	KindConflict           Kind = "CONFLICT"
	KindVersionConflict    Kind = "VERSION_CONFLICT"
	KindAlreadyResolved    Kind = "ALREADY_RESOLVED"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
	KindNotFound           Kind = "NOT_FOUND"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
)

// Error - структурированная ошибка движка. Несет тип и идентификатор
// сущности, текущее и запрошенное состояние, чтобы вызывающий слой мог
// показать понятное сообщение без повторного чтения состояния.
type Error struct {
	Kind       Kind
	EntityType models.EntityType
	EntityID   string
	Current    string
	Requested  string
	Message    string
	cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.EntityID != "" {
		msg = fmt.Sprintf("%s (%s %s)", msg, e.EntityType.ToHuman(), e.EntityID)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func InvalidTransition(entityType models.EntityType, entityID string, current, requested string) *Error {
	return &Error{
		Kind:       KindInvalidTransition,
		EntityType: entityType,
		EntityID:   entityID,
		Current:    current,
		Requested:  requested,
		Message:    fmt.Sprintf("переход из состояния %v в %v недопустим", current, requested),
	}
}

func Forbidden(entityType models.EntityType, entityID string, message string) *Error {
	return &Error{
		Kind:       KindForbidden,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
	}
}

func Conflict(entityType models.EntityType, entityID string) *Error {
	return &Error{
		Kind:       KindConflict,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    "запись была изменена параллельной операцией, повторите после обновления данных",
	}
}

func VersionConflict(documentID, version string) *Error {
	return &Error{
		Kind:       KindVersionConflict,
		EntityType: models.EntityTypeDocument,
		EntityID:   documentID,
		Requested:  version,
		Message:    fmt.Sprintf("версия %v уже существует, обновите данные документа", version),
	}
}

func AlreadyResolved(approvalID string, state string) *Error {
	return &Error{
		Kind:     KindAlreadyResolved,
		EntityID: approvalID,
		Current:  state,
		Message:  "согласование уже решено",
	}
}

func StorageUnavailable(cause error) *Error {
	return &Error{
		Kind:    KindStorageUnavailable,
		Message: "хранилище недоступно",
		cause:   cause,
	}
}

func NotFound(entityType models.EntityType, entityID string) *Error {
	return &Error{
		Kind:       KindNotFound,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    "запись не найдена",
	}
}

func Unauthenticated() *Error {
	return &Error{
		Kind:    KindUnauthenticated,
		Message: "требуется аутентификация",
	}
}

// KindOf возвращает вид структурированной ошибки, пустая строка - если
// ошибка не является ошибкой движка
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
