package models

type NotificationType string

const (
	NotifyDocumentSubmitted NotificationType = "DOCUMENT_SUBMITTED"
	NotifyDocumentResolved  NotificationType = "DOCUMENT_RESOLVED"
	NotifyApprovalAssigned  NotificationType = "APPROVAL_ASSIGNED"
	NotifyTaskAssigned      NotificationType = "TASK_ASSIGNED"
	NotifyTaskTransition    NotificationType = "TASK_TRANSITION"
)

// NotificationEvent - событие, которое движок отдает на доставку после
// каждого успешного перехода. Хранение и отметки о прочтении - вне ядра.
type NotificationEvent struct {
	Type          NotificationType
	Title         string
	Message       string
	Link          string
	TargetUserIDs []string
}
