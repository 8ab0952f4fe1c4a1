package taskapimodels

import (
	"time"

	"github.com/pkg/errors"

	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	dbmodels "docflow-backend/models/db"
)

type TaskCreateData struct {
	Title       string              `json:"title"`                 // название задачи
	Description string              `json:"description"`           // описание
	AssignedTo  string              `json:"assigned_to"`           // ид исполнителя
	Priority    models.TaskPriority `json:"priority"`              // приоритет
	DueDate     *time.Time          `json:"due_date,omitempty"`    // срок исполнения
	DocumentID  string              `json:"document_id,omitempty"` // ид связанного документа
}

func (t TaskCreateData) Validate() error {
	if t.Title == "" {
		return errors.New("отсутствует название задачи")
	}
	if t.AssignedTo == "" {
		return errors.New("не указан исполнитель задачи")
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	return nil
}

type TaskTransitionData struct {
	NewStatus models.TaskStatus `json:"new_status"` // запрашиваемый статус
	Comments  string            `json:"comments"`   // комментарий к переходу
}

func (t TaskTransitionData) Validate() error {
	if !t.NewStatus.IsValid() {
		return errors.Errorf("неизвестный статус задачи: %v", t.NewStatus)
	}
	return nil
}

type TaskView struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	AssignedTo   string              `json:"assigned_to"`
	AssigneeName string              `json:"assignee_name,omitempty"`
	AssignedBy   string              `json:"assigned_by"`
	AssignerName string              `json:"assigner_name,omitempty"`
	DocumentID   string              `json:"document_id,omitempty"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	StatusName   string              `json:"status_name"`
	DueDate      *time.Time          `json:"due_date,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	IsOverdue    bool                `json:"is_overdue"` // вычисляется в момент запроса
	CreationDate time.Time           `json:"creation_date"`
}

func TaskConvert(rec dbmodels.Task, now time.Time) TaskView {
	result := TaskView{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		AssignedTo:   rec.AssignedTo,
		AssignedBy:   rec.AssignedBy,
		Priority:     rec.Priority,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		DueDate:      rec.DueDate,
		CompletedAt:  rec.CompletedAt,
		IsOverdue:    rec.IsOverdue(now),
		CreationDate: rec.CreatedAt,
	}
	if rec.DocumentID != nil {
		result.DocumentID = *rec.DocumentID
	}
	if rec.Assignee != nil {
		result.AssigneeName = rec.Assignee.GetFullName()
	}
	if rec.Assigner != nil {
		result.AssignerName = rec.Assigner.GetFullName()
	}
	return result
}

type TaskFilter struct {
	apimodels.Pagination
	AssignedTo  string              `json:"assigned_to"`  // фильтр по исполнителю
	Statuses    []models.TaskStatus `json:"statuses"`     // фильтр по статусам
	DocumentID  string              `json:"document_id"`  // фильтр по документу
	OverdueOnly bool                `json:"overdue_only"` // только просроченные
}
