package approvalapimodels

import (
	"time"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type ApprovalView struct {
	ID           string               `json:"id"`
	EntityType   models.EntityType    `json:"entity_type"`
	EntityID     string               `json:"entity_id"`
	UserID       string               `json:"user_id"`
	UserName     string               `json:"user_name,omitempty"`
	Status       models.ApprovalState `json:"status"`
	StatusName   string               `json:"status_name"`
	Comments     string               `json:"comments,omitempty"`
	ApprovedAt   *time.Time           `json:"approved_at,omitempty"`
	CreationDate time.Time            `json:"creation_date"`
}

func ApprovalConvert(rec dbmodels.Approval) ApprovalView {
	result := ApprovalView{
		ID:           rec.ID,
		EntityType:   rec.EntityType,
		EntityID:     rec.EntityID,
		UserID:       rec.UserID,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		Comments:     rec.Comments,
		ApprovedAt:   rec.ApprovedAt,
		CreationDate: rec.CreatedAt,
	}
	if rec.User != nil {
		result.UserName = rec.User.GetFullName()
	}
	return result
}

type ResolveData struct {
	Comments string `json:"comments"` // комментарий согласующего
}
