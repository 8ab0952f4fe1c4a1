package activityapimodels

import (
	"time"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type ActivityView struct {
	ID           string                   `json:"id"`
	UserID       string                   `json:"user_id"`
	Action       string                   `json:"action"`
	EntityType   models.EntityType        `json:"entity_type"`
	EntityID     string                   `json:"entity_id"`
	Details      dbmodels.ActivityDetails `json:"details"`
	CreationDate time.Time                `json:"creation_date"`
}

func ActivityConvert(rec dbmodels.Activity) ActivityView {
	return ActivityView{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Action:       rec.Action,
		EntityType:   rec.EntityType,
		EntityID:     rec.EntityID,
		Details:      rec.Details,
		CreationDate: rec.CreatedAt,
	}
}
