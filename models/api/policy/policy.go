package policyapimodels

import (
	"time"

	dbmodels "docflow-backend/models/db"
)

type AcceptanceView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

func AcceptanceConvert(rec dbmodels.PolicyAcceptance) AcceptanceView {
	return AcceptanceView{
		ID:         rec.ID,
		UserID:     rec.UserID,
		DocumentID: rec.DocumentID,
		AcceptedAt: rec.AcceptedAt,
	}
}
