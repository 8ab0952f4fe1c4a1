package filesapimodels

import dbmodels "docflow-backend/models/db"

type FileView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DocumentID  string `json:"document_id"`
	ContentType string `json:"content_type"`
}

func FileConvert(rec dbmodels.FileStorage) FileView {
	return FileView{
		ID:          rec.ID,
		Name:        rec.Name,
		DocumentID:  rec.DocumentID,
		ContentType: rec.ContentType,
	}
}
