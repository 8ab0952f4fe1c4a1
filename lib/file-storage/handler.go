package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"docflow-backend/config"
	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	audithandler "docflow-backend/lib/audit"
	documentstore "docflow-backend/lib/document/store"
	filesdbstorage "docflow-backend/lib/file-storage/storage"
	"docflow-backend/models"
	filesapimodels "docflow-backend/models/api/files"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	// UploadDocumentFile сохраняет вложение: метаданные в БД, содержимое в S3
	UploadDocumentFile(ctx context.Context, actor models.Actor, documentID, fileName, contentType string, fileReader io.Reader, fileSize int64) (*filesapimodels.FileView, error)
	GetFile(ctx context.Context, fileID string) (rec *dbmodels.FileStorage, data []byte, err error)
	ListByDocument(documentID string) ([]filesapimodels.FileView, error)
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client:  s3client,
		store:     filesdbstorage.NewInstance(db.DB),
		documents: documentstore.NewInstance(db.DB),
		audit:     audithandler.NewHandlerWithTx(db.DB),
	}
}

type impl struct {
	s3client  *minio.Client
	store     filesdbstorage.Provider
	documents documentstore.Provider
	audit     audithandler.Provider
}

func (i impl) UploadDocumentFile(ctx context.Context, actor models.Actor, documentID, fileName, contentType string, fileReader io.Reader, fileSize int64) (*filesapimodels.FileView, error) {
	doc, err := i.documents.GetByID(documentID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if doc == nil {
		return nil, apperr.NotFound(models.EntityTypeDocument, documentID)
	}
	rec := dbmodels.FileStorage{
		Name:        fileName,
		DocumentID:  documentID,
		ContentType: contentType,
		UploadedBy:  actor.ID,
	}
	if rec.ContentType == "" {
		rec.ContentType = "application/octet-stream"
	}
	fileID, err := i.store.SaveFile(rec)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	rec.ID = fileID
	_, err = i.s3client.PutObject(ctx, config.Conf.S3.BucketName, getObjectKey(documentID, fileID), fileReader, fileSize,
		minio.PutObjectOptions{ContentType: rec.ContentType})
	if err != nil {
		return nil, err
	}
	_, err = i.audit.Record(actor.ID, models.ActionFileUpload, models.EntityTypeDocument, documentID, dbmodels.ActivityDetails{
		Description: "загружено вложение: " + fileName,
	})
	if err != nil {
		return nil, err
	}
	view := filesapimodels.FileConvert(rec)
	return &view, nil
}

func (i impl) GetFile(ctx context.Context, fileID string) (*dbmodels.FileStorage, []byte, error) {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return nil, nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, nil, &apperr.Error{
			Kind:     apperr.KindNotFound,
			EntityID: fileID,
			Message:  "вложение не найдено",
		}
	}
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, getObjectKey(rec.DocumentID, fileID), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer object.Close()
	buf := bytes.Buffer{}
	_, err = io.Copy(&buf, object)
	if err != nil {
		return nil, nil, err
	}
	return rec, buf.Bytes(), nil
}

func (i impl) ListByDocument(documentID string) ([]filesapimodels.FileView, error) {
	list, err := i.store.ListByDocument(documentID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]filesapimodels.FileView, 0, len(list))
	for _, rec := range list {
		result = append(result, filesapimodels.FileConvert(rec))
	}
	return result, nil
}

func getObjectKey(documentID, fileID string) string {
	return fmt.Sprintf("document/%s/%s", documentID, fileID)
}
