package versionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/lib/apperr"
	versionutils "docflow-backend/lib/utils/version"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	// Snapshot добавляет неизменяемый снимок содержимого. Метка версии
	// должна быть строго больше последней существующей (числовое сравнение
	// по компонентам), повтор метки - apperr.VersionConflict.
	Snapshot(documentID, content, version, actorID string) (rec *dbmodels.DocumentVersion, err error)
	Last(documentID string) (rec *dbmodels.DocumentVersion, err error)
	List(documentID string) (list []dbmodels.DocumentVersion, err error)
	CountByDocument(documentID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Snapshot(documentID, content, version, actorID string) (*dbmodels.DocumentVersion, error) {
	var existCount int64
	err := i.db.
		Model(&dbmodels.DocumentVersion{}).
		Where("document_id = ? AND version = ?", documentID, version).
		Count(&existCount).
		Error
	if err != nil {
		return nil, err
	}
	last, err := i.Last(documentID)
	if err != nil {
		return nil, err
	}
	err = checkLabel(documentID, version, existCount > 0, last)
	if err != nil {
		return nil, err
	}
	rec := dbmodels.DocumentVersion{
		DocumentID: documentID,
		Version:    version,
		Content:    content,
		CreatedBy:  actorID,
	}
	err = i.db.Create(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// checkLabel проверяет метку новой версии: повтор любой существующей метки -
// apperr.VersionConflict (даже если она не последняя), новая метка должна
// быть строго больше последней.
func checkLabel(documentID, version string, exists bool, last *dbmodels.DocumentVersion) error {
	if exists {
		return apperr.VersionConflict(documentID, version)
	}
	if last == nil {
		return nil
	}
	cmp, err := versionutils.Compare(version, last.Version)
	if err != nil {
		return err
	}
	if cmp <= 0 {
		return errors.Errorf("версия %v не больше последней существующей %v", version, last.Version)
	}
	return nil
}

func (i impl) Last(documentID string) (*dbmodels.DocumentVersion, error) {
	rec := dbmodels.DocumentVersion{}
	err := i.db.
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(documentID string) (list []dbmodels.DocumentVersion, err error) {
	list = []dbmodels.DocumentVersion{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByDocument(documentID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Count(&count).
		Error
	return count, err
}
