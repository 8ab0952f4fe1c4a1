package policystore

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	// Accept пишет факт ознакомления один раз. inserted=false - пара
	// (userID, documentID) уже существует, повтор не является ошибкой.
	Accept(userID, documentID string) (inserted bool, err error)
	ListByUser(userID string) (list []dbmodels.PolicyAcceptance, err error)
	ListByDocument(documentID string) (list []dbmodels.PolicyAcceptance, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Accept(userID, documentID string) (bool, error) {
	rec := dbmodels.PolicyAcceptance{
		UserID:     userID,
		DocumentID: documentID,
		AcceptedAt: time.Now(),
	}
	tx := i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "document_id"}},
			DoNothing: true,
		}).
		Create(&rec)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListByUser(userID string) (list []dbmodels.PolicyAcceptance, err error) {
	list = []dbmodels.PolicyAcceptance{}
	err = i.db.
		Where("user_id = ?", userID).
		Order("accepted_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDocument(documentID string) (list []dbmodels.PolicyAcceptance, err error) {
	list = []dbmodels.PolicyAcceptance{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("accepted_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
