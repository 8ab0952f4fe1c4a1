package usersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(userID string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	List(page, limit int) (list []dbmodels.User, err error)
	ListByRole(role models.UserRole, department string) (list []dbmodels.User, err error)
	SetLastLogin(userID string) error
	Count() (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(userID string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", userID).
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

func (i impl) FindByEmail(email string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("email = ?", email).
		Where("is_active = true").
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

func (i impl) List(page, limit int) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	offset := (page - 1) * limit
	err = i.db.
		Order("last_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByRole(role models.UserRole, department string) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	tx := i.db.
		Where("role = ?", role).
		Where("is_active = true").
		Order("last_name ASC")
	if department != "" {
		tx = tx.Where("department = ?", department)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetLastLogin(userID string) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Update("last_login", gorm.Expr("now()")).
		Error
}

func (i impl) Count() (count int64, err error) {
	err = i.db.
		Model(&dbmodels.User{}).
		Count(&count).
		Error
	return count, err
}
