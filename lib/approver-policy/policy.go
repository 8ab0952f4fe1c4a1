package approverpolicy

import (
	"gorm.io/gorm"

	"docflow-backend/db"
	usersstore "docflow-backend/lib/users/store"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

// Пакет определяет состав согласующих для отправляемой на согласование
// сущности. Правило по умолчанию: руководители подразделения автора,
// при их отсутствии - администраторы. Порядок детерминирован (по фамилии).

type Provider interface {
	ApproversFor(department string) (list []dbmodels.User, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		users: usersstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		users: usersstore.NewInstance(tx),
	}
}

type impl struct {
	users usersstore.Provider
}

func (i impl) ApproversFor(department string) ([]dbmodels.User, error) {
	list, err := i.users.ListByRole(models.UserRoleManager, department)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		// в подразделении нет руководителей - согласуют руководители любого подразделения
		list, err = i.users.ListByRole(models.UserRoleManager, "")
		if err != nil {
			return nil, err
		}
	}
	if len(list) == 0 {
		list, err = i.users.ListByRole(models.UserRoleAdmin, "")
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}
