package usersapimodels

import (
	"github.com/pkg/errors"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type CreateUserData struct {
	Email      string          `json:"email"`      // почта, уникальна
	Password   string          `json:"password"`   // пароль
	FirstName  string          `json:"first_name"` // имя
	LastName   string          `json:"last_name"`  // фамилия
	Role       models.UserRole `json:"role"`       // роль
	Department string          `json:"department"` // подразделение
}

func (r CreateUserData) Validate() error {
	if r.Email == "" {
		return errors.New("не указана почта")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	if !r.Role.IsValid() {
		return errors.Errorf("неизвестная роль: %v", r.Role)
	}
	return nil
}

type UserView struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Role       models.UserRole `json:"role"`
	RoleName   string          `json:"role_name"`
	Department string          `json:"department"`
	IsActive   bool            `json:"is_active"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:         rec.ID,
		Email:      rec.Email,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Role:       rec.Role,
		RoleName:   rec.Role.ToHuman(),
		Department: rec.Department,
		IsActive:   rec.IsActive,
	}
}
