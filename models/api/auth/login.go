package authapimodels

import "github.com/pkg/errors"

type LoginRequest struct {
	Email    string `json:"email"`    // почта пользователя
	Password string `json:"password"` // пароль
}

func (r LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("не указана почта")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type JWTResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if r.RefreshToken == "" {
		return errors.New("не указан refresh token")
	}
	return nil
}
