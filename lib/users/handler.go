package usershandler

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"docflow-backend/config"
	"docflow-backend/db"
	"docflow-backend/lib/apperr"
	usersstore "docflow-backend/lib/users/store"
	authutils "docflow-backend/lib/utils/auth-utils"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
	authapimodels "docflow-backend/models/api/auth"
	usersapimodels "docflow-backend/models/api/users"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
	Refresh(refreshToken string) (response authapimodels.JWTResponse, err error)
	Create(data usersapimodels.CreateUserData) (*usersapimodels.UserView, error)
	GetByID(userID string) (*usersapimodels.UserView, error)
	List(pagination apimodels.Pagination) ([]usersapimodels.UserView, error)
	// SeedAdmin создает учетную запись администратора при пустой БД
	SeedAdmin() error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, apperr.StorageUnavailable(err)
	}
	if user == nil {
		logger.Debug("пользователь с такой почтой не найден")
		return authapimodels.JWTResponse{}, apperr.Unauthenticated()
	}
	if authutils.GetMD5Hash(password) != user.Password {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, apperr.Unauthenticated()
	}
	response, err := i.tokenPair(*user)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	err = i.store.SetLastLogin(user.ID)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления даты последнего входа")
	}
	return response, nil
}

func (i impl) Refresh(refreshToken string) (authapimodels.JWTResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(config.Conf.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return authapimodels.JWTResponse{}, apperr.Unauthenticated()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authapimodels.JWTResponse{}, apperr.Unauthenticated()
	}
	userID, _ := claims["sub"].(string)
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, apperr.StorageUnavailable(err)
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, apperr.Unauthenticated()
	}
	return i.tokenPair(*user)
}

func (i impl) tokenPair(user dbmodels.User) (authapimodels.JWTResponse, error) {
	accessToken, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role, user.Department)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (i impl) Create(data usersapimodels.CreateUserData) (*usersapimodels.UserView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	exist, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if exist != nil {
		return nil, errors.New("пользователь с такой почтой уже существует")
	}
	rec := dbmodels.User{
		Password:   authutils.GetMD5Hash(data.Password),
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Email:      data.Email,
		Role:       data.Role,
		Department: data.Department,
		IsActive:   true,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return i.GetByID(id)
}

func (i impl) GetByID(userID string) (*usersapimodels.UserView, error) {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	if rec == nil {
		return nil, &apperr.Error{
			Kind:     apperr.KindNotFound,
			EntityID: userID,
			Message:  "пользователь не найден",
		}
	}
	view := usersapimodels.UserConvert(*rec)
	return &view, nil
}

func (i impl) List(pagination apimodels.Pagination) ([]usersapimodels.UserView, error) {
	page, limit := pagination.GetPage()
	list, err := i.store.List(page, limit)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	result := make([]usersapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, usersapimodels.UserConvert(rec))
	}
	return result, nil
}

func (i impl) SeedAdmin() error {
	count, err := i.store.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if config.Conf.Auth.AdminPassword == "" {
		log.Warn("БД пуста, но пароль администратора не задан - учетная запись не создана")
		return nil
	}
	rec := dbmodels.User{
		Password:  authutils.GetMD5Hash(config.Conf.Auth.AdminPassword),
		FirstName: "Администратор",
		LastName:  models.SystemUser,
		Email:     config.Conf.Auth.AdminEmail,
		Role:      models.UserRoleAdmin,
		IsActive:  true,
	}
	rec.ID = uuid.New().String()
	_, err = i.store.Create(rec)
	if err != nil {
		return errors.Wrap(err, "ошибка создания учетной записи администратора")
	}
	log.Info("создана учетная запись администратора")
	return nil
}
