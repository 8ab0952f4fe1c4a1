package notifyhandler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"docflow-backend/config"
	"docflow-backend/db"
	notifystore "docflow-backend/lib/notify/store"
	"docflow-backend/lib/smtp"
	usersstore "docflow-backend/lib/users/store"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	wsmodels "docflow-backend/models/ws"
)

type Provider interface {
	// Send доставляет событие каждому адресату: онлайн - пуш через
	// websocket, офлайн - буфер в БД до следующего подключения.
	// Доставка не влияет на исход породившей событие операции.
	Send(event models.NotificationEvent)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: notifystore.NewInstance(db.DB),
		users: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store notifystore.Provider
	users usersstore.Provider
}

func (i impl) Send(event models.NotificationEvent) {
	for _, userID := range event.TargetUserIDs {
		logger := log.
			WithField("user_id", userID).
			WithField("notification_type", event.Type)
		if connectionhub.Instance != nil && connectionhub.Instance.IsConnected(userID) {
			connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
				ToUserID: userID,
				Time:     time.Now().Format("02.01.2006 15:04:05"),
				Type:     string(event.Type),
				Title:    event.Title,
				Msg:      event.Message,
				Link:     event.Link,
			})
		} else {
			_, err := i.store.Create(dbmodels.Notification{
				UserID: userID,
				Type:   event.Type,
				Title:  event.Title,
				Msg:    event.Message,
				Link:   event.Link,
			})
			if err != nil {
				logger.WithError(err).Error("ошибка сохранения события для отложенной отправки")
			}
		}
		i.sendEmail(userID, event)
	}
}

func (i impl) sendEmail(userID string, event models.NotificationEvent) {
	if config.Conf.Notify.EmailEnabled == nil || !*config.Conf.Notify.EmailEnabled {
		return
	}
	logger := log.WithField("user_id", userID)
	user, err := i.users.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения адресата события")
		return
	}
	if user == nil || user.Email == "" {
		return
	}
	err = smtp.Instance.SendEMail(config.Conf.Notify.EmailFrom, user.Email, event.Message, event.Title)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки письма с событием")
	}
}
