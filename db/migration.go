package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "docflow-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Document")
	}
	if err := DB.AutoMigrate(&dbmodels.DocumentVersion{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры DocumentVersion")
	}
	if err := DB.AutoMigrate(&dbmodels.Approval{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Approval")
	}
	if err := DB.AutoMigrate(&dbmodels.Task{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Task")
	}
	if err := DB.AutoMigrate(&dbmodels.PolicyAcceptance{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PolicyAcceptance")
	}
	if err := DB.AutoMigrate(&dbmodels.Activity{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Activity")
	}
	if err := DB.AutoMigrate(&dbmodels.Notification{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Notification")
	}
	if err := DB.AutoMigrate(&dbmodels.FileStorage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FileStorage")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
