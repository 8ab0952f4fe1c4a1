package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	filestorage "docflow-backend/lib/file-storage"
	s3client "docflow-backend/s3"
)

func InitS3() {
	err := s3client.Connect(context.Background())
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}

func InitFileStorage() {
	filestorage.NewInstance(s3client.Client)
}
