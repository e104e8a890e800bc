package initializers

import (
	"context"
	"idea-portal-backend/config"
	s3client "idea-portal-backend/s3"
	"time"

	log "github.com/sirupsen/logrus"
)

// InitS3 без S3_ENDPOINT идеи принимаются без вложений
func InitS3() {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 не настроен, вложения к идеям недоступны")
		return
	}
	minioClient, err := s3client.NewClient(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).Error("S3 соединение не удалось, бакет для вложений недоступен")
	}

	s3client.Client = minioClient
	log.Info("S3 клиент успешно инициализирован")
}
