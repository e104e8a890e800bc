package db

import (
	dbmodels "idea-portal-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.UserCredential{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры UserCredential")
	}
	if err := DB.AutoMigrate(&dbmodels.AdminCredential{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AdminCredential")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
