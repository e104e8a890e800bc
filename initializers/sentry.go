package initializers

import (
	"idea-portal-backend/config"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// InitSentry с пустым DSN клиент ничего не отправляет
func InitSentry() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.Conf.Sentry.DSN,
		Environment:      config.Conf.Sentry.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		log.WithError(err).Error("ошибка инициализации Sentry")
		return
	}
	if config.Conf.Sentry.DSN == "" {
		log.Info("Sentry не настроен")
	}
}
