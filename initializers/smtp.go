package initializers

import (
	"idea-portal-backend/config"
	"idea-portal-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	if conf.Host == "" {
		log.Warn("SMTP_HOST не задан, отправка писем будет завершаться ошибкой")
	}
	err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled,
		conf.From, conf.SenderName)
	if err != nil {
		log.WithError(err).Fatal("ошибка настройки smtp")
	}
}
