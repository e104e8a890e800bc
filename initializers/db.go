package initializers

import (
	"idea-portal-backend/config"
	"idea-portal-backend/db"

	log "github.com/sirupsen/logrus"
)

func InitDBConnection() {
	conf := config.Conf.Database
	err := db.Connect(conf.Host, conf.Port, conf.Name, conf.User, conf.Password,
		*conf.DebugMode, *conf.MigrateOnStart)
	if err != nil {
		log.WithError(err).WithField("host", conf.Host).Fatal("ошибка подключения к postgres")
	}
	db.InitPreload(conf.SeedFile)
}
