package initializers

import (
	"idea-portal-backend/config"
	"idea-portal-backend/mongodb"
)

func InitMongo() {
	err := mongodb.Connect(config.Conf.Mongo.URI, config.Conf.Mongo.Database, *config.Conf.Mongo.UseTransactions)
	if err != nil {
		panic(err.Error())
	}
}
