package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr      string `default:"" env:"APP_HOST"`
		Port            int    `default:"5000"  env:"APP_PORT"`
		BodyLimitMb     int    `default:"20" env:"APP_BODY_LIMIT_MB"`
		DefaultLanguage string `default:"en" env:"APP_DEFAULT_LANGUAGE"`
		SwaggerFile     string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
	}
	Log struct {
		Level      string `default:"info" env:"LOG_LEVEL"`
		File       string `default:"" env:"LOG_FILE"` // пусто - только stdout
		MaxSizeMb  int    `default:"100" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `default:"5" env:"LOG_MAX_BACKUPS"`
	}
	// Database учётные записи сотрудников и администраторов (OTP)
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"idea-portal" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		SeedFile       string `default:"" env:"DB_SEED_FILE"` // csv с учётными записями
	}
	// Mongo хранилище идей и архив отклонённых идей
	Mongo struct {
		URI             string `default:"mongodb://localhost:27017" env:"MONGO_URI"`
		Database        string `default:"Forms" env:"MONGO_DATABASE"`
		UseTransactions *bool  `default:"false" env:"MONGO_USE_TRANSACTIONS"` // требует replica set
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"EMAIL_USER"`
		SenderName string `default:"Idea Portal" env:"EMAIL_SENDER_NAME"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"idea-attachments" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Auth struct {
		JWTSecret      string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"28800" env:"JWT_EXPIRE_IN_SEC"`
	}
	Otp struct {
		TTLInSec          int `default:"300" env:"OTP_TTL_IN_SEC"`
		RequestsPerMinute int `default:"3" env:"OTP_REQUESTS_PER_MINUTE"`
	}
	Notification struct {
		QueueSize      int `default:"256" env:"NOTIFICATION_QUEUE_SIZE"`
		SendsPerSecond int `default:"5" env:"NOTIFICATION_SENDS_PER_SECOND"`
	}
	Relocation struct {
		IntervalInSec    int `default:"60" env:"RELOCATION_INTERVAL_IN_SEC"`
		GracePeriodInSec int `default:"30" env:"RELOCATION_GRACE_PERIOD_IN_SEC"`
	}
	Sentry struct {
		DSN         string `default:"" env:"SENTRY_DSN"`
		Environment string `default:"development" env:"SENTRY_ENVIRONMENT"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не найден, используются переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
