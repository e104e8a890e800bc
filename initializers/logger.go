package initializers

import (
	"idea-portal-backend/config"
	"idea-portal-backend/fiberlog"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func jsonFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

// InitLogger вызывается после загрузки конфигурации
func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	var out io.Writer = os.Stdout
	if config.Conf.Log.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   config.Conf.Log.File,
			MaxSize:    config.Conf.Log.MaxSizeMb,
			MaxBackups: config.Conf.Log.MaxBackups,
			Compress:   true,
		})
	}

	log.SetFormatter(jsonFormatter())
	log.SetOutput(out)
	log.SetLevel(level)
	if err != nil {
		log.WithField("level", config.Conf.Log.Level).Warn("неизвестный уровень логирования, используется info")
	}

	logger := log.New()
	logger.SetFormatter(jsonFormatter())
	logger.SetOutput(out)
	logger.SetLevel(level)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagUser,
			fiberlog.TagError,
			fiberlog.RequestID,
		},
		SkipPaths: []string{"/metrics"},
	}
}
