package fiberlog

import "github.com/sirupsen/logrus"

// Config настройки логирования запросов
type Config struct {
	// Logger nil - стандартный логгер logrus
	Logger *logrus.Logger
	// Tags поля, попадающие в запись лога
	Tags []string
	// SkipPaths маршруты без записи в лог (например /metrics)
	SkipPaths []string
}

// ConfigDefault статус, время, метод, путь и id запроса
var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		RequestID,
	},
}

func (c Config) skipSet() map[string]struct{} {
	skip := make(map[string]struct{}, len(c.SkipPaths))
	for _, p := range c.SkipPaths {
		skip[p] = struct{}{}
	}
	return skip
}
