package locales

import (
	"embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
)

// Init загружает все *.json и задаёт язык писем по умолчанию
func Init(defaultLangCode string) error {
	defaultLanguage, err := language.Parse(defaultLangCode)
	if err != nil {
		log.WithField("lang", defaultLangCode).Warn("не удалось разобрать код языка, используется английский")
		defaultLanguage = language.English
	}
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := localeFS.ReadDir(".")
	if err != nil {
		return errors.Wrap(err, "ошибка чтения файлов локализации")
	}
	loaded := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		if _, err = b.LoadMessageFileFS(localeFS, file.Name()); err != nil {
			return errors.Wrapf(err, "ошибка загрузки файла локализации %s", file.Name())
		}
		loaded++
	}
	if loaded == 0 {
		return errors.New("не найдено ни одного файла локализации")
	}

	mu.Lock()
	bundle = b
	localizer = i18n.NewLocalizer(b, defaultLanguage.String(), language.English.String())
	mu.Unlock()
	log.WithField("lang", defaultLanguage.String()).Infof("локализация загружена, файлов: %d", loaded)
	return nil
}

func getLocalizer() *i18n.Localizer {
	mu.RLock()
	l := localizer
	mu.RUnlock()
	if l != nil {
		return l
	}
	if err := Init(language.English.String()); err != nil {
		log.WithError(err).Error("ошибка инициализации локализации")
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	return localizer
}

// Message текст по идентификатору. При ошибке возвращается сам идентификатор.
func Message(msgID string, templateData map[string]interface{}) string {
	l := getLocalizer()
	if l == nil {
		return msgID
	}
	text, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	})
	if err != nil {
		log.WithError(err).WithField("msg_id", msgID).Error("ошибка локализации сообщения")
		return msgID
	}
	return text
}
