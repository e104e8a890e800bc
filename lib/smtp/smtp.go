package smtp

import (
	"bytes"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

type Provider interface {
	SendEMail(to, subject, body string) error
}

func Connect(user, password, host, port string, tlsEnabled bool, from, senderName string) error {
	if from == "" {
		from = user
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
		from:       from,
		senderName: senderName,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
	from       string
	senderName string
}

func (i impl) SendEMail(to, subject, body string) (err error) {
	logger := log.
		WithField("sender", i.from).
		WithField("recipient", to)
	if i.user == "" || i.host == "" || i.port == "" {
		logger.Warn("Письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	mime, err := BuildMessage(i.from, i.senderName, to, subject, body)
	if err != nil {
		return err
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	addr := i.host + ":" + i.port
	if i.tlsEnabled {
		err = smtp.SendMailTLS(addr, auth, i.from, []string{to}, bytes.NewReader(mime))
	} else {
		err = smtp.SendMail(addr, auth, i.from, []string{to}, bytes.NewReader(mime))
	}
	if err != nil {
		logger.WithError(err).Error("Ошибка отправки сообщения")
		return errors.Wrap(err, "ошибка отправки письма")
	}
	logger.Info("письмо отправлено")
	return nil
}

// BuildMessage собирает MIME письмо (text/plain, UTF-8)
func BuildMessage(from, senderName, to, subject, body string) ([]byte, error) {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", from, senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	buf := bytes.Buffer{}
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования письма")
	}
	return buf.Bytes(), nil
}
