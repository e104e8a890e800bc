package notification

import (
	"context"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/smtp"
	initchecker "idea-portal-backend/lib/utils/init-checker"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

const (
	jobTimeout = 30 * time.Second
	// DrainTimeout сколько после остановки досылается очередь
	DrainTimeout = 5 * time.Second
)

// Message письмо одному получателю
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Job отложенное уведомление. Build выполняется в обработчике очереди,
// nil сообщение без ошибки означает, что отправлять некому.
type Job struct {
	ID    string
	Name  string
	Build func(ctx context.Context) (*Message, error)
}

// Provider доставка "выстрелил и забыл": вызывающий не ждёт отправки
// и не узнаёт о её результате
type Provider interface {
	Send(msg Message)
	Dispatch(job Job)
	Start(ctx context.Context)
	// Done закрывается, когда обработчик очереди завершил досылку после отмены ctx
	Done() <-chan struct{}
}

var Instance Provider

func NewHandler(sender smtp.Provider, queueSize, sendsPerSecond int) {
	initchecker.CheckInit("smtp", sender)
	Instance = NewInstance(sender, queueSize, sendsPerSecond)
}

func NewInstance(sender smtp.Provider, queueSize, sendsPerSecond int) Provider {
	if queueSize <= 0 {
		queueSize = 1
	}
	limiter := ratelimit.NewUnlimited()
	if sendsPerSecond > 0 {
		limiter = ratelimit.New(sendsPerSecond)
	}
	return &impl{
		sender:  sender,
		queue:   make(chan Job, queueSize),
		limiter: limiter,
		done:    make(chan struct{}),
	}
}

type impl struct {
	sender  smtp.Provider
	queue   chan Job
	limiter ratelimit.Limiter
	done    chan struct{}
}

func (i *impl) Send(msg Message) {
	i.Dispatch(Job{
		Name: "mail",
		Build: func(ctx context.Context) (*Message, error) {
			return &msg, nil
		},
	})
}

func (i *impl) Dispatch(job Job) {
	if job.ID == "" {
		job.ID = ulid.Make().String()
	}
	select {
	case i.queue <- job:
	default:
		log.
			WithField("notification_id", job.ID).
			WithField("notification", job.Name).
			Warn("очередь уведомлений переполнена, уведомление отброшено")
		metrics.Notification(metrics.ResultDropped)
	}
}

// Start запускает обработчик очереди. После отмены ctx оставшиеся
// уведомления досылаются в пределах DrainTimeout, остальные теряются.
func (i *impl) Start(ctx context.Context) {
	go i.run(ctx)
}

func (i *impl) Done() <-chan struct{} {
	return i.done
}

func (i *impl) run(ctx context.Context) {
	defer close(i.done)
	for {
		select {
		case <-ctx.Done():
			i.drain()
			return
		case job := <-i.queue:
			i.process(job)
		}
	}
}

func (i *impl) drain() {
	deadline := time.After(DrainTimeout)
	for {
		select {
		case <-deadline:
			if left := len(i.queue); left > 0 {
				log.WithField("left", left).Warn("остановка: не отправленные уведомления потеряны")
			}
			return
		case job := <-i.queue:
			i.process(job)
		default:
			return
		}
	}
}

func (i *impl) process(job Job) {
	logger := log.
		WithField("notification_id", job.ID).
		WithField("notification", job.Name)
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
			metrics.Notification(metrics.ResultFailed)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	msg, err := job.Build(ctx)
	if err != nil {
		i.fail(job, errors.Wrap(err, "ошибка подготовки уведомления"))
		return
	}
	if msg == nil || msg.Recipient == "" {
		logger.Warn("адрес получателя не найден, уведомление пропущено")
		metrics.Notification(metrics.ResultSkipped)
		return
	}
	i.limiter.Take()
	if err = i.sender.SendEMail(msg.Recipient, msg.Subject, msg.Body); err != nil {
		i.fail(job, errors.Wrapf(err, "ошибка отправки уведомления на %s", msg.Recipient))
		return
	}
	logger.WithField("recipient", msg.Recipient).Info("уведомление отправлено")
	metrics.Notification(metrics.ResultSent)
}

func (i *impl) fail(job Job, err error) {
	log.
		WithField("notification_id", job.ID).
		WithField("notification", job.Name).
		WithError(err).
		Error("уведомление не отправлено")
	metrics.Notification(metrics.ResultFailed)
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("notification", job.Name)
		scope.SetTag("notification_id", job.ID)
		sentry.CaptureException(err)
	})
}
