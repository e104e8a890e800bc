package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner выполняет fn атомарно, если хранилище это умеет.
// Операции внутри fn должны использовать переданный ctx.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Transactional() bool
}

func NewTxRunner(client *mongo.Client, enabled bool) TxRunner {
	if !enabled || client == nil {
		return DirectRunner{}
	}
	return sessionRunner{client: client}
}

type sessionRunner struct {
	client *mongo.Client
}

func (r sessionRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "ошибка открытия сессии MongoDB")
	}
	defer session.EndSession(ctx)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r sessionRunner) Transactional() bool {
	return true
}

// DirectRunner без транзакций (standalone mongod). Атомарность обеспечивает сам вызывающий.
type DirectRunner struct{}

func (DirectRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (DirectRunner) Transactional() bool {
	return false
}
