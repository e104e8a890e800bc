package relocationworker

import (
	"context"
	ideahandler "idea-portal-backend/lib/idea"
	baseworker "idea-portal-backend/lib/utils/base-worker"
	"time"
)

func StartWorker(ctx context.Context, interval, gracePeriod time.Duration) {
	i := newWorker(ideahandler.Instance, interval, gracePeriod, time.Now)
	go i.Run(ctx, i.handle)
}

func newWorker(ideas ideahandler.Provider, interval, gracePeriod time.Duration, now func() time.Time) *impl {
	return &impl{
		BaseImpl:    *baseworker.NewInstance("IdeaRelocationWorker", 20*time.Second, interval),
		ideas:       ideas,
		gracePeriod: gracePeriod,
		now:         now,
	}
}

type impl struct {
	baseworker.BaseImpl
	ideas       ideahandler.Provider
	gracePeriod time.Duration
	now         func() time.Time
}

// handle свежие отметки не трогаем: перенос, вероятно, ещё выполняет запрос
func (i impl) handle(ctx context.Context) error {
	done, err := i.ideas.ResumeRelocations(ctx, i.now().Add(-i.gracePeriod))
	if err != nil {
		return err
	}
	if done > 0 {
		i.GetLogger().WithField("count", done).Info("завершены прерванные переносы идей в архив")
	}
	return nil
}
