package lock

import (
	"context"
	"sync"
	"time"
)

const retryInterval = 20 * time.Millisecond

var held sync.Map

// WithDelay выполняет safeCode под блокировкой key, ожидая её не дольше wait.
// success=false, если блокировку получить не удалось: safeCode не вызывался.
// Блокировка действует в пределах одного процесса.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	if !acquire(ctx, key, wait) {
		return false, nil
	}
	defer held.Delete(key)
	return true, safeCode()
}

func acquire(ctx context.Context, key string, wait time.Duration) bool {
	if tryAcquire(key) {
		return true
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	retry := time.NewTicker(retryInterval)
	defer retry.Stop()
	for {
		select {
		case <-deadline.C:
			return false
		case <-ctx.Done():
			return false
		case <-retry.C:
			if tryAcquire(key) {
				return true
			}
		}
	}
}

func tryAcquire(key string) bool {
	_, loaded := held.LoadOrStore(key, struct{}{})
	return !loaded
}
