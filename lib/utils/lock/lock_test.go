package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run("код под одним ключом не выполняется параллельно", func(t *testing.T) {
		var active, maxActive int32
		wg := sync.WaitGroup{}
		for n := 0; n < 5; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := WithDelay(context.Background(), "otp:EMP-1", time.Second, func() error {
					cur := atomic.AddInt32(&active, 1)
					for {
						old := atomic.LoadInt32(&maxActive)
						if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&active, -1)
					return nil
				})
				require.True(t, ok)
				require.NoError(t, err)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxActive)
	})
	t.Run("таймаут ожидания", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "busy", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		ok, err := WithDelay(context.Background(), "busy", 30*time.Millisecond, func() error { return nil })
		require.False(t, ok)
		require.NoError(t, err)
		close(release)
	})
}
