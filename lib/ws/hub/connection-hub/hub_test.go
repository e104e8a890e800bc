package connectionhub

import (
	wsmodels "idea-portal-backend/models/ws"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   []interface{}
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, v)
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHub(t *testing.T) {
	t.Run("событие получают все подключённые", func(t *testing.T) {
		hub := NewInstance()
		first, second := &fakeConn{}, &fakeConn{}
		hub.AddClient("admin-1", first)
		hub.AddClient("admin-2", second)
		require.Equal(t, 2, hub.ConnectedCount())

		hub.Broadcast(wsmodels.ServerMessage{Code: wsmodels.IdeaAdvancedEvent, IdeaID: "abc", Status: "ApprovedByL1Admin"})
		require.Eventually(t, func() bool { return first.received() == 1 && second.received() == 1 }, time.Second, 5*time.Millisecond)

		msg := first.msgs[0].(wsmodels.ServerMessage)
		require.Equal(t, "abc", msg.IdeaID)
		require.NotEmpty(t, msg.Time)
	})
	t.Run("повторное подключение закрывает прежнюю сессию", func(t *testing.T) {
		hub := NewInstance()
		old, fresh := &fakeConn{}, &fakeConn{}
		hub.AddClient("admin-1", old)
		hub.AddClient("admin-1", fresh)
		require.Eventually(t, old.isClosed, time.Second, 5*time.Millisecond)
		require.Equal(t, 1, hub.ConnectedCount())
	})
	t.Run("отключённый клиент событий не получает", func(t *testing.T) {
		hub := NewInstance()
		conn := &fakeConn{}
		hub.AddClient("admin-1", conn)
		hub.DeleteClient("admin-1")
		hub.DeleteClient("admin-1")
		require.False(t, hub.IsConnected("admin-1"))
		hub.Broadcast(wsmodels.ServerMessage{Code: wsmodels.IdeaRejectedEvent})
		require.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)
		require.Zero(t, conn.received())
	})
}
