package connectionhub

import (
	wsmodels "idea-portal-backend/models/ws"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Conn часть websocket соединения, нужная сессии
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

type Provider interface {
	AddClient(userID string, conn Conn)
	DeleteClient(userID string)
	Broadcast(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
	ConnectedCount() int
}

var Instance Provider

func Init() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return &impl{
		clients: map[string]*clientSession{},
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]*clientSession //map[userID]
}

func (i *impl) DeleteClient(userID string) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if ok {
		delete(i.clients, userID)
	}
	i.mu.Unlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) AddClient(userID string, conn Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
}

// Broadcast не ждёт медленных клиентов: при заполненном буфере событие для них теряется
func (i *impl) Broadcast(msg wsmodels.ServerMessage) {
	if msg.Time == "" {
		msg.Time = time.Now().Format("02.01.2006 15:04:05")
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	for userID, sess := range i.clients {
		if !sess.offer(msg) {
			log.
				WithField("user_id", userID).
				WithField("event", msg.Code).
				Warn("буфер клиента переполнен, событие пропущено")
		}
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.clients[userID]
	return ok
}

func (i *impl) ConnectedCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.clients)
}
