package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the write side of a websocket connection.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is pushed to every client of a tenant after a committed change.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

type subscription struct {
	tenantID uuid.UUID
	client   Client
}

type envelope struct {
	tenantID uuid.UUID
	payload  []byte
}

// Hub fans events out to the connected clients of one tenant only.
type Hub struct {
	clients    map[uuid.UUID]map[Client]bool
	register   chan subscription
	unregister chan subscription
	broadcast  chan envelope
	mutex      sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[Client]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		broadcast:  make(chan envelope, 256),
		log:        log,
	}
}

func (h *Hub) Register(tenantID uuid.UUID, c Client) {
	h.register <- subscription{tenantID, c}
}

func (h *Hub) Unregister(tenantID uuid.UUID, c Client) {
	h.unregister <- subscription{tenantID, c}
}

// Publish queues event for the tenant's clients. It never blocks the caller;
// when the queue is full the event is dropped.
func (h *Hub) Publish(tenantID uuid.UUID, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode ws event", zap.String("action", event.Action), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- envelope{tenantID, payload}:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("action", event.Action))
	}
}

// ClientCount returns the number of connected clients of a tenant.
func (h *Hub) ClientCount(tenantID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[tenantID])
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case sub := <-h.register:
			h.mutex.Lock()
			if h.clients[sub.tenantID] == nil {
				h.clients[sub.tenantID] = make(map[Client]bool)
			}
			h.clients[sub.tenantID][sub.client] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.String("tenant_id", sub.tenantID.String()))

		case sub := <-h.unregister:
			h.mutex.Lock()
			h.remove(sub.tenantID, sub.client)
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients[msg.tenantID] {
				if err := c.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.remove(msg.tenantID, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(tenantID uuid.UUID, c Client) {
	clients := h.clients[tenantID]
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	c.Close()
	if len(clients) == 0 {
		delete(h.clients, tenantID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for tenantID, clients := range h.clients {
		for c := range clients {
			c.Close()
		}
		delete(h.clients, tenantID)
	}
}
