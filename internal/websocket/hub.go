package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/router"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "attendant:monitor"

// Hub fans routed turns out to every connected monitor client. With Redis
// configured, turns routed on other instances are relayed too.
type Hub struct {
	// owned by Run
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu    sync.RWMutex
	count int

	rdb    *redis.Client
	origin string
	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount()
			h.logger.Info("HUB", "Monitor client registered", map[string]interface{}{"client_id": client.ID})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("HUB", "Monitor client unregistered", map[string]interface{}{"client_id": client.ID})
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					h.logger.Warn("HUB", "Client Send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
					h.drop(client)
				}
			}
		}
	}
}

// attach and detach give up once the hub has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// ClientCount is the number of monitor clients connected to this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// BroadcastTurn sends t to local clients and relays it to other instances.
func (h *Hub) BroadcastTurn(ctx context.Context, t router.Turn) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "turn",
		"data": t,
	})
	if err != nil {
		h.logger.Error("HUB", "Failed to encode turn", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(ctx, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.origin, Message: data})
		if err := h.rdb.Publish(ctx, clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("HUB", "Failed to relay turn", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliver(ctx context.Context, data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	case <-ctx.Done():
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("HUB", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// already delivered locally
			if payload.Origin == h.origin {
				continue
			}
			h.deliver(ctx, payload.Message)
		}
	}
}
