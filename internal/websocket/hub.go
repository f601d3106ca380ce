package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/cache"
)

// Hub maintains the set of connected moderator clients and fans the
// moderation feed out to them
type Hub struct {
	// Registered clients
	clients map[uuid.UUID]*Client

	// Outbound feed events
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Redis client for pub/sub
	redis *cache.RedisClient

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(redis *cache.RedisClient) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redis,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	go h.subscribeToFeed()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.userID] = client
			h.mu.Unlock()
			log.Printf("Moderator connected to feed: %s", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("Moderator disconnected from feed: %s", client.userID)

		case message := <-h.broadcast:
			h.mu.Lock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// subscribeToFeed relays the Redis moderation feed into the broadcast
// channel
func (h *Hub) subscribeToFeed() {
	ps := h.redis.SubscribeToFeed()
	defer ps.Close()

	for msg := range ps.Channel() {
		h.broadcast <- []byte(msg.Payload)
	}
}
