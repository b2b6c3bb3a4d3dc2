package websocket

import (
	"log"
	"sync"

	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// FeedEvent is pushed to every connected dashboard when a payment is
// created or changes status.
type FeedEvent struct {
	Type    string         `json:"type"`
	Payment models.Payment `json:"payment"`
}

const (
	FeedPaymentCreated  = "payment.created"
	FeedPaymentCaptured = "payment.captured"
	FeedPaymentUpdated  = "payment.updated"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Hub fans payment events out to connected admin dashboards.
type Hub struct {
	clients   map[*websocket.Conn]uuid.UUID
	clientsMu sync.RWMutex

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan FeedEvent
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan FeedEvent, 16),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			log.Printf("Feed client registered: %s", client.UserID)
			h.clientsMu.Lock()
			h.clients[client.Conn] = client.UserID
			h.clientsMu.Unlock()
		case client := <-h.Unregister:
			log.Printf("Feed client unregistered: %s", client.UserID)
			h.clientsMu.Lock()
			delete(h.clients, client.Conn)
			h.clientsMu.Unlock()
		case event := <-h.Broadcast:
			h.clientsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.clientsMu.RUnlock()

			for _, conn := range conns {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending feed event: %v", err)
					conn.Close()
					h.clientsMu.Lock()
					delete(h.clients, conn)
					h.clientsMu.Unlock()
				}
			}
		}
	}
}

// Publish queues an event without blocking the request that produced it.
func (h *Hub) Publish(eventType string, payment models.Payment) {
	select {
	case h.Broadcast <- FeedEvent{Type: eventType, Payment: payment}:
	default:
		log.Println("⚠️ Feed broadcast buffer full, dropping event")
	}
}
