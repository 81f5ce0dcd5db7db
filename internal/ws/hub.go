package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the part of *websocket.Conn the hub needs
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one open websocket belonging to a user
type Client struct {
	UserID uint
	Conn   Conn
}

// Event is the envelope pushed to browsers
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Publisher delivers events to every open connection of a user
type Publisher interface {
	Publish(userID uint, event Event)
}

type delivery struct {
	userID  uint
	message []byte
}

type Hub struct {
	clients    map[uint]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	deliver    chan delivery
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mutex.Unlock()
			log.Printf("WS client connected (user %d)", client.UserID)

		case client := <-h.Unregister:
			h.mutex.Lock()
			h.remove(client)
			h.mutex.Unlock()

		case d := <-h.deliver:
			h.mutex.Lock()
			for client := range h.clients[d.userID] {
				if err := client.Conn.WriteMessage(websocket.TextMessage, d.message); err != nil {
					h.remove(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held
func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.UserID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	client.Conn.Close()
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
}

// Publish queues an event for the user's connections. It never blocks the
// caller: when the queue is full the event is dropped and polling catches up.
func (h *Hub) Publish(userID uint, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS marshal %s: %v", event.Type, err)
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, message: msg}:
	default:
		log.Printf("WS queue full, dropping %s for user %d", event.Type, userID)
	}
}

// IsOnline reports whether the user has at least one open connection
func (h *Hub) IsOnline(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID]) > 0
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(uint, Event) {}
