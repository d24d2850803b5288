package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/seu-repo/comanda/internal/adapter/queue"
)

// Hub fans order and menu events out to the front-of-house dashboards.
// Every connected client sees the same stream; filtering happens on
// the client side.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages to fan out.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.Mutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send chan []byte
	// User ID
	userID string
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop it rather than block the floor.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// BindQueue subscribes the hub to the subjects the dashboards care
// about. Events pass through verbatim.
func (h *Hub) BindQueue(mq queue.MessageQueue) error {
	subjects := []string{
		queue.SubjectOrderCreated,
		queue.SubjectOrderStatus,
		queue.SubjectMenuAvailability,
	}
	for _, subject := range subjects {
		if err := mq.Subscribe(subject, func(data []byte) error {
			h.Broadcast(data)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// AddClient registers the connection and blocks until the peer goes
// away, which is what the fiber websocket handler expects.
func (h *Hub) AddClient(conn *websocket.Conn, userID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
	client.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The dashboard stream is push only; the read loop just keeps
		// the connection alive and notices the close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
	}
}
