package kitchen

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/observability/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server pushes kitchen tickets to the expediter displays over a
// dedicated WebSocket listener, separate from the API port. Tickets go
// out in the order they were issued; a display that asks for a station
// only receives tickets with at least one line for that station.
type Server struct {
	clients map[*client]bool
	mu      sync.Mutex
	httpSrv *http.Server
	log     *zap.Logger
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	station string
}

// NewServer creates a kitchen feed server.
func NewServer(log *zap.Logger) *Server {
	return &Server{
		clients: make(map[*client]bool),
		log:     log,
	}
}

// Bind subscribes the server to the subjects the kitchen displays
// consume: new tickets and status changes (so a display can clear a
// ticket when the order is canceled or handed off).
func (s *Server) Bind(mq queue.MessageQueue) error {
	if err := mq.Subscribe(queue.SubjectTicketIssued, s.handleTicket); err != nil {
		return fmt.Errorf("subscribe tickets: %w", err)
	}
	if err := mq.Subscribe(queue.SubjectOrderStatus, s.handleStatus); err != nil {
		return fmt.Errorf("subscribe order status: %w", err)
	}
	return nil
}

// Start serves the feed on the given port. Blocks until the listener
// fails or Stop is called.
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/kitchen/feed", s.handleFeed)

	addr := fmt.Sprintf(":%d", port)
	s.log.Info("Starting kitchen feed server", zap.String("addr", addr))

	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s.httpSrv.ListenAndServe()
}

// Stop closes all display connections and the listener.
func (s *Server) Stop() {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	s.log.Info("Kitchen feed server stopped")
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Kitchen feed upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, 64),
		station: r.URL.Query().Get("station"),
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	s.log.Info("Kitchen display connected",
		zap.String("station", c.station),
		zap.String("remote", r.RemoteAddr),
	)

	go s.writePump(c)
	s.readPump(c)
}

// readPump keeps the connection alive; displays never send anything
// meaningful upstream.
func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		c.conn.Close()
		s.log.Info("Kitchen display disconnected", zap.String("station", c.station))
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Kitchen feed read error", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// handleTicket fans a new ticket out to the displays. Delivery order
// follows issue order: the queue hands tickets to this handler one at
// a time and every send channel is drained in FIFO order.
func (s *Server) handleTicket(data []byte) error {
	var ticket domain.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return fmt.Errorf("decode ticket: %w", err)
	}
	telemetry.KitchenFeedMessagesTotal.WithLabelValues("ticket", "in").Inc()

	envelope, err := json.Marshal(feedMessage{Event: "ticket", Ticket: &ticket})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if c.station != "" && !ticketHasStation(&ticket, c.station) {
			continue
		}
		s.deliver(c, "ticket", envelope)
	}
	return nil
}

// handleStatus relays status changes so displays can clear tickets for
// canceled or handed-off orders. Stations cannot be matched here, so
// every display gets the event.
func (s *Server) handleStatus(data []byte) error {
	var event struct {
		OrderID string `json:"order_id"`
		Number  int    `json:"number"`
		To      string `json:"to"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode status event: %w", err)
	}

	switch domain.OrderStatus(event.To) {
	case domain.OrderStatusCanceled, domain.OrderStatusReady:
	default:
		return nil
	}
	telemetry.KitchenFeedMessagesTotal.WithLabelValues("status", "in").Inc()

	envelope, err := json.Marshal(feedMessage{
		Event:   "status",
		OrderID: event.OrderID,
		Number:  event.Number,
		Status:  event.To,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.deliver(c, "status", envelope)
	}
	return nil
}

func (s *Server) deliver(c *client, event string, message []byte) {
	select {
	case c.send <- message:
		telemetry.KitchenFeedMessagesTotal.WithLabelValues(event, "out").Inc()
	default:
		// A display that stops draining loses its connection; it
		// reconnects and repaints from the open-orders endpoint.
		delete(s.clients, c)
		close(c.send)
	}
}

func ticketHasStation(t *domain.Ticket, station string) bool {
	for _, line := range t.Items {
		if line.Station == station {
			return true
		}
	}
	return false
}

// feedMessage is the wire frame the displays consume.
type feedMessage struct {
	Event   string         `json:"event"`
	Ticket  *domain.Ticket `json:"ticket,omitempty"`
	OrderID string         `json:"order_id,omitempty"`
	Number  int            `json:"number,omitempty"`
	Status  string         `json:"status,omitempty"`
}
