package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/sim"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one frame of the websocket stream.
type Message struct {
	Type string    `json:"type"` // nodes, alerts, sources, stat, tick
	Time time.Time `json:"time"`
	Data any       `json:"data"`
}

// StatData is the payload of a "stat" message.
type StatData struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Hub fans the clock's sink calls out to websocket clients. Sink methods
// never block: a client whose buffer is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	broadcast  chan Message
	register   chan *client
	unregister chan string
	done       chan struct{}

	now    func() time.Time
	logger *zap.Logger
}

// NewHub creates an idle hub; a nil logger discards.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*client),
		broadcast:  make(chan Message, 256),
		register:   make(chan *client),
		unregister: make(chan string),
		done:       make(chan struct{}),
		now:        time.Now,
		logger:     logger.Named("ws"),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("client", c.id), zap.Int("total", n))

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				delete(h.clients, id)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected", zap.String("client", id), zap.Int("total", n))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- msg:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client, dropping it if the hub is
// saturated. After Run has returned messages are discarded.
func (h *Hub) Broadcast(msg Message) {
	select {
	case <-h.done:
		return
	default:
	}
	if msg.Time.IsZero() {
		msg.Time = h.now()
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping message", zap.String("type", msg.Type))
	}
}

func (h *Hub) RenderNodes(nodes []model.Node) {
	h.Broadcast(Message{Type: "nodes", Data: nodes})
}

func (h *Hub) RenderAlerts(alerts []model.Alert) {
	h.Broadcast(Message{Type: "alerts", Data: alerts})
}

func (h *Hub) RenderTopSources(sources []model.TopSource) {
	h.Broadcast(Message{Type: "sources", Data: sources})
}

func (h *Hub) UpdateStat(name, text string) {
	h.Broadcast(Message{Type: "stat", Data: StatData{Name: name, Text: text}})
}

func (h *Hub) ObserveTick(snap sim.Snapshot) {
	h.Broadcast(Message{Type: "tick", Time: snap.Time, Data: snap})
}

// ServeWS upgrades the request and pumps messages to the new client. The
// first frame is a "tick" message carrying initial.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial sim.Snapshot) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
	c.send <- Message{Type: "tick", Time: h.now(), Data: initial}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards client frames and unregisters on close.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c.id:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Warn("write failed", zap.String("client", c.id), zap.Error(err))
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
