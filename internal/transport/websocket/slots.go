package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"medbook/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
	eventBuffer    = 256
)

// ClientMessage lets a connected client change which doctors it follows.
type ClientMessage struct {
	Action   string `json:"action"`
	DoctorID int64  `json:"doctor_id"`
}

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

type Client struct {
	id   string
	hub  *SlotHub
	conn *websocket.Conn
	send chan []byte
}

type subscription struct {
	client    *Client
	doctorID  int64
	subscribe bool
}

// SlotHub pushes availability changes to clients watching a doctor's
// calendar. All subscription state is owned by the Run loop.
type SlotHub struct {
	clients  map[*Client]map[int64]struct{}
	byDoctor map[int64]map[*Client]struct{}

	register      chan *Client
	unregister    chan *Client
	subscriptions chan subscription
	events        chan domain.SlotEvent
	// closed when Run returns; sends to the channels above select on it
	done chan struct{}

	// guards counts, which mirrors byDoctor sizes for readers outside Run
	mutex  sync.RWMutex
	counts map[int64]int

	logger *zap.Logger
}

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

func NewSlotHub(logger *zap.Logger) *SlotHub {
	return &SlotHub{
		clients:       make(map[*Client]map[int64]struct{}),
		byDoctor:      make(map[int64]map[*Client]struct{}),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscriptions: make(chan subscription),
		events:        make(chan domain.SlotEvent, eventBuffer),
		done:          make(chan struct{}),
		counts:        make(map[int64]int),
		logger:        logger,
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *SlotHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = make(map[int64]struct{})
			h.logger.Debug("slot subscriber connected",
				zap.String("client_id", client.id),
				zap.Int("clients", len(h.clients)),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug("slot subscriber disconnected",
					zap.String("client_id", client.id),
					zap.Int("clients", len(h.clients)),
				)
			}

		case sub := <-h.subscriptions:
			h.applySubscription(sub)

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// PublishSlotEvent queues an event for delivery. It never blocks; when the
// queue is full the event is dropped and clients catch up on their next read.
func (h *SlotHub) PublishSlotEvent(event domain.SlotEvent) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("slot event queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.Int64("doctor_id", event.DoctorID),
		)
	}
}

// Subscribers returns how many clients currently follow doctorID.
func (h *SlotHub) Subscribers(doctorID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.counts[doctorID]
}

// subscribe hands sub to the Run loop. It returns false once the hub has
// stopped.
func (h *SlotHub) subscribe(sub subscription) bool {
	select {
	case h.subscriptions <- sub:
		return true
	case <-h.done:
		return false
	}
}

func (h *SlotHub) applySubscription(sub subscription) {
	doctors, ok := h.clients[sub.client]
	if !ok {
		return
	}

	if sub.subscribe {
		if _, dup := doctors[sub.doctorID]; dup {
			return
		}
		doctors[sub.doctorID] = struct{}{}
		if h.byDoctor[sub.doctorID] == nil {
			h.byDoctor[sub.doctorID] = make(map[*Client]struct{})
		}
		h.byDoctor[sub.doctorID][sub.client] = struct{}{}
	} else {
		if _, had := doctors[sub.doctorID]; !had {
			return
		}
		delete(doctors, sub.doctorID)
		h.removeFromDoctor(sub.client, sub.doctorID)
	}
	h.syncCount(sub.doctorID)
}

func (h *SlotHub) deliver(event domain.SlotEvent) {
	watchers := h.byDoctor[event.DoctorID]
	if len(watchers) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode slot event", zap.Error(err))
		return
	}

	for client := range watchers {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("slot subscriber too slow, disconnecting", zap.String("client_id", client.id))
			h.drop(client)
		}
	}
}

func (h *SlotHub) drop(client *Client) {
	for doctorID := range h.clients[client] {
		h.removeFromDoctor(client, doctorID)
		h.syncCount(doctorID)
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *SlotHub) removeFromDoctor(client *Client, doctorID int64) {
	delete(h.byDoctor[doctorID], client)
	if len(h.byDoctor[doctorID]) == 0 {
		delete(h.byDoctor, doctorID)
	}
}

func (h *SlotHub) syncCount(doctorID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if n := len(h.byDoctor[doctorID]); n > 0 {
		h.counts[doctorID] = n
	} else {
		delete(h.counts, doctorID)
	}
}

// HandleWebSocket upgrades the request and subscribes the connection to the
// doctor named by the doctor_id query parameter, if any.
func (h *SlotHub) HandleWebSocket(c *gin.Context) {
	var initial int64
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor_id"})
			return
		}
		initial = id
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	if initial > 0 {
		h.subscribe(subscription{client: client, doctorID: initial, subscribe: true})
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.DoctorID <= 0 {
			c.hub.logger.Debug("ignoring malformed client message")
			continue
		}

		switch msg.Action {
		case ActionSubscribe:
			if !c.hub.subscribe(subscription{client: c, doctorID: msg.DoctorID, subscribe: true}) {
				return
			}
		case ActionUnsubscribe:
			if !c.hub.subscribe(subscription{client: c, doctorID: msg.DoctorID}) {
				return
			}
		default:
			c.hub.logger.Debug("unknown client action", zap.String("action", msg.Action))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
