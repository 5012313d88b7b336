package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"blackjack-lite/blackjack"
	"blackjack-lite/gesture"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 30 * time.Second
	maxReadSize = 4096
)

// SessionResolver extracts the caller's session id from the upgrade request.
type SessionResolver func(r *http.Request) (string, bool)

// GestureSampler is polled while a connection streams gestures.
type GestureSampler interface {
	Sample() gesture.Sample
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Gateway   *Gateway

	mu         sync.Mutex
	streamStop chan struct{}
	closed     bool
}

// Gateway serves the /ws endpoint: JSON game commands in, snapshots out.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	engine   *blackjack.Engine
	detector GestureSampler
	resolve  SessionResolver
	poll     time.Duration
	maxBet   int64
	upgrader websocket.Upgrader
}

type Options struct {
	MaxBet         int64
	GesturePoll    time.Duration
	AllowedOrigins []string
}

func New(engine *blackjack.Engine, detector GestureSampler, resolve SessionResolver, opts Options) *Gateway {
	if opts.GesturePoll <= 0 {
		opts.GesturePoll = 500 * time.Millisecond
	}
	origins := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = true
	}
	return &Gateway{
		connections: make(map[string]*Connection),
		engine:      engine,
		detector:    detector,
		resolve:     resolve,
		poll:        opts.GesturePoll,
		maxBet:      opts.MaxBet,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

type clientMessage struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount,omitempty"`
}

type serverMessage struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId,omitempty"`
	State     *blackjack.Snapshot `json:"state,omitempty"`
	Gesture   *gesture.Sample     `json:"gesture,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// HandleWebSocket handles WebSocket upgrade and connection
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := "", false
	if g.resolve != nil {
		sessionID, ok = g.resolve(r)
	}
	if !ok {
		sessionID = uuid.NewString()
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:        fmt.Sprintf("conn_%d", g.nextConnID),
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		Gateway:   g,
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", c.ID, total)

	snap := g.engine.Session(sessionID)
	c.send(serverMessage{Type: "snapshot", SessionID: sessionID, State: &snap})

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxReadSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("invalid message format", nil)
		return
	}

	engine := c.Gateway.engine
	var snap blackjack.Snapshot
	var err error
	switch msg.Type {
	case "state":
		snap = engine.Session(c.SessionID)
	case "bet":
		if c.Gateway.maxBet > 0 && msg.Amount > c.Gateway.maxBet {
			err = &blackjack.InvalidBetError{Reason: blackjack.BetExceedsLimit, Amount: msg.Amount, Limit: c.Gateway.maxBet}
		} else {
			snap, err = engine.PlaceBet(c.SessionID, msg.Amount)
		}
	case "hit":
		snap, err = engine.Hit(c.SessionID)
	case "stand":
		snap, err = engine.Stand(c.SessionID)
	case "new_round":
		snap = engine.NewRound(c.SessionID)
	case "reset":
		snap = engine.Reset(c.SessionID)
	case "gesture_on":
		c.startGestureStream()
		return
	case "gesture_off":
		c.stopGestureStream()
		return
	default:
		c.sendError(fmt.Sprintf("unknown message type %q", msg.Type), nil)
		return
	}

	if err != nil {
		if errors.Is(err, blackjack.ErrInvalidBet) || errors.Is(err, blackjack.ErrNotInitialized) ||
			errors.Is(err, blackjack.ErrWrongPhase) || errors.Is(err, blackjack.ErrDeckExhausted) {
			c.sendError(err.Error(), &snap)
			return
		}
		log.Printf("[Gateway] %s %s failed: %v", c.ID, msg.Type, err)
		c.sendError("internal error", nil)
		return
	}
	c.send(serverMessage{Type: "snapshot", State: &snap})
}

func (c *Connection) startGestureStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.streamStop != nil {
		return
	}
	stop := make(chan struct{})
	c.streamStop = stop
	go c.streamGestures(stop)
}

func (c *Connection) stopGestureStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streamStop != nil {
		close(c.streamStop)
		c.streamStop = nil
	}
}

// streamGestures pushes detector samples and plays confident fresh hit/stand
// readings on the connection's session.
func (c *Connection) streamGestures(stop <-chan struct{}) {
	ticker := time.NewTicker(c.Gateway.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sample := c.Gateway.detector.Sample()
			c.send(serverMessage{Type: "gesture", Gesture: &sample})

			if !sample.IsConfident || !sample.Fresh() {
				continue
			}
			action := blackjack.ParseAction(sample.Label.String())
			if action == blackjack.ActionNone {
				continue
			}
			snap, err := c.Gateway.engine.ApplyAction(c.SessionID, action)
			if err != nil {
				// gestures outside a live round are ignored
				continue
			}
			c.send(serverMessage{Type: "snapshot", State: &snap})
		}
	}
}

func (c *Connection) sendError(msg string, snap *blackjack.Snapshot) {
	if snap != nil && snap.ID == "" {
		snap = nil
	}
	c.send(serverMessage{Type: "error", Error: msg, State: snap})
}

func (c *Connection) send(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Gateway] marshal %s failed: %v", msg.Type, err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("[Gateway] %s send buffer full, dropping %s", c.ID, msg.Type)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	c.mu.Lock()
	if c.streamStop != nil {
		close(c.streamStop)
		c.streamStop = nil
	}
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
	c.mu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// Count returns the number of live connections.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

// CloseAll drops every connection; used at shutdown.
func (g *Gateway) CloseAll() {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()

	for _, c := range conns {
		c.Conn.Close()
	}
}
