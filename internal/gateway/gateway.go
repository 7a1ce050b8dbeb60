// Package gateway terminates websocket clients and bridges them to the
// lobby and the per-game rooms.
package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"truco-lite/internal/auth"
	"truco-lite/internal/bus"
	"truco-lite/internal/codec"
	"truco-lite/internal/lobby"
	"truco-lite/internal/room"
	"truco-lite/truco"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 65536
)

// Wire error codes.
const (
	codeBadMessage = 1
	codeLobby      = 2
	codeNotInGame  = 3
	codeCommand    = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in production
	},
}

// Connection is one websocket client bound to an authenticated account.
type Connection struct {
	ID       string
	UserID   uint64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway

	mu          sync.Mutex
	room        *room.Room
	seat        int
	unsubscribe func()
}

// Gateway manages websocket connections.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection
	nextConnID  uint64

	lobby *lobby.Lobby
	auth  auth.Service
	bus   *bus.Bus
}

func New(lby *lobby.Lobby, authSvc auth.Service, eventBus *bus.Bus) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		lobby:       lby,
		auth:        authSvc,
		bus:         eventBus,
	}
}

// HandleWebSocket authenticates the request, upgrades it, and starts the
// read/write pumps. A second connection for the same account displaces the
// first.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, username, ok := g.auth.ResolveSession(auth.TokenFromRequest(r))
	if !ok {
		http.Error(w, "invalid or expired session", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", g.nextConnID),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		seat:     truco.SeatInvalid,
	}
	prev := g.userConns[userID]
	g.connections[c.ID] = c
	g.userConns[userID] = c
	g.mu.Unlock()

	if prev != nil {
		prev.Conn.Close()
	}

	log.Printf("[Gateway] Client connected: %s (user=%d %q), total: %d",
		c.ID, userID, username, g.connectionCount())

	go c.readPump()
	go c.writePump()

	c.enqueue(mustJSON(codec.ServerEnvelope{
		Type:       codec.ServerWelcome,
		ServerTsMs: time.Now().UnixMilli(),
		UserID:     userID,
	}))

	// Reattach to an in-flight game after a reconnect.
	if rm, seat := g.lobby.RoomOf(userID); rm != nil {
		c.attachRoom(rm, seat)
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMsgSize)
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
	var env codec.ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError(codeBadMessage, "invalid message format")
		return
	}

	switch env.Type {
	case codec.ClientCreateGame:
		c.handleCreateGame(env)
	case codec.ClientJoinGame:
		c.handleJoinGame(env)
	default:
		c.handleGameCommand(env)
	}
}

func (c *Connection) handleCreateGame(env codec.ClientEnvelope) {
	rm, err := c.Gateway.lobby.CreateGame(c.UserID, c.Username, lobby.CreateOptions{
		Bots:        env.Bots,
		NoveVariant: env.NoveVariant,
	})
	if err != nil {
		c.sendError(codeLobby, err.Error())
		return
	}
	seat, _ := rm.SeatOf(c.UserID)
	c.attachRoom(rm, seat)
}

func (c *Connection) handleJoinGame(env codec.ClientEnvelope) {
	rm, seat, err := c.Gateway.lobby.JoinGame(env.GameID, c.UserID, c.Username)
	if err != nil {
		c.sendError(codeLobby, err.Error())
		return
	}
	c.attachRoom(rm, seat)
}

func (c *Connection) handleGameCommand(env codec.ClientEnvelope) {
	c.mu.Lock()
	rm, seat := c.room, c.seat
	c.mu.Unlock()
	if rm == nil {
		c.sendError(codeNotInGame, "not in a game")
		return
	}

	cmd, err := codec.CommandFromEnvelope(env, seat)
	if err != nil {
		c.sendError(codeBadMessage, err.Error())
		return
	}
	if err := rm.SubmitCommand(cmd); err != nil {
		c.sendError(codeCommand, err.Error())
	}
}

// attachRoom binds the connection to a room: marks the human online,
// subscribes to the room's event stream with per-seat redaction, and pushes
// the current view so the client can render immediately.
func (c *Connection) attachRoom(rm *room.Room, seat int) {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.room = rm
	c.seat = seat

	revealAll := rm.RevealAll()
	c.unsubscribe = c.Gateway.bus.Subscribe(rm.ID, func(gameID string, seq uint64, evt truco.Event) {
		if data, ok := codec.EncodeEventFor(gameID, seq, evt, seat, revealAll); ok {
			c.enqueue(data)
		}
	})
	c.mu.Unlock()

	rm.MarkOnline(c.UserID)

	seatCopy := seat
	c.enqueue(mustJSON(codec.ServerEnvelope{
		Type:       codec.ServerJoined,
		GameID:     rm.ID,
		ServerTsMs: time.Now().UnixMilli(),
		UserID:     c.UserID,
		Seat:       &seatCopy,
	}))
	c.enqueue(codec.EncodeView(rm.ID, rm.ServerSeq(), rm.Snapshot(), seat, revealAll))

	log.Printf("[Gateway] User %d attached to game %s (seat %d)", c.UserID, rm.ID, seat)
}

func (c *Connection) detachRoom() {
	c.mu.Lock()
	rm := c.room
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.room = nil
	c.seat = truco.SeatInvalid
	c.mu.Unlock()

	if rm != nil {
		rm.MarkOffline(c.UserID)
	}
}

func (c *Connection) sendError(code int, msg string) {
	gameID := ""
	c.mu.Lock()
	if c.room != nil {
		gameID = c.room.ID
	}
	c.mu.Unlock()
	c.enqueue(codec.EncodeError(gameID, code, msg))
}

// enqueue drops the message when the client cannot keep up; the next view
// envelope resynchronizes it.
func (c *Connection) enqueue(data []byte) {
	select {
	case c.Send <- data:
	default:
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
	c.detachRoom()

	g.mu.Lock()
	if g.connections[c.ID] == c {
		delete(g.connections, c.ID)
	}
	if g.userConns[c.UserID] == c {
		delete(g.userConns, c.UserID)
	}
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}

func (g *Gateway) connectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
