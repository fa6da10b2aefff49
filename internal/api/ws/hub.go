package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"diagonal-squares/internal/game"
	"diagonal-squares/internal/room"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// client owns one connection. Only writePump writes to it; everyone else
// queues on send.
type client struct {
	conn *websocket.Conn
	send chan envelope
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan envelope, sendBuffer)}
}

// queue never blocks. A client whose buffer is full is too slow to keep and
// gets disconnected.
func (c *client) queue(msg envelope) bool {
	select {
	case c.send <- msg:
		return true
	default:
		_ = c.conn.Close()
		return false
	}
}

func (c *client) writePump() {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			_ = c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*client]struct{}
	roomManager RoomManager
	log         *zap.Logger
}

func NewHub(roomManager RoomManager, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms:       make(map[string]map[*client]struct{}),
		roomManager: roomManager,
		log:         log,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type envelope struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

type playerMove struct {
	Player game.PlayerID `json:"player"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
}

// HandleWS joins the caller to a room's broadcast group and serves its
// human_move, pass and bot_move actions.
func (h *Hub) HandleWS(c *gin.Context) {
	roomCode := c.Query("room_code")
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room_code"})
		return
	}
	rx, ok := h.roomManager.Get(roomCode)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := newClient(conn)
	go cl.writePump()
	h.join(roomCode, cl)
	h.log.Info("websocket joined", zap.String("room", roomCode), zap.Int("clients", h.Clients(roomCode)))
	defer func() {
		h.leave(roomCode, cl)
		close(cl.send)
		_ = conn.Close()
	}()

	cl.queue(envelope{Action: room.ActionStateUpdated, Data: gin.H{"room": h.roomManager.View(rx)}})

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", zap.String("room", roomCode), zap.Error(err))
			}
			return
		}
		if err := h.handle(rx, msg); err != nil {
			h.log.Debug("websocket action rejected",
				zap.String("room", roomCode),
				zap.String("action", msg.Action),
				zap.Error(err),
			)
			cl.queue(envelope{Action: "error", Data: gin.H{"action": msg.Action, "error": err.Error()}})
		}
	}
}

// handle applies one client action. Successful actions are announced by the
// room manager's own broadcasts.
func (h *Hub) handle(rx *room.Room, msg message) error {
	var mv playerMove
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &mv); err != nil {
			return err
		}
	}
	switch msg.Action {
	case "human_move":
		_, err := h.roomManager.ApplyMove(rx, mv.Player, mv.X, mv.Y)
		return err
	case "pass":
		return h.roomManager.Pass(rx, mv.Player)
	case "bot_move":
		_, err := h.roomManager.BotMove(rx, mv.Player)
		return err
	default:
		return errUnknownAction(msg.Action)
	}
}

type errUnknownAction string

func (e errUnknownAction) Error() string {
	return "unknown action: " + string(e)
}

func (h *Hub) join(roomCode string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[*client]struct{})
	}
	h.rooms[roomCode][cl] = struct{}{}
}

func (h *Hub) leave(roomCode string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomCode], cl)
	if len(h.rooms[roomCode]) == 0 {
		delete(h.rooms, roomCode)
	}
}

// Clients reports how many connections are listening on a room.
func (h *Hub) Clients(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// Broadcast queues the event for every client in the room without waiting
// on any of them. The read lock is held while queueing so leave cannot close
// a channel under us.
func (h *Hub) Broadcast(roomCode string, action string, data interface{}) {
	if h == nil {
		return
	}
	msg := envelope{Action: action, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.rooms[roomCode] {
		if !cl.queue(msg) {
			h.log.Warn("dropping slow websocket client", zap.String("room", roomCode))
		}
	}
}
