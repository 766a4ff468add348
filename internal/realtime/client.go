package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1024 * 32
)

// Socket is the slice of *websocket.Conn the core touches; tests
// substitute a scripted implementation.
type Socket interface {
	Query(key string, defaultValue ...string) string
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Envelope is the wire frame in both directions:
// {"event": "...", "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// membership is the result of the ROOM_JOINED transition: the rooms to
// join, plus the classroom-specific batch bookkeeping.
type membership struct {
	rooms []string
	// batch is set for classroom students: their single batch name.
	batch string
	// batchRooms maps batch name -> room for classroom teachers (and the
	// single entry for students); used by the teacher batch gate.
	batchRooms map[string]string
}

type Client struct {
	ID       string
	Identity models.Identity

	sock Socket
	sub  membership
	send chan outbound
	done chan struct{}
	once sync.Once
	log  *zap.SugaredLogger
}

func newClient(sock Socket, ident models.Identity, sub membership, log *zap.SugaredLogger) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Identity: ident,
		sock:     sock,
		sub:      sub,
		send:     make(chan outbound, 256),
		done:     make(chan struct{}),
		log:      log,
	}
}

func (c *Client) Rooms() []string { return c.sub.rooms }

// Emit queues an event for the write pump. A send that outlives the
// disconnect, or a client too slow to drain its buffer, is dropped.
func (c *Client) Emit(event string, data any) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- outbound{Event: event, Data: data}:
	default:
		c.log.Warnw("dropping event for slow client", "event", event, "user", c.Identity.ID)
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.sock.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		case out := <-c.send:
			b, err := json.Marshal(out)
			if err != nil {
				c.log.Errorw("marshal outbound event", "event", out.Event, "err", err)
				continue
			}
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
