package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/models"
	"github.com/campusgrid/campus-chat/internal/repository"
)

// ErrorEvent is the synchronous event answering connection-phase
// failures, right before the socket is closed.
const ErrorEvent = "error"

// Presence marks users online/offline as connections come and go.
type Presence interface {
	Online(ctx context.Context, userID string) error
	Offline(ctx context.Context, userID string) error
}

// MessageSender persists a message and returns it hydrated with sender
// display fields. Implemented by service.ChatService.
type MessageSender interface {
	Send(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
}

// Deps are the external collaborators every namespace shares.
type Deps struct {
	Conversations repository.ConversationRepo
	Students      repository.StudentRepo
	Batches       repository.BatchRepo
	Chat          MessageSender
	Presence      Presence
	Log           *zap.SugaredLogger
}

type Events struct {
	Send  string // inbound send event, e.g. "send_classroom"
	New   string // room fan-out event, e.g. "new_classroom"
	Error string // per-sender error event, e.g. "error_occurred"
}

// target is the resolved destination of a send: the room to fan out to
// and the server-side conversation the payload must match.
type target struct {
	room string
	conv *models.Conversation
}

// Config parameterizes the shared connection state machine. The four
// namespaces differ only in their allow-list, event names, join logic and
// send-target resolution.
type Config struct {
	Name         string
	AllowedRoles []models.Role
	Events       Events
	Join         func(ctx context.Context, d *Deps, ident models.Identity) (membership, error)
	Target       func(ctx context.Context, d *Deps, c *Client, conversationID string) (target, error)
}

type Namespace struct {
	cfg      Config
	allowed  map[models.Role]struct{}
	hub      *Hub
	verifier TokenVerifier
	deps     *Deps
}

// TokenVerifier validates the handshake credential. Implemented by
// auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

func NewNamespace(cfg Config, hub *Hub, verifier TokenVerifier, deps *Deps) *Namespace {
	allowed := make(map[models.Role]struct{}, len(cfg.AllowedRoles))
	for _, r := range cfg.AllowedRoles {
		allowed[r] = struct{}{}
	}
	return &Namespace{cfg: cfg, allowed: allowed, hub: hub, verifier: verifier, deps: deps}
}

// SendPayload is the body of every send_* event.
type SendPayload struct {
	ConID   string `json:"conId"`
	Content string `json:"content"`
}

// Handle runs the full connection lifecycle: authenticate, authorize,
// join rooms, then serve send events until the peer goes away.
// Authentication and authorization failures are fatal; everything raised
// inside the event loop is answered to the sender and the connection
// stays up.
func (n *Namespace) Handle(sock Socket) {
	log := n.deps.Log.With("namespace", n.cfg.Name)

	token := sock.Query("token")
	if token == "" {
		n.refuse(sock, errAuthRequired(), log)
		return
	}
	ident, err := n.verifier.Verify(token)
	if err != nil {
		n.refuse(sock, errUnauthorized(), log)
		return
	}
	log = log.With("user", ident.ID, "role", ident.Role, "college", ident.CollegeID)

	if _, ok := n.allowed[ident.Role]; !ok {
		n.refuse(sock, errRoleNotAllowed(), log)
		return
	}

	ctx := context.Background()
	sub, err := n.cfg.Join(ctx, n.deps, ident)
	if err != nil {
		n.refuse(sock, asEventError(err, "room lookup failed"), log)
		return
	}

	client := newClient(sock, ident, sub, log)
	n.hub.Register(client)
	if err := n.deps.Presence.Online(ctx, ident.ID); err != nil {
		log.Warnw("presence online", "err", err)
	}
	go client.writePump()
	log.Infow("connected", "rooms", sub.rooms)

	n.readLoop(client)

	n.hub.Unregister(client)
	client.close()
	if err := n.deps.Presence.Offline(ctx, ident.ID); err != nil {
		log.Warnw("presence offline", "err", err)
	}
	log.Infow("disconnected")
}

// refuse answers a connection-phase failure with a synchronous error
// event and drops the connection.
func (n *Namespace) refuse(sock Socket, ev *EventError, log *zap.SugaredLogger) {
	log.Warnw("connection refused", "status", ev.Status, "reason", ev.Message)
	b, _ := json.Marshal(outbound{Event: ErrorEvent, Data: ev})
	_ = sock.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.WriteMessage(websocket.TextMessage, b)
	_ = sock.Close()
}

func (n *Namespace) readLoop(c *Client) {
	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.Emit(n.cfg.Events.Error, errInvalid("malformed event frame"))
			continue
		}
		if env.Event != n.cfg.Events.Send {
			continue
		}
		var payload SendPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.Emit(n.cfg.Events.Error, errInvalid("malformed send payload"))
			continue
		}
		n.handleSend(context.Background(), c, payload)
	}
}

// handleSend is the persist-then-broadcast path. The conversation is
// resolved server-side from the sender's identity and room, never from
// client input; the payload's conId only has to match it. No room ever
// sees a message the store did not accept first.
func (n *Namespace) handleSend(ctx context.Context, c *Client, payload SendPayload) {
	if payload.ConID == "" || strings.TrimSpace(payload.Content) == "" {
		c.Emit(n.cfg.Events.Error, errInvalid("conId and content are required"))
		return
	}

	tgt, err := n.cfg.Target(ctx, n.deps, c, payload.ConID)
	if err != nil {
		c.Emit(n.cfg.Events.Error, asEventError(err, "conversation not found"))
		return
	}
	if tgt.conv.ID != payload.ConID {
		c.Emit(n.cfg.Events.Error, errInvalid("invalid conversation"))
		return
	}

	msg, err := n.deps.Chat.Send(ctx, tgt.conv.ID, c.Identity.ID, payload.Content)
	if err != nil {
		c.log.Errorw("append message", "conversation", tgt.conv.ID, "err", err)
		c.Emit(n.cfg.Events.Error, errPersistence())
		return
	}

	n.hub.Broadcast(tgt.room, n.cfg.Events.New, msg)
}
