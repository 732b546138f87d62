package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/response"
	"github.com/stemsi/exstem-paper/internal/service"
	"github.com/stemsi/exstem-paper/internal/validator"
	ws "github.com/stemsi/exstem-paper/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams an editing session over a WebSocket.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// wsSession is the per-connection state of a stream.
type wsSession struct {
	conn   *ws.Conn
	viewer model.Viewer
	id     string
	log    zerolog.Logger
	// sent is the highest revision already pushed to this client.
	sent atomic.Int64
}

// advance records rev as sent, reporting false if the client already has it.
func (s *wsSession) advance(rev int64) bool {
	for {
		cur := s.sent.Load()
		if rev <= cur {
			return false
		}
		if s.sent.CompareAndSwap(cur, rev) {
			return true
		}
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:id/stream?token=...
// Accepts editing actions and pushes the session view after every change,
// including changes made by other tabs or over HTTP.
func (h *WSHandler) SessionStream(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	// Resolve the session before upgrading so a bad id gets a plain HTTP error.
	if _, err := h.sessionService.Get(c.Request.Context(), viewer, id); err != nil {
		status, code := sessionErrorCode(err)
		response.Fail(c, status, code)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &wsSession{
		conn:   conn,
		viewer: viewer,
		id:     id,
		log:    h.log.With().Int("user_id", viewer.UserID).Str("session_id", id).Logger(),
	}
	s.log.Info().Msg("Editor connected")

	pubsub := h.sessionService.Subscribe(ctx, id)
	defer pubsub.Close()
	go h.forward(ctx, s, pubsub.Channel())

	// Read again once subscribed so no change slips between the two.
	state, err := h.sessionService.Get(ctx, viewer, id)
	if err != nil {
		h.writeErr(s, err)
		return
	}
	h.pushView(s, state)

	for {
		var msg ws.Request
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				s.log.Debug().Msg("Connection closed")
			}
			return
		}
		h.dispatch(ctx, s, &msg)
	}
}

// dispatch runs one client action.
func (h *WSHandler) dispatch(ctx context.Context, s *wsSession, msg *ws.Request) {
	var (
		state *service.SessionState
		err   error
	)

	switch msg.Action {
	case ws.ActionPing:
		s.conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		return

	case ws.ActionToggle, ws.ActionRemove:
		if msg.QuestionID <= 0 {
			h.writeCode(s, response.ErrInvalidID, nil)
			return
		}
		if msg.Action == ws.ActionToggle {
			state, err = h.sessionService.Toggle(ctx, s.viewer, s.id, msg.QuestionID)
		} else {
			state, err = h.sessionService.Remove(ctx, s.viewer, s.id, msg.QuestionID)
		}

	case ws.ActionFilter:
		if msg.Criteria == nil {
			h.writeCode(s, response.ErrInvalidPayload, nil)
			return
		}
		if fields := validator.Validate(msg.Criteria); fields != nil {
			h.writeCode(s, response.ErrValidation, fields)
			return
		}
		state, err = h.sessionService.SetCriteria(ctx, s.viewer, s.id, msg.Criteria.ToCriteria())

	case ws.ActionResetFilter:
		state, err = h.sessionService.ResetCriteria(ctx, s.viewer, s.id)

	case ws.ActionMetadata:
		if msg.Metadata == nil {
			h.writeCode(s, response.ErrInvalidPayload, nil)
			return
		}
		if fields := validator.Validate(msg.Metadata); fields != nil {
			h.writeCode(s, response.ErrValidation, fields)
			return
		}
		state, err = h.sessionService.SetMetadata(ctx, s.viewer, s.id, msg.Metadata.ToMetadata())

	case ws.ActionAssemble:
		doc, err := h.sessionService.Assemble(ctx, s.viewer, s.id)
		if err != nil {
			h.writeErr(s, err)
			return
		}
		s.conn.WriteTyped(ws.DocumentResponse{Event: ws.EventDocument, Document: doc})
		return

	default:
		s.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		h.writeCode(s, response.ErrUnknownWebSocketAction, nil)
		return
	}

	if err != nil {
		h.writeErr(s, err)
		return
	}
	h.pushView(s, state)
}

// forward relays session events published by any writer to this client.
func (h *WSHandler) forward(ctx context.Context, s *wsSession, events <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}

			var ev service.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.log.Warn().Err(err).Msg("Invalid session event")
				continue
			}

			if ev.Ended {
				s.conn.WriteTyped(ws.EndedResponse{Event: ws.EventEnded, SessionID: s.id})
				s.conn.Close()
				return
			}
			if ev.Revision <= s.sent.Load() {
				continue
			}

			state, err := h.sessionService.Get(ctx, s.viewer, s.id)
			if err != nil {
				if errors.Is(err, service.ErrSessionNotFound) {
					s.conn.WriteTyped(ws.EndedResponse{Event: ws.EventEnded, SessionID: s.id})
					s.conn.Close()
					return
				}
				s.log.Error().Err(err).Msg("Failed to refresh session")
				continue
			}
			h.pushView(s, state)
		}
	}
}

func (h *WSHandler) pushView(s *wsSession, state *service.SessionState) {
	if !s.advance(state.Revision) {
		return
	}
	s.conn.WriteTyped(ws.ViewResponse{
		Event:     ws.EventView,
		SessionID: state.ID,
		Revision:  state.Revision,
		View:      state.View,
	})
}

func (h *WSHandler) writeErr(s *wsSession, err error) {
	status, code := sessionErrorCode(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Session action failed")
	}
	h.writeCode(s, code, nil)
}

func (h *WSHandler) writeCode(s *wsSession, code response.ErrCode, fields map[string]string) {
	s.conn.WriteError(string(code), response.GetMessage(code), fields)
}
