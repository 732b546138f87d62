package websocket

import (
	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/paper"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionToggle      Action = "toggle"
	ActionRemove      Action = "remove"
	ActionFilter      Action = "filter"
	ActionResetFilter Action = "reset_filter"
	ActionMetadata    Action = "metadata"
	ActionAssemble    Action = "assemble"
	ActionPing        Action = "ping"
)

// Request is a client message. Only the fields of its action are set.
type Request struct {
	Action     Action                       `json:"action"`
	QuestionID int                          `json:"question_id,omitempty"`
	Criteria   *model.UpdateCriteriaRequest `json:"criteria,omitempty"`
	Metadata   *model.UpdateMetadataRequest `json:"metadata,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventView     Event = "view"
	EventDocument Event = "document"
	EventEnded    Event = "ended"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// ViewResponse carries the session view after a change.
type ViewResponse struct {
	Event     Event      `json:"event"`
	SessionID string     `json:"session_id"`
	Revision  int64      `json:"revision"`
	View      paper.View `json:"view"`
}

// DocumentResponse answers an assemble action.
type DocumentResponse struct {
	Event    Event          `json:"event"`
	Document model.Document `json:"document"`
}

// EndedResponse tells the client the session was discarded.
type EndedResponse struct {
	Event     Event  `json:"event"`
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Event  Event             `json:"event"`
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
