package model

import (
	"encoding/json"
	"time"
)

// GeneratedPaper is an assembled exam document kept in its owner's history.
// Document holds the block list exactly as it was served.
type GeneratedPaper struct {
	ID          int             `json:"id"`
	OwnerID     int             `json:"owner_id"`
	SessionID   string          `json:"session_id"`
	Title       string          `json:"title"`
	QuestionIDs []int           `json:"question_ids"`
	Document    json.RawMessage `json:"document"`
	CreatedAt   time.Time       `json:"created_at"`
}
