package model

import "time"

// Discipline represents an academic discipline questions are filed under.
type Discipline struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
