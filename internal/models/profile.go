package models

import "time"

// Profile is one player. Every profile owns its own session history.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
