package domain

import "time"

// Notification is an append-only message addressed to a user, created as a
// side effect of approval, rejection, assignment and release events.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
