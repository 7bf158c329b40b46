package models

import "time"

// Login is an append-only audit record of a successful sign-in. UserID is
// nil once the account it belonged to has been deleted.
type Login struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}
