package models

import "time"

// Session maps an opaque bearer token to its owning user.
// A session past ExpiresAt is invalid even while the row still exists;
// expired rows are removed lazily on the next verification attempt.
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
