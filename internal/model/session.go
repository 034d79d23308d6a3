package model

import "time"

// Session is the server-side half of a login. The client holds a signed
// cookie naming the session ID; deleting the row logs the client out even
// if the cookie is replayed.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
