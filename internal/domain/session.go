package domain

import "time"

// Session is an authenticated admin login. Handlers receive it from the
// session guard; nothing else records who is signed in.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
