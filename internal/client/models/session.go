package models

import "time"

// User is the identity attached to a session.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Session is an authenticated backend session. ExpiresAt is taken from the
// access token itself and drives proactive refresh.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// UserID returns the session's user id, or "" for a nil session. Callers
// treat "" as signed out.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}
