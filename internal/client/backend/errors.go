package backend

import "errors"

var (
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthError is a failure reported by the auth service. Code is the machine
// error code when the service supplied one ("user_already_exists" and the
// like); Message is the human-readable text surfaced to the user.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
