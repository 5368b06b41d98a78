package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dpetrovs/memhub/internal/client/backend"
)

const (
	credentialsRequiredMessage = "Email and password are required."
	alreadyRegisteredMessage   = "This email is already registered. Please sign in or reset password."
	confirmationSentMessage    = "Check your email for a confirmation link."
)

// AuthActions performs sign-up, sign-in, and sign-out against the auth
// client. Identity changes land in the SessionStore through the auth
// client's subscription; this type only drives the calls and the messages.
type AuthActions struct {
	mu      sync.Mutex
	auth    backend.AuthClient
	msgs    Messages
	working bool
}

func NewAuthActions(auth backend.AuthClient, msgs Messages) *AuthActions {
	return &AuthActions{auth: auth, msgs: msgs}
}

func (a *AuthActions) IsWorking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.working
}

func (a *AuthActions) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.working {
		return false
	}
	a.working = true
	return true
}

func (a *AuthActions) end() {
	a.mu.Lock()
	a.working = false
	a.mu.Unlock()
}

// SignUp creates an account. A duplicate email is reported with a stable
// message whether the service signals it through an error code or through
// the zero-identities signup response.
func (a *AuthActions) SignUp(ctx context.Context, email, password string) {
	a.msgs.Clear()

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		a.msgs.Error(credentialsRequiredMessage)
		return
	}

	if !a.begin() {
		return
	}
	defer a.end()

	result, err := a.auth.SignUp(ctx, email, password)
	if err != nil {
		if isAlreadyRegistered(err) {
			a.msgs.Error(alreadyRegisteredMessage)
			return
		}
		a.msgs.Error(err.Error())
		return
	}

	if result.Identities == 0 {
		a.msgs.Error(alreadyRegisteredMessage)
		return
	}

	a.msgs.Info(confirmationSentMessage)
}

// SignIn authenticates with email and password.
func (a *AuthActions) SignIn(ctx context.Context, email, password string) {
	a.msgs.Clear()

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		a.msgs.Error(credentialsRequiredMessage)
		return
	}

	if !a.begin() {
		return
	}
	defer a.end()

	if err := a.auth.SignIn(ctx, strings.TrimSpace(email), strings.TrimSpace(password)); err != nil {
		a.msgs.Error(err.Error())
	}
}

// SignOut ends the current session.
func (a *AuthActions) SignOut(ctx context.Context) {
	a.msgs.Clear()

	if !a.begin() {
		return
	}
	defer a.end()

	if err := a.auth.SignOut(ctx); err != nil {
		a.msgs.Error(err.Error())
	}
}

func isAlreadyRegistered(err error) bool {
	var authErr *backend.AuthError
	if errors.As(err, &authErr) {
		code := strings.ToLower(authErr.Code)
		if code == "user_already_exists" || code == "email_exists" {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}
