package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dpetrovs/memhub/internal/client/backend"
)

func newAuthFixture(auth *fakeAuthClient) (*AuthActions, *Toasts) {
	msgs := NewToasts(time.Minute, time.Minute)
	return NewAuthActions(auth, msgs), msgs
}

func TestAuthActions_SignUp_Success(t *testing.T) {
	auth := &fakeAuthClient{signUpRes: backend.SignUpResult{UserID: "u1", Identities: 1}}
	a, msgs := newAuthFixture(auth)

	a.SignUp(context.Background(), " alice@example.org ", " secret123 ")

	require.Equal(t, []string{"alice@example.org"}, auth.signUps)
	require.Equal(t, "Check your email for a confirmation link.", msgs.InfoMessage())
	require.False(t, a.IsWorking())
}

func TestAuthActions_SignUp_RequiresCredentials(t *testing.T) {
	auth := &fakeAuthClient{}
	a, msgs := newAuthFixture(auth)

	a.SignUp(context.Background(), "alice@example.org", "   ")

	require.Empty(t, auth.signUps)
	require.Equal(t, "Email and password are required.", msgs.ErrorMessage())
}

func TestAuthActions_SignUp_DuplicateViaErrorCode(t *testing.T) {
	auth := &fakeAuthClient{signUpErr: &backend.AuthError{Code: "user_already_exists", Message: "User already registered"}}
	a, msgs := newAuthFixture(auth)

	a.SignUp(context.Background(), "alice@example.org", "secret123")

	require.Equal(t, "This email is already registered. Please sign in or reset password.", msgs.ErrorMessage())
}

func TestAuthActions_SignUp_DuplicateViaMessageText(t *testing.T) {
	auth := &fakeAuthClient{signUpErr: errors.New("a user with this email already exists")}
	a, msgs := newAuthFixture(auth)

	a.SignUp(context.Background(), "alice@example.org", "secret123")

	require.Equal(t, "This email is already registered. Please sign in or reset password.", msgs.ErrorMessage())
}

func TestAuthActions_SignUp_DuplicateViaZeroIdentities(t *testing.T) {
	// Confirmed duplicate signups come back without an error but with an
	// empty identities list.
	auth := &fakeAuthClient{signUpRes: backend.SignUpResult{UserID: "u1", Identities: 0}}
	a, msgs := newAuthFixture(auth)

	a.SignUp(context.Background(), "alice@example.org", "secret123")

	require.Equal(t, "This email is already registered. Please sign in or reset password.", msgs.ErrorMessage())
	require.Empty(t, msgs.InfoMessage())
}

func TestAuthActions_SignIn(t *testing.T) {
	auth := &fakeAuthClient{}
	a, msgs := newAuthFixture(auth)

	a.SignIn(context.Background(), "alice@example.org", "secret123")

	require.Equal(t, []string{"alice@example.org"}, auth.signIns)
	require.Empty(t, msgs.ErrorMessage())
}

func TestAuthActions_SignIn_FailureSurfaces(t *testing.T) {
	auth := &fakeAuthClient{signInErr: &backend.AuthError{Message: "Invalid login credentials"}}
	a, msgs := newAuthFixture(auth)

	a.SignIn(context.Background(), "alice@example.org", "wrong")

	require.Equal(t, "Invalid login credentials", msgs.ErrorMessage())
}

func TestAuthActions_SignIn_RequiresCredentials(t *testing.T) {
	auth := &fakeAuthClient{}
	a, msgs := newAuthFixture(auth)

	a.SignIn(context.Background(), "  ", "secret123")

	require.Empty(t, auth.signIns)
	require.Equal(t, "Email and password are required.", msgs.ErrorMessage())
}

func TestAuthActions_SignOut(t *testing.T) {
	auth := &fakeAuthClient{}
	a, msgs := newAuthFixture(auth)

	a.SignOut(context.Background())

	require.True(t, auth.signOutCalled)
	require.Empty(t, msgs.ErrorMessage())
}

func TestAuthActions_BusyGuard(t *testing.T) {
	auth := &fakeAuthClient{}
	a, _ := newAuthFixture(auth)

	a.mu.Lock()
	a.working = true
	a.mu.Unlock()

	a.SignIn(context.Background(), "alice@example.org", "secret123")
	require.Empty(t, auth.signIns)

	a.SignOut(context.Background())
	require.False(t, auth.signOutCalled)
}
