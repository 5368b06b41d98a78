package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/models"
)

// MinPasswordLength is the client-side floor for new passwords.
const MinPasswordLength = 8

const (
	emailRequiredMessage    = "Email is required."
	passwordMismatchMessage = "Passwords do not match."
	noSettingsChangeMessage = "No changes to save."
	settingsSavedMessage    = "Settings updated."
	passwordUpdatedMessage  = "Password updated."
	emailUpdateMessage      = "Check your email to confirm the change. Other settings were saved."
	emailAndPasswordMessage = "Check your email to confirm the change. Password updated."
)

var passwordTooShortMessage = fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)

// Settings edits the profile of the signed-in user: email, username, and
// password. Only fields that actually changed are sent.
type Settings struct {
	mu   sync.Mutex
	auth backend.AuthClient
	msgs Messages

	session *models.Session

	email           string
	username        string
	newPassword     string
	confirmPassword string
	saving          bool
}

func NewSettings(auth backend.AuthClient, msgs Messages) *Settings {
	return &Settings{auth: auth, msgs: msgs}
}

// SetSession seeds the form from the session's identity. A nil session
// clears the form.
func (s *Settings) SetSession(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	if session == nil {
		s.email = ""
		s.username = ""
		s.newPassword = ""
		s.confirmPassword = ""
		return
	}
	s.email = session.User.Email
	s.username = session.User.Username
}

func (s *Settings) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

func (s *Settings) SetEmail(email string) {
	s.mu.Lock()
	s.email = email
	s.mu.Unlock()
}

func (s *Settings) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Settings) SetUsername(username string) {
	s.mu.Lock()
	s.username = username
	s.mu.Unlock()
}

func (s *Settings) SetNewPassword(password string) {
	s.mu.Lock()
	s.newPassword = password
	s.mu.Unlock()
}

func (s *Settings) SetConfirmPassword(password string) {
	s.mu.Lock()
	s.confirmPassword = password
	s.mu.Unlock()
}

func (s *Settings) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Save validates the form and sends the changed fields as one partial
// update. The confirmation message depends on which fields changed, because
// an email change completes only after the user confirms it from their
// inbox.
func (s *Settings) Save(ctx context.Context) {
	s.msgs.Clear()

	s.mu.Lock()
	if s.session.UserID() == "" {
		s.mu.Unlock()
		s.msgs.Error(signInRequiredMessage)
		return
	}

	email := strings.TrimSpace(s.email)
	username := strings.TrimSpace(s.username)
	newPassword := strings.TrimSpace(s.newPassword)
	confirmPassword := strings.TrimSpace(s.confirmPassword)
	currentEmail := s.session.User.Email
	currentUsername := s.session.User.Username
	if s.saving {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if email == "" {
		s.msgs.Error(emailRequiredMessage)
		return
	}

	if newPassword != "" || confirmPassword != "" {
		if len(newPassword) < MinPasswordLength {
			s.msgs.Error(passwordTooShortMessage)
			return
		}
		if newPassword != confirmPassword {
			s.msgs.Error(passwordMismatchMessage)
			return
		}
	}

	var update backend.UserUpdate
	if email != currentEmail {
		update.Email = &email
	}
	if username != currentUsername {
		update.Username = &username
	}
	if newPassword != "" {
		update.Password = &newPassword
	}

	if update.IsZero() {
		s.msgs.Info(noSettingsChangeMessage)
		return
	}

	s.mu.Lock()
	s.saving = true
	s.mu.Unlock()

	err := s.auth.UpdateUser(ctx, update)

	s.mu.Lock()
	s.saving = false
	if err == nil && update.Password != nil {
		s.newPassword = ""
		s.confirmPassword = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.msgs.Error(err.Error())
		return
	}

	switch {
	case update.Email != nil && update.Password != nil:
		s.msgs.Info(emailAndPasswordMessage)
	case update.Email != nil:
		s.msgs.Info(emailUpdateMessage)
	case update.Password != nil:
		s.msgs.Info(passwordUpdatedMessage)
	default:
		s.msgs.Info(settingsSavedMessage)
	}
}
