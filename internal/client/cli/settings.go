package cli

import (
	"context"
	"fmt"
	"os"
)

// Settings walks the user through a profile update. Each prompt defaults to
// the current value; leaving the password empty keeps it. Only fields that
// actually changed are sent.
func (a *App) Settings(ctx context.Context) error {
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", a.settings.Email()), os.Stdout)
	if err != nil {
		return err
	}
	if email != "" {
		a.settings.SetEmail(email)
	}

	username, err := getSimpleText(a.reader, fmt.Sprintf("Username [%s]", a.settings.Username()), os.Stdout)
	if err != nil {
		return err
	}
	if username != "" {
		a.settings.SetUsername(username)
	}

	password, err := getPassword("New password (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if password != "" {
		confirm, err := getPassword("Repeat new password", os.Stdout)
		if err != nil {
			return err
		}
		a.settings.SetNewPassword(password)
		a.settings.SetConfirmPassword(confirm)
	}

	a.settings.Save(ctx)
	a.flushToasts()
	return nil
}
