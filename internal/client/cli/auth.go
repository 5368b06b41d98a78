package cli

import (
	"context"
	"os"
)

// Register prompts for an email and password and attempts to create a new
// account. Outcome feedback (confirmation mail sent, already registered,
// validation failures) arrives through the message channel and is printed
// before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	a.account.SignUp(ctx, email, password)
	a.flushToasts()
	return nil
}

// Login prompts for credentials and tries to authenticate. On success the
// session watcher kicks off the folder reload, which in turn scopes the
// note list; the prompt reflects the signed-in state on the next loop turn.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	a.account.SignIn(ctx, email, password)
	a.flushToasts()
	return nil
}

// Logout signs out and lets the auth-state fanout clear folders and notes.
func (a *App) Logout(ctx context.Context) error {
	a.account.SignOut(ctx)
	a.flushToasts()
	return nil
}
