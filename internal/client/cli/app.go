package cli

import (
	"bufio"
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/config"
	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/client/share"
	"github.com/dpetrovs/memhub/internal/client/state"
	"github.com/dpetrovs/memhub/internal/logging"
)

const sharedDraftInfoMessage = "Shared link added to draft. Pick a folder and tap Add note."

// shareQueryEnv carries a share-target query string handed over by the OS
// (e.g. "shared_url=https://..."). It seeds the note draft on startup.
const shareQueryEnv = "MEMHUB_SHARE_QUERY"

// App wires the backend clients and state synchronizers behind the REPL.
type App struct {
	config   *config.Config
	log      logging.Logger
	toasts   *state.Toasts
	session  *state.SessionStore
	account  *state.AuthActions
	folders  *state.FolderList
	notes    *state.NoteList
	settings *state.Settings
	reader   *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) *App {
	auth := backend.NewGoTrue(c.BackendURL, c.AnonKey, c.RequestTimeout)
	rest := backend.NewREST(c.BackendURL, c.AnonKey, c.RequestTimeout, auth)

	app := &App{
		config: c,
		log:    log,
		toasts: state.NewToasts(c.ErrorToastTimeout, c.InfoToastTimeout),
		reader: bufio.NewReader(os.Stdin),
	}

	app.account = state.NewAuthActions(auth, app.toasts)
	app.settings = state.NewSettings(auth, app.toasts)
	app.notes = state.NewNoteList(rest.Notes(), app.toasts, log)
	app.notes.SetPageSize(c.NotesPageSize)
	app.folders = state.NewFolderList(rest.Folders(), app.toasts, app, log)
	app.notes.OnCountChange(app.folders.AdjustNoteCount)
	app.folders.OnActiveChange(func(folderID string) {
		app.notes.SetScope(context.Background(), app.userID(), folderID)
	})
	app.session = state.NewSessionStore(auth, app.toasts, log)
	app.session.OnChange(func(s *models.Session) {
		app.settings.SetSession(s)
		app.folders.SetSession(context.Background(), s)
	})

	return app
}

// Run restores the session, seeds a shared draft if the OS handed one over,
// and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	a.session.Start(ctx)
	defer a.session.Stop()

	if q := os.Getenv(shareQueryEnv); q != "" {
		if values, err := url.ParseQuery(q); err == nil {
			if a.notes.MergeSharedDraft(share.FromQuery(values)) {
				a.toasts.Info(sharedDraftInfoMessage)
			}
		}
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Session() != nil
}

func (a *App) userID() string {
	return a.session.Session().UserID()
}

// Confirm asks the user a yes/no question. Anything but y/yes declines.
func (a *App) Confirm(prompt string) bool {
	answer, err := getSimpleText(a.reader, prompt+" [y/N]", os.Stdout)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// flushToasts drains the message channel to the terminal. Called at the end
// of every command so feedback shows up next to the action that caused it.
func (a *App) flushToasts() {
	if msg := a.toasts.ErrorMessage(); msg != "" {
		printlnFn("error:", msg)
	}
	if msg := a.toasts.InfoMessage(); msg != "" {
		printlnFn(msg)
	}
	a.toasts.Clear()
}
