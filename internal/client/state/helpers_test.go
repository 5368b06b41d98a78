package state

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/logging"
)

// ---- helpers ----

// syncSpawn makes optimistic operations run inline so tests see their
// final state deterministically.
func syncSpawn(t *testing.T) {
	t.Helper()
	orig := spawn
	spawn = func(fn func()) { fn() }
	t.Cleanup(func() { spawn = orig })
}

// holdSpawn captures the detached part of an optimistic operation instead
// of running it, so tests can observe the in-flight state first.
func holdSpawn(t *testing.T) *[]func() {
	t.Helper()
	orig := spawn
	var held []func()
	spawn = func(fn func()) { held = append(held, fn) }
	t.Cleanup(func() { spawn = orig })
	return &held
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

func testSession(userID string) *models.Session {
	return &models.Session{
		AccessToken:  "at-" + userID,
		RefreshToken: "rt-" + userID,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         models.User{ID: userID, Email: userID + "@example.org"},
	}
}

// ---- fake folder store ----

type fakeFolderStore struct {
	mu sync.Mutex

	listRes   []models.Folder
	listErr   error
	listCalls int

	insertRes models.Folder
	insertErr error
	inserted  []models.Folder

	updateErr error
	updateIDs []string
	patches   []backend.FolderPatch

	deleteErr error
	deleted   []string

	upsertErr error
	upserts   [][]models.Folder
}

func (s *fakeFolderStore) List(_ context.Context, _ string) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := make([]models.Folder, len(s.listRes))
	copy(out, s.listRes)
	return out, s.listErr
}

func (s *fakeFolderStore) Insert(_ context.Context, folder models.Folder) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, folder)
	if s.insertErr != nil {
		return models.Folder{}, s.insertErr
	}
	if s.insertRes.ID != "" {
		return s.insertRes, nil
	}
	folder.ID = "srv-" + strconv.Itoa(len(s.inserted))
	folder.CreatedAt = time.Now().UTC()
	return folder, nil
}

func (s *fakeFolderStore) Update(_ context.Context, id, userID string, patch backend.FolderPatch) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateIDs = append(s.updateIDs, id)
	s.patches = append(s.patches, patch)
	if s.updateErr != nil {
		return models.Folder{}, s.updateErr
	}
	updated := models.Folder{ID: id, UserID: userID}
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Color != nil {
		updated.Color = *patch.Color
	}
	return updated, nil
}

func (s *fakeFolderStore) Delete(_ context.Context, id, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

func (s *fakeFolderStore) UpsertAll(_ context.Context, folders []models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.Folder, len(folders))
	copy(rows, folders)
	s.upserts = append(s.upserts, rows)
	return s.upsertErr
}

// ---- fake note store ----

type pageCall struct {
	userID   string
	folderID string
	limit    int
	before   *time.Time
}

type fakeNoteStore struct {
	mu sync.Mutex

	// pages are served in order; once exhausted ListPage returns nil.
	pages     [][]models.Note
	pageErr   error
	pageCalls []pageCall

	insertRes models.Note
	insertErr error
	inserted  []models.Note

	updateErr error
	updateIDs []string
	patches   []backend.NotePatch

	deleteErr error
	deleted   []string
}

func (s *fakeNoteStore) ListPage(_ context.Context, userID, folderID string, limit int, before *time.Time) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageCalls = append(s.pageCalls, pageCall{userID: userID, folderID: folderID, limit: limit, before: before})
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	if len(s.pages) == 0 {
		return nil, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

func (s *fakeNoteStore) Insert(_ context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, note)
	if s.insertErr != nil {
		return models.Note{}, s.insertErr
	}
	if s.insertRes.ID != "" {
		return s.insertRes, nil
	}
	note.ID = "srv-" + strconv.Itoa(len(s.inserted))
	note.CreatedAt = time.Now().UTC()
	return note, nil
}

func (s *fakeNoteStore) Update(_ context.Context, id, userID string, patch backend.NotePatch) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateIDs = append(s.updateIDs, id)
	s.patches = append(s.patches, patch)
	if s.updateErr != nil {
		return models.Note{}, s.updateErr
	}
	updated := models.Note{ID: id, UserID: userID}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	return updated, nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

// ---- fake auth client ----

type fakeAuthClient struct {
	mu sync.Mutex

	session    *models.Session
	sessionErr error

	subs         []func(*models.Session)
	unsubscribed int

	signUpRes backend.SignUpResult
	signUpErr error
	signUps   []string

	signInErr error
	signIns   []string

	signOutErr    error
	signOutCalled bool

	updateErr error
	updates   []backend.UserUpdate
}

func (a *fakeAuthClient) CurrentSession(context.Context) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.sessionErr
}

func (a *fakeAuthClient) OnAuthStateChange(fn func(*models.Session)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, fn)
	return func() {
		a.mu.Lock()
		a.unsubscribed++
		a.mu.Unlock()
	}
}

// emit simulates an identity transition reported by the auth client.
func (a *fakeAuthClient) emit(s *models.Session) {
	a.mu.Lock()
	a.session = s
	subs := make([]func(*models.Session), len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (a *fakeAuthClient) SignUp(_ context.Context, email, _ string) (backend.SignUpResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signUps = append(a.signUps, email)
	return a.signUpRes, a.signUpErr
}

func (a *fakeAuthClient) SignIn(_ context.Context, email, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signIns = append(a.signIns, email)
	return a.signInErr
}

func (a *fakeAuthClient) SignOut(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOutCalled = true
	return a.signOutErr
}

func (a *fakeAuthClient) UpdateUser(_ context.Context, update backend.UserUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates = append(a.updates, update)
	return a.updateErr
}

// ---- fixed confirmer ----

type fixedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fixedConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}
