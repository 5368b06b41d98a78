package backend

import (
	"context"
	"time"

	"github.com/dpetrovs/memhub/internal/client/models"
)

// AuthClient is the identity surface of the backend collaborator.
//
// CurrentSession returns the session the client currently holds, refreshing
// it when possible; nil means signed out. OnAuthStateChange registers a
// callback invoked on every identity transition (sign-in, sign-out, token
// refresh) and returns an unsubscribe function.
type AuthClient interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	OnAuthStateChange(fn func(*models.Session)) (unsubscribe func())
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, update UserUpdate) error
}

// SignUpResult carries the few response fields the client inspects.
// A confirmed-but-duplicate signup comes back with zero identities.
type SignUpResult struct {
	UserID     string
	Identities int
}

// UserUpdate is a partial identity update. Nil fields are left unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
	Username *string
}

// IsZero reports whether the update would change nothing.
func (u UserUpdate) IsZero() bool {
	return u.Email == nil && u.Password == nil && u.Username == nil
}

// FolderStore is the folder record family. All operations are scoped by
// userID; the backend enforces that users only touch their own rows.
type FolderStore interface {
	// List returns the user's folders ordered by sort_order descending
	// (nulls last), then created_at descending.
	List(ctx context.Context, userID string) ([]models.Folder, error)
	Insert(ctx context.Context, folder models.Folder) (models.Folder, error)
	Update(ctx context.Context, id, userID string, patch FolderPatch) (models.Folder, error)
	Delete(ctx context.Context, id, userID string) error
	// UpsertAll persists the given folders in one batched upsert keyed by id.
	UpsertAll(ctx context.Context, folders []models.Folder) error
}

// FolderPatch is a partial folder update. Nil fields are left unchanged.
type FolderPatch struct {
	Title *string
	Color *string
}

// NoteStore is the note record family.
type NoteStore interface {
	// ListPage returns up to limit notes of the folder ordered by created_at
	// descending. A non-nil before restricts the page to notes strictly
	// older than that timestamp (exclusive keyset cursor).
	ListPage(ctx context.Context, userID, folderID string, limit int, before *time.Time) ([]models.Note, error)
	Insert(ctx context.Context, note models.Note) (models.Note, error)
	Update(ctx context.Context, id, userID string, patch NotePatch) (models.Note, error)
	Delete(ctx context.Context, id, userID string) error
}

// NotePatch is a partial note update.
type NotePatch struct {
	Content *string
}
