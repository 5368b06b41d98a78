package state

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/client/share"
	"github.com/dpetrovs/memhub/internal/logging"
)

// NotesPageSize is how many notes one keyset page fetches.
const NotesPageSize = 30

const (
	folderRequiredMessage = "Select a folder first."
	noteContentRequired   = "Note content is required."
)

// NoteList owns the notes of the active folder: keyset-paginated backward
// loading, optimistic create and delete, and edit-in-place. Note-count
// deltas are reported through the OnCountChange callback only.
type NoteList struct {
	mu      sync.Mutex
	store   backend.NoteStore
	msgs    Messages
	log     logging.Logger
	onCount func(folderID string, delta int)

	pageSize int

	userID   string
	folderID string
	notes    []models.Note
	draft    string

	loading     bool
	loadingMore bool
	hasMore     bool
	updating    bool

	openMenuID     string
	editingID      string
	editingContent string
}

func NewNoteList(store backend.NoteStore, msgs Messages, log logging.Logger) *NoteList {
	return &NoteList{store: store, msgs: msgs, log: log, pageSize: NotesPageSize}
}

// OnCountChange wires the note-count delta callback. Call before use.
func (nl *NoteList) OnCountChange(fn func(folderID string, delta int)) {
	nl.mu.Lock()
	nl.onCount = fn
	nl.mu.Unlock()
}

// SetPageSize overrides the page size. Values below one are ignored.
func (nl *NoteList) SetPageSize(n int) {
	nl.mu.Lock()
	if n > 0 {
		nl.pageSize = n
	}
	nl.mu.Unlock()
}

// SetScope reacts to the active folder or the user changing: all note state
// is discarded and, when both ids are present, the most recent page is
// fetched. The composer draft survives folder switches but not sign-out.
func (nl *NoteList) SetScope(ctx context.Context, userID, folderID string) {
	nl.mu.Lock()
	if nl.userID == userID && nl.folderID == folderID {
		nl.mu.Unlock()
		return
	}
	nl.userID = userID
	nl.folderID = folderID
	nl.notes = nil
	nl.hasMore = false
	nl.loadingMore = false
	nl.openMenuID = ""
	nl.editingID = ""
	nl.editingContent = ""
	nl.updating = false
	if userID == "" {
		nl.draft = ""
	}
	if userID == "" || folderID == "" {
		nl.loading = false
		nl.mu.Unlock()
		return
	}
	nl.mu.Unlock()

	nl.load(ctx, userID, folderID)
}

// Reload re-fetches the first page of the current scope.
func (nl *NoteList) Reload(ctx context.Context) {
	nl.mu.Lock()
	userID, folderID := nl.userID, nl.folderID
	nl.mu.Unlock()
	if userID == "" || folderID == "" {
		return
	}
	nl.load(ctx, userID, folderID)
}

func (nl *NoteList) load(ctx context.Context, userID, folderID string) {
	nl.mu.Lock()
	nl.loading = true
	nl.loadingMore = false
	pageSize := nl.pageSize
	nl.mu.Unlock()

	page, err := nl.store.ListPage(ctx, userID, folderID, pageSize, nil)

	nl.mu.Lock()
	if nl.userID != userID || nl.folderID != folderID {
		// Scope moved on while the fetch was in flight; drop the result.
		nl.mu.Unlock()
		return
	}
	nl.loading = false
	if err != nil {
		nl.mu.Unlock()
		nl.log.Warn(ctx, "note load failed", "folder_id", folderID, "error", err)
		nl.msgs.Error(err.Error())
		return
	}
	nl.notes = reverseNotes(page)
	nl.hasMore = len(page) == pageSize
	nl.mu.Unlock()
}

// LoadMore fetches the page strictly older than the oldest loaded note and
// prepends it. It is a no-op while any load is in flight or when no more
// pages are known to exist.
func (nl *NoteList) LoadMore(ctx context.Context) {
	nl.mu.Lock()
	if nl.userID == "" || nl.folderID == "" || nl.loadingMore || nl.loading || !nl.hasMore {
		nl.mu.Unlock()
		return
	}
	sorted := nl.sortedLocked()
	if len(sorted) == 0 {
		nl.mu.Unlock()
		return
	}
	oldest := sorted[0].CreatedAt
	nl.loadingMore = true
	userID, folderID, pageSize := nl.userID, nl.folderID, nl.pageSize
	nl.mu.Unlock()

	page, err := nl.store.ListPage(ctx, userID, folderID, pageSize, &oldest)

	nl.mu.Lock()
	if nl.userID != userID || nl.folderID != folderID {
		nl.mu.Unlock()
		return
	}
	nl.loadingMore = false
	if err != nil {
		nl.mu.Unlock()
		nl.msgs.Error(err.Error())
		return
	}
	nl.notes = append(reverseNotes(page), nl.notes...)
	nl.hasMore = len(page) == pageSize
	nl.mu.Unlock()
}

// Create appends an optimistic note with a temporary id and a saving marker
// before the backend call is issued, then reconciles the detached result by
// id: success swaps in the authoritative record at the same position,
// failure removes the temporary note and reverses the count delta.
func (nl *NoteList) Create(ctx context.Context) {
	nl.msgs.Clear()

	nl.mu.Lock()
	if nl.userID == "" {
		nl.mu.Unlock()
		nl.msgs.Error(signInRequiredMessage)
		return
	}
	if nl.folderID == "" {
		nl.mu.Unlock()
		nl.msgs.Error(folderRequiredMessage)
		return
	}
	content := strings.TrimSpace(nl.draft)
	if content == "" {
		nl.mu.Unlock()
		nl.msgs.Error(noteContentRequired)
		return
	}

	tempID := fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	userID, folderID := nl.userID, nl.folderID
	nl.draft = ""
	nl.notes = append(nl.notes, models.Note{
		ID:        tempID,
		FolderID:  folderID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UIStatus:  models.UIStatusSaving,
	})
	onCount := nl.onCount
	nl.mu.Unlock()

	if onCount != nil {
		onCount(folderID, 1)
	}

	spawn(func() {
		created, err := nl.store.Insert(ctx, models.Note{
			UserID:   userID,
			FolderID: folderID,
			Content:  content,
		})
		if err != nil {
			nl.mu.Lock()
			nl.removeLocked(tempID)
			nl.mu.Unlock()
			if onCount != nil {
				onCount(folderID, -1)
			}
			nl.log.Warn(ctx, "note create failed", "folder_id", folderID, "error", err)
			nl.msgs.Error(err.Error())
			return
		}

		nl.mu.Lock()
		// Keyed by the temporary id: if the list was replaced meanwhile
		// (folder switch, sign-out) this is a no-op.
		for i := range nl.notes {
			if nl.notes[i].ID == tempID {
				created.UIStatus = models.UIStatusNone
				nl.notes[i] = created
				break
			}
		}
		nl.mu.Unlock()
		nl.msgs.Info("Note added.")
	})
}

// Delete marks the note deleting — it stays visible until confirmed — and
// issues the detached backend call: success splices it out and decrements
// the owning folder's count, failure restores the note fully interactive.
// An id not in the list is ignored.
func (nl *NoteList) Delete(ctx context.Context, id string) {
	nl.msgs.Clear()

	nl.mu.Lock()
	if nl.userID == "" {
		nl.mu.Unlock()
		nl.msgs.Error(signInRequiredMessage)
		return
	}

	idx := nl.indexLocked(id)
	if idx < 0 {
		nl.mu.Unlock()
		return
	}
	if nl.notes[idx].UIStatus == models.UIStatusDeleting {
		nl.mu.Unlock()
		return
	}
	folderForCount := nl.notes[idx].FolderID
	if folderForCount == "" {
		folderForCount = nl.folderID
	}
	nl.notes[idx].UIStatus = models.UIStatusDeleting
	nl.openMenuID = ""
	if nl.editingID == id {
		nl.editingID = ""
		nl.editingContent = ""
		nl.updating = false
	}
	userID := nl.userID
	onCount := nl.onCount
	nl.mu.Unlock()

	spawn(func() {
		err := nl.store.Delete(ctx, id, userID)
		if err != nil {
			nl.mu.Lock()
			if i := nl.indexLocked(id); i >= 0 {
				nl.notes[i].UIStatus = models.UIStatusNone
			}
			nl.mu.Unlock()
			nl.msgs.Error(err.Error())
			return
		}

		nl.mu.Lock()
		nl.removeLocked(id)
		nl.mu.Unlock()
		if onCount != nil && folderForCount != "" {
			onCount(folderForCount, -1)
		}
		nl.msgs.Info("Note deleted.")
	})
}

// StartEdit opens an inline edit seeded with the note's current content.
// Only one note is editable at a time; starting another edit replaces the
// previous session.
func (nl *NoteList) StartEdit(id string) {
	nl.mu.Lock()
	idx := nl.indexLocked(id)
	if idx < 0 {
		nl.mu.Unlock()
		return
	}
	nl.editingID = id
	nl.editingContent = nl.notes[idx].Content
	nl.openMenuID = ""
	nl.mu.Unlock()
}

// CancelEdit discards the edit session. Rejected while a save is in flight.
func (nl *NoteList) CancelEdit() {
	nl.mu.Lock()
	if nl.updating {
		nl.mu.Unlock()
		return
	}
	nl.editingID = ""
	nl.editingContent = ""
	nl.mu.Unlock()
}

func (nl *NoteList) SetEditingContent(content string) {
	nl.mu.Lock()
	nl.editingContent = content
	nl.mu.Unlock()
}

// SaveEdit persists the edited content. Unchanged content short-circuits
// without any backend call.
func (nl *NoteList) SaveEdit(ctx context.Context) {
	nl.msgs.Clear()

	nl.mu.Lock()
	if nl.userID == "" || nl.editingID == "" {
		nl.mu.Unlock()
		nl.msgs.Error(signInRequiredMessage)
		return
	}
	content := strings.TrimSpace(nl.editingContent)
	if content == "" {
		nl.mu.Unlock()
		nl.msgs.Error(noteContentRequired)
		return
	}
	if idx := nl.indexLocked(nl.editingID); idx >= 0 && nl.notes[idx].Content == content {
		nl.editingID = ""
		nl.editingContent = ""
		nl.mu.Unlock()
		return
	}
	if nl.updating {
		nl.mu.Unlock()
		return
	}
	nl.updating = true
	id := nl.editingID
	userID := nl.userID
	nl.mu.Unlock()

	updated, err := nl.store.Update(ctx, id, userID, backend.NotePatch{Content: &content})

	nl.mu.Lock()
	nl.updating = false
	if err != nil {
		nl.mu.Unlock()
		nl.msgs.Error(err.Error())
		return
	}
	if idx := nl.indexLocked(updated.ID); idx >= 0 {
		nl.notes[idx].Content = updated.Content
	}
	nl.editingID = ""
	nl.editingContent = ""
	nl.openMenuID = ""
	nl.mu.Unlock()

	nl.msgs.Info("Note updated.")
}

// MergeSharedDraft folds a shared payload into the composer draft. Returns
// whether the draft changed.
func (nl *NoteList) MergeSharedDraft(p share.Payload) bool {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	before := nl.draft
	nl.draft = p.MergeDraft(nl.draft)
	return nl.draft != before
}

// Notes returns the loaded notes sorted ascending by creation time,
// regardless of fetch or append order.
func (nl *NoteList) Notes() []models.Note {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.sortedLocked()
}

func (nl *NoteList) sortedLocked() []models.Note {
	out := make([]models.Note, len(nl.notes))
	copy(out, nl.notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (nl *NoteList) Draft() string {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.draft
}

func (nl *NoteList) SetDraft(content string) {
	nl.mu.Lock()
	nl.draft = content
	nl.mu.Unlock()
}

func (nl *NoteList) IsLoading() bool {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.loading
}

func (nl *NoteList) IsLoadingMore() bool {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.loadingMore
}

func (nl *NoteList) HasMore() bool {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.hasMore
}

func (nl *NoteList) IsUpdating() bool {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.updating
}

func (nl *NoteList) EditingID() string {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.editingID
}

func (nl *NoteList) EditingContent() string {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.editingContent
}

func (nl *NoteList) OpenMenuID() string {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	return nl.openMenuID
}

func (nl *NoteList) SetOpenMenu(id string) {
	nl.mu.Lock()
	nl.openMenuID = id
	nl.mu.Unlock()
}

func (nl *NoteList) indexLocked(id string) int {
	for i := range nl.notes {
		if nl.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (nl *NoteList) removeLocked(id string) {
	if idx := nl.indexLocked(id); idx >= 0 {
		nl.notes = append(nl.notes[:idx], nl.notes[idx+1:]...)
	}
}

// reverseNotes flips a newest-first page into ascending display order.
func reverseNotes(page []models.Note) []models.Note {
	out := make([]models.Note, len(page))
	for i, n := range page {
		out[len(page)-1-i] = n
	}
	return out
}
