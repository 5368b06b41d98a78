package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dpetrovs/memhub/internal/client/backend"
	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/logging"
)

// DefaultFolderColor is applied client-side whenever a folder arrives with
// an empty color.
const DefaultFolderColor = "#7c9dff"

const (
	signInRequiredMessage = "You must be signed in."
	folderTitleRequired   = "Folder title is required."
)

// FolderOp is the pending backend operation of a single folder. At most one
// operation per folder may be in flight; conflicting actions on the same id
// are rejected until it settles.
type FolderOp string

const (
	FolderOpNone   FolderOp = ""
	FolderOpUpdate FolderOp = "update"
	FolderOpDelete FolderOp = "delete"
)

// Confirmer answers a destructive-action prompt. The terminal front end asks
// the user; tests answer directly.
type Confirmer interface {
	Confirm(prompt string) bool
}

// FolderList owns the ordered folder collection for the current user: load,
// create, rename, recolor, delete, and drag-based reordering. Nothing else
// mutates the collection.
type FolderList struct {
	mu      sync.Mutex
	store   backend.FolderStore
	msgs    Messages
	confirm Confirmer
	log     logging.Logger

	// onActive is invoked, outside the lock, whenever the active folder
	// changes. Wired once at startup.
	onActive func(folderID string)

	userID   string
	folders  []models.Folder
	activeID string
	counts   map[string]int

	draftTitle string
	draftColor string

	loading    bool
	saving     bool
	renaming   bool
	reordering bool
	pending    map[string]FolderOp

	draggingID   string
	dragOverID   string
	editingID    string
	editingTitle string
	openMenuID   string
}

func NewFolderList(store backend.FolderStore, msgs Messages, confirm Confirmer, log logging.Logger) *FolderList {
	return &FolderList{
		store:      store,
		msgs:       msgs,
		confirm:    confirm,
		log:        log,
		draftColor: DefaultFolderColor,
		counts:     make(map[string]int),
		pending:    make(map[string]FolderOp),
	}
}

// OnActiveChange wires the active-folder callback. Call before SetSession.
func (f *FolderList) OnActiveChange(fn func(folderID string)) {
	f.mu.Lock()
	f.onActive = fn
	f.mu.Unlock()
}

func (f *FolderList) notifyActive(id string) {
	f.mu.Lock()
	fn := f.onActive
	f.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

// SetSession reacts to an identity change: a missing user discards all
// folder state, a new user triggers a full reload.
func (f *FolderList) SetSession(ctx context.Context, session *models.Session) {
	userID := session.UserID()

	f.mu.Lock()
	if userID == "" {
		hadUser := f.userID != ""
		f.resetLocked()
		f.mu.Unlock()
		if hadUser {
			f.notifyActive("")
		}
		return
	}
	if userID == f.userID {
		f.mu.Unlock()
		return
	}
	f.userID = userID
	f.folders = nil
	f.activeID = ""
	f.counts = make(map[string]int)
	f.mu.Unlock()

	// Dependents scope their state by user id as well as folder id, so an
	// identity switch notifies immediately. Reload then notifies again only
	// if a folder becomes active, which never happens for a user with no
	// folders.
	f.notifyActive("")

	f.Reload(ctx)
}

func (f *FolderList) resetLocked() {
	f.userID = ""
	f.folders = nil
	f.activeID = ""
	f.counts = make(map[string]int)
	f.draftTitle = ""
	f.draftColor = DefaultFolderColor
	f.pending = make(map[string]FolderOp)
	f.draggingID = ""
	f.dragOverID = ""
	f.editingID = ""
	f.editingTitle = ""
	f.openMenuID = ""
	f.loading = false
	f.saving = false
	f.renaming = false
	f.reordering = false
}

// Reload discards the in-memory list and fetches the user's folders sorted
// by sort_order descending (nulls last), then created_at descending. The
// active folder is preserved when still present, otherwise the first folder
// becomes active.
func (f *FolderList) Reload(ctx context.Context) {
	f.mu.Lock()
	userID := f.userID
	if userID == "" || f.loading {
		f.mu.Unlock()
		return
	}
	f.loading = true
	f.mu.Unlock()

	folders, err := f.store.List(ctx, userID)

	f.mu.Lock()
	f.loading = false
	if f.userID != userID {
		// Signed out or switched identity while the fetch was in flight.
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.mu.Unlock()
		f.log.Warn(ctx, "folder reload failed", "user_id", userID, "error", err)
		f.msgs.Error(err.Error())
		return
	}

	for i := range folders {
		if folders[i].Color == "" {
			folders[i].Color = DefaultFolderColor
		}
	}
	f.folders = folders

	prev := f.activeID
	next := prev
	if next == "" || f.indexLocked(next) < 0 {
		next = ""
		if len(folders) > 0 {
			next = folders[0].ID
		}
	}
	f.activeID = next
	f.mu.Unlock()

	if next != prev {
		f.notifyActive(next)
	}
}

// Create inserts a folder from the draft fields with a sort_order above the
// current maximum. Folder creation is deliberately not optimistic: the list
// changes only after the backend returns the authoritative row.
func (f *FolderList) Create(ctx context.Context) {
	f.msgs.Clear()

	f.mu.Lock()
	if f.userID == "" {
		f.mu.Unlock()
		f.msgs.Error(signInRequiredMessage)
		return
	}
	title := strings.TrimSpace(f.draftTitle)
	if title == "" {
		f.mu.Unlock()
		f.msgs.Error(folderTitleRequired)
		return
	}
	if f.saving {
		f.mu.Unlock()
		return
	}
	f.saving = true
	userID := f.userID
	color := f.draftColor
	if color == "" {
		color = DefaultFolderColor
	}
	sortOrder := NextSortOrder(f.folders)
	f.mu.Unlock()

	created, err := f.store.Insert(ctx, models.Folder{
		UserID:    userID,
		Title:     title,
		Color:     color,
		SortOrder: sortOrder,
	})

	f.mu.Lock()
	f.saving = false
	if err != nil {
		f.mu.Unlock()
		f.msgs.Error(err.Error())
		return
	}
	if created.Color == "" {
		created.Color = DefaultFolderColor
	}
	f.draftTitle = ""
	f.draftColor = DefaultFolderColor
	f.folders = append([]models.Folder{created}, f.folders...)
	f.activeID = created.ID
	f.mu.Unlock()

	f.msgs.Info("Folder created.")
	f.notifyActive(created.ID)
}

// StartRename opens an inline rename with a working copy of the title and
// makes the folder active. Starting a rename on another folder replaces the
// previous edit session.
func (f *FolderList) StartRename(id string) {
	f.mu.Lock()
	idx := f.indexLocked(id)
	if idx < 0 {
		f.mu.Unlock()
		return
	}
	f.editingID = id
	f.editingTitle = f.folders[idx].Title
	prev := f.activeID
	f.activeID = id
	f.mu.Unlock()

	if prev != id {
		f.notifyActive(id)
	}
}

// CancelRename discards the working title without any backend call.
func (f *FolderList) CancelRename() {
	f.mu.Lock()
	f.editingID = ""
	f.editingTitle = ""
	f.mu.Unlock()
}

func (f *FolderList) SetEditingTitle(title string) {
	f.mu.Lock()
	f.editingTitle = title
	f.mu.Unlock()
}

// SaveRename persists the working title and patches it in place on success.
func (f *FolderList) SaveRename(ctx context.Context) {
	f.msgs.Clear()

	f.mu.Lock()
	if f.userID == "" || f.editingID == "" {
		f.mu.Unlock()
		f.msgs.Error(signInRequiredMessage)
		return
	}
	title := strings.TrimSpace(f.editingTitle)
	if title == "" {
		f.mu.Unlock()
		f.msgs.Error(folderTitleRequired)
		return
	}
	if f.renaming {
		f.mu.Unlock()
		return
	}
	f.renaming = true
	id := f.editingID
	userID := f.userID
	f.mu.Unlock()

	updated, err := f.store.Update(ctx, id, userID, backend.FolderPatch{Title: &title})

	f.mu.Lock()
	f.renaming = false
	if err != nil {
		f.mu.Unlock()
		f.msgs.Error(err.Error())
		return
	}
	if idx := f.indexLocked(updated.ID); idx >= 0 {
		f.folders[idx].Title = updated.Title
	}
	f.editingID = ""
	f.editingTitle = ""
	f.openMenuID = ""
	f.mu.Unlock()

	f.msgs.Info("Folder renamed.")
}

// SetColor updates a folder's color. The displayed color changes only after
// backend confirmation; while the call is in flight the folder is marked
// pending and conflicting actions on it are rejected.
func (f *FolderList) SetColor(ctx context.Context, id, color string) {
	f.msgs.Clear()

	f.mu.Lock()
	if f.userID == "" {
		f.mu.Unlock()
		f.msgs.Error(signInRequiredMessage)
		return
	}
	if f.pending[id] != FolderOpNone {
		f.mu.Unlock()
		return
	}
	f.pending[id] = FolderOpUpdate
	userID := f.userID
	f.mu.Unlock()

	_, err := f.store.Update(ctx, id, userID, backend.FolderPatch{Color: &color})

	f.mu.Lock()
	delete(f.pending, id)
	if err != nil {
		f.mu.Unlock()
		f.msgs.Error(err.Error())
		return
	}
	if idx := f.indexLocked(id); idx >= 0 {
		f.folders[idx].Color = color
	}
	f.mu.Unlock()

	f.msgs.Info("Folder color updated.")
}

// Delete removes a folder after explicit confirmation. The backend cascades
// the folder's notes. On success any editing, menu, or drag state referring
// to the folder is cleared and, if it was active, the first remaining folder
// takes over.
func (f *FolderList) Delete(ctx context.Context, id string) {
	f.msgs.Clear()

	f.mu.Lock()
	if f.userID == "" {
		f.mu.Unlock()
		f.msgs.Error(signInRequiredMessage)
		return
	}
	prompt := "Delete this folder and all notes in it?"
	if idx := f.indexLocked(id); idx >= 0 {
		prompt = fmt.Sprintf("Delete %q and all notes in it?", f.folders[idx].Title)
	}
	confirm := f.confirm
	f.mu.Unlock()

	if confirm == nil || !confirm.Confirm(prompt) {
		return
	}

	f.mu.Lock()
	if f.pending[id] != FolderOpNone {
		f.mu.Unlock()
		return
	}
	f.pending[id] = FolderOpDelete
	userID := f.userID
	f.mu.Unlock()

	err := f.store.Delete(ctx, id, userID)

	f.mu.Lock()
	delete(f.pending, id)
	if err != nil {
		f.mu.Unlock()
		f.msgs.Error(err.Error())
		return
	}

	if idx := f.indexLocked(id); idx >= 0 {
		f.folders = append(f.folders[:idx], f.folders[idx+1:]...)
	}
	delete(f.counts, id)

	prevActive := f.activeID
	if f.activeID == id {
		f.activeID = ""
		if len(f.folders) > 0 {
			f.activeID = f.folders[0].ID
		}
	}
	next := f.activeID

	if f.editingID == id {
		f.editingID = ""
		f.editingTitle = ""
	}
	if f.openMenuID == id {
		f.openMenuID = ""
	}
	if f.draggingID == id {
		f.draggingID = ""
	}
	if f.dragOverID == id {
		f.dragOverID = ""
	}
	f.mu.Unlock()

	if next != prevActive {
		f.notifyActive(next)
	}
	f.msgs.Info("Folder deleted.")
}

// DragStart records the folder being dragged.
func (f *FolderList) DragStart(id string) {
	f.mu.Lock()
	f.draggingID = id
	f.mu.Unlock()
}

// DragOver records id as the current drop target. Idempotent.
func (f *FolderList) DragOver(id string) {
	f.mu.Lock()
	if f.dragOverID != id {
		f.dragOverID = id
	}
	f.mu.Unlock()
}

// DragLeave clears the drop target if it is still id. Call only when the
// pointer actually left the folder row, not when it moved onto a child.
func (f *FolderList) DragLeave(id string) {
	f.mu.Lock()
	if f.dragOverID == id {
		f.dragOverID = ""
	}
	f.mu.Unlock()
}

// DragEnd clears all transient drag state.
func (f *FolderList) DragEnd() {
	f.mu.Lock()
	f.draggingID = ""
	f.dragOverID = ""
	f.mu.Unlock()
}

// Drop completes a drag onto targetID: the dragged folder is spliced out and
// re-inserted at the target's index, the whole list is re-ranked, and the new
// order is applied locally before the batched upsert is issued. A failed
// upsert triggers a full reload, never a partial rollback.
func (f *FolderList) Drop(ctx context.Context, targetID string) {
	f.mu.Lock()
	source := f.draggingID
	if source == "" || source == targetID {
		f.draggingID = ""
		f.dragOverID = ""
		f.mu.Unlock()
		return
	}
	if f.reordering {
		f.draggingID = ""
		f.dragOverID = ""
		f.mu.Unlock()
		return
	}

	srcIdx := f.indexLocked(source)
	tgtIdx := f.indexLocked(targetID)
	if srcIdx < 0 || tgtIdx < 0 {
		f.draggingID = ""
		f.dragOverID = ""
		f.mu.Unlock()
		return
	}

	next := make([]models.Folder, 0, len(f.folders))
	next = append(next, f.folders...)
	moved := next[srcIdx]
	next = append(next[:srcIdx], next[srcIdx+1:]...)
	next = append(next[:tgtIdx], append([]models.Folder{moved}, next[tgtIdx:]...)...)

	ordered := ApplySortOrder(next)
	f.folders = ordered
	f.reordering = true
	rows := make([]models.Folder, len(ordered))
	copy(rows, ordered)
	f.mu.Unlock()

	f.log.Debug(ctx, "reordering folders", "source", source, "target", targetID)

	err := f.store.UpsertAll(ctx, rows)
	if err != nil {
		f.log.Warn(ctx, "folder reorder failed", "error", err)
		f.msgs.Error(err.Error())
		f.Reload(ctx)
	}

	f.mu.Lock()
	f.reordering = false
	f.draggingID = ""
	f.dragOverID = ""
	f.mu.Unlock()
}

// Folders returns a copy of the list in display order.
func (f *FolderList) Folders() []models.Folder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Folder, len(f.folders))
	copy(out, f.folders)
	return out
}

// Active returns the active folder id, or "".
func (f *FolderList) Active() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeID
}

// SetActive switches the active folder.
func (f *FolderList) SetActive(id string) {
	f.mu.Lock()
	if f.activeID == id {
		f.mu.Unlock()
		return
	}
	f.activeID = id
	f.mu.Unlock()
	f.notifyActive(id)
}

// AdjustNoteCount applies a note-count delta reported by the note
// synchronizer. Counts never go negative.
func (f *FolderList) AdjustNoteCount(folderID string, delta int) {
	f.mu.Lock()
	next := f.counts[folderID] + delta
	if next < 0 {
		next = 0
	}
	f.counts[folderID] = next
	f.mu.Unlock()
}

// NoteCount returns the tracked note count for a folder.
func (f *FolderList) NoteCount(folderID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[folderID]
}

func (f *FolderList) DraftTitle() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draftTitle
}

func (f *FolderList) SetDraftTitle(title string) {
	f.mu.Lock()
	f.draftTitle = title
	f.mu.Unlock()
}

func (f *FolderList) DraftColor() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draftColor
}

func (f *FolderList) SetDraftColor(color string) {
	f.mu.Lock()
	f.draftColor = color
	f.mu.Unlock()
}

func (f *FolderList) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *FolderList) IsSaving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

func (f *FolderList) IsRenaming() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renaming
}

func (f *FolderList) IsReordering() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reordering
}

// Pending returns the in-flight operation for a folder, if any.
func (f *FolderList) Pending(id string) FolderOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[id]
}

func (f *FolderList) DraggingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draggingID
}

func (f *FolderList) DragOverID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dragOverID
}

func (f *FolderList) EditingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID
}

func (f *FolderList) EditingTitle() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingTitle
}

func (f *FolderList) OpenMenuID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openMenuID
}

func (f *FolderList) SetOpenMenu(id string) {
	f.mu.Lock()
	f.openMenuID = id
	f.mu.Unlock()
}

func (f *FolderList) indexLocked(id string) int {
	for i := range f.folders {
		if f.folders[i].ID == id {
			return i
		}
	}
	return -1
}
