package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/client/share"
)

// noteByArg resolves the first argument as a 1-based position in the current
// note listing (oldest first, matching ListNotes output).
func (a *App) noteByArg(args []string, usage string) (models.Note, bool) {
	if len(args) == 0 {
		printlnFn(usage)
		return models.Note{}, false
	}
	notes := a.notes.Notes()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(notes) {
		printlnFn("No such note:", args[0])
		return models.Note{}, false
	}
	return notes[n-1], true
}

// ListNotes prints the notes of the active folder, oldest first. Notes with
// an in-flight save or delete carry a status marker.
func (a *App) ListNotes(ctx context.Context) error {
	notes := a.notes.Notes()
	if len(notes) == 0 {
		printlnFn("No notes here. Use 'add' to create one.")
		a.flushToasts()
		return nil
	}

	if a.notes.HasMore() {
		printlnFn("(older notes available, use 'more')")
	}
	for i, n := range notes {
		head, _, multiline := strings.Cut(n.Content, "\n")
		if multiline {
			head += " …"
		}
		row := fmt.Sprintf("%2d. %s  %s", i+1, n.CreatedAt.Local().Format("2006-01-02 15:04"), head)
		if !n.Settled() {
			row += "  [" + string(n.UIStatus) + "]"
		}
		printlnFn(row)
	}
	a.flushToasts()
	return nil
}

// AddNote reads a note body and creates it in the active folder. When the
// prompt is left empty, a draft seeded earlier (e.g. from shared content)
// is used as-is.
func (a *App) AddNote(ctx context.Context) error {
	if draft := a.notes.Draft(); draft != "" {
		printlnFn("Current draft:")
		printlnFn(draft)
	}

	content, err := getMultiline(a.reader, "Note content (empty keeps the draft)", os.Stdout)
	if err != nil {
		return err
	}
	if content != "" {
		a.notes.SetDraft(content)
	}

	a.notes.Create(ctx)
	a.flushToasts()
	return nil
}

// EditNote rewrites the body of the addressed note. An empty body cancels.
func (a *App) EditNote(ctx context.Context, args []string) error {
	n, ok := a.noteByArg(args, "Usage: edit <note#>")
	if !ok {
		return nil
	}

	a.notes.StartEdit(n.ID)
	printlnFn("Current content:")
	printlnFn(n.Content)
	content, err := getMultiline(a.reader, "New content (empty to cancel)", os.Stdout)
	if err != nil {
		a.notes.CancelEdit()
		return err
	}
	if content == "" {
		a.notes.CancelEdit()
		return nil
	}

	a.notes.SetEditingContent(content)
	a.notes.SaveEdit(ctx)
	a.flushToasts()
	return nil
}

// DeleteNote removes the addressed note. The row stays visible with a
// deleting marker until the backend confirms.
func (a *App) DeleteNote(ctx context.Context, args []string) error {
	n, ok := a.noteByArg(args, "Usage: del <note#>")
	if !ok {
		return nil
	}

	a.notes.Delete(ctx, n.ID)
	a.flushToasts()
	return nil
}

// MoreNotes fetches the next page of older notes.
func (a *App) MoreNotes(ctx context.Context) error {
	if !a.notes.HasMore() {
		printlnFn("No older notes.")
		return nil
	}

	a.notes.LoadMore(ctx)
	a.flushToasts()
	return nil
}

// OpenNote prints the link the addressed note points to, if any.
func (a *App) OpenNote(ctx context.Context, args []string) error {
	n, ok := a.noteByArg(args, "Usage: open <note#>")
	if !ok {
		return nil
	}

	if link := share.ContentLink(n.Content); link != "" {
		printlnFn(link)
	} else {
		printlnFn("Note has no link.")
	}
	return nil
}

// Share seeds the note draft from shared content, the same way the OS share
// sheet would. URL-shaped input wins over plain text.
func (a *App) Share(ctx context.Context, args []string) error {
	raw := strings.Join(args, " ")
	if raw == "" {
		printlnFn("Usage: share <url or text>")
		return nil
	}

	values := url.Values{}
	values.Set(share.FormTextKey, raw)
	values.Set(share.FormURLKey, raw)
	if a.notes.MergeSharedDraft(share.FromForm(values)) {
		a.toasts.Info(sharedDraftInfoMessage)
	}
	a.flushToasts()
	return nil
}
