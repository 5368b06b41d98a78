package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dpetrovs/memhub/internal/client/models"
	"github.com/dpetrovs/memhub/internal/client/state"
)

// folderByArg resolves the first argument as a 1-based position in the
// current folder listing. On bad input it prints the usage line and reports
// failure instead of returning an error, keeping the REPL loop quiet.
func (a *App) folderByArg(args []string, usage string) (models.Folder, bool) {
	if len(args) == 0 {
		printlnFn(usage)
		return models.Folder{}, false
	}
	folders := a.folders.Folders()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(folders) {
		printlnFn("No such folder:", args[0])
		return models.Folder{}, false
	}
	return folders[n-1], true
}

// ListFolders prints the folder listing in rank order. The active folder is
// marked with '*', folders with an in-flight operation with its kind.
func (a *App) ListFolders(ctx context.Context) error {
	folders := a.folders.Folders()
	if len(folders) == 0 {
		printlnFn("No folders yet. Use 'mkdir <title>' to create one.")
		return nil
	}

	active := a.folders.Active()
	for i, f := range folders {
		marker := " "
		if f.ID == active {
			marker = "*"
		}
		row := fmt.Sprintf("%s %2d. %s  (%d notes, %s)", marker, i+1, f.Title, a.folders.NoteCount(f.ID), f.Color)
		if op := a.folders.Pending(f.ID); op != state.FolderOpNone {
			row += "  [" + string(op) + "]"
		}
		printlnFn(row)
	}
	a.flushToasts()
	return nil
}

// AddFolder creates a folder from the arguments (or an interactive prompt)
// and makes it the active one.
func (a *App) AddFolder(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		t, err := getSimpleText(a.reader, "Folder title", os.Stdout)
		if err != nil {
			return err
		}
		title = t
	}

	color, err := getSimpleText(a.reader, "Folder color (empty for default)", os.Stdout)
	if err != nil {
		return err
	}

	a.folders.SetDraftTitle(title)
	a.folders.SetDraftColor(color)
	a.folders.Create(ctx)
	a.flushToasts()
	return nil
}

// RenameFolder renames the addressed folder. An empty title cancels.
func (a *App) RenameFolder(ctx context.Context, args []string) error {
	f, ok := a.folderByArg(args, "Usage: rename <folder#>")
	if !ok {
		return nil
	}

	a.folders.StartRename(f.ID)
	title, err := getSimpleText(a.reader, fmt.Sprintf("New title for %q (empty to cancel)", f.Title), os.Stdout)
	if err != nil {
		a.folders.CancelRename()
		return err
	}
	if title == "" {
		a.folders.CancelRename()
		return nil
	}

	a.folders.SetEditingTitle(title)
	a.folders.SaveRename(ctx)
	a.flushToasts()
	return nil
}

// ColorFolder sets the color swatch of the addressed folder.
func (a *App) ColorFolder(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: color <folder#> <color>")
		return nil
	}
	f, ok := a.folderByArg(args[:1], "Usage: color <folder#> <color>")
	if !ok {
		return nil
	}

	a.folders.SetColor(ctx, f.ID, args[1])
	a.flushToasts()
	return nil
}

// MoveFolder drags the folder at the first position onto the folder at the
// second and persists the resulting order.
func (a *App) MoveFolder(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: move <from#> <to#>")
		return nil
	}
	src, ok := a.folderByArg(args[:1], "Usage: move <from#> <to#>")
	if !ok {
		return nil
	}
	dst, ok := a.folderByArg(args[1:2], "Usage: move <from#> <to#>")
	if !ok {
		return nil
	}

	a.folders.DragStart(src.ID)
	a.folders.DragOver(dst.ID)
	a.folders.Drop(ctx, dst.ID)
	a.flushToasts()
	return nil
}

// DeleteFolder removes the addressed folder after a confirmation prompt.
// The backend cascades the notes in it.
func (a *App) DeleteFolder(ctx context.Context, args []string) error {
	f, ok := a.folderByArg(args, "Usage: rmdir <folder#>")
	if !ok {
		return nil
	}

	a.folders.Delete(ctx, f.ID)
	a.flushToasts()
	return nil
}

// UseFolder makes the addressed folder active, which re-scopes the note list.
func (a *App) UseFolder(ctx context.Context, args []string) error {
	f, ok := a.folderByArg(args, "Usage: use <folder#>")
	if !ok {
		return nil
	}

	a.folders.SetActive(f.ID)
	a.flushToasts()
	return nil
}

// Refresh re-fetches folders and the current page of notes from the backend.
func (a *App) Refresh(ctx context.Context) error {
	a.folders.Reload(ctx)
	a.notes.Reload(ctx)
	a.flushToasts()
	return nil
}
