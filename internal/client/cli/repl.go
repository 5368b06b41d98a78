package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListFolders(ctx context.Context) error
	AddFolder(ctx context.Context, args []string) error
	RenameFolder(ctx context.Context, args []string) error
	ColorFolder(ctx context.Context, args []string) error
	MoveFolder(ctx context.Context, args []string) error
	DeleteFolder(ctx context.Context, args []string) error
	UseFolder(ctx context.Context, args []string) error
	ListNotes(ctx context.Context) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context, args []string) error
	DeleteNote(ctx context.Context, args []string) error
	MoreNotes(ctx context.Context) error
	OpenNote(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Settings(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the MemHub CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            — show available commands
//	  - register        — create an account
//	  - login           — authenticate
//	  - exit | quit     — leave the program
//
//	Logged in:
//	  - help            — show available commands
//	  - folders | f     — list folders
//	  - mkdir <title>   — create a folder
//	  - rename <n>      — rename folder n
//	  - color <n> <c>   — recolor folder n
//	  - move <n> <m>    — move folder n to position m
//	  - rmdir <n>       — delete folder n and its notes
//	  - use <n>         — make folder n active
//	  - list | l        — list notes in the active folder
//	  - add             — add a note
//	  - edit <n>        — edit note n
//	  - del <n>         — delete note n
//	  - more            — load older notes
//	  - open <n>        — print the link a note points to
//	  - share <text>    — seed the note draft from shared content
//	  - settings        — update email, username or password
//	  - refresh         — re-fetch folders and notes
//	  - logout          — sign out
//	  - exit | quit     — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// through the message channel. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mh %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (f)olders, mkdir, rename, color, move, rmdir, use, (l)ist, add, edit, del, more, open, share, settings, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "f", "folders":
			_ = a.ListFolders(ctx)

		case "mkdir":
			_ = a.AddFolder(ctx, args)

		case "rename":
			_ = a.RenameFolder(ctx, args)

		case "color":
			_ = a.ColorFolder(ctx, args)

		case "move":
			_ = a.MoveFolder(ctx, args)

		case "rmdir":
			_ = a.DeleteFolder(ctx, args)

		case "use":
			_ = a.UseFolder(ctx, args)

		case "l", "list":
			_ = a.ListNotes(ctx)

		case "add":
			_ = a.AddNote(ctx)

		case "edit":
			_ = a.EditNote(ctx, args)

		case "del":
			_ = a.DeleteNote(ctx, args)

		case "more":
			_ = a.MoreNotes(ctx)

		case "open":
			_ = a.OpenNote(ctx, args)

		case "share":
			_ = a.Share(ctx, args)

		case "settings":
			_ = a.Settings(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
