package cli

import (
	"bufio"
	"context"
	"os"
)

func (a *App) getStatus() string {
	s := a.session.Session()
	if s == nil {
		return ""
	}
	status := s.User.Email
	if id := a.folders.Active(); id != "" {
		for _, f := range a.folders.Folders() {
			if f.ID == id {
				status += "/" + f.Title
				break
			}
		}
	}
	return "(" + status + ")"
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to MemHub CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
