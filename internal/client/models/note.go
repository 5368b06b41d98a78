package models

import "time"

// UIStatus marks a note whose optimistic backend operation has not settled
// yet. It is client-side only and never serialized.
type UIStatus string

const (
	UIStatusNone     UIStatus = ""
	UIStatusSaving   UIStatus = "saving"
	UIStatusDeleting UIStatus = "deleting"
)

// Note is a single note inside a folder.
type Note struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	FolderID  string    `json:"folder_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UIStatus  UIStatus  `json:"-"`
}

// Settled reports whether no optimistic operation is in flight for the note.
func (n Note) Settled() bool {
	return n.UIStatus == UIStatusNone
}
