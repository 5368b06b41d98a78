package models

import "time"

// Folder is a named, colored container for notes. SortOrder ranks folders
// for display: higher values come first.
type Folder struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
