package domain

import (
	"strings"
	"time"
)

// Note is a free-text trading note.
type Note struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate checks that the note has both title and content.
func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Content) == "" {
		return ErrNoteIncomplete
	}
	return nil
}

// AddTag appends a trimmed tag unless it is empty or already present.
func (n *Note) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range n.Tags {
		if t == tag {
			return false
		}
	}
	n.Tags = append(n.Tags, tag)
	return true
}

// RemoveTag drops a tag from the note.
func (n *Note) RemoveTag(tag string) {
	kept := n.Tags[:0]
	for _, t := range n.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	n.Tags = kept
}
