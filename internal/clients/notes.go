package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

type noteBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func newNoteBody(note domain.Note) noteBody {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteBody{Title: note.Title, Content: note.Content, Tags: tags}
}

// ListNotes returns all notes of the user.
func (c *BackendClient) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote stores a new note.
func (c *BackendClient) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := note.Validate(); err != nil {
		return domain.Note{}, err
	}
	var created domain.Note
	err := c.do(ctx, http.MethodPost, "/api/notes", nil, newNoteBody(note), &created)
	return created, err
}

// UpdateNote replaces title, content and tags of an existing note.
func (c *BackendClient) UpdateNote(ctx context.Context, note domain.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(note.ID), nil, newNoteBody(note), nil)
}

// DeleteNote removes a note.
func (c *BackendClient) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil, nil)
}
