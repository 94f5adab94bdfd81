package domain

import "github.com/pkg/errors"

// ErrNoteIncomplete is returned when a note lacks a title or content.
var ErrNoteIncomplete = errors.New("please provide both title and content for the note")
