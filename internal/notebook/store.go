// Package notebook manages the flashcard collection: decks, note types with
// their ordered fields, and per-note field values.
package notebook

import "context"

// Filter selects the notes for a batch job.
type Filter struct {
	Deck  string
	Model string
	// EmptyField, when set, restricts the selection to notes whose named
	// field is empty or missing.
	EmptyField string
}

// NoteStore defines operations on the flashcard collection.
type NoteStore interface {
	// Find returns the IDs of notes matching filter, in ID order.
	Find(ctx context.Context, filter Filter) ([]int64, error)
	// ReadField returns the value of a note's field, or an empty string
	// when the note has no value for it.
	ReadField(ctx context.Context, noteID int64, field string) (string, error)
	// WriteField stores value in a note's field, replacing any previous
	// value. The field must exist on the note's type.
	WriteField(ctx context.Context, noteID int64, field, value string) error
	// ModelFields returns the field names of a note type in their display
	// order, or nil if the note type does not exist.
	ModelFields(ctx context.Context, model string) ([]string, error)
	// AddField appends a new field to a note type.
	AddField(ctx context.Context, model, field string) error
}
