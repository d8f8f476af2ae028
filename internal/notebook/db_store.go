package notebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBNoteStore implements NoteStore using MySQL. It expects the tables
// decks, models, model_fields, notes and note_values.
type DBNoteStore struct {
	db *sqlx.DB
}

// NewDBNoteStore creates a new DBNoteStore.
func NewDBNoteStore(db *sqlx.DB) *DBNoteStore {
	return &DBNoteStore{db: db}
}

// Find returns the IDs of notes in the given deck and note type, in ID order.
func (s *DBNoteStore) Find(ctx context.Context, filter Filter) ([]int64, error) {
	query := `SELECT n.id FROM notes n
		JOIN decks d ON d.id = n.deck_id
		JOIN models m ON m.id = n.model_id
		WHERE d.name = ? AND m.name = ?`
	args := []interface{}{filter.Deck, filter.Model}

	if filter.EmptyField != "" {
		query += ` AND NOT EXISTS (
			SELECT 1 FROM note_values nv
			JOIN model_fields mf ON mf.id = nv.field_id
			WHERE nv.note_id = n.id AND mf.name = ? AND nv.value <> '')`
		args = append(args, filter.EmptyField)
	}
	query += " ORDER BY n.id"

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(note ids) > %w", err)
	}
	return ids, nil
}

// ReadField returns the value of a note's field, or an empty string when the
// note has no value for it.
func (s *DBNoteStore) ReadField(ctx context.Context, noteID int64, field string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT nv.value FROM note_values nv
		JOIN model_fields mf ON mf.id = nv.field_id
		WHERE nv.note_id = ? AND mf.name = ?`,
		noteID, field)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("db.GetContext(note value) > %w", err)
	}
	return value, nil
}

// WriteField stores value in a note's field, creating or replacing the value
// row, and bumps the note's updated_at.
func (s *DBNoteStore) WriteField(ctx context.Context, noteID int64, field, value string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var fieldID int64
	err = tx.GetContext(ctx, &fieldID,
		`SELECT mf.id FROM model_fields mf
		JOIN notes n ON n.model_id = mf.model_id
		WHERE n.id = ? AND mf.name = ?`,
		noteID, field)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("note %d has no field %q", noteID, field)
	}
	if err != nil {
		return fmt.Errorf("tx.GetContext(field id) > %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO note_values (note_id, field_id, value) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		noteID, fieldID, value); err != nil {
		return fmt.Errorf("tx.ExecContext(upsert note value) > %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE notes SET updated_at = NOW() WHERE id = ?", noteID); err != nil {
		return fmt.Errorf("tx.ExecContext(touch note) > %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// ModelFields returns the field names of a note type in their display order,
// or nil if the note type does not exist.
func (s *DBNoteStore) ModelFields(ctx context.Context, model string) ([]string, error) {
	var modelID int64
	err := s.db.GetContext(ctx, &modelID, "SELECT id FROM models WHERE name = ?", model)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(model id) > %w", err)
	}

	var fields []string
	if err := s.db.SelectContext(ctx, &fields,
		"SELECT name FROM model_fields WHERE model_id = ? ORDER BY sort_order",
		modelID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(model fields) > %w", err)
	}
	if fields == nil {
		fields = []string{}
	}
	return fields, nil
}

// AddField appends a new field to a note type, after its existing fields.
func (s *DBNoteStore) AddField(ctx context.Context, model, field string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var modelID int64
	err = tx.GetContext(ctx, &modelID, "SELECT id FROM models WHERE name = ?", model)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("model %q not found", model)
	}
	if err != nil {
		return fmt.Errorf("tx.GetContext(model id) > %w", err)
	}

	var nextOrder int
	if err := tx.GetContext(ctx, &nextOrder,
		"SELECT COALESCE(MAX(sort_order), -1) + 1 FROM model_fields WHERE model_id = ?",
		modelID); err != nil {
		return fmt.Errorf("tx.GetContext(next sort order) > %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO model_fields (model_id, name, sort_order) VALUES (?, ?, ?)",
		modelID, field, nextOrder); err != nil {
		return fmt.Errorf("tx.ExecContext(insert field) > %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
