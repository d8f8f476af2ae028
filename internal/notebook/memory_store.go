package notebook

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryNote struct {
	deck   string
	model  string
	values map[string]string
}

// MemoryNoteStore is an in-memory NoteStore for tests and dry runs. All
// methods are safe for concurrent use.
type MemoryNoteStore struct {
	mu     sync.Mutex
	nextID int64
	models map[string][]string
	notes  map[int64]*memoryNote
}

// NewMemoryNoteStore creates an empty MemoryNoteStore.
func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{
		nextID: 1,
		models: make(map[string][]string),
		notes:  make(map[int64]*memoryNote),
	}
}

// AddModel registers a note type with its fields.
func (s *MemoryNoteStore) AddModel(model string, fields ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[model] = append([]string{}, fields...)
}

// AddNote creates a note and returns its ID. Values for fields not on the
// note type are ignored by reads.
func (s *MemoryNoteStore) AddNote(deck, model string, values map[string]string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	copied := make(map[string]string, len(values))
	for field, value := range values {
		copied[field] = value
	}
	s.notes[id] = &memoryNote{deck: deck, model: model, values: copied}
	return id
}

func (s *MemoryNoteStore) Find(_ context.Context, filter Filter) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for id, note := range s.notes {
		if note.deck != filter.Deck || note.model != filter.Model {
			continue
		}
		if filter.EmptyField != "" && note.values[filter.EmptyField] != "" {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryNoteStore) ReadField(_ context.Context, noteID int64, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[noteID]
	if !ok {
		return "", fmt.Errorf("note %d not found", noteID)
	}
	return note.values[field], nil
}

func (s *MemoryNoteStore) WriteField(_ context.Context, noteID int64, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[noteID]
	if !ok {
		return fmt.Errorf("note %d not found", noteID)
	}
	fields, ok := s.models[note.model]
	if !ok {
		return fmt.Errorf("model %q not found", note.model)
	}
	found := false
	for _, name := range fields {
		if name == field {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("note %d has no field %q", noteID, field)
	}
	note.values[field] = value
	return nil
}

func (s *MemoryNoteStore) ModelFields(_ context.Context, model string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.models[model]
	if !ok {
		return nil, nil
	}
	return append([]string{}, fields...), nil
}

func (s *MemoryNoteStore) AddField(_ context.Context, model, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.models[model]
	if !ok {
		return fmt.Errorf("model %q not found", model)
	}
	s.models[model] = append(fields, field)
	return nil
}
