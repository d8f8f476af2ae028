// Package joblog writes the per-job processing log: an append-only file of
// timestamped lines that is truncated at the start of each batch job.
package joblog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Sink is an io.Writer over the job log file. Writes append; Rotate truncates
// for a new job. Safe for concurrent use so it can back a slog handler shared
// across workers.
type Sink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Open creates the log directory if needed and opens the log file in append
// mode.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll > %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile > %w", err)
	}
	return &Sink{path: path, file: file}, nil
}

// Write appends to the log file.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Write(p)
}

// Rotate discards the previous job's log and starts a fresh file.
func (s *Sink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("os.OpenFile > %w", err)
	}
	s.file = file
	return nil
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// Logger returns a slog.Logger writing timestamped text lines to the sink.
func (s *Sink) Logger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(s, &slog.HandlerOptions{
		Level: level,
	}))
}
