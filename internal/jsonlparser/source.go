package jsonlparser

import (
	"fmt"
	"os"

	"github.com/felixguerrero12/SessionSentry/internal/model"
)

// Source is a file-backed event source over a JSONL export. Like the CSV
// source, every LoadEvents call re-reads the file from disk.
type Source struct {
	path string
}

// NewSource creates a Source reading from the given JSONL path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the file path the source reads from.
func (s *Source) Path() string {
	return s.path
}

// LoadEvents reads and normalizes the full event log. A missing file is
// reported as model.ErrSourceUnavailable.
func (s *Source) LoadEvents() ([]*model.Event, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrSourceUnavailable, s.path)
		}
		return nil, fmt.Errorf("checking event log: %w", err)
	}

	result, err := ReadEvents(s.path, nil)
	if err != nil {
		return nil, err
	}
	return result.Events, nil
}
