package analytics

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorruptStore reports that a persisted line could not be parsed. The
// store never repairs or skips damaged records; the operator decides.
var ErrCorruptStore = errors.New("analytics store is corrupt")

// EventStore persists analytics events in arrival order. Append and Load
// carry no cancellation semantics: writes are small and local, and readers
// always see the full log.
type EventStore interface {
	Append(event Event) error
	Load() ([]Event, error)
}

// FileStore is an append-only JSONL file, one event per line. Appends open
// the file with O_APPEND under a mutex so concurrent writers interleave
// whole lines rather than bytes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the parent directory if needed and returns a store
// backed by path. The file itself is created lazily on first append.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append serializes the event as one JSON line and appends it to the file.
func (s *FileStore) Append(event Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open analytics store: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(event); err != nil {
		return fmt.Errorf("append analytics event: %w", err)
	}
	return nil
}

// Load reads every event in file order. A missing file is an empty store.
// Any unparsable line fails the whole load with ErrCorruptStore.
func (s *FileStore) Load() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("open analytics store: %w", err)
	}
	defer f.Close()

	events := []Event{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptStore, line, err)
		}
		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptStore, line, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read analytics store: %w", err)
	}
	return events, nil
}

// Clear truncates the store. This is an operator action, deliberately kept
// off the EventStore interface.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("clear analytics store: %w", err)
	}
	return f.Close()
}
