package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DiskStore keeps one JSON file per run in a temp directory created on
// first use.
type DiskStore struct {
	once sync.Once
	dir  string
	err  error
}

func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// Save writes the record to a temporary file and renames it into place,
// so a concurrent Load never sees a partial file.
func (s *DiskStore) Save(rec *Record) error {
	if err := s.init(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", rec.ID, err)
	}

	f, err := os.CreateTemp(s.dir, ".run-*")
	if err != nil {
		return fmt.Errorf("saving run %s: %w", rec.ID, err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("saving run %s: %w", rec.ID, err)
	}
	if err := os.Rename(f.Name(), s.file(rec.ID)); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("saving run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *DiskStore) Load(runID string) (*Record, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.file(runID))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	case err != nil:
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	rec := new(Record)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", runID, err)
	}
	return rec, nil
}

// Dir returns the backing directory, creating it if needed. It returns
// "" when the directory cannot be created.
func (s *DiskStore) Dir() string {
	if s.init() != nil {
		return ""
	}
	return s.dir
}

func (s *DiskStore) init() error {
	s.once.Do(func() {
		s.dir, s.err = os.MkdirTemp("", "aseprite-mcp-runs-*")
		if s.err != nil {
			s.err = fmt.Errorf("creating history directory: %w", s.err)
		}
	})
	return s.err
}

// file maps a run ID to its path. Base keeps IDs from escaping the
// directory.
func (s *DiskStore) file(runID string) string {
	return filepath.Join(s.dir, filepath.Base(runID)+".json")
}
