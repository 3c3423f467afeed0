package planstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akashvibhute/simlane-web-sub000/internal/stint"
)

const planFileName = "stint-plan.json"

// Store reads and writes the stint plan for one plan directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("plan directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create plan directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the location of the plan file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, planFileName)
}

// Exists reports whether a plan has been saved.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Save writes the plan to disk. The write is atomic: data is written to
// a temporary file first, then renamed into place. A file lock is held
// during the operation for cross-process safety.
func (s *Store) Save(plan *stint.Plan) error {
	data, err := plan.ExportJSON()
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	fl := newFileLock(s.dir)
	if err := fl.lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = fl.unlock() }()

	target := s.Path()
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Load restores the saved plan. The plan is validated before it is
// returned. A file lock is held during the read for cross-process safety.
func (s *Store) Load() (*stint.Plan, error) {
	fl := newFileLock(s.dir)
	if err := fl.lock(); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = fl.unlock() }()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	plan, err := stint.ImportJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode plan file: %w", err)
	}
	return plan, nil
}
