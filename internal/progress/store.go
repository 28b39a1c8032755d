package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rhseung/ps-cli-sub001/internal/project"
	"github.com/rhseung/ps-cli-sub001/internal/schemas"
	"github.com/rhseung/ps-cli-sub001/internal/types"
	progressschema "github.com/rhseung/ps-cli-sub001/schemas"
)

// RootFinder locates the enclosing project directory. project.Locator implements it.
type RootFinder interface {
	Root() (string, error)
}

// Store reads and writes one progress file per workbook.
//
// Updates are read-modify-write without locking; concurrent writers to the
// same workbook are last-writer-wins.
type Store struct {
	finder RootFinder
	now    func() time.Time
}

// NewStore creates a Store rooted at the project found by finder.
func NewStore(finder RootFinder) *Store {
	return &Store{finder: finder, now: time.Now}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Path returns the progress file path of a workbook.
func (s *Store) Path(workbookID int) (string, error) {
	root, err := s.finder.Root()
	if err != nil {
		return "", &StorageError{
			WorkbookID: workbookID,
			Message:    "project context not found",
			Cause:      err,
		}
	}
	return project.ProgressPath(root, workbookID), nil
}

// Load returns the stored progress of a workbook, or a fresh empty record when
// nothing has been saved yet.
func (s *Store) Load(workbookID int) (*types.WorkbookProgress, error) {
	path, err := s.Path(workbookID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.NewWorkbookProgress(workbookID, s.timestamp()), nil
	}
	if err != nil {
		return nil, &StorageError{WorkbookID: workbookID, Path: path, Message: "failed to read progress file", Cause: err}
	}

	if err := schemas.ValidateBytes(progressschema.WorkbookProgress, data); err != nil {
		return nil, &StorageError{WorkbookID: workbookID, Path: path, Message: "progress file is corrupt", Cause: err}
	}
	p, err := decode(data)
	if err != nil {
		return nil, &StorageError{WorkbookID: workbookID, Path: path, Message: "progress file is corrupt", Cause: err}
	}
	if p.WorkbookID != workbookID {
		return nil, &StorageError{
			WorkbookID: workbookID,
			Path:       path,
			Message:    fmt.Sprintf("progress file belongs to workbook %d", p.WorkbookID),
		}
	}
	return p, nil
}

// Save stamps UpdatedAt and atomically replaces the workbook's progress file.
func (s *Store) Save(p *types.WorkbookProgress) error {
	if p == nil {
		return &StorageError{Message: "nil progress record"}
	}
	path, err := s.Path(p.WorkbookID)
	if err != nil {
		return err
	}
	for problemID, entry := range p.Problems {
		if entry != nil && !entry.Status.Valid() {
			return &StorageError{
				WorkbookID: p.WorkbookID,
				Path:       path,
				Message:    fmt.Sprintf("problem %d has invalid status %q", problemID, entry.Status),
			}
		}
	}

	p.UpdatedAt = s.timestamp()
	data, err := encode(p)
	if err != nil {
		return &StorageError{WorkbookID: p.WorkbookID, Path: path, Message: "failed to encode progress", Cause: err}
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &StorageError{WorkbookID: p.WorkbookID, Path: path, Message: "failed to write progress file", Cause: err}
	}
	return nil
}

// Reset replaces a workbook's progress with a fresh empty record.
func (s *Store) Reset(workbookID int) (*types.WorkbookProgress, error) {
	p := types.NewWorkbookProgress(workbookID, s.timestamp())
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus records a new status for a problem. The attempt count grows
// only when the status actually changes into solved or failed.
func (s *Store) UpdateStatus(workbookID, problemID int, status types.Status) (*types.WorkbookProgress, error) {
	if !status.Valid() {
		return nil, &StorageError{
			WorkbookID: workbookID,
			Message:    fmt.Sprintf("invalid status %q for problem %d (want unsolved, solved or failed)", status, problemID),
		}
	}
	p, err := s.Load(workbookID)
	if err != nil {
		return nil, err
	}

	entry, ok := p.Problems[problemID]
	if !ok || entry == nil {
		entry = &types.ProblemProgress{Status: types.StatusUnsolved}
		p.Problems[problemID] = entry
	}

	changed := entry.Status != status
	entry.Status = status
	now := s.timestamp()
	entry.LastAttemptedAt = &now
	if changed && status.CountsAsAttempt() {
		entry.AttemptCount++
	}

	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".progress-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
