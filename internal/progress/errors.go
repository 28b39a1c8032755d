// Package progress persists per-workbook solve progress as JSON files inside
// the project directory.
package progress

import "fmt"

// StorageError represents a failure to locate, read, decode or write a
// progress file.
type StorageError struct {
	WorkbookID int
	Path       string
	Message    string
	Cause      error
}

func (e *StorageError) Error() string {
	where := fmt.Sprintf("workbook %d", e.WorkbookID)
	if e.Path != "" {
		where = fmt.Sprintf("workbook %d (%s)", e.WorkbookID, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("storage error for %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error for %s: %s", where, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
