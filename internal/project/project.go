// Package project locates the ps-cli project directory that holds local state.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DirName is the per-project state directory, searched for from the working
// directory upwards.
const DirName = ".ps-cli"

// ErrNotFound is returned when no enclosing project directory exists.
var ErrNotFound = errors.New("no " + DirName + " directory found in this or any parent directory (run `ps-cli init`)")

// Locator finds the project root by walking up from Start.
type Locator struct {
	// Start is the directory the search begins in; empty means the working directory.
	Start string
}

// Root returns the directory containing DirName.
func (l Locator) Root() (string, error) {
	start := l.Start
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		start = cwd
	}
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		info, err := os.Stat(filepath.Join(current, DirName))
		if err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotFound
		}
		current = parent
	}
}

// Init creates the project directory under dir and returns the project root.
func Init(dir string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(filepath.Join(root, DirName), 0755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}
	return root, nil
}

// StateDir returns the state directory of a project root.
func StateDir(root string) string {
	return filepath.Join(root, DirName)
}

// ConfigPath returns the config file path of a project root.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), "config.json")
}

// ProgressPath returns the progress file path of a workbook.
func ProgressPath(root string, workbookID int) string {
	return filepath.Join(StateDir(root), "progress", strconv.Itoa(workbookID)+".json")
}
