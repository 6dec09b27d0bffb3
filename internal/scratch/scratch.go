// Package scratch manages the temporary directory holding per-batch text files.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const lockName = ".subbatch.lock"

// ErrLocked is returned when another run holds the scratch directory
var ErrLocked = errors.New("scratch directory is in use by another run")

// Dir is a locked scratch directory owned by one run. Cleanup only removes
// the files the run wrote, and the directory itself when Open created it.
type Dir struct {
	path    string
	lock    *flock.Flock
	created bool

	mu    sync.Mutex
	files map[string]struct{}
}

// Open creates path if needed and locks it for the current run
func Open(path string) (*Dir, error) {
	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", path, err)
	}

	lock := flock.New(filepath.Join(path, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock scratch directory %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &Dir{path: path, lock: lock, created: created, files: make(map[string]struct{})}, nil
}

// Path returns the directory path
func (d *Dir) Path() string {
	return d.path
}

// WriteBatch stores one batch's content under a random name and returns its path
func (d *Dir) WriteBatch(content string) (string, error) {
	name := filepath.Join(d.path, uuid.NewString()+".txt")
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write batch file: %w", err)
	}
	d.mu.Lock()
	d.files[name] = struct{}{}
	d.mu.Unlock()
	return name, nil
}

// Remove deletes a single batch file
func (d *Dir) Remove(name string) error {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove batch file %s: %w", name, err)
	}
	d.mu.Lock()
	delete(d.files, name)
	d.mu.Unlock()
	return nil
}

// Cleanup releases the lock and removes the batch files still on disk.
// A directory that existed before Open is left in place.
func (d *Dir) Cleanup() error {
	if d == nil {
		return nil
	}
	var errs []error
	d.mu.Lock()
	for name := range d.files {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	d.files = make(map[string]struct{})
	d.mu.Unlock()

	if err := d.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("failed to unlock scratch directory %s: %w", d.path, err))
	}
	if err := os.Remove(d.lock.Path()); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if d.created {
		// a directory that still holds foreign files stays
		if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) && !isNotEmpty(d.path) {
			errs = append(errs, fmt.Errorf("failed to remove scratch directory %s: %w", d.path, err))
		}
	}
	return errors.Join(errs...)
}

func isNotEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}
