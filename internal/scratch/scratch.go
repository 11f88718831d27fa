// Package scratch allocates throwaway working directories for checkouts and
// tracks them so a run can clean up everything it created.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Dirs hands out unique directories under the system temp root.
// Implements verify.Workspace.
type Dirs struct {
	mu      sync.Mutex
	created []string
}

// New creates a Dirs allocator.
func New() *Dirs {
	return &Dirs{}
}

// TempDir allocates a fresh, empty, uniquely named directory.
func (d *Dirs) TempDir() (string, error) {
	dir, err := os.MkdirTemp("", "veripack-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}

	d.mu.Lock()
	d.created = append(d.created, dir)
	d.mu.Unlock()
	return dir, nil
}

// RemoveAll deletes every directory handed out so far.
func (d *Dirs) RemoveAll() error {
	d.mu.Lock()
	dirs := d.created
	d.created = nil
	d.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
