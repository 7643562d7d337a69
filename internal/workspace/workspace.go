// Package workspace provides scoped per-request temp directories.
// Each request owns exactly one directory for its lifetime; the
// chat+message key keeps concurrent requests from colliding.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Manager allocates request workspaces under a root directory.
type Manager struct {
	root string
}

// NewManager returns a Manager rooted at dir. An empty dir means the
// current working directory.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = "."
	}
	return &Manager{root: dir}
}

// Workspace is one request's scoped directory. Callers must Release it
// on every exit path.
type Workspace struct {
	path string
}

// Acquire creates (idempotently) the directory temp_<chat>_<message>.
// Re-acquiring the same key succeeds, which tolerates retried handling
// of the same message.
func (m *Manager) Acquire(chatID int64, messageID int) (*Workspace, error) {
	path := filepath.Join(m.root, fmt.Sprintf("temp_%d_%d", chatID, messageID))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", path, err)
	}
	return &Workspace{path: path}, nil
}

// Path returns the workspace directory.
func (w *Workspace) Path() string { return w.path }

// Release removes the directory and all its contents.
func (w *Workspace) Release() error {
	if err := os.RemoveAll(w.path); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.path, err)
	}
	return nil
}
