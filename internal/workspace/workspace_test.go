package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestAcquire_CreatesDirectory(t *testing.T) {
	m := NewManager(t.TempDir())

	ws, err := m.Acquire(42, 7)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	info, err := os.Stat(ws.Path())
	if err != nil {
		t.Fatalf("workspace not on disk: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("workspace path is not a directory")
	}
	if filepath.Base(ws.Path()) != "temp_42_7" {
		t.Fatalf("unexpected workspace name: %s", filepath.Base(ws.Path()))
	}
}

func TestAcquire_Idempotent(t *testing.T) {
	m := NewManager(t.TempDir())

	first, err := m.Acquire(1, 1)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	// Retried handling of the same message must succeed.
	second, err := m.Acquire(1, 1)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if first.Path() != second.Path() {
		t.Fatalf("same key produced different paths: %s vs %s", first.Path(), second.Path())
	}
}

func TestRelease_RemovesContents(t *testing.T) {
	m := NewManager(t.TempDir())

	ws, err := m.Acquire(5, 9)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ws.Path(), "clip.mp4"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(ws.Path()); !os.IsNotExist(err) {
		t.Fatalf("workspace still exists after release: %v", err)
	}
}

func TestRelease_MissingDirIsNoError(t *testing.T) {
	m := NewManager(t.TempDir())

	ws, err := m.Acquire(2, 3)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("release of already-removed workspace: %v", err)
	}
}

func TestAcquire_DistinctKeysNeverCollide(t *testing.T) {
	m := NewManager(t.TempDir())

	const n = 20
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Same chat, distinct message IDs: the transport guarantees
			// message IDs are unique per chat.
			ws, err := m.Acquire(100, i)
			if err != nil {
				t.Errorf("acquire %d: %v", i, err)
				return
			}
			paths[i] = ws.Path()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	for i, p := range paths {
		if p == "" {
			continue
		}
		if prev, dup := seen[p]; dup {
			t.Fatalf("requests %d and %d share workspace %s", prev, i, p)
		}
		seen[p] = i
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct workspaces, got %d", n, len(seen))
	}
}
