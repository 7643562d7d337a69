package relay

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, size int64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if size > 1 {
		// Sparse-extend to the target size without writing 50 MiB.
		if err := os.Truncate(path, size); err != nil {
			t.Fatalf("truncate %s: %v", name, err)
		}
	}
	return path
}

func TestClassify_Empty(t *testing.T) {
	shape, files, err := Classify(nil)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapeNone || files != nil {
		t.Fatalf("got shape %v with %d files, want ShapeNone", shape, len(files))
	}
}

func TestClassify_SmallVideo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clip.mp4", 0)

	shape, files, err := Classify([]string{path})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapeVideo {
		t.Fatalf("got shape %v, want ShapeVideo", shape)
	}
	if len(files) != 1 || files[0] != path {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestClassify_VideoAtThresholdIsDocument(t *testing.T) {
	// Exactly 50 MiB is not "under the threshold".
	path := writeFile(t, t.TempDir(), "clip.mp4", 50*1024*1024)

	shape, _, err := Classify([]string{path})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapeDocument {
		t.Fatalf("got shape %v, want ShapeDocument", shape)
	}
}

func TestClassify_VideoJustUnderThreshold(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clip.mp4", 50*1024*1024-1)

	shape, _, err := Classify([]string{path})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapeVideo {
		t.Fatalf("got shape %v, want ShapeVideo", shape)
	}
}

func TestClassify_NonVideoSingleFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"audio.mp3", "image.jpg", "noext"} {
		path := writeFile(t, dir, name, 0)
		shape, _, err := Classify([]string{path})
		if err != nil {
			t.Fatalf("classify %s: %v", name, err)
		}
		if shape != ShapeDocument {
			t.Fatalf("%s: got shape %v, want ShapeDocument", name, shape)
		}
	}
}

func TestClassify_MultiFileSortedGroup(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.jpg", 0)
	a := writeFile(t, dir, "a.jpg", 0)

	shape, files, err := Classify([]string{b, a})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if shape != ShapePhotoGroup {
		t.Fatalf("got shape %v, want ShapePhotoGroup", shape)
	}
	if files[0] != a || files[1] != b {
		t.Fatalf("group not sorted: %v", files)
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.jpg", 0)
	a := writeFile(t, dir, "a.jpg", 0)
	input := []string{b, a}

	if _, _, err := Classify(input); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if input[0] != b || input[1] != a {
		t.Fatalf("input slice was reordered: %v", input)
	}
}

func TestClassify_MissingFileErrors(t *testing.T) {
	_, _, err := Classify([]string{filepath.Join(t.TempDir(), "gone.mp4")})
	if err == nil {
		t.Fatal("expected error for unstatable file")
	}
}
