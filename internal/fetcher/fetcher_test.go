package fetcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRunner_FillsDefaults(t *testing.T) {
	r := NewRunner(Options{}, testLogger())

	def := DefaultOptions()
	if r.opts != def {
		t.Fatalf("got %+v, want defaults %+v", r.opts, def)
	}
}

func TestBuildArgs(t *testing.T) {
	r := NewRunner(Options{
		Binary:        "yt-dlp",
		Retries:       10,
		SocketTimeout: 1000 * time.Second,
		UserAgent:     "test-agent",
		Referer:       "https://www.tiktok.com/",
	}, testLogger())

	args := r.buildArgs("https://www.tiktok.com/@a/video/1", "/tmp/ws")

	for _, want := range []string{
		"--yes-playlist",
		"--quiet",
		"--retries", "10",
		"--socket-timeout", "1000",
		"--user-agent", "test-agent",
		"--referer", "https://www.tiktok.com/",
	} {
		if !slices.Contains(args, want) {
			t.Fatalf("args missing %q: %v", want, args)
		}
	}

	// URL must come last, after the output template.
	if args[len(args)-1] != "https://www.tiktok.com/@a/video/1" {
		t.Fatalf("url not last: %v", args)
	}
	out := args[len(args)-2]
	if filepath.Dir(out) != "/tmp/ws" {
		t.Fatalf("output template not inside workspace: %q", out)
	}
}

func TestCollectFiles_AbsolutePathsSkippingDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := collectFiles(dir)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Fatalf("path not absolute: %s", f)
		}
	}
}

func TestFetch_BackendFailureCollapsesToEmpty(t *testing.T) {
	r := NewRunner(Options{Binary: "definitely-not-a-real-binary"}, testLogger())

	res := r.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1", t.TempDir())

	if !res.Empty() {
		t.Fatalf("expected empty result, got %v", res.Files)
	}
	if res.Diagnostic == nil {
		t.Fatal("diagnostic should carry the spawn failure")
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	r := NewRunner(Options{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.Fetch(ctx, "https://www.tiktok.com/@a/video/1", t.TempDir())

	if !res.Empty() {
		t.Fatalf("expected empty result after cancel, got %v", res.Files)
	}
}
