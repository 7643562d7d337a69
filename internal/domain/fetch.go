package domain

import "context"

// FetchResult reports what a fetch produced inside a workspace.
// An empty Files slice means the fetch failed; Diagnostic carries the
// underlying cause for logging only and must never drive business
// logic beyond the empty/non-empty distinction.
type FetchResult struct {
	Files      []string
	Diagnostic error
}

// Empty reports whether the fetch produced no files.
func (r FetchResult) Empty() bool { return len(r.Files) == 0 }

// Fetcher resolves a normalized URL into media files written under dir.
// It never returns an error: all backend failure modes collapse into an
// empty result.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) FetchResult
}
