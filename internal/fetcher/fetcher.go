// Package fetcher drives the yt-dlp extraction backend. It is the only
// component that talks to the network for media, and it deliberately
// collapses every backend failure into an empty result: the caller only
// distinguishes "got files" from "got nothing".
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"tikrelay/internal/domain"
)

// outputTemplate bounds the title at 50 characters and disambiguates
// multi-item results with a sequence number.
const outputTemplate = "%(title).50s_%(autonumber)s.%(ext)s"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

// Options configures the yt-dlp invocation. Fixed per process, not per
// call.
type Options struct {
	Binary        string        // yt-dlp executable (name or path)
	Retries       int           // transient-failure retries inside yt-dlp
	SocketTimeout time.Duration // per-socket timeout, generous for slow transfers
	UserAgent     string        // browser-like UA to reduce blocking
	Referer       string
}

// DefaultOptions mirrors the settings the bot has always run with.
func DefaultOptions() Options {
	return Options{
		Binary:        "yt-dlp",
		Retries:       10,
		SocketTimeout: 1000 * time.Second,
		UserAgent:     defaultUserAgent,
		Referer:       "https://www.tiktok.com/",
	}
}

// Runner invokes yt-dlp against a URL and collects what it wrote.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner fills zero-valued options from DefaultOptions.
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	def := DefaultOptions()
	if opts.Binary == "" {
		opts.Binary = def.Binary
	}
	if opts.Retries <= 0 {
		opts.Retries = def.Retries
	}
	if opts.SocketTimeout <= 0 {
		opts.SocketTimeout = def.SocketTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Referer == "" {
		opts.Referer = def.Referer
	}
	return &Runner{opts: opts, logger: logger}
}

// Fetch downloads all media for url into dir and returns the files now
// present there. The result is empty on any backend failure; the cause
// lands in Diagnostic for logging only. Files are never moved or
// deleted here.
func (r *Runner) Fetch(ctx context.Context, url, dir string) domain.FetchResult {
	args := r.buildArgs(url, dir)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.opts.Binary, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		diag := fmt.Errorf("yt-dlp: %w (stderr: %s)", err, stderr.String())
		r.logger.Error("media fetch failed", "url", url, "err", diag)
		return domain.FetchResult{Diagnostic: diag}
	}

	files, err := collectFiles(dir)
	if err != nil {
		r.logger.Error("listing workspace failed", "dir", dir, "err", err)
		return domain.FetchResult{Diagnostic: err}
	}

	r.logger.Info("media fetched",
		"url", url,
		"files", len(files),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return domain.FetchResult{Files: files}
}

func (r *Runner) buildArgs(url, dir string) []string {
	return []string{
		"--quiet",
		"--no-warnings",
		"--yes-playlist",
		"--retries", strconv.Itoa(r.opts.Retries),
		"--socket-timeout", strconv.Itoa(int(r.opts.SocketTimeout / time.Second)),
		"--user-agent", r.opts.UserAgent,
		"--referer", r.opts.Referer,
		"--output", filepath.Join(dir, outputTemplate),
		url,
	}
}

// collectFiles returns the absolute path of every regular file in dir.
// Order is not guaranteed; the classifier sorts downstream.
func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", e.Name(), err)
		}
		files = append(files, abs)
	}
	return files, nil
}
