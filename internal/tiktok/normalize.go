// Package tiktok recognizes and canonicalizes TikTok links.
package tiktok

import (
	"log/slog"
	"regexp"
	"strings"
)

// Domain is the marker used to decide whether a message is worth
// handling at all.
const Domain = "tiktok.com"

// canonical matches the long-form TikTok URL shape. Group 1 is the
// clean URL without tracking parameters or trailing path segments.
var canonical = regexp.MustCompile(`(https?://www\.tiktok\.com/@[^/]+/(video|photo)/\d+)`)

// HasLink reports whether text references the TikTok domain. This is a
// pure input-shape check; short share links (vm.tiktok.com) pass too.
func HasLink(text string) bool {
	return strings.Contains(text, Domain)
}

// Normalize extracts the canonical URL from raw text, dropping query
// parameters and anything after the numeric ID. Normalization is best
// effort: when the canonical shape is absent (e.g. vm.tiktok.com share
// links) the input is returned unchanged and the extraction backend is
// left to follow redirects.
func Normalize(raw string, logger *slog.Logger) string {
	if m := canonical.FindStringSubmatch(raw); m != nil {
		logger.Info("normalized tiktok url", "url", m[1])
		return m[1]
	}
	logger.Warn("could not normalize url, passing through", "raw_len", len(raw))
	return raw
}
