package relay

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Shape is the decided outbound message type for a fetched result.
type Shape int

const (
	// ShapeNone means the fetch produced nothing deliverable.
	ShapeNone Shape = iota
	// ShapeVideo is a single video small enough for inline playback.
	ShapeVideo
	// ShapeDocument is a single file that is oversized or not a video.
	ShapeDocument
	// ShapePhotoGroup is a multi-item result sent as one album.
	ShapePhotoGroup
)

func (s Shape) String() string {
	switch s {
	case ShapeVideo:
		return "video"
	case ShapeDocument:
		return "document"
	case ShapePhotoGroup:
		return "photo_group"
	default:
		return "none"
	}
}

// maxInlineVideoBytes is Telegram's practical ceiling for inline video
// via the bot API; anything at or above goes out as a document.
const maxInlineVideoBytes = 50 * 1024 * 1024

// Classify decides the delivery shape for a fetched file set and
// returns the files in delivery order (sorted lexicographically).
//
// Multi-file results are always treated as photo albums. The extraction
// backend's playlist mode could in principle yield non-image files, but
// in practice TikTok carousels are image sets; that assumption is kept
// here rather than silently generalized.
func Classify(files []string) (Shape, []string, error) {
	switch len(files) {
	case 0:
		return ShapeNone, nil, nil
	case 1:
		f := files[0]
		info, err := os.Stat(f)
		if err != nil {
			return ShapeNone, nil, fmt.Errorf("stat %s: %w", f, err)
		}
		if isVideoFile(f) && info.Size() < maxInlineVideoBytes {
			return ShapeVideo, files, nil
		}
		return ShapeDocument, files, nil
	default:
		sorted := make([]string, len(files))
		copy(sorted, files)
		sort.Strings(sorted)
		return ShapePhotoGroup, sorted, nil
	}
}

func isVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".webm":
		return true
	}
	return false
}
