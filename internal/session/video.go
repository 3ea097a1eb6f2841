package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Video is the registered input. Only metadata is read; the file is never
// decoded.
type Video struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// videoTypes maps accepted file extensions to their MIME type.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// VideoMimeType returns the MIME type for a video path, judged by extension.
func VideoMimeType(path string) (string, bool) {
	mt, ok := videoTypes[strings.ToLower(filepath.Ext(path))]
	return mt, ok
}

func probeVideo(path string) (*Video, error) {
	mimeType, ok := VideoMimeType(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotVideo, filepath.Base(path))
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat video: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotVideo, path)
	}

	return &Video{
		ID:        uuid.NewString(),
		Path:      path,
		Name:      filepath.Base(path),
		MimeType:  mimeType,
		SizeBytes: stat.Size(),
		LoadedAt:  time.Now().UTC(),
	}, nil
}
