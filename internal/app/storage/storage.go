package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Elandig/tabscribe/internal/app/errors"
)

// ObjectInfo describes a stored media object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// MediaStore holds the binary media of recordings, addressed by key
type MediaStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	// Open returns a reader for the object; the caller closes it
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds the media key of a recording from its id and original file name
func NewKey(recordingID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("recordings/%s%s", recordingID, ext)
}

// validateKey rejects keys that could escape the store root
func validateKey(key string) error {
	if key == "" {
		return errors.New("media key is required")
	}
	clean := path.Clean("/" + key)
	if clean != "/"+key || strings.Contains(key, "\\") {
		return errors.Newf("invalid media key: %s", key)
	}
	return nil
}
