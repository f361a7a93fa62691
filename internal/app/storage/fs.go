package storage

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/Elandig/tabscribe/internal/app/errors"
)

// LocalStore keeps media as plain files under a root directory
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create media directory %s", root)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Save writes through a temp file and renames it into place
func (s *LocalStore) Save(_ context.Context, key string, r io.Reader, _ int64, contentType string) (ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return ObjectInfo{}, err
	}

	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ObjectInfo{}, errors.Wrap(err, "create media directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return ObjectInfo{}, errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, errors.Wrap(err, "write media")
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ObjectInfo{}, errors.Wrap(err, "store media")
	}

	return ObjectInfo{Key: key, Size: n, ContentType: contentType}, nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, ObjectInfo{}, errors.Wrapf(errors.ErrMediaNotFound, "key %s", key)
	}
	if err != nil {
		return nil, ObjectInfo{}, errors.Wrap(err, "open media")
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, errors.Wrap(err, "stat media")
	}

	return f, ObjectInfo{
		Key:         key,
		Size:        stat.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
	}, nil
}

// Delete is idempotent
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete media")
	}
	return nil
}

var _ MediaStore = (*LocalStore)(nil)
