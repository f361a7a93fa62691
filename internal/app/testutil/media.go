package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/storage"
)

type object struct {
	data        []byte
	contentType string
}

// MemoryMediaStore is an in-memory storage.MediaStore
type MemoryMediaStore struct {
	mu      sync.Mutex
	objects map[string]object
}

// NewMemoryMediaStore creates an empty store
func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{objects: make(map[string]object)}
}

// Save implements storage.MediaStore
func (s *MemoryMediaStore) Save(_ context.Context, key string, r io.Reader, _ int64, contentType string) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data, contentType: contentType}
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

// Open implements storage.MediaStore
func (s *MemoryMediaStore) Open(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, errors.Wrapf(errors.ErrMediaNotFound, "key %s", key)
	}
	info := storage.ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

// Delete implements storage.MediaStore
func (s *MemoryMediaStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Has reports whether key is stored
func (s *MemoryMediaStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

var _ storage.MediaStore = (*MemoryMediaStore)(nil)
