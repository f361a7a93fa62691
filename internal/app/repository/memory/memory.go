package memory

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

// Store keeps recordings in process memory. Every read and write works on copies.
type Store struct {
	mu         sync.Mutex
	recordings map[string]*model.Recording
}

// New creates an empty Store
func New() *Store {
	return &Store{recordings: make(map[string]*model.Recording)}
}

func (s *Store) Put(_ context.Context, rec *model.Recording) error {
	if rec == nil || rec.ID == "" {
		return errors.New("recording id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordings[rec.ID] = rec.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[id]
	if !ok {
		return nil, errors.Wrapf(repository.ErrNotFound, "id %s", id)
	}
	return rec.Clone(), nil
}

func (s *Store) GetAll(_ context.Context) ([]*model.Recording, error) {
	s.mu.Lock()
	all := lo.Map(lo.Values(s.recordings), func(r *model.Recording, _ int) *model.Recording {
		return r.Clone()
	})
	s.mu.Unlock()

	repository.SortNewestFirst(all)
	return all, nil
}

// Update runs fn on a copy under the store lock and commits it only when fn succeeds
func (s *Store) Update(_ context.Context, id string, fn repository.UpdateFunc) (*model.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.recordings[id]
	if !ok {
		return nil, errors.Wrapf(repository.ErrNotFound, "id %s", id)
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	s.recordings[id] = next
	return next.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recordings[id]; !ok {
		return errors.Wrapf(repository.ErrNotFound, "id %s", id)
	}
	delete(s.recordings, id)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordings = make(map[string]*model.Recording)
	return nil
}

func (s *Store) Close() error { return nil }

var _ repository.RecordingStore = (*Store)(nil)
