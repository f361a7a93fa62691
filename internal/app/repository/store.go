package repository

import (
	"context"
	"sort"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
)

// ErrNotFound is returned when no recording exists for an id
var ErrNotFound = errors.ErrRecordingNotFound

// UpdateFunc mutates a recording in place. Returning an error aborts the update.
type UpdateFunc func(rec *model.Recording) error

// RecordingStore persists recordings together with their transcription job.
//
// Update is an atomic read-modify-write of a single record: concurrent
// updates to the same id are serialized, so a field written by one caller
// is never lost to a stale copy held by another.
type RecordingStore interface {
	Put(ctx context.Context, rec *model.Recording) error
	Get(ctx context.Context, id string) (*model.Recording, error)
	// GetAll returns every recording, newest first
	GetAll(ctx context.Context) ([]*model.Recording, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*model.Recording, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Close() error
}

// SortNewestFirst orders recordings by creation time descending, ties broken by id
func SortNewestFirst(recs []*model.Recording) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
