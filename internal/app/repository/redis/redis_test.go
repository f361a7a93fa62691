package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	store := NewWithClient(redis.NewClient(&redis.Options{Addr: mini.Addr()}), "test")
	t.Cleanup(func() { store.Close() })
	return store, mini
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}

func TestStore_PutGet(t *testing.T) {
	store, mini := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &model.Recording{
		ID:        "r1",
		Title:     "Call",
		Source:    model.SourceScreen,
		Duration:  3 * time.Second,
		CreatedAt: started,
		Transcription: &model.TranscriptionJob{
			Status:    model.JobStatusProcessing,
			Service:   "assemblyai",
			JobID:     "tx",
			StartedAt: started,
		},
	}
	require.NoError(t, store.Put(ctx, rec))
	assert.True(t, mini.Exists("test:recording:r1"))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = store.Get(ctx, "nope")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestStore_GetAllNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, store.Put(ctx, &model.Recording{ID: "b", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Put(ctx, &model.Recording{ID: "a", CreatedAt: now}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestStore_UpdateSerializesWriters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &model.Recording{ID: "r1"}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "r1", func(rec *model.Recording) error {
				rec.SizeBytes++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.SizeBytes)

	_, err = store.Update(ctx, "missing", func(*model.Recording) error { return nil })
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestStore_DeleteClear(t *testing.T) {
	store, mini := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &model.Recording{ID: "a"}))
	require.NoError(t, store.Put(ctx, &model.Recording{ID: "b"}))

	require.NoError(t, store.Delete(ctx, "a"))
	assert.True(t, errors.Is(store.Delete(ctx, "a"), repository.ErrNotFound))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mini.Exists("test:recording:b"))
	assert.False(t, mini.Exists("test:recordings"))
}
