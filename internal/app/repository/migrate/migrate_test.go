package migrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository/memory"
)

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src, dst := memory.New(), memory.New()

	now := time.Now()
	require.NoError(t, src.Put(ctx, &model.Recording{ID: "a", CreatedAt: now}))
	require.NoError(t, src.Put(ctx, &model.Recording{
		ID:            "b",
		CreatedAt:     now.Add(-time.Minute),
		Transcription: &model.TranscriptionJob{Status: model.JobStatusCompleted, Text: "done"},
	}))
	require.NoError(t, dst.Put(ctx, &model.Recording{ID: "b", Title: "stale"}))

	n, err := Copy(ctx, src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := dst.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "done", got.Transcription.Text)
	assert.Empty(t, got.Title)
}
