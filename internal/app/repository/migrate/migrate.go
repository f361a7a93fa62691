package migrate

import (
	"context"

	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

// Copy copies every recording from src into dst, overwriting records with
// the same id. Records that fail to write are logged and skipped.
// It returns the number of recordings written.
func Copy(ctx context.Context, src, dst repository.RecordingStore, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	recordings, err := src.GetAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "read source store")
	}

	copied := 0
	for _, rec := range recordings {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		if rec.ID == "" {
			logger.Warn("skipping recording without id", zap.String("title", rec.Title))
			continue
		}
		if err := dst.Put(ctx, rec); err != nil {
			logger.Error("failed to copy recording", zap.String("recording_id", rec.ID), zap.Error(err))
			continue
		}
		copied++
	}

	logger.Info("data migration completed", zap.Int("copied", copied), zap.Int("total", len(recordings)))
	return copied, nil
}
