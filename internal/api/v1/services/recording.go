package services

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/api/errors"
	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/app/converter"
	"github.com/Elandig/tabscribe/internal/app/converter/export"
	apperrors "github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/storage"
)

// RecordingServiceImpl implements RecordingService
type RecordingServiceImpl struct {
	store    repository.RecordingStore
	media    storage.MediaStore
	importer *converter.Importer
	logger   *zap.Logger
}

// NewRecordingService creates a new recording service
func NewRecordingService(
	store repository.RecordingStore,
	media storage.MediaStore,
	importer *converter.Importer,
	logger *zap.Logger,
) RecordingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingServiceImpl{
		store:    store,
		media:    media,
		importer: importer,
		logger:   logger,
	}
}

// ListRecordings returns recordings newest first, filtered by the query
func (s *RecordingServiceImpl) ListRecordings(ctx context.Context, query dto.ListRecordingsQuery) (*dto.RecordingListResponse, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	recordings := query.Apply(all)
	if recordings == nil {
		recordings = []*model.Recording{}
	}
	return &dto.RecordingListResponse{Recordings: recordings, Total: len(all)}, nil
}

// GetRecording returns one recording
func (s *RecordingServiceImpl) GetRecording(ctx context.Context, id string) (*model.Recording, error) {
	return s.store.Get(ctx, id)
}

// UploadRecording spools the upload to a temporary file and imports it
func (s *RecordingServiceImpl) UploadRecording(ctx context.Context, fileName string, body io.Reader, form dto.UploadForm) (*model.Recording, error) {
	name := filepath.Base(filepath.Clean("/" + fileName))
	if name == "/" || name == "." {
		return nil, errors.NewValidationError("Invalid upload", map[string]string{"file": "file name is required"})
	}

	dir, err := os.MkdirTemp("", "tabscribe-upload-")
	if err != nil {
		return nil, apperrors.Wrap(err, "create upload dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "create upload file")
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return nil, apperrors.Wrap(err, "spool upload")
	}
	if err := f.Close(); err != nil {
		return nil, apperrors.Wrap(err, "spool upload")
	}

	return s.importer.ImportFile(ctx, path, converter.ImportOptions{
		Title:  form.Title,
		Source: model.RecordingSource(form.Source),
	})
}

// OpenMedia returns the media of a recording; the caller closes the reader
func (s *RecordingServiceImpl) OpenMedia(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Recording, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	body, info, err := s.media.Open(ctx, rec.MediaKey)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	if info.ContentType == "" || info.ContentType == "application/octet-stream" {
		info.ContentType = rec.MimeType
	}
	return body, info, rec, nil
}

// GetTranscript returns the completed transcript of a recording
func (s *RecordingServiceImpl) GetTranscript(ctx context.Context, id string) (*dto.TranscriptResponse, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	text, ok := export.Transcript(rec)
	if !ok {
		return nil, errors.NewConflictError("Recording has no completed transcription")
	}
	return &dto.TranscriptResponse{
		RecordingID: rec.ID,
		Title:       rec.Title,
		Status:      rec.TranscriptionStatus(),
		Text:        text,
	}, nil
}

// DeleteRecording removes a recording and its media
func (s *RecordingServiceImpl) DeleteRecording(ctx context.Context, id string) error {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteMedia(ctx, rec)
	return nil
}

// DeleteAll empties the library
func (s *RecordingServiceImpl) DeleteAll(ctx context.Context) (*dto.DeletedResponse, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Clear(ctx); err != nil {
		return nil, err
	}
	lo.ForEach(all, func(rec *model.Recording, _ int) { s.deleteMedia(ctx, rec) })
	return &dto.DeletedResponse{Deleted: len(all)}, nil
}

// Export renders the whole library in format
func (s *RecordingServiceImpl) Export(ctx context.Context, format string, w io.Writer) error {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}
	return export.Write(w, format, all)
}

func (s *RecordingServiceImpl) deleteMedia(ctx context.Context, rec *model.Recording) {
	if rec.MediaKey == "" {
		return
	}
	if err := s.media.Delete(ctx, rec.MediaKey); err != nil && !apperrors.Is(err, apperrors.ErrMediaNotFound) {
		s.logger.Warn("failed to delete media", zap.String("recording_id", rec.ID), zap.String("key", rec.MediaKey), zap.Error(err))
	}
}
