package converter

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/audio"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/storage"
)

// MediaExtensions are the file types ImportDir picks up by default
var MediaExtensions = []string{".webm", ".mp3", ".mp4", ".m4a", ".wav", ".ogg", ".mkv"}

// Prober reports the duration of a media file
type Prober interface {
	Available() bool
	Probe(ctx context.Context, filePath string) (audio.Info, error)
}

// ImportOptions describe how files enter the library
type ImportOptions struct {
	Title  string
	Source model.RecordingSource
}

// Importer copies local media files into the media store and records them
type Importer struct {
	store  repository.RecordingStore
	media  storage.MediaStore
	prober Prober
	logger *zap.Logger
	now    func() time.Time
}

// NewImporter creates an Importer. prober may be nil, in which case durations stay zero.
func NewImporter(store repository.RecordingStore, media storage.MediaStore, prober Prober, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		store:  store,
		media:  media,
		prober: prober,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ImportFile stores the file at path as a new recording
func (i *Importer) ImportFile(ctx context.Context, path string, opts ImportOptions) (*model.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if stat.IsDir() {
		return nil, errors.Newf("%s is a directory", path)
	}

	name := filepath.Base(path)
	id := uuid.NewString()
	contentType := ContentType(name)

	rec := &model.Recording{
		ID:        id,
		Title:     opts.Title,
		Source:    opts.Source,
		MimeType:  contentType,
		MediaKey:  storage.NewKey(id, name),
		SizeBytes: stat.Size(),
		CreatedAt: i.now(),
	}
	if rec.Title == "" {
		rec.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if rec.Source == "" {
		rec.Source = model.SourceUpload
	}
	rec.Duration = i.duration(ctx, path)

	info, err := i.media.Save(ctx, rec.MediaKey, f, stat.Size(), contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "save media of %s", name)
	}
	rec.SizeBytes = info.Size

	if err := i.store.Put(ctx, rec); err != nil {
		if derr := i.media.Delete(ctx, rec.MediaKey); derr != nil {
			i.logger.Warn("failed to remove orphaned media", zap.String("key", rec.MediaKey), zap.Error(derr))
		}
		return nil, errors.Wrapf(err, "store recording %s", name)
	}

	i.logger.Info("recording imported",
		zap.String("recording_id", rec.ID),
		zap.String("file", name),
		zap.Int64("size", rec.SizeBytes),
		zap.Duration("duration", rec.Duration))
	return rec, nil
}

// ImportDir imports every media file directly inside dir, oldest first.
// Failures are collected and do not stop the batch.
func (i *Importer) ImportDir(ctx context.Context, dir string, extensions []string, bar *ProgressBar) ([]*model.Recording, []error) {
	if bar != nil {
		defer bar.Complete()
	}
	paths, err := ListMedia(dir, extensions)
	if err != nil {
		return nil, []error{err}
	}
	if bar != nil {
		bar.SetTotal(int64(len(paths)))
	}

	var (
		imported []*model.Recording
		failures []error
	)
	for _, path := range paths {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}
		rec, err := i.ImportFile(ctx, path, ImportOptions{})
		if err != nil {
			i.logger.Warn("import failed", zap.String("file", path), zap.Error(err))
			failures = append(failures, err)
		} else {
			imported = append(imported, rec)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return imported, failures
}

func (i *Importer) duration(ctx context.Context, path string) time.Duration {
	if i.prober == nil || !i.prober.Available() {
		return 0
	}
	info, err := i.prober.Probe(ctx, path)
	if err != nil {
		i.logger.Warn("could not probe media duration", zap.String("file", path), zap.Error(err))
		return 0
	}
	return info.Duration
}

// ListMedia returns the files in dir whose extension is in extensions, oldest first
func ListMedia(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = MediaExtensions
	}
	wanted := lo.SliceToMap(extensions, func(ext string) (string, bool) {
		return strings.ToLower(ext), true
	})

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir %s", dir)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || !wanted[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	sort.SliceStable(found, func(a, b int) bool {
		if found[a].modTime.Equal(found[b].modTime) {
			return found[a].path < found[b].path
		}
		return found[a].modTime.Before(found[b].modTime)
	})
	return lo.Map(found, func(c candidate, _ int) string { return c.path }), nil
}

// ContentType guesses the MIME type of a media file from its name
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".webm":
		return "audio/webm"
	case ".m4a":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
