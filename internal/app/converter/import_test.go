package converter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/audio"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository/memory"
	"github.com/Elandig/tabscribe/internal/app/testutil"
)

type fakeProber struct {
	available bool
	duration  time.Duration
	err       error
}

func (p fakeProber) Available() bool { return p.available }

func (p fakeProber) Probe(context.Context, string) (audio.Info, error) {
	return audio.Info{Duration: p.duration, HasAudio: true}, p.err
}

func writeFile(t *testing.T, dir, name, content string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	media := testutil.NewMemoryMediaStore()
	imp := NewImporter(store, media, fakeProber{available: true, duration: 42 * time.Second}, nil)
	imp.now = func() time.Time { return testutil.Epoch }

	path := writeFile(t, t.TempDir(), "Weekly Sync.WEBM", "webm-bytes", testutil.Epoch)

	rec, err := imp.ImportFile(ctx, path, ImportOptions{Source: model.SourceTab})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Weekly Sync", rec.Title)
	assert.Equal(t, model.SourceTab, rec.Source)
	assert.Equal(t, "audio/webm", rec.MimeType)
	assert.Equal(t, "recordings/"+rec.ID+".webm", rec.MediaKey)
	assert.Equal(t, int64(len("webm-bytes")), rec.SizeBytes)
	assert.Equal(t, 42*time.Second, rec.Duration)
	assert.Equal(t, testutil.Epoch, rec.CreatedAt)
	assert.Nil(t, rec.Transcription)

	stored, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)

	body, _, err := media.Open(ctx, rec.MediaKey)
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.Equal(t, "webm-bytes", string(data))
}

func TestImportFile_ProbeFailureKeepsZeroDuration(t *testing.T) {
	store := memory.New()
	imp := NewImporter(store, testutil.NewMemoryMediaStore(), fakeProber{available: true, err: errors.New("no ffprobe output")}, nil)

	path := writeFile(t, t.TempDir(), "clip.mp3", "mp3", testutil.Epoch)
	rec, err := imp.ImportFile(context.Background(), path, ImportOptions{Title: "Named"})
	require.NoError(t, err)
	assert.Equal(t, "Named", rec.Title)
	assert.Equal(t, model.SourceUpload, rec.Source)
	assert.Zero(t, rec.Duration)
	assert.Equal(t, "audio/mpeg", rec.MimeType)
}

func TestImportFile_Errors(t *testing.T) {
	imp := NewImporter(memory.New(), testutil.NewMemoryMediaStore(), nil, nil)
	dir := t.TempDir()

	_, err := imp.ImportFile(context.Background(), filepath.Join(dir, "missing.webm"), ImportOptions{})
	assert.Error(t, err)

	_, err = imp.ImportFile(context.Background(), dir, ImportOptions{})
	assert.Error(t, err)
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.webm", "b", testutil.Epoch.Add(time.Minute))
	writeFile(t, dir, "a.mp3", "a", testutil.Epoch)
	writeFile(t, dir, "notes.txt", "skip", testutil.Epoch)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.webm"), 0o755))

	store := memory.New()
	imp := NewImporter(store, testutil.NewMemoryMediaStore(), nil, nil)
	bar := NewProgressManager(ProgressConfig{Enabled: false}).CreateBar(0, "Importing")

	imported, failures := imp.ImportDir(context.Background(), dir, nil, bar)
	assert.Empty(t, failures)
	require.Len(t, imported, 2)
	assert.Equal(t, "a", imported[0].Title)
	assert.Equal(t, "b", imported[1].Title)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportDir_MissingDir(t *testing.T) {
	imp := NewImporter(memory.New(), testutil.NewMemoryMediaStore(), nil, nil)

	imported, failures := imp.ImportDir(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.Empty(t, imported)
	require.Len(t, failures, 1)
}

func TestListMedia_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.flac", "x", testutil.Epoch)
	writeFile(t, dir, "y.webm", "y", testutil.Epoch)

	paths, err := ListMedia(dir, []string{".FLAC"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.flac")}, paths)
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.webm":    "audio/webm",
		"a.M4A":     "audio/mp4",
		"a.wav":     "audio/wav",
		"a.unknown": "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, ContentType(name), name)
	}
}

func TestDisabledProgressIsNoop(t *testing.T) {
	pm := NewProgressManager(ProgressConfig{Enabled: false})
	bar := pm.CreateBar(3, "x")
	bar.Increment()
	bar.SetTotal(5)
	bar.Complete()

	spinner := pm.CreateSpinner("waiting")
	spinner.SetStatus("processing")
	spinner.Stop()

	pm.Wait()
	pm.Shutdown()
	assert.False(t, IsTTY(nil))
	assert.True(t, ShouldShowProgress(true))
}
