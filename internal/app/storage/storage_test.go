package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/errors"
)

func TestNewKey(t *testing.T) {
	assert.Equal(t, "recordings/abc.webm", NewKey("abc", "My Call.WEBM"))
	assert.Equal(t, "recordings/abc", NewKey("abc", "noext"))
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey("recordings/a.webm"))
	for _, bad := range []string{"", "../etc/passwd", "recordings/../../x", "/abs", `a\b`} {
		assert.Error(t, validateKey(bad), "key %q", bad)
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "media"))
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Save(ctx, "recordings/r1.webm", strings.NewReader("hello"), 5, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)

	rc, info, err := store.Open(ctx, "recordings/r1.webm")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), info.Size)

	entries, err := os.ReadDir(filepath.Join(dir, "media", "recordings"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")

	require.NoError(t, store.Delete(ctx, "recordings/r1.webm"))
	require.NoError(t, store.Delete(ctx, "recordings/r1.webm"))

	_, _, err = store.Open(ctx, "recordings/r1.webm")
	assert.True(t, errors.Is(err, errors.ErrMediaNotFound))
}

func TestMinioStore_ObjectURL(t *testing.T) {
	s, err := newMinioStore(MinioConfig{Endpoint: "minio.local:9000", Bucket: "media", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000/media/recordings/a.webm", s.ObjectURL("recordings/a.webm"))

	_, err = s.Save(context.Background(), "../escape", strings.NewReader(""), 0, "")
	assert.Error(t, err)
}
