package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/repository/memory"
	"github.com/Elandig/tabscribe/internal/app/repository/sqlite"
	"github.com/Elandig/tabscribe/internal/config"
)

func TestOpenRecordingStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenRecordingStore(ctx, config.StorageSettings{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	store, err = OpenRecordingStore(ctx, config.StorageSettings{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "db", "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.SQLiteDB{}, store)
	require.NoError(t, store.Close())

	_, err = OpenRecordingStore(ctx, config.StorageSettings{Driver: "cassandra"})
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestInitializeApplication(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TABSCRIBE_HOME", home)
	t.Setenv("TABSCRIBE_STORAGE_DRIVER", "")

	path := filepath.Join(home, "settings.yaml")
	yaml := "storage:\n  driver: memory\n  media:\n    driver: fs\n    dir: " + filepath.Join(home, "media") + "\n" +
		"transcription:\n  enabled: true\n  provider: assemblyai\n  poll_interval_sec: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	application, cleanup, err := InitializeApplication(SettingsPath(path))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "memory", application.Settings.Storage.Driver)
	assert.Equal(t, 2, application.Settings.Transcription.PollIntervalSec)
	assert.Equal(t, path, application.SettingsStore.Path())
	assert.NotNil(t, application.Manager)
	assert.NotNil(t, application.Importer)
	assert.NotNil(t, application.Metrics)
	assert.NotNil(t, application.SettingsLoader)
	assert.DirExists(t, filepath.Join(home, "media"))

	all, err := application.Store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInitializeApplication_InvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: floppy\n"), 0o600))

	_, _, err := InitializeApplication(SettingsPath(path))
	assert.Error(t, err)
}
