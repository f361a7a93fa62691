package settings

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/config"
)

func TestSet(t *testing.T) {
	s := config.DefaultSettings(t.TempDir())

	require.NoError(t, Set(&s, "transcription.enabled", "false"))
	require.NoError(t, Set(&s, "provider", "openai"))
	require.NoError(t, Set(&s, "language", "de"))
	require.NoError(t, Set(&s, "speaker_labels", "true"))
	require.NoError(t, Set(&s, "speakers_expected", "3"))
	require.NoError(t, Set(&s, "api_key.assemblyai", "secret"))
	require.NoError(t, Set(&s, "server.port", "9090"))
	require.NoError(t, Set(&s, "log.level", "debug"))

	assert.False(t, s.Transcription.Enabled)
	assert.Equal(t, "openai", s.Transcription.Provider)
	assert.Equal(t, "de", s.Transcription.Capture.Language)
	assert.True(t, s.Transcription.Capture.SpeakerLabels)
	assert.Equal(t, 3, s.Transcription.Capture.SpeakersExpected)
	assert.Equal(t, "secret", s.Transcription.Providers["assemblyai"].APIKey)
	assert.Equal(t, "9090", s.Server.Port)
	assert.Equal(t, "debug", s.Log.Level)

	assert.Error(t, Set(&s, "transcription.enabled", "maybe"))
	assert.Error(t, Set(&s, "speakers_expected", "many"))
	assert.Error(t, Set(&s, "colour", "blue"))
	assert.Error(t, Set(&s, "api_key.", "x"))
}

func TestSetCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TABSCRIBE_HOME", dir)
	shared.ConfigPath = filepath.Join(dir, "settings.yaml")
	t.Cleanup(func() { shared.ConfigPath = "" })

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		Cmd.SetOut(&out)
		Cmd.SetErr(&out)
		Cmd.SetArgs(args)
		err := Cmd.Execute()
		return out.String(), err
	}

	out, err := run("set", "language", "fr")
	require.NoError(t, err)
	assert.Contains(t, out, "language updated")

	s, err := shared.SettingsStore().Load()
	require.NoError(t, err)
	assert.Equal(t, "fr", s.Transcription.Capture.Language)

	out, err = run("show")
	require.NoError(t, err)
	assert.Contains(t, out, "language: fr")

	_, err = run("set", "storage.driver", "mongo")
	assert.Error(t, err)
	s, err = shared.SettingsStore().Load()
	require.NoError(t, err)
	assert.NotEqual(t, "mongo", s.Storage.Driver)
}
