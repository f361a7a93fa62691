package transcribe

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureUsesSettingsWhenNoFlagSet(t *testing.T) {
	var o submitOptions
	cmd := &cobra.Command{Use: "t"}
	bindSubmitFlags(cmd, &o)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Nil(t, o.capture(cmd))
}

func TestCaptureFromFlags(t *testing.T) {
	var o submitOptions
	cmd := &cobra.Command{Use: "t"}
	bindSubmitFlags(cmd, &o)
	require.NoError(t, cmd.ParseFlags([]string{"--language", "es", "--speaker-labels", "--speakers", "2"}))

	c := o.capture(cmd)
	require.NotNil(t, c)
	assert.Equal(t, "es", c.Language)
	assert.True(t, c.SpeakerLabels)
	assert.Equal(t, 2, c.SpeakersExpected)
}
