package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ms       int64
		expected string
	}{
		{0, "0:00"},
		{999, "0:00"},
		{65_000, "1:05"},
		{65_999, "1:05"},
		{599_000, "9:59"},
		{3_599_999, "59:59"},
		{3_600_000, "1:00:00"},
		{3_661_000, "1:01:01"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatTimestamp(tt.ms), "ms=%d", tt.ms)
	}
}

func TestFormatUtterances_OrdersByStart(t *testing.T) {
	utterances := []Utterance{
		{Speaker: "B", Text: "Fine, thanks.", Start: 4_200, End: 5_900},
		{Speaker: "A", Text: " Hi, how are you? ", Start: 0, End: 4_100},
		{Speaker: "A", Text: "Great.", Start: 3_700_000, End: 3_702_500},
	}

	expected := "[0:00–0:04] Speaker A:\nHi, how are you?\n\n" +
		"[0:04–0:05] Speaker B:\nFine, thanks.\n\n" +
		"[1:01:40–1:01:42] Speaker A:\nGreat."

	assert.Equal(t, expected, FormatUtterances(utterances))
	assert.Equal(t, "B", utterances[0].Speaker, "input slice is not reordered")
}

func TestFormatUtterances_Empty(t *testing.T) {
	assert.Equal(t, "", FormatUtterances(nil))
}
