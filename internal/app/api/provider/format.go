package provider

import (
	"fmt"
	"sort"
	"strings"
)

// FormatTimestamp renders milliseconds as M:SS, or H:MM:SS from one hour up.
// Sub-second remainders are truncated.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatUtterances renders speaker segments into one text block ordered by start time
func FormatUtterances(utterances []Utterance) string {
	if len(utterances) == 0 {
		return ""
	}

	sorted := make([]Utterance, len(utterances))
	copy(sorted, utterances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	blocks := make([]string, 0, len(sorted))
	for _, u := range sorted {
		blocks = append(blocks, fmt.Sprintf("[%s–%s] Speaker %s:\n%s",
			FormatTimestamp(u.Start), FormatTimestamp(u.End), u.Speaker, strings.TrimSpace(u.Text)))
	}
	return strings.Join(blocks, "\n\n")
}
