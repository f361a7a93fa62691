package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/Elandig/tabscribe/internal/app/model"
)

func sampleRecordings() []*model.Recording {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	done := created.Add(2 * time.Minute)
	return []*model.Recording{
		{
			ID: "r1", Title: "Standup", Source: model.SourceTab, CreatedAt: created, Duration: 90 * time.Second,
			Transcription: &model.TranscriptionJob{
				Status: model.JobStatusCompleted, Service: "assemblyai", JobID: "tx-1",
				Text: "  good morning  ", StartedAt: created, CompletedAt: &done,
			},
		},
		{
			ID: "r2", Title: "Demo", Source: model.SourceScreen, CreatedAt: created,
			Transcription: &model.TranscriptionJob{Status: model.JobStatusError, Service: "assemblyai", Error: "Cleared by user"},
		},
		{ID: "r3", Title: "Raw", Source: model.SourceUpload, CreatedAt: created},
	}
}

func TestToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, ToExcel(sampleRecordings(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "Transcription", sheet.Rows[0].Cells[9].Value)

	first := sheet.Rows[1].Cells
	assert.Equal(t, "r1", first[0].Value)
	assert.Equal(t, "90.00", first[4].Value)
	assert.Equal(t, "completed", first[5].Value)
	assert.Equal(t, "2024-03-01T12:02:00Z", first[8].Value)

	second := sheet.Rows[2].Cells
	assert.Equal(t, "error", second[5].Value)
	assert.Equal(t, "Cleared by user", second[10].Value)
}

func TestToText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToText(&buf, sampleRecordings()))

	assert.Equal(t, "# Standup (2024-03-01T12:00:00Z)\n\ngood morning\n", buf.String())
}

func TestTranscript(t *testing.T) {
	recs := sampleRecordings()

	text, ok := Transcript(recs[0])
	assert.True(t, ok)
	assert.Equal(t, "  good morning  ", text)

	_, ok = Transcript(recs[1])
	assert.False(t, ok)
	_, ok = Transcript(recs[2])
	assert.False(t, ok)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRecordings()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, file.Sheets[0].Rows, 4)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatText, sampleRecordings()))
	assert.Contains(t, buf.String(), "good morning")

	assert.Error(t, Write(&buf, "csv", nil))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(FormatText))
}
