package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/Elandig/tabscribe/internal/app/model"
)

// Formats understood by Write
const (
	FormatXLSX = "xlsx"
	FormatText = "txt"
)

var header = []string{
	"ID", "Title", "Source", "Created At", "Duration (s)",
	"Status", "Service", "Job ID", "Completed At", "Transcription", "Error",
}

// ToExcel writes one row per recording to an xlsx file at outputFilePath
func ToExcel(recordings []*model.Recording, outputFilePath string) error {
	file, err := workbook(recordings)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

// Write renders recordings in format to w
func Write(w io.Writer, format string, recordings []*model.Recording) error {
	switch format {
	case FormatXLSX:
		file, err := workbook(recordings)
		if err != nil {
			return err
		}
		return file.Write(w)
	case FormatText:
		return ToText(w, recordings)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

func workbook(recordings []*model.Recording) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Recordings")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, rec := range recordings {
		row := sheet.AddRow()
		for _, v := range columns(rec) {
			row.AddCell().Value = v
		}
	}
	return file, nil
}

// ToText writes every completed transcript to w, one titled section per recording
func ToText(w io.Writer, recordings []*model.Recording) error {
	first := true
	for _, rec := range recordings {
		if rec.TranscriptionStatus() != model.JobStatusCompleted {
			continue
		}
		if !first {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintf(w, "# %s (%s)\n\n%s\n", rec.Title, rec.CreatedAt.Format(time.RFC3339), strings.TrimSpace(rec.Transcription.Text)); err != nil {
			return err
		}
	}
	return nil
}

// Transcript returns the text of a recording's completed job
func Transcript(rec *model.Recording) (string, bool) {
	if rec.TranscriptionStatus() != model.JobStatusCompleted {
		return "", false
	}
	return rec.Transcription.Text, true
}

func columns(rec *model.Recording) []string {
	cols := []string{
		rec.ID,
		rec.Title,
		string(rec.Source),
		rec.CreatedAt.Format(time.RFC3339),
		fmt.Sprintf("%.2f", rec.Duration.Seconds()),
		"", "", "", "", "", "",
	}
	if job := rec.Transcription; job != nil {
		cols[5] = string(job.Status)
		cols[6] = job.Service
		cols[7] = job.JobID
		if job.CompletedAt != nil {
			cols[8] = job.CompletedAt.Format(time.RFC3339)
		}
		cols[9] = job.Text
		cols[10] = job.Error
	}
	return cols
}
