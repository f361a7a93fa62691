package dto

import (
	"github.com/samber/lo"

	"github.com/Elandig/tabscribe/internal/app/model"
)

// ListRecordingsQuery filters GET /recordings
type ListRecordingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=none pending processing completed error"`
	Source string `form:"source" binding:"omitempty,oneof=screen tab upload"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=1000"`
}

// Apply filters recordings, already ordered newest first
func (q ListRecordingsQuery) Apply(recordings []*model.Recording) []*model.Recording {
	out := lo.Filter(recordings, func(rec *model.Recording, _ int) bool {
		if q.Source != "" && string(rec.Source) != q.Source {
			return false
		}
		switch q.Status {
		case "":
			return true
		case "none":
			return rec.Transcription == nil
		default:
			return string(rec.TranscriptionStatus()) == q.Status
		}
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// RecordingListResponse is the body of GET /recordings
type RecordingListResponse struct {
	Recordings []*model.Recording `json:"recordings"`
	Total      int                `json:"total"`
}

// UploadForm carries the non-file fields of POST /recordings
type UploadForm struct {
	Title  string `form:"title" binding:"omitempty,max=200"`
	Source string `form:"source" binding:"omitempty,oneof=screen tab upload"`
}

// TranscriptResponse is the JSON body of GET /recordings/:id/transcript
type TranscriptResponse struct {
	RecordingID string          `json:"recordingId"`
	Title       string          `json:"title"`
	Status      model.JobStatus `json:"status"`
	Text        string          `json:"text"`
}

// DeletedResponse reports how many recordings a delete removed
type DeletedResponse struct {
	Deleted int `json:"deleted"`
}
