package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Elandig/tabscribe/internal/api/errors"
	"github.com/Elandig/tabscribe/internal/api/middleware"
	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/api/v1/services"
	"github.com/Elandig/tabscribe/internal/app/converter/export"
)

// MaxUploadBytes bounds POST /recordings bodies
const MaxUploadBytes = 2 << 30

// RecordingHandler handles the recording library endpoints
type RecordingHandler struct {
	service services.RecordingService
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(service services.RecordingService) *RecordingHandler {
	return &RecordingHandler{
		service: service,
	}
}

// List handles GET /api/v1/recordings
//
// @Summary List recordings
// @Description Lists recordings newest first. X-Total-Count carries the number returned.
// @Tags recordings
// @Produce json
// @Param status query string false "Job status filter" Enums(none, pending, processing, completed, error)
// @Param source query string false "Capture source filter" Enums(screen, tab, upload)
// @Param limit query int false "Maximum results" minimum(1) maximum(1000)
// @Success 200 {object} dto.RecordingListResponse
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recordings [get]
func (h *RecordingHandler) List(c *gin.Context) {
	var query dto.ListRecordingsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListRecordings(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Total))
	c.JSON(http.StatusOK, response)
}

// Upload handles POST /api/v1/recordings (multipart field "file")
//
// @Summary Upload a recording
// @Tags recordings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param title formData string false "Title"
// @Param source formData string false "Capture source" Enums(screen, tab, upload)
// @Success 201 {object} model.Recording "Recording stored"
// @Failure 400 {object} errors.APIError "Bad request - missing file"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recordings [post]
func (h *RecordingHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid upload", map[string]string{"form": err.Error()}))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Multipart field \"file\" is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Unreadable upload"))
		return
	}
	defer file.Close()

	rec, err := h.service.UploadRecording(c.Request.Context(), header.Filename, file, form)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Get handles GET /api/v1/recordings/:id
//
// @Summary Get a recording
// @Tags recordings
// @Produce json
// @Param id path string true "Recording ID"
// @Success 200 {object} model.Recording
// @Failure 404 {object} errors.APIError "Recording not found"
// @Router /recordings/{id} [get]
func (h *RecordingHandler) Get(c *gin.Context) {
	rec, err := h.service.GetRecording(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Media handles GET /api/v1/recordings/:id/media
//
// @Summary Download recording media
// @Tags recordings
// @Produce octet-stream
// @Param id path string true "Recording ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.APIError "Recording or media not found"
// @Router /recordings/{id}/media [get]
func (h *RecordingHandler) Media(c *gin.Context) {
	body, info, rec, err := h.service.OpenMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", rec.ID+path.Ext(rec.MediaKey)))
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, nil)
}

// Transcript handles GET /api/v1/recordings/:id/transcript[?format=txt]
//
// @Summary Get a transcript
// @Tags recordings
// @Produce json,plain
// @Param id path string true "Recording ID"
// @Param format query string false "Response format" Enums(json, txt) default(json)
// @Success 200 {object} dto.TranscriptResponse
// @Failure 400 {object} errors.APIError "Invalid format"
// @Failure 404 {object} errors.APIError "Recording or transcript not found"
// @Router /recordings/{id}/transcript [get]
func (h *RecordingHandler) Transcript(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != export.FormatText {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid format. Must be json or txt"))
		return
	}

	transcript, err := h.service.GetTranscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if format == export.FormatText {
		c.String(http.StatusOK, transcript.Text)
		return
	}
	c.JSON(http.StatusOK, transcript)
}

// Delete handles DELETE /api/v1/recordings/:id
//
// @Summary Delete a recording
// @Description Removes the recording, its media and any running poll
// @Tags recordings
// @Param id path string true "Recording ID"
// @Success 204 "Recording deleted"
// @Failure 404 {object} errors.APIError "Recording not found"
// @Router /recordings/{id} [delete]
func (h *RecordingHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteRecording(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/v1/recordings
//
// @Summary Delete all recordings
// @Tags recordings
// @Produce json
// @Success 200 {object} dto.DeletedResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /recordings [delete]
func (h *RecordingHandler) DeleteAll(c *gin.Context) {
	response, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Export handles GET /api/v1/export?format=xlsx|txt
//
// @Summary Export the library
// @Description Exports every recording with its transcript as a spreadsheet or plain text
// @Tags recordings
// @Produce octet-stream
// @Param format query string false "Export format" Enums(xlsx, txt) default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} errors.APIError "Invalid format"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /export [get]
func (h *RecordingHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatXLSX)
	if format != export.FormatXLSX && format != export.FormatText {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid format. Must be xlsx or txt"))
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), format, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"recordings.%s\"", format))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
