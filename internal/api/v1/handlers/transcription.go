package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Elandig/tabscribe/internal/api/middleware"
	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/api/v1/services"
	"github.com/Elandig/tabscribe/internal/app/model"
)

// TranscriptionHandler handles transcription job endpoints
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

type submitFunc func(ctx context.Context, id string, capture *model.CaptureConfiguration) (*dto.TranscriptionResponse, error)

// Transcribe handles POST /api/v1/recordings/:id/transcription.
// It answers once the provider has accepted or rejected the job; polling continues server side.
//
// @Summary Submit a recording for transcription
// @Description Uploads the recording to the configured provider. An empty body uses the capture settings.
// @Tags transcriptions
// @Accept json
// @Produce json
// @Param id path string true "Recording ID"
// @Param options body dto.TranscribeRequest false "Capture overrides"
// @Success 202 {object} dto.TranscriptionResponse "Submission recorded"
// @Failure 404 {object} errors.APIError "Recording not found"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 503 {object} errors.APIError "Transcription unavailable"
// @Router /recordings/{id}/transcription [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	h.submit(c, h.service.Transcribe)
}

// Retry handles POST /api/v1/recordings/:id/transcription/retry
//
// @Summary Retry a transcription
// @Description Discards the recording's previous job and submits it again
// @Tags transcriptions
// @Accept json
// @Produce json
// @Param id path string true "Recording ID"
// @Param options body dto.TranscribeRequest false "Capture overrides"
// @Success 202 {object} dto.TranscriptionResponse "Submission recorded"
// @Failure 404 {object} errors.APIError "Recording not found"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 503 {object} errors.APIError "Transcription unavailable"
// @Router /recordings/{id}/transcription/retry [post]
func (h *TranscriptionHandler) Retry(c *gin.Context) {
	h.submit(c, h.service.Retry)
}

func (h *TranscriptionHandler) submit(c *gin.Context, fn submitFunc) {
	var req dto.TranscribeRequest
	present, err := middleware.ValidateOptionalRequest(c, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var capture *model.CaptureConfiguration
	if present {
		capture = req.Capture()
	}

	response, err := fn(c.Request.Context(), c.Param("id"), capture)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response)
}

// Status handles GET /api/v1/recordings/:id/transcription/status
//
// @Summary Check transcription status
// @Description Polls the provider once for an in-flight job. Finished jobs are returned as stored.
// @Tags transcriptions
// @Produce json
// @Param id path string true "Recording ID"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 404 {object} errors.APIError "Recording or job not found"
// @Failure 503 {object} errors.APIError "Transcription unavailable"
// @Router /recordings/{id}/transcription/status [get]
func (h *TranscriptionHandler) Status(c *gin.Context) {
	response, err := h.service.CheckStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ClearAll handles POST /api/v1/transcriptions/clear
//
// @Summary Clear in-flight transcriptions
// @Description Fails every pending or processing job with "Cleared by user"
// @Tags transcriptions
// @Produce json
// @Success 200 {object} dto.ClearResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/clear [post]
func (h *TranscriptionHandler) ClearAll(c *gin.Context) {
	response, err := h.service.ClearAll(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ClearTimedOut handles POST /api/v1/transcriptions/clear-timed-out
//
// @Summary Clear timed-out transcriptions
// @Description Fails in-flight jobs older than the job timeout
// @Tags transcriptions
// @Produce json
// @Success 200 {object} dto.ClearResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/clear-timed-out [post]
func (h *TranscriptionHandler) ClearTimedOut(c *gin.Context) {
	response, err := h.service.ClearTimedOut(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Available handles GET /api/v1/transcriptions/available
//
// @Summary Transcription availability
// @Tags transcriptions
// @Produce json
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/available [get]
func (h *TranscriptionHandler) Available(c *gin.Context) {
	response, err := h.service.Availability(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Events handles GET /api/v1/events?since=N
//
// @Summary Job events
// @Description Returns lifecycle events newer than since. X-Last-Seq carries the newest sequence number.
// @Tags events
// @Produce json
// @Param since query int false "Last sequence number seen" minimum(0)
// @Success 200 {object} dto.EventsResponse
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /events [get]
func (h *TranscriptionHandler) Events(c *gin.Context) {
	var query dto.EventsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response := h.service.Events(query.Since)
	c.Header("X-Last-Seq", strconv.FormatInt(response.LastSeq, 10))
	c.JSON(http.StatusOK, response)
}
