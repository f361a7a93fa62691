package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Elandig/tabscribe/internal/api/v1/handlers"
	"github.com/Elandig/tabscribe/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	recordingHandler := handlers.NewRecordingHandler(container.RecordingService)
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService)

	recordings := router.Group("/recordings")
	{
		recordings.GET("", recordingHandler.List)
		recordings.POST("", recordingHandler.Upload)
		recordings.DELETE("", recordingHandler.DeleteAll)
		recordings.GET("/:id", recordingHandler.Get)
		recordings.DELETE("/:id", recordingHandler.Delete)
		recordings.GET("/:id/media", recordingHandler.Media)
		recordings.GET("/:id/transcript", recordingHandler.Transcript)

		recordings.POST("/:id/transcription", transcriptionHandler.Transcribe)
		recordings.POST("/:id/transcription/retry", transcriptionHandler.Retry)
		recordings.GET("/:id/transcription/status", transcriptionHandler.Status)
	}

	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("/clear", transcriptionHandler.ClearAll)
		transcriptions.POST("/clear-timed-out", transcriptionHandler.ClearTimedOut)
		transcriptions.GET("/available", transcriptionHandler.Available)
	}

	router.GET("/events", transcriptionHandler.Events)
	router.GET("/export", recordingHandler.Export)

	if container.SettingsService != nil {
		settingsHandler := handlers.NewSettingsHandler(container.SettingsService)
		router.GET("/settings", settingsHandler.Get)
		router.PUT("/settings", settingsHandler.Update)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	RecordingService     services.RecordingService
	TranscriptionService services.TranscriptionService
	SettingsService      services.SettingsService
}
