package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Elandig/tabscribe/internal/api/errors"
	"github.com/Elandig/tabscribe/internal/api/middleware"
	"github.com/Elandig/tabscribe/internal/api/v1/services"
)

const maxSettingsBytes = 1 << 20

// SettingsHandler exposes the settings file
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/settings
//
// @Summary Get settings
// @Description Returns the persisted settings document and its path. Environment overrides are not applied.
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/v1/settings with a partial settings document
//
// @Summary Update settings
// @Description Merges a partial settings document into the stored one and validates the result
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body object true "Partial settings document"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} errors.APIError "Bad request - empty document"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSettingsBytes))
	if err != nil || len(body) == 0 {
		middleware.HandleError(c, errors.NewBadRequestError("Settings document is required"))
		return
	}

	response, err := h.service.UpdateSettings(c.Request.Context(), body)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
