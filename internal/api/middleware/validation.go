package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Elandig/tabscribe/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateRequest validates both struct tags and domain rules
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindError(err, "request", "invalid JSON format")
	}
	return validateDomain(req)
}

// ValidateOptionalRequest is ValidateRequest for endpoints whose body may be
// omitted. It reports whether a body was present.
func ValidateOptionalRequest(c *gin.Context, req interface{}) (bool, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return false, nil
	}
	return true, ValidateRequest(c, req)
}

// ValidateQuery validates query parameters
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		apiErr := bindError(err, "query", "invalid query parameters")
		apiErr.Kind = errors.KindBadRequest
		apiErr.Message = "Invalid query parameters"
		return apiErr
	}
	return validateDomain(req)
}

func validateDomain(req interface{}) error {
	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			if apiErr, ok := err.(*errors.APIError); ok {
				return apiErr
			}
			return errors.NewValidationError(err.Error(), nil)
		}
	}
	return nil
}

func bindError(err error, fallbackField, fallbackMessage string) *errors.APIError {
	details := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details[fallbackField] = fallbackMessage
		return errors.NewValidationError("Validation failed", details)
	}

	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details[field] = "is required"
		case "min", "gte", "gt":
			details[field] = "is too small"
		case "max", "lte", "lt":
			details[field] = "is too large"
		case "oneof":
			details[field] = "must be one of: " + fieldError.Param()
		default:
			details[field] = "is invalid"
		}
	}
	return errors.NewValidationError("Validation failed", details)
}
