package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CORSConfig lists what browser clients of the API may do
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin; the API only listens locally by default.
// The UI reads X-Total-Count on lists and X-Last-Seq on the event feed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Accept", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "X-Total-Count", "X-Last-Seq"},
		MaxAge:        3600,
	}
}

// CORS answers preflight requests itself and decorates every other response
func CORS(cfg CORSConfig) gin.HandlerFunc {
	anyOrigin := lo.Contains(cfg.AllowOrigins, "*")
	static := map[string]string{
		"Access-Control-Allow-Methods":  strings.Join(cfg.AllowMethods, ", "),
		"Access-Control-Allow-Headers":  strings.Join(cfg.AllowHeaders, ", "),
		"Access-Control-Expose-Headers": strings.Join(cfg.ExposeHeaders, ", "),
	}
	if cfg.AllowCredentials {
		static["Access-Control-Allow-Credentials"] = "true"
	}
	if cfg.MaxAge > 0 {
		static["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
	}
	static = lo.OmitByValues(static, []string{""})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case anyOrigin:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && lo.Contains(cfg.AllowOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		for k, v := range static {
			c.Header(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
