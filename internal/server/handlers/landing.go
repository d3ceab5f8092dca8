package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LandingHandler struct {
	version string
}

func NewLandingHandler(version string) *LandingHandler {
	return &LandingHandler{version: version}
}

func (h *LandingHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, LandingResponse{
		Name:    "weather-dashboard",
		Version: h.version,
		Links: map[string]string{
			"dashboard": "/api/dashboard",
			"rows":      "/api/dashboard/rows",
			"archive":   "/api/archive",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	})
}
