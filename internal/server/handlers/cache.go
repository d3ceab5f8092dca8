package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"go.uber.org/zap"
)

type CacheHandler struct {
	fetcher *dashboard.Fetcher
	logger  *zap.Logger
}

func NewCacheHandler(fetcher *dashboard.Fetcher, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.fetcher.GetCacheStats())
}

func (h *CacheHandler) Flush(c *gin.Context) {
	h.fetcher.ClearCache()
	h.logger.Info("Report cache flushed")
	c.Status(http.StatusNoContent)
}
