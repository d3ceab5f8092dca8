package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/utils"
	"github.com/vzahanych/weather-dashboard/internal/validation"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// ArchiveHandler serves paginated archive reports without touching the
// shared dashboard state.
type ArchiveHandler struct {
	fetcher            dashboard.ReportFetcher
	allowedRowsPerPage []int
	logger             *zap.Logger
}

func NewArchiveHandler(fetcher dashboard.ReportFetcher, allowedRowsPerPage []int, logger *zap.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		fetcher:            fetcher,
		allowedRowsPerPage: allowedRowsPerPage,
		logger:             logger,
	}
}

func (h *ArchiveHandler) GetArchive(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := logger.ForContext(ctx, h.logger)

	var req ArchiveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindError(c, err)
		return
	}

	query, err := validation.Validate(validation.FormInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		writeBindError(c, err)
		return
	}

	if req.Page < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid page",
			Code:  CodeInvalidPage,
		})
		return
	}
	if !slices.Contains(h.allowedRowsPerPage, req.RowsPerPage) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid rows per page",
			Code:  CodeInvalidRowsPerPage,
		})
		return
	}

	report, err := h.fetcher.Fetch(ctx, query)
	if err != nil {
		fe, ok := weather.AsFetchError(err)
		if !ok {
			fe = weather.NewUnknownError(err)
		}
		status, _ := fetchErrorStatus(fe)
		reqLogger.Warn("Archive request failed",
			zap.String("cache_key", query.Key()),
			zap.Error(fe))
		c.JSON(status, fetchErrorResponse(fe))
		return
	}

	c.JSON(http.StatusOK, ArchiveResponse{
		Query: query,
		Page:  dashboard.Paginate(report, req.Page, req.RowsPerPage),
	})
}
