package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/utils"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard *dashboard.Dashboard
	logger    *zap.Logger
}

func NewDashboardHandler(d *dashboard.Dashboard, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: d,
		logger:    logger,
	}
}

func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Snapshot())
}

func (h *DashboardHandler) GetRows(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Page())
}

func (h *DashboardHandler) SubmitQuery(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := logger.ForContext(ctx, h.logger)

	var req SubmitQueryRequest
	if err := c.ShouldBind(&req); err != nil {
		reqLogger.Warn("Invalid dashboard query body", zap.Error(err))
		writeBindError(c, err)
		return
	}

	snap, err := h.dashboard.Submit(ctx, req.FormInput())
	utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("dashboard.status", string(snap.Status)))

	if err == nil {
		c.JSON(http.StatusOK, snap)
		return
	}

	if writeValidationError(c, err) {
		return
	}

	if errors.Is(err, dashboard.ErrSuperseded) {
		c.JSON(http.StatusConflict, DashboardErrorResponse{
			ErrorResponse: ErrorResponse{
				Error: "Query was superseded by a newer submission",
				Code:  CodeSuperseded,
			},
			Dashboard: snap,
		})
		return
	}

	fe, ok := weather.AsFetchError(err)
	if !ok {
		fe = weather.NewUnknownError(err)
	}
	status, _ := fetchErrorStatus(fe)
	reqLogger.Warn("Dashboard query failed", zap.Error(fe), zap.Int("status", status))

	c.JSON(status, DashboardErrorResponse{
		ErrorResponse: fetchErrorResponse(fe),
		Dashboard:     snap,
	})
}

func (h *DashboardHandler) SetPage(c *gin.Context) {
	var req SetPageRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.dashboard.SetCurrentPage(req.Page); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid page",
			Code:    CodeInvalidPage,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.dashboard.Page())
}

func (h *DashboardHandler) SetRowsPerPage(c *gin.Context) {
	var req SetRowsPerPageRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.dashboard.SetRowsPerPage(req.RowsPerPage); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid rows per page",
			Code:    CodeInvalidRowsPerPage,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.dashboard.Page())
}

func (h *DashboardHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Clear())
}
