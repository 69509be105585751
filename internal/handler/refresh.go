package handler

import (
	"errors"
	"net/http"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/job"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// RefreshUpdate changes auto-refresh settings. Omitted fields are left alone.
type RefreshUpdate struct {
	Enabled      *bool `json:"enabled"`
	IntervalSecs *int  `json:"interval_secs"`
}

// GetRefresh godoc
// @Summary      Auto-refresh state
// @Tags         refresh
// @Produce      json
// @Success      200  {object}  job.RefreshState
// @Router       /api/refresh [get]
func (h *Handler) GetRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, h.refresh.State())
}

// TriggerRefresh godoc
// @Summary      Manual refresh
// @Description  Bumps the trigger counter; the fetch runs in the background
// @Tags         refresh
// @Produce      json
// @Success      202  {object}  job.RefreshState
// @Router       /api/refresh [post]
func (h *Handler) TriggerRefresh(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.trigger-refresh")
	defer span.End()

	seq := h.refresh.ManualRefresh()
	span.SetAttributes(attribute.Int64("seq", int64(seq)))
	c.JSON(http.StatusAccepted, h.refresh.State())
}

// UpdateRefresh godoc
// @Summary      Change auto-refresh settings
// @Tags         refresh
// @Accept       json
// @Produce      json
// @Param        body  body  RefreshUpdate  true  "enabled and/or interval_secs (5, 10, 20, 30, 60)"
// @Success      200  {object}  job.RefreshState
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/refresh [put]
func (h *Handler) UpdateRefresh(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.update-refresh")
	defer span.End()

	var req RefreshUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	if req.IntervalSecs != nil {
		if err := h.refresh.SetInterval(*req.IntervalSecs); err != nil {
			if errors.Is(err, job.ErrUnsupportedInterval) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   err.Error(),
					"allowed": domain.AutoRefreshOptions,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Enabled != nil {
		h.refresh.SetEnabled(*req.Enabled)
	}

	c.JSON(http.StatusOK, h.refresh.State())
}
