package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Reports liveness plus the state of the last opportunity fetch
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	snap := h.opportunities.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"feed":    snap.Status,
		"loading": h.opportunities.Loading(),
		"seq":     snap.Seq,
	})
}
