package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetPair godoc
// @Summary      Per-exchange prices for one pair
// @Description  Proxies the backend pair lookup
// @Tags         pairs
// @Produce      json
// @Param        pair  path  string  true  "Trading pair (e.g., BTCUSDT)"
// @Success      200  {object}  domain.PairQuote
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/pairs/{pair} [get]
func (h *Handler) GetPair(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-pair")
	defer span.End()

	pair := strings.ToUpper(strings.TrimSpace(c.Param("pair")))
	if pair == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pair is required"})
		return
	}
	span.SetAttributes(attribute.String("pair", pair))

	quote, err := h.opportunities.PairQuote(ctx, pair)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}
