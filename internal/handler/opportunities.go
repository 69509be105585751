package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/export"
	"arbitrage-scanner/internal/opportunity"
	"arbitrage-scanner/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// OpportunitiesResponse is the filtered and sorted projection of the current snapshot.
type OpportunitiesResponse struct {
	Status        service.Status `json:"status"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	FetchedAt     *time.Time     `json:"fetched_at,omitempty"`
	Seq           uint64         `json:"seq"`
	Sort          string         `json:"sort"`
	Order         string         `json:"order"`
	Count         int            `json:"count"`
	Opportunities []domain.Row   `json:"opportunities"`
}

// GetExchanges godoc
// @Summary      Exchange universe and refresh options
// @Tags         opportunities
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/exchanges [get]
func (h *Handler) GetExchanges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"exchanges":            domain.Exchanges,
		"auto_refresh_options": domain.AutoRefreshOptions,
		"columns":              domain.Columns,
	})
}

// GetOpportunities godoc
// @Summary      List arbitrage opportunities
// @Description  Filters and sorts the most recent snapshot fetched from the backend
// @Tags         opportunities
// @Produce      json
// @Param        exchanges   query  string  false  "Comma separated exchange selection (default all)"
// @Param        whitelist   query  string  false  "Comma separated base assets to keep"
// @Param        blacklist   query  string  false  "Comma separated base assets to drop"
// @Param        min_amount  query  string  false  "Minimum volume in USD"
// @Param        min_profit  query  string  false  "Minimum profit percent"
// @Param        max_profit  query  string  false  "Maximum profit percent"
// @Param        sort        query  string  false  "Column key"  default(pair)
// @Param        order       query  string  false  "asc or desc"  default(desc)
// @Success      200  {object}  OpportunitiesResponse
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/opportunities [get]
func (h *Handler) GetOpportunities(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-opportunities")
	defer span.End()

	criteria, sortState := parseViewQuery(c)
	span.SetAttributes(attribute.String("sort", sortState.Key), attribute.String("order", string(sortState.Direction)))

	rows, snap, err := h.opportunities.View(criteria, sortState)
	if err != nil {
		badSort(c, err)
		return
	}

	resp := OpportunitiesResponse{
		Status:        snap.Status,
		Loading:       h.opportunities.Loading(),
		Error:         snap.Err,
		Seq:           snap.Seq,
		Sort:          sortState.Key,
		Order:         string(sortState.Direction),
		Count:         len(rows),
		Opportunities: rows,
	}
	if !snap.FetchedAt.IsZero() {
		fetched := snap.FetchedAt
		resp.FetchedAt = &fetched
	}
	c.JSON(http.StatusOK, resp)
}

// ExportOpportunities godoc
// @Summary      Export opportunities as CSV
// @Description  Same filters as /api/opportunities; responds 204 when nothing matches
// @Tags         opportunities
// @Produce      text/csv
// @Param        exchanges   query  string  false  "Comma separated exchange selection (default all)"
// @Param        whitelist   query  string  false  "Comma separated base assets to keep"
// @Param        blacklist   query  string  false  "Comma separated base assets to drop"
// @Param        min_amount  query  string  false  "Minimum volume in USD"
// @Param        min_profit  query  string  false  "Minimum profit percent"
// @Param        max_profit  query  string  false  "Maximum profit percent"
// @Param        sort        query  string  false  "Column key"  default(pair)
// @Param        order       query  string  false  "asc or desc"  default(desc)
// @Success      200  {string}  string
// @Success      204
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/opportunities/export [get]
func (h *Handler) ExportOpportunities(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.export-opportunities")
	defer span.End()

	criteria, sortState := parseViewQuery(c)
	rows, _, err := h.opportunities.View(criteria, sortState)
	if err != nil {
		badSort(c, err)
		return
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		if errors.Is(err, export.ErrNoRows) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.DefaultFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parseViewQuery maps query parameters onto filter criteria and sort state.
// A missing exchanges parameter selects the whole universe; an empty one selects nothing.
func parseViewQuery(c *gin.Context) (domain.FilterCriteria, opportunity.SortState) {
	criteria := domain.DefaultCriteria()
	if raw, ok := c.GetQuery("exchanges"); ok {
		criteria.Exchanges = []string{}
		for _, tok := range strings.Split(raw, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if canonical, known := domain.CanonicalExchange(tok); known {
				tok = canonical
			}
			criteria.Exchanges = append(criteria.Exchanges, tok)
		}
	}
	criteria.Whitelist = c.Query("whitelist")
	criteria.Blacklist = c.Query("blacklist")
	criteria.MinAmount = c.Query("min_amount")
	criteria.MinProfit = c.Query("min_profit")
	criteria.MaxProfit = c.Query("max_profit")

	sortState := opportunity.NewSortState()
	if key := strings.TrimSpace(c.Query("sort")); key != "" {
		sortState.Key = key
	}
	if order := c.Query("order"); order != "" {
		sortState.Direction = domain.ParseDirection(order)
	}
	return criteria, sortState
}

func badSort(c *gin.Context, err error) {
	if errors.Is(err, opportunity.ErrUnknownColumn) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"columns": domain.RowKeys,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
