package handler

import (
	"context"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/opportunity"
	"arbitrage-scanner/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// OpportunityReader is the read side of service.OpportunityService.
type OpportunityReader interface {
	Snapshot() *service.Snapshot
	View(criteria domain.FilterCriteria, sort opportunity.SortState) ([]domain.Row, *service.Snapshot, error)
	Loading() bool
	PairQuote(ctx context.Context, pair string) (*domain.PairQuote, error)
}

// RefreshControl is the part of job.RefreshController exposed over HTTP.
type RefreshControl interface {
	State() job.RefreshState
	ManualRefresh() uint64
	SetEnabled(enabled bool)
	SetInterval(secs int) error
}

type Handler struct {
	tracer        trace.Tracer
	opportunities OpportunityReader
	refresh       RefreshControl
}

func New(tracer trace.Tracer, opportunities OpportunityReader, refresh RefreshControl) *Handler {
	return &Handler{
		tracer:        tracer,
		opportunities: opportunities,
		refresh:       refresh,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/exchanges", h.GetExchanges)
	api.GET("/opportunities", h.GetOpportunities)
	api.GET("/opportunities/export", h.ExportOpportunities)
	api.GET("/refresh", h.GetRefresh)
	api.POST("/refresh", h.TriggerRefresh)
	api.PUT("/refresh", h.UpdateRefresh)
	api.GET("/pairs/:pair", h.GetPair)
}
