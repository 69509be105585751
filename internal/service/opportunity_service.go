package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/opportunity"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultFetchTimeout = 10 * time.Second

// OpportunityProvider is the backend the service pulls from.
type OpportunityProvider interface {
	FetchOpportunities(ctx context.Context) ([]domain.OpportunityRecord, error)
	FetchPair(ctx context.Context, pair string) (*domain.PairQuote, error)
}

type Status string

const (
	StatusIdle   Status = "idle"
	StatusReady  Status = "ready"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Snapshot is an immutable row set. It is replaced as a whole, never edited.
type Snapshot struct {
	Seq       uint64       `json:"seq"`
	Status    Status       `json:"status"`
	Rows      []domain.Row `json:"-"`
	Err       string       `json:"error,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// State is what readers see: the current snapshot plus the loading flag.
type State struct {
	Snapshot *Snapshot
	Loading  bool
}

// OpportunityService owns the row set. Each Refresh issues one backend request;
// a newer refresh cancels the one it supersedes and stale completions are dropped.
type OpportunityService struct {
	tracer   trace.Tracer
	provider OpportunityProvider
	timeout  time.Duration
	now      func() time.Time

	snapshot atomic.Pointer[Snapshot]
	inFlight atomic.Int64

	mu      sync.Mutex
	started uint64
	applied uint64
	cancel  context.CancelFunc
	subs    map[int]chan struct{}
	nextSub int
}

func NewOpportunityService(tracer trace.Tracer, provider OpportunityProvider, timeout time.Duration) *OpportunityService {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	s := &OpportunityService{
		tracer:   tracer,
		provider: provider,
		timeout:  timeout,
		now:      time.Now,
		subs:     make(map[int]chan struct{}),
	}
	s.snapshot.Store(&Snapshot{Status: StatusIdle, Rows: []domain.Row{}})
	return s
}

// Refresh fetches for trigger seq and replaces the row set. Failures leave an
// empty row set with StatusFailed; the error is logged and returned, never retried.
func (s *OpportunityService) Refresh(ctx context.Context, seq uint64) error {
	ctx, span := s.tracer.Start(ctx, "opportunity-service.refresh")
	defer span.End()
	span.SetAttributes(attribute.Int64("seq", int64(seq)))

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	if seq <= s.started {
		s.mu.Unlock()
		log.Debug("skipping superseded refresh", "seq", seq, "latest", s.started)
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.started = seq
	s.cancel = cancel
	s.mu.Unlock()

	recs, err := s.fetch(reqCtx)

	snap := &Snapshot{Seq: seq, FetchedAt: s.now().UTC(), Rows: []domain.Row{}}
	switch {
	case err != nil:
		snap.Status = StatusFailed
		snap.Err = err.Error()
	case len(recs) == 0:
		snap.Status = StatusEmpty
	default:
		snap.Status = StatusReady
		snap.Rows = opportunity.Normalize(recs)
	}

	s.mu.Lock()
	if s.started == seq {
		s.cancel = nil
	}
	superseded := s.started > seq && errors.Is(err, context.Canceled)
	stale := seq < s.applied
	if !superseded && !stale {
		s.applied = seq
		s.snapshot.Store(snap)
	}
	s.mu.Unlock()
	s.notify()

	if superseded || stale {
		log.Debug("discarding stale refresh", "seq", seq, "err", err)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		log.Warn("opportunity fetch failed", "seq", seq, "err", err)
		return err
	}
	span.SetAttributes(attribute.Int("rows", len(snap.Rows)))
	log.Info("refreshed opportunities", "seq", seq, "rows", len(snap.Rows))
	return nil
}

func (s *OpportunityService) fetch(ctx context.Context) ([]domain.OpportunityRecord, error) {
	s.inFlight.Add(1)
	s.notify()
	defer s.inFlight.Add(-1)
	return s.provider.FetchOpportunities(ctx)
}

// Snapshot returns the current row set.
func (s *OpportunityService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Loading reports whether a request is in flight.
func (s *OpportunityService) Loading() bool {
	return s.inFlight.Load() > 0
}

func (s *OpportunityService) State() State {
	return State{Snapshot: s.Snapshot(), Loading: s.Loading()}
}

// View filters and sorts the current snapshot.
func (s *OpportunityService) View(criteria domain.FilterCriteria, sort opportunity.SortState) ([]domain.Row, *Snapshot, error) {
	snap := s.Snapshot()
	rows, err := opportunity.View(snap.Rows, criteria, sort)
	if err != nil {
		return nil, snap, err
	}
	return rows, snap, nil
}

// PairQuote returns per-exchange prices for pair.
func (s *OpportunityService) PairQuote(ctx context.Context, pair string) (*domain.PairQuote, error) {
	ctx, span := s.tracer.Start(ctx, "opportunity-service.pair-quote")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.FetchPair(ctx, pair)
}

// Subscribe returns a channel signalled whenever the state changes. Signals
// coalesce; readers call State. The returned func unsubscribes and closes the channel.
func (s *OpportunityService) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *OpportunityService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
