// Package app provides the core service: the single mutation surface over
// the event log plus the read-side derivations the HTTP API exposes.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"blitzlog/internal/adapters/repository"
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/guard"
	"blitzlog/internal/domain/injury"
	"blitzlog/internal/domain/kickoff"
	"blitzlog/internal/domain/projection"
	"blitzlog/internal/domain/spp"
	"blitzlog/internal/export"
	"blitzlog/pkg/logger"
	"blitzlog/pkg/metrics"
)

// Rejection reasons reported in append results and metrics labels.
const (
	ReasonInvalidType      = "invalid_type"
	ReasonGuard            = "guard"
	ReasonDuplicateKickoff = "duplicate_kickoff"
	ReasonValidation       = "validation"
)

// AppendResult reports the outcome of an append attempt. A declined append
// is not an error: nothing was written and no state changed.
type AppendResult struct {
	Event    event.MatchEvent `json:"event"`
	Accepted bool             `json:"accepted"`
	Reason   string           `json:"reason,omitempty"`
	Problems []string         `json:"problems,omitempty"`
}

// GuardStatus is the presentation-facing snapshot of every named guard,
// computed from the same predicates the append path uses.
type GuardStatus struct {
	MatchStarted       bool                `json:"matchStarted"`
	MatchOver          bool                `json:"matchOver"`
	CanStartDrive      bool                `json:"canStartDrive"`
	CanSelectKickoff   bool                `json:"canSelectKickoff"`
	CanRecordTouchdown bool                `json:"canRecordTouchdown"`
	CanRecordGameplay  bool                `json:"canRecordGameplay"`
	CanUseApothecary   map[event.Team]bool `json:"canUseApothecary"`
}

// Service implements the API dependencies for the match logger.
type Service struct {
	mu sync.Mutex

	store repository.Store

	// Configuration
	storePath   string
	busyTimeout time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a pre-built event log store, bypassing StorePath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStorePath selects the SQLite file backing the log. Empty selects the
// in-memory store.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithStoreBusyTimeout bounds how long SQLite waits on a locked file.
func WithStoreBusyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		if s.storePath != "" {
			store, err := repository.NewSQLiteStore(ctx, s.storePath,
				repository.WithBusyTimeout(s.busyTimeout))
			if err != nil {
				return fmt.Errorf("open event store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite event store", logger.String("path", s.storePath))
		} else {
			s.store = repository.NewMemoryStore()
			s.logger.Info(ctx, "using in-memory event store")
		}
	}

	s.started = true
	s.logger.Info(ctx, "match logger service started",
		logger.Int("events", s.store.Count(ctx)),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "match logger service stopped")
}

// Append validates a candidate event against the guards and the per-drive
// kickoff uniqueness rule, assigns it an id and the next sequence key, and
// persists it. Illegal candidates are declined without error.
func (s *Service) Append(ctx context.Context, candidate event.MatchEvent) (AppendResult, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !candidate.Type.IsValid() {
		metrics.RecordEventRejected(ReasonInvalidType)
		return AppendResult{Reason: ReasonInvalidType}, nil
	}

	events, err := s.store.ListAll(ctx)
	if err != nil {
		return AppendResult{}, fmt.Errorf("read log: %w", err)
	}
	st := projection.Derive(events)
	in := guard.Input{State: st, Events: events}

	if !guard.CanAppend(in, candidate.Type, candidate.Team) {
		s.logger.Debug(ctx, "append declined by guard",
			logger.String("type", string(candidate.Type)),
			logger.Bool("kickoffPending", st.KickoffPending),
		)
		metrics.RecordEventRejected(ReasonGuard)
		return AppendResult{Reason: ReasonGuard}, nil
	}

	if candidate.Type == event.TypeKickoffEvent {
		// The live map re-derived from the log is authoritative here, not
		// any cached pending flag.
		p, ok := candidate.Payload.(event.KickoffEventPayload)
		if !ok || !p.WellFormed() {
			metrics.RecordEventRejected(ReasonValidation)
			return AppendResult{Reason: ReasonValidation, Problems: []string{"kickoff payload is malformed"}}, nil
		}
		if _, exists := st.KickoffByDrive[p.Drive]; exists {
			metrics.RecordEventRejected(ReasonDuplicateKickoff)
			return AppendResult{Reason: ReasonDuplicateKickoff}, nil
		}
		if problems := kickoff.ValidateDetails(p.Key, p.Details); len(problems) > 0 {
			metrics.RecordEventRejected(ReasonValidation)
			return AppendResult{Reason: ReasonValidation, Problems: problems}, nil
		}
	}

	if candidate.Type == event.TypeInjury {
		p, ok := candidate.Payload.(event.InjuryPayload)
		if !ok {
			metrics.RecordEventRejected(ReasonValidation)
			return AppendResult{Reason: ReasonValidation, Problems: []string{"injury payload is malformed"}}, nil
		}
		if problems := injury.Validate(p); len(problems) > 0 {
			metrics.RecordEventRejected(ReasonValidation)
			return AppendResult{Reason: ReasonValidation, Problems: problems}, nil
		}
	}

	maxSeq, err := s.store.MaxCreatedAt(ctx)
	if err != nil {
		return AppendResult{}, fmt.Errorf("read max sequence: %w", err)
	}

	stored := candidate
	stored.ID = uuid.NewString()
	stored.CreatedAt = nextCreatedAt(maxSeq)

	if err := s.store.Append(ctx, stored); err != nil {
		return AppendResult{}, fmt.Errorf("append event: %w", err)
	}

	metrics.RecordEventAppended()
	metrics.RecordAppendLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateLogSize(len(events) + 1)

	s.logger.Info(ctx, "event appended",
		logger.String("id", stored.ID),
		logger.String("type", string(stored.Type)),
		logger.Int64("createdAt", stored.CreatedAt),
	)
	return AppendResult{Event: stored, Accepted: true}, nil
}

// nextCreatedAt picks a sequence key strictly greater than the current
// maximum. Wall-clock milliseconds keep keys roughly meaningful as
// timestamps, but monotonicity is what matters: a clock that stands still
// or runs backwards still yields maxSeq+1.
func nextCreatedAt(maxSeq int64) int64 {
	now := time.Now().UnixMilli()
	if now <= maxSeq {
		return maxSeq + 1
	}
	return now
}

// UndoLast removes the chronologically last event. All derived structures
// shrink with the log; no payload-specific rollback exists.
func (s *Service) UndoLast(ctx context.Context) (event.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.store.DeleteLast(ctx)
	if err != nil {
		return event.MatchEvent{}, err
	}

	metrics.RecordEventUndone()
	metrics.UpdateLogSize(s.store.Count(ctx))

	s.logger.Info(ctx, "event undone",
		logger.String("id", removed.ID),
		logger.String("type", string(removed.Type)),
	)
	return removed, nil
}

// Reset clears the entire event log.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear log: %w", err)
	}
	metrics.RecordMatchReset()
	metrics.UpdateLogSize(0)
	s.logger.Info(ctx, "match reset")
	return nil
}

// Events returns the full log in ascending CreatedAt order.
func (s *Service) Events(ctx context.Context) ([]event.MatchEvent, error) {
	return s.store.ListAll(ctx)
}

// State recomputes the derived match state from the log.
func (s *Service) State(ctx context.Context) (projection.State, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		return projection.State{}, fmt.Errorf("read log: %w", err)
	}
	st := projection.Derive(events)
	metrics.UpdateDriveIndex(st.DriveIndex)
	return st, nil
}

// Guards evaluates every named guard over the current derived state.
func (s *Service) Guards(ctx context.Context) (GuardStatus, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		return GuardStatus{}, fmt.Errorf("read log: %w", err)
	}
	st := projection.Derive(events)
	in := guard.Input{State: st, Events: events}

	return GuardStatus{
		MatchStarted:       in.MatchStarted(),
		MatchOver:          projection.ReachedEnd(st.Half, st.Turn),
		CanStartDrive:      guard.CanStartDrive(in),
		CanSelectKickoff:   guard.CanSelectKickoff(in),
		CanRecordTouchdown: guard.CanRecordTouchdown(in),
		CanRecordGameplay:  guard.CanRecordGameplay(in),
		CanUseApothecary: map[event.Team]bool{
			event.TeamA: guard.CanUseApothecary(in, event.TeamA),
			event.TeamB: guard.CanUseApothecary(in, event.TeamB),
		},
	}, nil
}

// SPP aggregates star player points from the log with the supplied roster
// and MVP selections.
func (s *Service) SPP(ctx context.Context, roster spp.Roster, mvp map[event.Team]string) (spp.Summary, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		return spp.Summary{}, fmt.Errorf("read log: %w", err)
	}
	return spp.Derive(events, roster, mvp), nil
}

// Export builds the versioned JSON export document.
func (s *Service) Export(ctx context.Context, roster spp.Roster, mvp map[event.Team]string) (export.Document, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		return export.Document{}, fmt.Errorf("read log: %w", err)
	}
	return export.Build(events, roster, mvp, time.Now())
}

// Timeline renders the human-readable match report.
func (s *Service) Timeline(ctx context.Context, format export.Format) (string, error) {
	events, err := s.store.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	return export.Timeline(events, format), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if !s.started {
		return stats
	}

	events, err := s.store.ListAll(ctx)
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}
	st := projection.Derive(events)

	stats["events"] = len(events)
	stats["driveIndex"] = st.DriveIndex
	stats["kickoffPending"] = st.KickoffPending
	stats["half"] = st.Half
	stats["turn"] = st.Turn
	stats["matchOver"] = projection.ReachedEnd(st.Half, st.Turn)

	metrics.UpdateLogSize(len(events))
	metrics.UpdateDriveIndex(st.DriveIndex)
	return stats
}
