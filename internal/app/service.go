// Package service wires the dataset loader, filter, aggregator and
// presentation builder behind the operations used by the HTTP API and CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pulso/internal/adapters/repository"
	"github.com/okian/pulso/internal/domain/aggregate"
	"github.com/okian/pulso/internal/domain/filter"
	"github.com/okian/pulso/internal/domain/session"
	"github.com/okian/pulso/internal/presentation"
	"github.com/okian/pulso/pkg/logger"
	"github.com/okian/pulso/pkg/metrics"
)

// Loader returns the datasets. repository.Cache implements it.
type Loader interface {
	Load(ctx context.Context) (repository.Dataset, error)
}

// Options lists the values a selection may contain.
type Options struct {
	Activities []string `json:"activities"`
	Weekdays   []string `json:"weekdays"`
}

// Result is the filter and aggregate output for one selection.
type Result struct {
	Selection  filter.Selection  `json:"selection"`
	Summary    aggregate.Summary `json:"summary"`
	ByWeekday  []aggregate.Group `json:"attendance_by_weekday"`
	ByActivity []aggregate.Group `json:"attendance_by_activity"`
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	loader   Loader
	sessions session.Store
	builder  *presentation.Builder
	data     repository.Dataset

	// Configuration
	topN        int
	title       string
	noDataLabel string
	sessionTTL  time.Duration
	maxSessions int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the dataset loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithTopN sets how many ranking and prediction rows are shown.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithTitle sets the dashboard title.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// WithNoDataLabel sets the label of undefined metrics.
func WithNoDataLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.noDataLabel = label
		}
	}
}

// WithSessionTTL sets the idle expiry of the default session store.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxSessions bounds the default session store.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		s.maxSessions = n
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN:        10,
		noDataLabel: "—",
		sessionTTL:  2 * time.Hour,
		maxSessions: 10000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the datasets. A missing or malformed attendance dataset is
// returned as an error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.loader == nil {
		return ErrNoLoader
	}

	s.logger.Info(ctx, "starting dashboard service...")

	data, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	builder, err := presentation.NewBuilder(
		presentation.WithTitle(s.title),
		presentation.WithNoDataLabel(s.noDataLabel),
		presentation.WithTopN(s.topN),
	)
	if err != nil {
		return fmt.Errorf("build presentation: %w", err)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore(
			session.WithTTL(s.sessionTTL),
			session.WithMaxSize(s.maxSessions),
			session.WithOnEvict(metrics.RecordSessionEvicted),
			session.WithOnSize(metrics.UpdateSessionsActive),
		)
	}

	s.data = data
	s.builder = builder
	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("rows", data.Attendance.Len()),
		logger.Int("rejected", len(data.Attendance.Rejected())),
		logger.String("ranking", data.Ranking.Status.String()),
		logger.String("predictions", data.Predictions.Status.String()),
		logger.Int("topN", s.topN),
	)
	return nil
}

// Stop marks the service stopped. The cached datasets are kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// snapshot returns the loaded state or ErrNotStarted.
func (s *Service) snapshot() (repository.Dataset, *presentation.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return repository.Dataset{}, nil, ErrNotStarted
	}
	return s.data, s.builder, nil
}

// Options returns the distinct activities and weekdays, sorted.
func (s *Service) Options(_ context.Context) (Options, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return Options{}, err
	}
	return Options{Activities: data.Attendance.Activities(), Weekdays: data.Attendance.Weekdays()}, nil
}

// DefaultSelection selects every activity and weekday.
func (s *Service) DefaultSelection(_ context.Context) (filter.Selection, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return filter.Selection{}, err
	}
	return filter.All(data.Attendance), nil
}

// Compute filters the attendance table by sel and aggregates the result.
// Selections naming values absent from the table fail with
// filter.ErrUnknownValue.
func (s *Service) Compute(ctx context.Context, sel filter.Selection) (Result, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return Result{}, err
	}
	sel = sel.Normalize()
	if err := sel.Validate(data.Attendance); err != nil {
		return Result{}, err
	}

	start := time.Now()
	rows := filter.Apply(data.Attendance, sel)
	res := Result{
		Selection:  sel,
		Summary:    aggregate.Summarize(rows),
		ByWeekday:  aggregate.ByWeekday(rows),
		ByActivity: aggregate.ByActivity(rows),
	}
	metrics.RecordDashboardView(float64(time.Since(start).Microseconds())/1000, len(rows))
	s.logger.Debug(ctx, "dashboard recomputed",
		logger.Strings("activities", sel.Activities),
		logger.Strings("weekdays", sel.Weekdays),
		logger.Int("rows", len(rows)),
	)
	return res, nil
}

// Dashboard returns the full view for sel.
func (s *Service) Dashboard(ctx context.Context, sel filter.Selection) (presentation.View, error) {
	res, err := s.Compute(ctx, sel)
	if err != nil {
		return presentation.View{}, err
	}
	data, builder, err := s.snapshot()
	if err != nil {
		return presentation.View{}, err
	}
	return builder.Build(presentation.Input{
		Selection:   res.Selection,
		Summary:     res.Summary,
		ByWeekday:   res.ByWeekday,
		ByActivity:  res.ByActivity,
		Ranking:     data.Ranking,
		Predictions: data.Predictions,
		Rejected:    data.Attendance.RejectedByReason(),
	}), nil
}

// Ranking returns the ranking section.
func (s *Service) Ranking(_ context.Context) (presentation.Section, error) {
	data, builder, err := s.snapshot()
	if err != nil {
		return presentation.Section{}, err
	}
	return builder.RankingSection(data.Ranking), nil
}

// Predictions returns the predictions section.
func (s *Service) Predictions(_ context.Context) (presentation.Section, error) {
	data, builder, err := s.snapshot()
	if err != nil {
		return presentation.Section{}, err
	}
	return builder.PredictionsSection(data.Predictions), nil
}

// EnsureSession returns id when it names a live session. Otherwise it
// creates a session holding the default selection and returns its new ID.
func (s *Service) EnsureSession(ctx context.Context, id string) (string, bool, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return "", false, err
	}
	if id != "" {
		if _, ok := s.sessions.Get(ctx, id); ok {
			return id, false, nil
		}
	}
	id = s.sessions.NewID()
	s.sessions.Put(ctx, id, filter.All(data.Attendance))
	metrics.RecordSessionCreated()
	return id, true, nil
}

// Selection returns the selection stored for a session, or the default
// selection when the session is unknown.
func (s *Service) Selection(ctx context.Context, id string) (filter.Selection, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return filter.Selection{}, err
	}
	if sel, ok := s.sessions.Get(ctx, id); ok {
		return sel, nil
	}
	return filter.All(data.Attendance), nil
}

// SetSelection replaces the selection of a session. Unknown values fail
// with filter.ErrUnknownValue and leave the stored selection unchanged.
func (s *Service) SetSelection(ctx context.Context, id string, sel filter.Selection) (filter.Selection, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return filter.Selection{}, err
	}
	sel = sel.Normalize()
	if err := sel.Validate(data.Attendance); err != nil {
		return filter.Selection{}, err
	}
	s.sessions.Put(ctx, id, sel)
	metrics.RecordSelectionUpdate()
	return sel, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"topN":    s.topN,
	}
	if s.started {
		stats["rows"] = s.data.Attendance.Len()
		stats["rejectedRows"] = len(s.data.Attendance.Rejected())
		stats["rejectedByReason"] = s.data.Attendance.RejectedByReason()
		stats["activities"] = len(s.data.Attendance.Activities())
		stats["weekdays"] = len(s.data.Attendance.Weekdays())
		stats["ranking"] = s.data.Ranking.Status.String()
		stats["predictions"] = s.data.Predictions.Status.String()
		stats["sessions"] = s.sessions.Len()
	}
	return stats
}
