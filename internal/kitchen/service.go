// Package kitchen holds the kitchen's use cases. It owns no storage or
// transport; repositories, publishers and forecasters are injected.
package kitchen

import (
	"context"
	"log/slog"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/forecast"
	"github.com/PinJun0711/Thunderbolts/internal/scheduler"
	"github.com/go-playground/validator/v10"
)

// Recorder receives kitchen activity for monitoring
type Recorder interface {
	RecordPass(plan scheduler.Plan, took time.Duration)
	RecordItemStatus(status string)
	RecordOrderCreated()
}

type noopRecorder struct{}

func (noopRecorder) RecordPass(scheduler.Plan, time.Duration) {}
func (noopRecorder) RecordItemStatus(string)                  {}
func (noopRecorder) RecordOrderCreated()                      {}

// Service runs the kitchen
type Service struct {
	orders     OrderRepository
	menu       MenuRepository
	stock      StockRepository
	forecaster forecast.Forecaster
	publisher  events.Publisher
	recorder   Recorder
	log        *slog.Logger
	now        func() time.Time
	validate   *validator.Validate
}

// Option configures a Service
type Option func(*Service)

// WithForecaster replaces the heuristic forecaster
func WithForecaster(f forecast.Forecaster) Option {
	return func(s *Service) { s.forecaster = f }
}

// WithPublisher sets where kitchen events go
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRecorder sets the activity recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a kitchen service over the given repositories
func NewService(orders OrderRepository, menu MenuRepository, stock StockRepository, opts ...Option) *Service {
	s := &Service{
		orders:     orders,
		menu:       menu,
		stock:      stock,
		forecaster: forecast.Heuristic{},
		publisher:  events.Noop{},
		recorder:   noopRecorder{},
		log:        slog.Default(),
		now:        func() time.Time { return time.Now().UTC() },
		validate:   newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// event delivery is best effort
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish kitchen event", "type", event.Type, "orderId", event.OrderID, "error", err)
	}
}
