package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/ctxlog"
	"github.com/Nicolas2912/UnitConverter/internal/domain/convert"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
	"github.com/Nicolas2912/UnitConverter/internal/ports"
)

// Service is the conversion entry point shared by the HTTP server and the
// CLI. It runs the pure engine and records every outcome to metrics and,
// when configured, the usage store. Recording never changes the result.
type Service struct {
	engine  *convert.Engine
	store   ports.UsageStore // nil = stats disabled
	metrics ports.Metrics
	rate    *ThroughputTracker
	now     func() time.Time
}

// throughputWindow is the span ConversionsPerMin averages over.
const throughputWindow = 5 * time.Minute

// NewService creates a Service. store may be nil; metrics nil means no-op.
func NewService(engine *convert.Engine, store ports.UsageStore, metrics ports.Metrics) *Service {
	if engine == nil {
		engine = convert.NewEngine(nil)
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{
		engine:  engine,
		store:   store,
		metrics: metrics,
		rate:    NewThroughputTracker(throughputWindow),
		now:     time.Now,
	}
}

// Convert converts value and records the outcome. Errors are those of
// convert.Engine.Convert, unchanged.
func (s *Service) Convert(ctx context.Context, dimension, from, to string, value float64) (convert.Result, error) {
	res, err := s.engine.Convert(dimension, from, to, value)

	ev := ports.UsageEvent{
		Dimension: res.Dimension,
		From:      res.From,
		To:        res.To,
		Outcome:   outcomeOf(err),
		At:        s.now().Unix(),
	}
	var ue *units.Error
	if errors.As(err, &ue) && ue.Kind != units.KindUnknownDimension {
		ev.Dimension = ue.Dimension
	}

	s.metrics.ObserveConversion(ev.Dimension, ev.Outcome)
	s.rate.RecordAt(s.now())
	if s.store != nil {
		if rerr := s.store.Record(ev); rerr != nil {
			ctxlog.FromContext(ctx).Warn("usage record failed",
				slog.String("dimension", ev.Dimension),
				slog.String("error", rerr.Error()))
		}
	}

	log := ctxlog.FromContext(ctx)
	if err != nil {
		log.Debug("conversion rejected",
			slog.String("dimension", dimension),
			slog.String("from", from),
			slog.String("to", to),
			slog.String("outcome", ev.Outcome))
	} else {
		log.Debug("converted",
			slog.String("dimension", res.Dimension),
			slog.String("from", res.From),
			slog.String("to", res.To),
			slog.Float64("value", value),
			slog.Float64("result", res.Value))
	}
	return res, err
}

// Registry returns the registry conversions run against.
func (s *Service) Registry() *units.Registry {
	return s.engine.Registry()
}

// Catalog returns every dimension with its ordered unit ids.
func (s *Service) Catalog() []units.Listing {
	return s.engine.Registry().Catalog()
}

// Stats returns persisted usage counters, or ports.ErrStatsDisabled.
func (s *Service) Stats() (*ports.UsageStats, error) {
	if s.store == nil {
		return nil, ports.ErrStatsDisabled
	}
	return s.store.Stats()
}

// ConversionsPerMin is the recent request rate, failures included.
func (s *Service) ConversionsPerMin() float64 {
	return s.rate.PerMinAt(s.now())
}

// StatsEnabled reports whether a usage store is attached.
func (s *Service) StatsEnabled() bool {
	return s.store != nil
}

func outcomeOf(err error) string {
	if err == nil {
		return ports.OutcomeOK
	}
	switch units.KindOf(err) {
	case units.KindUnknownDimension:
		return ports.OutcomeUnknownDimension
	case units.KindUnknownUnit:
		return ports.OutcomeUnknownUnit
	case units.KindInvalidValue:
		return ports.OutcomeInvalidValue
	default:
		return ports.OutcomeError
	}
}
