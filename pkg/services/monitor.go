package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/metrics"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

const (
	DefaultMonitorTick = time.Minute
	maxConcurrentCheck = 4
)

// Monitor periodically checks enabled services whose interval has elapsed
// and records the results.
type Monitor struct {
	store   store.ServicesStore
	checker *Checker
	tick    time.Duration
	now     func() time.Time
}

// NewMonitor creates a monitor that wakes up every tick.
func NewMonitor(s store.ServicesStore, checker *Checker, tick time.Duration) *Monitor {
	if tick <= 0 {
		tick = DefaultMonitorTick
	}
	return &Monitor{store: s, checker: checker, tick: tick, now: time.Now}
}

// Run checks due services until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	log := logging.Component("monitor")
	log.Info().Dur("tick", m.tick).Msg("service health monitor started")

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		if _, err := m.CheckDue(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("health check round failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("service health monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// CheckDue checks every enabled service whose interval has elapsed and
// returns how many were checked.
func (m *Monitor) CheckDue(ctx context.Context) (int, error) {
	all, err := m.store.ListServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing services: %w", err)
	}
	now := m.now()
	due := make([]model.Service, 0, len(all))
	for _, s := range all {
		if s.HealthCheckDue(now) {
			due = append(due, s)
		}
	}
	return len(due), m.checkAll(ctx, due)
}

// CheckAll checks every service, enabled or not.
func (m *Monitor) CheckAll(ctx context.Context) (map[string]store.HealthResult, error) {
	all, err := m.store.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	results := make(map[string]store.HealthResult, len(all))
	for _, s := range all {
		result, err := m.check(ctx, s)
		if err != nil {
			return results, err
		}
		results[s.ServiceKey] = result
	}
	return results, nil
}

// CheckOne checks the service registered under key.
func (m *Monitor) CheckOne(ctx context.Context, key string) (store.HealthResult, error) {
	svc, err := m.store.FetchService(ctx, key)
	if err != nil {
		return store.HealthResult{}, err
	}
	return m.check(ctx, *svc)
}

func (m *Monitor) checkAll(ctx context.Context, services []model.Service) error {
	errs := make([]error, len(services))
	var g errgroup.Group
	g.SetLimit(maxConcurrentCheck)
	for i, s := range services {
		g.Go(func() error {
			_, errs[i] = m.check(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (m *Monitor) check(ctx context.Context, s model.Service) (store.HealthResult, error) {
	result := m.checker.Check(ctx, s)
	metrics.RecordServiceHealth(s.ServiceKey, string(result.Status), result.ResponseTime)

	log := logging.Ctx(ctx).With().Str("service", s.ServiceKey).Str("status", string(result.Status)).Logger()
	if result.Error != "" {
		log.Warn().Str("error", result.Error).Dur("response_time", result.ResponseTime).Msg("service health check")
	} else {
		log.Debug().Dur("response_time", result.ResponseTime).Msg("service health check")
	}

	if err := m.store.RecordHealthCheck(ctx, s.ServiceKey, result); err != nil {
		return result, fmt.Errorf("recording health of %s: %w", s.ServiceKey, err)
	}
	return result, nil
}
