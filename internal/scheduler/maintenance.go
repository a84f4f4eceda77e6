package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/briefd/briefd/internal/config"
	"github.com/briefd/briefd/internal/model"
)

// CacheJanitor removes expired result-cache entries
type CacheJanitor interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Maintenance runs the periodic housekeeping sweeps: evicting terminal jobs
// past their TTL from the in-process registry and purging expired entries
// from the result cache.
type Maintenance struct {
	cfg      *config.Config
	cron     *cron.Cron
	registry *model.JobRegistry
	janitor  CacheJanitor
}

// NewMaintenance creates the maintenance scheduler
func NewMaintenance(cfg *config.Config, registry *model.JobRegistry, janitor CacheJanitor) *Maintenance {
	return &Maintenance{
		cfg:      cfg,
		cron:     cron.New(),
		registry: registry,
		janitor:  janitor,
	}
}

// Start registers the sweep on the configured schedule and starts the cron
func (m *Maintenance) Start() error {
	if !m.cfg.MaintenanceEnabled {
		slog.Info("Maintenance scheduler is disabled by configuration")
		return nil
	}

	if _, err := m.cron.AddFunc(m.cfg.MaintenanceSchedule, m.sweep); err != nil {
		return err
	}

	m.cron.Start()
	slog.Info("Maintenance scheduler started",
		"schedule", m.cfg.MaintenanceSchedule,
		"job_ttl", m.cfg.JobTTL.String(),
		"cache_ttl", m.cfg.CacheTTL.String(),
	)
	return nil
}

// Stop stops the cron and waits for a running sweep to finish
func (m *Maintenance) Stop() {
	if !m.cfg.MaintenanceEnabled {
		return
	}
	<-m.cron.Stop().Done()
	slog.Info("Maintenance scheduler stopped")
}

func (m *Maintenance) sweep() {
	cutoff := time.Now().UTC().Add(-m.cfg.JobTTL)
	evicted := m.registry.EvictTerminalBefore(cutoff)
	if evicted > 0 {
		slog.Info("Evicted terminal jobs from registry",
			"count", evicted,
			"remaining", m.registry.Len(),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := m.janitor.PurgeExpired(ctx); err != nil {
		slog.Error("Cache purge sweep failed", "error", err.Error())
	}
}
