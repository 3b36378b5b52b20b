package tasks

import (
	"context"
	"time"

	"arcqueue/internal/config"
	"arcqueue/internal/queue"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = time.Minute

type maintenanceStore interface {
	FindDensityViolations(ctx context.Context) ([]queue.DensityViolation, error)
	PurgeIdleQueues(ctx context.Context, olderThan time.Time) (int64, error)
}

// Planner runs periodic maintenance over the queue tables.
type Planner struct {
	store   maintenanceStore
	idleTTL time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

func NewPlanner(store maintenanceStore, idleTTL time.Duration, logger *logrus.Logger) *Planner {
	return &Planner{
		store:   store,
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
	}
}

// AuditDensity logs every cabinet whose positions are not exactly 1..k and
// returns how many were found.
func (p *Planner) AuditDensity(ctx context.Context) (int, error) {
	violations, err := p.store.FindDensityViolations(ctx)
	if err != nil {
		return 0, err
	}

	for _, v := range violations {
		p.logger.WithFields(logrus.Fields{
			"cabinet_id":         v.CabinetID,
			"entries":            v.Entries,
			"distinct_positions": v.DistinctPosition,
			"min_position":       v.MinPosition,
			"max_position":       v.MaxPosition,
		}).Error("queue positions are not dense")
	}
	return len(violations), nil
}

// PurgeIdleQueues drops coordination rows of queues that have been empty and
// untouched for longer than the idle TTL.
func (p *Planner) PurgeIdleQueues(ctx context.Context) (int64, error) {
	cutoff := p.now().UTC().Add(-p.idleTTL)
	purged, err := p.store.PurgeIdleQueues(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		p.logger.Infof("purged %d idle queues", purged)
	}
	return purged, nil
}

// InitScheduler registers the maintenance jobs and starts the cron scheduler.
// Stop the returned scheduler on shutdown.
func (p *Planner) InitScheduler(cfg config.Tasks) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(cfg.AuditSchedule, p.job("density audit", func(ctx context.Context) error {
		_, err := p.AuditDensity(ctx)
		return err
	})); err != nil {
		return nil, errors.Wrap(err, "tasks : invalid audit schedule")
	}

	if _, err := c.AddFunc(cfg.JanitorSchedule, p.job("idle queue janitor", func(ctx context.Context) error {
		_, err := p.PurgeIdleQueues(ctx)
		return err
	})); err != nil {
		return nil, errors.Wrap(err, "tasks : invalid janitor schedule")
	}

	c.Start()
	p.logger.Info("cron scheduler started")
	return c, nil
}

func (p *Planner) job(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			p.logger.WithError(err).Errorf("%s failed", name)
		}
	}
}
