// Package jobs runs background maintenance on a cron schedule. The only job
// today is the value-creation decay; it shares the decay.Service with the
// admin endpoint, so both paths apply the same update.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/decay"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
)

type Scheduler struct {
	cron  *cron.Cron
	decay *decay.Service
}

func NewScheduler(decaySvc *decay.Service) *Scheduler {
	return &Scheduler{cron: cron.New(), decay: decaySvc}
}

// Start registers the decay job under the given cron spec and starts the
// scheduler.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		count, err := s.decay.Run(ctx)
		if err != nil {
			logger.Log.Error("scheduled depreciation failed", zap.Error(err))
			return
		}
		logger.Log.Info("scheduled depreciation applied", zap.Int64("accounts", count))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Log.Info("scheduler started", zap.String("decay_schedule", spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Log.Info("scheduler stopped")
}
