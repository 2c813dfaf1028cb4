package countries

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers periodic refresh runs on a cron schedule. Runs are not
// mutually excluded with manual refreshes; the transactional store is the
// only coordination (last writer wins per row).
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger
}

// NewScheduler creates a scheduler around the service.
func NewScheduler(service *Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

// Start registers the refresh job under the given cron spec and starts the
// scheduler. Job failures are logged, never fatal.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		result, err := s.service.Refresh(context.Background())
		if err != nil {
			s.logger.Warn("scheduled refresh failed", zap.Error(err))
			return
		}
		s.logger.Info("scheduled refresh completed", zap.Int("processed", result.Processed))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("refresh scheduler started", zap.String("spec", spec))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("refresh scheduler stopped")
}
