package application

import (
	"context"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/pkg/logger"
)

// HousekeepingService periodically deactivates events well past their start
// time and purges the ones that are older still. It operates on the same
// espn_id-keyed rows the reconciler upserts.
type HousekeepingService struct {
	events          domain.EventRepository
	deactivateAfter time.Duration
	purgeAfter      time.Duration
	interval        time.Duration
	now             func() time.Time
}

// NewHousekeepingService creates the cleanup job.
func NewHousekeepingService(events domain.EventRepository, deactivateAfterHours, purgeAfterHours int, interval time.Duration) *HousekeepingService {
	return &HousekeepingService{
		events:          events,
		deactivateAfter: time.Duration(deactivateAfterHours) * time.Hour,
		purgeAfter:      time.Duration(purgeAfterHours) * time.Hour,
		interval:        interval,
		now:             time.Now,
	}
}

// Run executes the cleanup on the configured interval until ctx is done.
func (s *HousekeepingService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs a single cleanup pass. Purge runs before deactivation so
// a row is never deactivated and deleted in the same pass.
func (s *HousekeepingService) RunOnce() {
	now := s.now()

	purged, err := s.events.DeleteStartedBefore(now.Add(-s.purgeAfter))
	if err != nil {
		logger.Error().Err(err).Msg("Housekeeping: purge failed")
	} else if purged > 0 {
		logger.Info().Int64("count", purged).Msg("Housekeeping: purged stale events")
	}

	deactivated, err := s.events.DeactivateStartedBefore(now.Add(-s.deactivateAfter))
	if err != nil {
		logger.Error().Err(err).Msg("Housekeeping: deactivate failed")
	} else if deactivated > 0 {
		logger.Info().Int64("count", deactivated).Msg("Housekeeping: deactivated ended events")
	}
}
