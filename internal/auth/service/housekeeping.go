package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/store"
)

// HousekeepingService periodically deletes signing keys whose verification
// grace period has passed, so persistent key storage does not grow forever.
type HousekeepingService struct {
	Keys     store.SigningKeys
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(keys store.SigningKeys, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Keys:     keys,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs a single pass and returns the number of keys removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	deleted, err := s.Keys.DeleteExpiredSigningKeys(ctx)
	if err != nil {
		s.Logger.Error("failed to delete expired signing keys", "error", err)
		return 0
	}

	if deleted > 0 {
		s.Logger.Info("deleted expired signing keys", "count", deleted)
	} else {
		s.Logger.Debug("no expired signing keys")
	}
	return deleted
}
