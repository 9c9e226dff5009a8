// Package cron runs the background refresh sweeper that keeps long-lived
// view state warm between client-driven refreshes.
package cron

import (
	"context"
	"time"

	"rentalwheels/config"
	"rentalwheels/utils"

	"go.uber.org/zap"
)

// Refresher is any engine the sweeper can refetch.
type Refresher interface {
	Refresh(ctx context.Context)
}

// StartRefreshSweeper periodically refreshes the given engines until the
// context is cancelled. The interval comes from configuration; a
// non-positive value disables the sweeper.
func StartRefreshSweeper(ctx context.Context, engines ...Refresher) {
	interval := time.Duration(config.AppConfig.RefreshIntervalMin) * time.Minute
	logger := utils.GetLogger().Named("refresh-sweeper")
	if interval <= 0 {
		logger.Info("refresh sweeper disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("refresh sweeper started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				logger.Info("refresh sweeper stopped")
				return
			case <-ticker.C:
				for _, engine := range engines {
					engine.Refresh(ctx)
				}
			}
		}
	}()
}
