package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
)

const tokenRetention = 30 * 24 * time.Hour

type expiredTokenPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// NewTokenCleanupJob builds the cron job that purges long-expired
// refresh tokens.
func NewTokenCleanupJob(logg *logger.Logger, store expiredTokenPurger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("token store required")
	}
	return &tokenCleanupJob{logg: logg, store: store, now: time.Now}, nil
}

type tokenCleanupJob struct {
	logg  *logger.Logger
	store expiredTokenPurger
	now   func() time.Time
}

func (j *tokenCleanupJob) Name() string { return "token-cleanup" }

func (j *tokenCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-tokenRetention)
	deleted, err := j.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge expired refresh tokens: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"deleted": deleted})
	j.logg.Info(logCtx, "refresh token purge complete")
	return nil
}
