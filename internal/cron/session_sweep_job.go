package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/metrics"
)

const sessionSweepJobName = "session-sweep"

type sessionSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionSweepJobParams configure the token ledger sweep.
type SessionSweepJobParams struct {
	Logger   *logger.Logger
	Sessions sessionSweeper
	Metrics  *metrics.JobMetrics
}

// NewSessionSweepJob builds the job that drops expired blacklist and
// active-session rows.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session service required")
	}
	return &sessionSweepJob{
		logg:     params.Logger,
		sessions: params.Sessions,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

type sessionSweepJob struct {
	logg     *logger.Logger
	sessions sessionSweeper
	metrics  *metrics.JobMetrics
	now      func() time.Time
}

func (j *sessionSweepJob) Name() string { return sessionSweepJobName }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	swept, err := j.sessions.SweepExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("session sweep: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddSwept(sessionSweepJobName, swept)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_deleted": swept,
	})
	j.logg.Info(logCtx, "session sweep complete")
	return nil
}
