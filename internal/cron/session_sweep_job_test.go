package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soukmarket/souk-backend/pkg/logger"
)

type fakeSweeper struct {
	swept int64
	err   error
	calls int
}

func (f *fakeSweeper) SweepExpired(context.Context, time.Time) (int64, error) {
	f.calls++
	return f.swept, f.err
}

func TestSessionSweepJobRuns(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "sweep-test"})
	sweeper := &fakeSweeper{swept: 4}
	job, err := NewSessionSweepJob(SessionSweepJobParams{Logger: logg, Sessions: sweeper})
	if err != nil {
		t.Fatalf("NewSessionSweepJob: %v", err)
	}

	if job.Name() != "session-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep call, got %d", sweeper.calls)
	}
}

func TestSessionSweepJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "sweep-test"})
	sweeper := &fakeSweeper{err: errors.New("db down")}
	job, err := NewSessionSweepJob(SessionSweepJobParams{Logger: logg, Sessions: sweeper})
	if err != nil {
		t.Fatalf("NewSessionSweepJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing sweep")
	}
}
