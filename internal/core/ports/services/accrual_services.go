package services

import (
	"context"
	"time"
)

// AccrualRunSummary reports the outcome of one accrual sweep.
type AccrualRunSummary struct {
	RunDate   time.Time
	Processed int // lock-ins credited this run
	Completed int // lock-ins that transitioned to COMPLETED
	Skipped   int // already credited for the day
	Failed    int // per-lockin failures, left for the next tick
}

// AccrualSvcFacade defines the periodic profit accrual operations.
type AccrualSvcFacade interface {
	// RunDailyAccrual credits daily profit to every ACTIVE lock-in not yet
	// credited for now's UTC calendar day. Idempotent per day; a failure on
	// one lock-in is logged and skipped, never aborting the batch.
	RunDailyAccrual(ctx context.Context, now time.Time) (AccrualRunSummary, error)

	// SweepCompleted marks overdue ACTIVE lock-ins COMPLETED, independent of
	// accrual, so maturity is reached even when no profit is due.
	SweepCompleted(ctx context.Context, now time.Time) (int64, error)
}
