package service

import (
	"context"

	"github.com/limbo/accountability/internal/narrative"
	"github.com/limbo/accountability/pkg/entity"
)

type ReportServiceI interface {
	// Builds the weekly report for the active cohort and persists its charges.
	// Without an active cohort the report is empty, not an error
	Generate(ctx context.Context) (*entity.WeeklyAccountabilityReport, error)
}

type PoolLedgerI interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, weekStart string) error
	// Returns the stored baseline, storing weekStart first if there is none
	Ensure(ctx context.Context, weekStart string) string
}

type NarratorI interface {
	Generate(ctx context.Context, in narrative.Input) narrative.Result
}

// ReportSink receives every fully assembled report. Errors are logged by the caller.
type ReportSink interface {
	Publish(ctx context.Context, report *entity.WeeklyAccountabilityReport) error
}
