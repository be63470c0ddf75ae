package errorvalues

import "errors"

var (
	ErrNoActiveCohort    = errors.New("no active cohort")
	ErrHabitNotFound     = errors.New("habit not found")
	ErrNoComplianceData  = errors.New("user has no habits in the active cohort")
	ErrProofsUnavailable = errors.New("proofs unavailable for every habit in the active cohort")
	ErrInvalidWeekStart  = errors.New("week start must be a YYYY-MM-DD date")
	ErrLedgerLocked      = errors.New("pool reset ledger is locked by another process")
	ErrGeneratorDisabled = errors.New("text generator is not configured")
	ErrEmptyNarrative    = errors.New("narrative response has no usable lines")
	ErrArchiveDisabled   = errors.New("report archive is not configured")
	ErrReportNotFound    = errors.New("no archived report")
	ErrInvalidToken      = errors.New("invalid token")
)
