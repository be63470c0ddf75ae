// Package ledger keeps the pool reset baseline: the first week start counted when summing the price pool.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/limbo/accountability/pkg/logger"
)

// Backend stores the single reset record. Read returns nil, nil when no record exists.
type Backend interface {
	Read(ctx context.Context) (*entity.PoolResetRecord, error)
	Write(ctx context.Context, rec entity.PoolResetRecord) error
	// WriteIfAbsent stores rec only if nothing is stored yet and returns whatever is stored afterwards
	WriteIfAbsent(ctx context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error)
}

type Ledger struct {
	backend Backend
	mu      sync.Mutex
}

func New(backend Backend) *Ledger {
	return &Ledger{
		backend: backend,
	}
}

// Get returns the stored baseline and whether one exists.
// An unreadable record counts as no record; only a done ctx is an error.
func (l *Ledger) Get(ctx context.Context) (string, bool, error) {
	rec, err := l.backend.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		logger.FromContext(ctx).Warn("pool reset ledger unreadable, treating as unset", slog.String("error", err.Error()))
		return "", false, nil
	}
	if rec == nil || rec.LastResetWeekStart == "" {
		return "", false, nil
	}
	return rec.LastResetWeekStart, true, nil
}

// Set overwrites the baseline. Used by operators to reset the pool.
func (l *Ledger) Set(ctx context.Context, weekStart string) error {
	if err := ValidateWeekStart(weekStart); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backend.Write(ctx, entity.PoolResetRecord{LastResetWeekStart: weekStart})
}

// Ensure returns the existing baseline, or stores weekStart as the baseline when there is none.
// It never fails: storage problems are logged and weekStart is returned.
func (l *Ledger) Ensure(ctx context.Context, weekStart string) string {
	log := logger.FromContext(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := entity.PoolResetRecord{LastResetWeekStart: weekStart}
	current, err := l.backend.Read(ctx)
	if err != nil {
		log.Warn("pool reset ledger unreadable, writing fresh baseline", slog.String("error", err.Error()))
		if err := l.backend.Write(ctx, rec); err != nil {
			log.Warn("writing pool reset baseline failed", slog.String("error", err.Error()))
		}
		return weekStart
	}
	if current != nil && current.LastResetWeekStart != "" {
		return current.LastResetWeekStart
	}
	stored, err := l.backend.WriteIfAbsent(ctx, rec)
	if err != nil {
		log.Warn("writing pool reset baseline failed", slog.String("error", err.Error()))
		return weekStart
	}
	if stored.LastResetWeekStart == "" {
		return weekStart
	}
	return stored.LastResetWeekStart
}

func ValidateWeekStart(weekStart string) error {
	if _, err := time.Parse(entity.DateFormat, weekStart); err != nil {
		return errorvalues.ErrInvalidWeekStart
	}
	return nil
}

// Memory is a process-local backend.
type Memory struct {
	mu  sync.Mutex
	rec *entity.PoolResetRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(_ context.Context) (*entity.PoolResetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil, nil
	}
	rec := *m.rec
	return &rec, nil
}

func (m *Memory) Write(_ context.Context, rec entity.PoolResetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

func (m *Memory) WriteIfAbsent(_ context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		m.rec = &rec
	}
	return *m.rec, nil
}
