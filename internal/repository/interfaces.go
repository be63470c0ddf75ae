package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/limbo/accountability/pkg/entity"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . CohortsRepositoryI,UsersRepositoryI,HabitsRepositoryI,ProofsRepositoryI,WeeksRepositoryI,PricePoolRepositoryI

type CohortsRepositoryI interface {
	// Returns the cohort with status "active" that started last. ErrNoActiveCohort if there is none
	GetActive(ctx context.Context) (*entity.Cohort, error)
}

type UsersRepositoryI interface {
	// Lists users with status "active" that are members of cohort, ordered by name
	ListActiveInCohort(ctx context.Context, cohort string) ([]*entity.User, error)
}

type HabitsRepositoryI interface {
	// Lists every habit owned by user with uid, across all cohorts
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
}

type ProofsRepositoryI interface {
	// Provides proofs of habitID dated within [from, to]
	ListByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.Proof, error)
}

type WeeksRepositoryI interface {
	// Lists all historical week records of user with uid
	ListByUser(ctx context.Context, uid uuid.UUID) ([]entity.WeekRecord, error)
}

type PricePoolRepositoryI interface {
	// Appends a charge. Returns false if the same habit was already charged for that week
	Append(ctx context.Context, entry *entity.PricePoolEntry) (bool, error)
	// Sums charges of cohort with week date on or after since
	Sum(ctx context.Context, cohort, since string) (decimal.Decimal, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
