package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
)

type CohortsRepository struct {
	conn PgConnection
}

func NewCohortsRepo(conn PgConnection) *CohortsRepository {
	return &CohortsRepository{
		conn: conn,
	}
}

func (cr *CohortsRepository) GetActive(ctx context.Context) (*entity.Cohort, error) {
	var (
		cohort entity.Cohort
		status string
	)
	row := cr.conn.QueryRow(ctx, `SELECT name, start_date, end_date, status FROM cohorts WHERE status = 'active' ORDER BY start_date DESC LIMIT 1;`)
	if err := row.Scan(&cohort.Name, &cohort.StartDate, &cohort.EndDate, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrNoActiveCohort
		}
		return nil, errors.New("getting active cohort error: " + err.Error())
	}
	cohort.Status = entity.CohortStatus(status)
	return &cohort, nil
}
