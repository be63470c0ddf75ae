package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
)

type PricePoolRepository struct {
	conn PgConnection
}

func NewPricePoolRepo(conn PgConnection) *PricePoolRepository {
	return &PricePoolRepository{
		conn: conn,
	}
}

// Append inserts the entry unless (cohort, habit_id, week_date) is already charged.
func (pp *PricePoolRepository) Append(ctx context.Context, entry *entity.PricePoolEntry) (bool, error) {
	if entry == nil {
		return false, errors.New("price pool entry is nil")
	}
	ct, err := pp.conn.Exec(ctx, `INSERT INTO price_pool (user_id, habit_id, discord_id, cohort, week_date, message, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric) ON CONFLICT (cohort, habit_id, week_date) DO NOTHING;`,
		entry.UserID,
		entry.HabitID,
		entry.DiscordID,
		entry.Cohort,
		entry.WeekDate,
		entry.Message,
		entry.Price.StringFixed(2),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return false, errorvalues.ErrHabitNotFound
			}
		}
		return false, errors.New("appending price pool entry error: " + err.Error())
	}
	return ct.RowsAffected() > 0, nil
}

func (pp *PricePoolRepository) Sum(ctx context.Context, cohort, since string) (decimal.Decimal, error) {
	var total string
	row := pp.conn.QueryRow(ctx, `SELECT COALESCE(SUM(price), 0)::text FROM price_pool WHERE cohort = $1 AND week_date >= $2;`, cohort, since)
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, errors.New("summing price pool error: " + err.Error())
	}
	sum, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, errors.New("parsing price pool sum error: " + err.Error())
	}
	return sum, nil
}
