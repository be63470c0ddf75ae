package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
)

// Postgres keeps the record as the single row (id = 1) of the pool_reset table.
type Postgres struct {
	conn repository.PgConnection
}

func NewPostgres(conn repository.PgConnection) *Postgres {
	return &Postgres{conn: conn}
}

func (p *Postgres) Read(ctx context.Context) (*entity.PoolResetRecord, error) {
	var rec entity.PoolResetRecord
	err := p.conn.QueryRow(ctx, `SELECT last_reset_week_start FROM pool_reset WHERE id = 1;`).Scan(&rec.LastResetWeekStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("reading pool reset row error: " + err.Error())
	}
	return &rec, nil
}

func (p *Postgres) Write(ctx context.Context, rec entity.PoolResetRecord) error {
	_, err := p.conn.Exec(ctx, `INSERT INTO pool_reset (id, last_reset_week_start) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_reset_week_start = EXCLUDED.last_reset_week_start;`, rec.LastResetWeekStart)
	if err != nil {
		return errors.New("writing pool reset row error: " + err.Error())
	}
	return nil
}

func (p *Postgres) WriteIfAbsent(ctx context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error) {
	_, err := p.conn.Exec(ctx, `INSERT INTO pool_reset (id, last_reset_week_start) VALUES (1, $1) ON CONFLICT (id) DO NOTHING;`, rec.LastResetWeekStart)
	if err != nil {
		return entity.PoolResetRecord{}, errors.New("writing pool reset row error: " + err.Error())
	}
	stored, err := p.Read(ctx)
	if err != nil {
		return entity.PoolResetRecord{}, err
	}
	if stored == nil {
		return rec, nil
	}
	return *stored, nil
}
