package ledger

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/limbo/accountability/pkg/entity"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS pool_reset (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	last_reset_week_start TEXT NOT NULL
);`

// SQLite keeps the record as the single row of the pool_reset table.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.New("creating ledger dir error: " + err.Error())
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New("opening sqlite ledger error: " + err.Error())
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.New("migrating sqlite ledger error: " + err.Error())
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Read(ctx context.Context) (*entity.PoolResetRecord, error) {
	var rec entity.PoolResetRecord
	err := s.db.QueryRowContext(ctx, `SELECT last_reset_week_start FROM pool_reset WHERE id = 1;`).Scan(&rec.LastResetWeekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("reading sqlite ledger error: " + err.Error())
	}
	return &rec, nil
}

func (s *SQLite) Write(ctx context.Context, rec entity.PoolResetRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO pool_reset (id, last_reset_week_start) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_reset_week_start = excluded.last_reset_week_start;`, rec.LastResetWeekStart)
	if err != nil {
		return errors.New("writing sqlite ledger error: " + err.Error())
	}
	return nil
}

func (s *SQLite) WriteIfAbsent(ctx context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error) {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO pool_reset (id, last_reset_week_start) VALUES (1, ?);`, rec.LastResetWeekStart); err != nil {
		return entity.PoolResetRecord{}, errors.New("writing sqlite ledger error: " + err.Error())
	}
	stored, err := s.Read(ctx)
	if err != nil {
		return entity.PoolResetRecord{}, err
	}
	if stored == nil {
		return rec, nil
	}
	return *stored, nil
}
