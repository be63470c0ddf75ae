package repository

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/limbo/accountability/pkg/cleanup"
)

// Connect opens a shared pgx pool for every repository. The pool is closed by cleanup.CleanUp.
func Connect(ctx context.Context, cfg DBConfig) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		log.Fatal("creating pgx pool error: " + err.Error())
	}
	err = pool.Ping(ctx)
	if err != nil {
		log.Fatal("error while pinging pgx pool: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return pool
}
