package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/limbo/accountability/internal/archive"
	"github.com/limbo/accountability/internal/cache"
	"github.com/limbo/accountability/internal/ledger"
	"github.com/limbo/accountability/internal/narrative"
	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/internal/service"
	"github.com/limbo/accountability/pkg/cleanup"
	"github.com/limbo/accountability/pkg/config"
	"github.com/limbo/accountability/pkg/logger"
)

type Globals struct {
	EnginePath string
}

// app holds everything a command may need. Optional parts stay nil when their env is unset.
type app struct {
	cfg         *config.Config
	settings    *config.EngineSettings
	pool        *pgxpool.Pool
	redis       *redis.Client
	ledger      *ledger.Ledger
	archive     *archive.ReportArchive
	leaderboard *cache.LeaderboardCache
}

func bootstrap(ctx context.Context, g *Globals) (*app, error) {
	cfg := config.New()
	if _, err := logger.Init(logger.Config{
		Level: cfg.GetStringOr("LOG_LEVEL", "info"),
		File:  cfg.GetString("LOG_FILE"),
		JSON:  cfg.GetString("LOG_FORMAT") == "json",
	}); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	settings, err := config.LoadEngineSettings(g.EnginePath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, settings: settings}
	backend, err := a.ledgerBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.ledger = ledger.New(backend)
	return a, nil
}

func (a *app) postgres(ctx context.Context) *pgxpool.Pool {
	if a.pool == nil {
		a.pool = repository.Connect(ctx, &repository.PGCfg{
			Address:  a.cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: a.cfg.GetString("POSTGRES_USER"),
			Password: a.cfg.GetString("POSTGRES_PASSWORD"),
			DB:       a.cfg.GetString("POSTGRES_DB"),
		})
	}
	return a.pool
}

func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	addr := strings.TrimPrefix(a.cfg.GetString("REDIS_ADDR"), "redis://")
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: a.cfg.GetString("REDIS_PASSWORD"),
		DB:       a.cfg.GetIntOr("REDIS_DB", 0),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.New("pinging redis error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{Name: "closing redis client", F: client.Close})
	a.redis = client
	return client, nil
}

func (a *app) ledgerBackend(ctx context.Context) (ledger.Backend, error) {
	switch kind := a.cfg.GetStringOr("LEDGER_BACKEND", "file"); kind {
	case "file":
		return ledger.NewFile(a.cfg.GetString("LEDGER_PATH")), nil
	case "memory":
		return ledger.NewMemory(), nil
	case "sqlite":
		backend, err := ledger.OpenSQLite(ctx, a.cfg.GetStringOr("LEDGER_PATH", "data/pool-reset.db"))
		if err != nil {
			return nil, err
		}
		cleanup.Register(&cleanup.Job{Name: "closing sqlite ledger", F: backend.Close})
		return backend, nil
	case "postgres":
		return ledger.NewPostgres(a.postgres(ctx)), nil
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, errors.New("redis ledger requires REDIS_ADDR")
		}
		return ledger.NewRedis(client, a.cfg.GetString("LEDGER_REDIS_KEY")), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", kind)
	}
}

// sinks connects the optional report archive and leaderboard cache.
func (a *app) sinks(ctx context.Context) ([]service.ReportSink, error) {
	var sinks []service.ReportSink
	if uri := a.cfg.GetString("MONGO_URI"); uri != "" {
		db, err := archive.Connect(ctx, uri, a.cfg.GetStringOr("MONGO_DB", "accountability"))
		if err != nil {
			return nil, err
		}
		a.archive = archive.NewReportArchive(db)
		sinks = append(sinks, a.archive)
		slog.Info("report archive enabled")
	}
	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	if client != nil {
		a.leaderboard = cache.NewLeaderboardCache(client, a.cfg.GetDurationOr("LEADERBOARD_TTL", 0))
		sinks = append(sinks, a.leaderboard)
		slog.Info("leaderboard cache enabled")
	}
	return sinks, nil
}

func (a *app) policy() (service.Policy, error) {
	loc, err := a.settings.Location()
	if err != nil {
		return service.Policy{}, fmt.Errorf("loading timezone: %w", err)
	}
	s := a.settings
	return service.Policy{
		ChargePerMiss:       s.ChargeRate(),
		RiskChargeThreshold: s.RiskThreshold(),
		StreakSuccessScore:  s.StreakSuccessScore,
		Workers:             s.Workers,
		Location:            loc,
		Proofs: service.ProofPolicy{
			MinimalDose: service.ProofCounting(s.ProofPolicy.MinimalDose),
			CheatDay:    service.ProofCounting(s.ProofPolicy.CheatDay),
		},
		Limits: service.Limits{
			Leaderboard:       s.Top.Leaderboard,
			BuddyPairs:        s.Top.BuddyPairs,
			RiskAlerts:        s.Top.RiskAlerts,
			AdaptiveGoals:     s.Top.AdaptiveGoals,
			ChallengingHabits: s.Top.ChallengingHabits,
			PoolContributors:  s.Top.PoolContributors,
		},
	}, nil
}

func (a *app) narrator() *narrative.Generator {
	aiCfg := narrative.AIConfig{
		APIKey:    a.cfg.GetString("GEMINI_API_KEY"),
		BaseURL:   a.cfg.GetString("GEMINI_BASE_URL"),
		Model:     a.cfg.GetString("GEMINI_MODEL"),
		TimeoutMS: a.cfg.GetIntOr("GEMINI_TIMEOUT_MS", 0),
	}
	var text narrative.TextGenerator
	if aiCfg.IsEnabled() {
		text = narrative.NewGeminiClient(aiCfg)
	} else {
		slog.Warn("GEMINI_API_KEY not set, narrative uses the fallback")
	}
	return narrative.NewGenerator(text, narrative.RetryPolicy{
		MaxAttempts:    a.settings.Narrative.MaxAttempts,
		AttemptTimeout: a.settings.Narrative.AttemptTimeout,
		Spacing:        a.settings.Narrative.Spacing,
	})
}

func (a *app) reportService(ctx context.Context) (*service.ReportService, error) {
	policy, err := a.policy()
	if err != nil {
		return nil, err
	}
	sinks, err := a.sinks(ctx)
	if err != nil {
		return nil, err
	}
	conn := a.postgres(ctx)
	return service.NewReportService(service.ReportDeps{
		Cohorts:   repository.NewCohortsRepo(conn),
		Users:     repository.NewUsersRepo(conn),
		Habits:    repository.NewHabitsRepo(conn),
		Proofs:    repository.NewProofsRepo(conn),
		Weeks:     repository.NewWeeksRepo(conn),
		PricePool: repository.NewPricePoolRepo(conn),
		Ledger:    a.ledger,
		Narrator:  a.narrator(),
		Sinks:     sinks,
	}, policy)
}
