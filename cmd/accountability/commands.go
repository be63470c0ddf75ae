package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/limbo/accountability/internal/api"
	jwtservice "github.com/limbo/accountability/pkg/jwt_service"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

type RunCmd struct {
	Timeout time.Duration `help:"Abort the run after this long." default:"5m"`
}

func (c *RunCmd) Run(g *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	rs, err := a.reportService(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	report, err := rs.Generate(ctx)
	if err != nil {
		return err
	}
	out, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type ServeCmd struct {
	Addr string `help:"Listen address. Defaults to API_ADDRESS." env:"API_ADDRESS" default:":8080"`
}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	rs, err := a.reportService(ctx)
	if err != nil {
		return err
	}
	list := &api.ServicesList{
		ReportService: rs,
		Ledger:        a.ledger,
		JwtService:    jwtFromEnv(a),
		RunTimeout:    a.cfg.GetDurationOr("REPORT_RUN_TIMEOUT", 0),
	}
	// typed nils would defeat the 503 checks
	if a.archive != nil {
		list.Archive = a.archive
	}
	if a.leaderboard != nil {
		list.Leaderboard = a.leaderboard
	}
	return api.New(list).Run(ctx, c.Addr)
}

func jwtFromEnv(a *app) *jwtservice.JWTService {
	return jwtservice.New(a.cfg.GetString("JWT_SECRET"), a.cfg.GetDurationOr("JWT_TTL", 0))
}

type PoolShowCmd struct{}

func (c *PoolShowCmd) Run(g *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	weekStart, ok, err := a.ledger.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("pool baseline not set")
		return nil
	}
	fmt.Println(weekStart)
	return nil
}

type PoolResetCmd struct {
	WeekStart string `help:"New baseline week start (YYYY-MM-DD)." required:""`
}

func (c *PoolResetCmd) Run(g *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	if err := a.ledger.Set(ctx, c.WeekStart); err != nil {
		return err
	}
	fmt.Println("pool baseline reset to " + c.WeekStart)
	return nil
}

type TokenCmd struct {
	Operator string `help:"Operator name carried in the token." required:""`
}

func (c *TokenCmd) Run(g *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	if a.cfg.GetString("JWT_SECRET") == "" {
		return errors.New("JWT_SECRET is not set")
	}
	token, err := jwtFromEnv(a).GenerateToken(c.Operator)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, token)
	return nil
}
