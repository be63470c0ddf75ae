package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/limbo/accountability/internal/service"
)

const (
	defaultRunTimeout = 5 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

type Server struct {
	mx            *chi.Mux
	reportService service.ReportServiceI
	ledger        service.PoolLedgerI
	archive       ReportArchiveI
	leaderboard   LeaderboardReaderI
	jwtService    JWTServiceI
	runTimeout    time.Duration
	// one report run at a time
	runMu sync.Mutex
}

type ServicesList struct {
	ReportService service.ReportServiceI
	Ledger        service.PoolLedgerI
	// Archive and Leaderboard are optional; their endpoints answer 503 without them
	Archive     ReportArchiveI
	Leaderboard LeaderboardReaderI
	JwtService  JWTServiceI
	RunTimeout  time.Duration
}

func New(servicesOptions *ServicesList) *Server {
	runTimeout := servicesOptions.RunTimeout
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	s := &Server{
		mx:            chi.NewMux(),
		reportService: servicesOptions.ReportService,
		ledger:        servicesOptions.Ledger,
		archive:       servicesOptions.Archive,
		leaderboard:   servicesOptions.Leaderboard,
		jwtService:    servicesOptions.JwtService,
		runTimeout:    runTimeout,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
		r.Get("/health", s.Health)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/reports/run", s.RunReport)
			r.Get("/reports/latest", s.LatestReport)
			r.Get("/leaderboard", s.GetLeaderboard)
			r.Get("/pool/baseline", s.GetPoolBaseline)
			r.Put("/pool/baseline", s.SetPoolBaseline)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("shutting down api error: " + err.Error())
	}
	return nil
}
