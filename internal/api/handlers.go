package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/limbo/accountability/pkg/httputil"
	"github.com/limbo/accountability/pkg/logger"
)

type SetBaselineRequest struct {
	WeekStart string `json:"week_start"`
}

type BaselineResponse struct {
	WeekStart string `json:"week_start,omitempty"`
	Set       bool   `json:"set"`
}

type LeaderboardResponse struct {
	Cohort      string                    `json:"cohort"`
	Limit       int                       `json:"limit"`
	Leaderboard []entity.LeaderboardEntry `json:"leaderboard"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) RunReport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if !s.runMu.TryLock() {
		log.Warn("report run rejected: another run in progress")
		httputil.WriteErrorResponse(w, http.StatusConflict, "report run already in progress", nil)
		return
	}
	defer s.runMu.Unlock()
	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()
	report, err := s.reportService.Generate(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			log.Error("report run aborted", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusGatewayTimeout, "report run aborted", nil)
			return
		}
		log.Error("report run failed", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "report run failed", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, report)
	log.Info("report run served", slog.String("run_id", report.RunID.String()))
}

func (s *Server) LatestReport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if s.archive == nil {
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "report archive is not configured", errorvalues.ErrArchiveDisabled)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	report, err := s.archive.Latest(ctx, r.URL.Query().Get("cohort"))
	if err != nil {
		if errors.Is(err, errorvalues.ErrReportNotFound) {
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no archived report", nil)
			return
		}
		log.Error("reading latest report error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while reading archived report", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, report)
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if s.leaderboard == nil {
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "leaderboard cache is not configured", nil)
		return
	}
	cohort := r.URL.Query().Get("cohort")
	if cohort == "" {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "cohort is required", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 5
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*5)
	defer cancel()
	entries, err := s.leaderboard.GetTop(ctx, cohort, limit)
	if err != nil {
		log.Error("reading leaderboard error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while reading leaderboard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, LeaderboardResponse{
		Cohort:      cohort,
		Limit:       limit,
		Leaderboard: entries,
	})
}

func (s *Server) GetPoolBaseline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*5)
	defer cancel()
	weekStart, ok, err := s.ledger.Get(ctx)
	if err != nil {
		log.Error("reading pool baseline error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while reading pool baseline", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, BaselineResponse{WeekStart: weekStart, Set: ok})
}

func (s *Server) SetPoolBaseline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req SetBaselineRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		log.Error("set baseline error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*5)
	defer cancel()
	if err := s.ledger.Set(ctx, req.WeekStart); err != nil {
		if errors.Is(err, errorvalues.ErrInvalidWeekStart) {
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD", nil)
			return
		}
		log.Error("set baseline error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while writing pool baseline", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, BaselineResponse{WeekStart: req.WeekStart, Set: true})
	log.Info("pool baseline reset", slog.String("week_start", req.WeekStart))
}
