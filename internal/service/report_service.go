package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/internal/narrative"
	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/limbo/accountability/pkg/logger"
)

const narrativePerformers = 3

type ReportDeps struct {
	Cohorts   repository.CohortsRepositoryI
	Users     repository.UsersRepositoryI
	Habits    repository.HabitsRepositoryI
	Proofs    repository.ProofsRepositoryI
	Weeks     repository.WeeksRepositoryI
	PricePool repository.PricePoolRepositoryI
	Ledger    PoolLedgerI
	Narrator  NarratorI
	Sinks     []ReportSink
	// Clock defaults to time.Now
	Clock func() time.Time
}

type ReportService struct {
	cohortsRepo   repository.CohortsRepositoryI
	usersRepo     repository.UsersRepositoryI
	pricePoolRepo repository.PricePoolRepositoryI
	compliance    *ComplianceCalculator
	ledger        PoolLedgerI
	narrator      NarratorI
	sinks         []ReportSink
	policy        Policy
	now           func() time.Time
}

func NewReportService(deps ReportDeps, policy Policy) (*ReportService, error) {
	if deps.Cohorts == nil || deps.Users == nil || deps.Habits == nil || deps.Proofs == nil ||
		deps.Weeks == nil || deps.PricePool == nil || deps.Ledger == nil || deps.Narrator == nil {
		return nil, errors.New("on report service provided nil dependencies")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	streaks := NewStreakCalculator(deps.Weeks, policy.StreakSuccessScore)
	return &ReportService{
		cohortsRepo:   deps.Cohorts,
		usersRepo:     deps.Users,
		pricePoolRepo: deps.PricePool,
		compliance:    NewComplianceCalculator(deps.Habits, deps.Proofs, streaks, policy),
		ledger:        deps.Ledger,
		narrator:      deps.Narrator,
		sinks:         deps.Sinks,
		policy:        policy,
		now:           clock,
	}, nil
}

func (rs *ReportService) Generate(ctx context.Context) (*entity.WeeklyAccountabilityReport, error) {
	runID := uuid.New()
	log := logger.FromContext(ctx).With(slog.String("run_id", runID.String()))
	ctx = logger.WithContext(ctx, log)

	now := rs.now().In(rs.policy.Location)
	window := entity.WeekWindowFor(now)

	cohort, err := rs.cohortsRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoActiveCohort) {
			log.Info("no active cohort, returning empty report")
			return entity.NewEmptyReport(runID, window, now), nil
		}
		return nil, fmt.Errorf("resolving active cohort: %w", err)
	}
	log = log.With(slog.String("cohort", cohort.Name))
	ctx = logger.WithContext(ctx, log)

	users, err := rs.usersRepo.ListActiveInCohort(ctx, cohort.Name)
	if err != nil {
		return nil, fmt.Errorf("listing cohort users: %w", err)
	}
	log.Info("report run started", slog.Int("users", len(users)), slog.String("week_start", window.StartDate()))

	compliance, err := rs.computeCompliance(ctx, users, cohort.Name, window)
	if err != nil {
		return nil, err
	}

	leaderboard := BuildLeaderboard(compliance)
	report := entity.NewEmptyReport(runID, window, now)
	report.Cohort = cohort.Name
	report.Leaderboard = top(leaderboard, rs.policy.Limits.Leaderboard)
	report.UserCompliance = userSummaries(compliance, leaderboard)
	report.ChallengingHabits = top(challengingHabits(compliance), rs.policy.Limits.ChallengingHabits)
	report.RiskAlerts = top(DetectRisks(compliance, rs.policy.RiskChargeThreshold), rs.policy.Limits.RiskAlerts)
	report.AdaptiveGoals = top(RecommendGoals(compliance), rs.policy.Limits.AdaptiveGoals)
	report.PerfectWeekClub = perfectWeekClub(compliance)
	buddies := AnalyzeBuddies(users, compliance)
	buddies.Pairs = top(buddies.Pairs, rs.policy.Limits.BuddyPairs)
	report.BuddyPerformance = buddies

	if err := rs.persistCharges(ctx, compliance, cohort.Name, window); err != nil {
		return nil, err
	}

	baseline := rs.ledger.Ensure(ctx, window.StartDate())
	balance, err := rs.pricePoolRepo.Sum(ctx, cohort.Name, baseline)
	if err != nil {
		return nil, fmt.Errorf("summing price pool: %w", err)
	}
	report.Summary = buildSummary(compliance, balance)
	report.PoolSummary = entity.PoolSummary{
		WeeklyCharges:   report.Summary.TotalCharges,
		PoolBalance:     balance,
		BaselineWeek:    baseline,
		TopContributors: top(poolContributors(compliance), rs.policy.Limits.PoolContributors),
	}

	story := rs.narrator.Generate(ctx, narrativeInput(compliance, leaderboard, report.Summary))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.SocialInsights = story.Lines
	report.NarrativeSource = story.Source

	rs.publish(ctx, report)
	log.Info("report run finished",
		slog.Int("users", report.Summary.TotalUsers),
		slog.String("weekly_charges", report.Summary.TotalCharges.StringFixed(2)),
		slog.String("pool_balance", balance.StringFixed(2)),
		slog.String("narrative", string(story.Source)),
	)
	return report, nil
}

// computeCompliance runs users on a bounded pool. A failing user is logged and left out.
func (rs *ReportService) computeCompliance(ctx context.Context, users []*entity.User, cohort string, window entity.WeekWindow) ([]entity.UserCompliance, error) {
	log := logger.FromContext(ctx)
	results := make([]*entity.UserCompliance, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rs.policy.Workers)
	for i, user := range users {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			uc, err := rs.compliance.Calculate(gctx, user, cohort, window)
			switch {
			case err == nil:
				results[i] = uc
			case errors.Is(err, errorvalues.ErrNoComplianceData):
				log.Info("user excluded: no habits in cohort", slog.String("uid", user.ID.String()))
			case errors.Is(err, errorvalues.ErrProofsUnavailable):
				log.Warn("user excluded: proofs unavailable",
					slog.String("uid", user.ID.String()),
					slog.String("error", err.Error()),
				)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				log.Warn("user dropped from report",
					slog.String("uid", user.ID.String()),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	compliance := make([]entity.UserCompliance, 0, len(users))
	for _, uc := range results {
		if uc != nil {
			compliance = append(compliance, *uc)
		}
	}
	return compliance, nil
}

// persistCharges appends one entry per charged habit, one user at a time.
func (rs *ReportService) persistCharges(ctx context.Context, compliance []entity.UserCompliance, cohort string, window entity.WeekWindow) error {
	log := logger.FromContext(ctx)
	var saved, duplicate, failed int
	for _, uc := range compliance {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, hc := range uc.Habits {
			if !hc.Charge.IsPositive() {
				continue
			}
			inserted, err := rs.pricePoolRepo.Append(ctx, &entity.PricePoolEntry{
				UserID:    uc.UserID,
				HabitID:   hc.HabitID,
				DiscordID: uc.DiscordID,
				Cohort:    cohort,
				WeekDate:  window.StartDate(),
				Message:   chargeMessage(hc),
				Price:     hc.Charge,
			})
			switch {
			case err != nil:
				failed++
				log.Error("charge not saved",
					slog.String("uid", uc.UserID.String()),
					slog.String("habit_id", hc.HabitID.String()),
					slog.String("error", err.Error()),
				)
			case !inserted:
				duplicate++
			default:
				saved++
			}
		}
	}
	log.Info("charges persisted", slog.Int("saved", saved), slog.Int("duplicate", duplicate), slog.Int("failed", failed))
	return nil
}

func (rs *ReportService) publish(ctx context.Context, report *entity.WeeklyAccountabilityReport) {
	log := logger.FromContext(ctx)
	for _, sink := range rs.sinks {
		if err := sink.Publish(ctx, report); err != nil {
			log.Warn("report sink failed", slog.String("sink", fmt.Sprintf("%T", sink)), slog.String("error", err.Error()))
		}
	}
}

func narrativeInput(compliance []entity.UserCompliance, leaderboard []entity.LeaderboardEntry, summary entity.ReportSummary) narrative.Input {
	in := narrative.Input{
		TotalUsers:   summary.TotalUsers,
		ChargedUsers: summary.UsersWithCharges,
		PerfectWeeks: summary.PerfectWeeks,
		TotalCharges: summary.TotalCharges,
	}
	for _, entry := range top(leaderboard, narrativePerformers) {
		in.TopPerformers = append(in.TopPerformers, narrative.Performer{Name: entry.Name, Rate: entry.OverallCompletionRate})
	}
	if len(compliance) > 0 {
		sum := 0.0
		for _, uc := range compliance {
			sum += uc.OverallCompletionRate
		}
		in.GroupAverage = sum / float64(len(compliance))
	}
	return in
}
