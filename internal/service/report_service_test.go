package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/internal/ledger"
	"github.com/limbo/accountability/internal/narrative"
	"github.com/limbo/accountability/internal/repository/mocks"
	"github.com/limbo/accountability/internal/service"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

// Wednesday of the week starting 2026-01-19
var testNow = time.Date(2026, time.January, 21, 18, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu      sync.Mutex
	reports []*entity.WeeklyAccountabilityReport
	err     error
}

func (s *recordingSink) Publish(_ context.Context, report *entity.WeeklyAccountabilityReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

type repoMocks struct {
	cohorts   *mocks.MockCohortsRepositoryI
	users     *mocks.MockUsersRepositoryI
	habits    *mocks.MockHabitsRepositoryI
	proofs    *mocks.MockProofsRepositoryI
	weeks     *mocks.MockWeeksRepositoryI
	pricePool *mocks.MockPricePoolRepositoryI
}

func newReportService(t *testing.T, poolLedger service.PoolLedgerI, sinks ...service.ReportSink) (*service.ReportService, repoMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := repoMocks{
		cohorts:   mocks.NewMockCohortsRepositoryI(ctrl),
		users:     mocks.NewMockUsersRepositoryI(ctrl),
		habits:    mocks.NewMockHabitsRepositoryI(ctrl),
		proofs:    mocks.NewMockProofsRepositoryI(ctrl),
		weeks:     mocks.NewMockWeeksRepositoryI(ctrl),
		pricePool: mocks.NewMockPricePoolRepositoryI(ctrl),
	}
	policy := service.DefaultPolicy()
	policy.Location = time.UTC
	serv, err := service.NewReportService(service.ReportDeps{
		Cohorts:   m.cohorts,
		Users:     m.users,
		Habits:    m.habits,
		Proofs:    m.proofs,
		Weeks:     m.weeks,
		PricePool: m.pricePool,
		Ledger:    poolLedger,
		Narrator:  narrative.NewGenerator(nil, narrative.DefaultRetryPolicy()),
		Sinks:     sinks,
		Clock:     func() time.Time { return testNow },
	}, policy)
	require.NoError(t, err)
	return serv, m
}

func TestGenerateWithoutActiveCohort(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	serv, m := newReportService(t, ledger.New(ledger.NewMemory()), sink)
	m.cohorts.EXPECT().GetActive(gomock.Any()).Return(nil, errorvalues.ErrNoActiveCohort)

	report, err := serv.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.TotalUsers)
	assert.Equal(t, "2026-01-19", report.WeekStart)
	assert.Equal(t, "2026-01-25", report.WeekEnd)
	assert.Equal(t, entity.NarrativeNone, report.NarrativeSource)
	assert.NotNil(t, report.Leaderboard)
	assert.Empty(t, report.Leaderboard)
	assert.NotNil(t, report.UserCompliance)
	assert.NotNil(t, report.SocialInsights)
	assert.NotNil(t, report.PoolSummary.TopContributors)
	assert.NotNil(t, report.ChallengingHabits)
	assert.NotNil(t, report.BuddyPerformance.Pairs)
	assert.NotNil(t, report.RiskAlerts)
	assert.NotNil(t, report.PerfectWeekClub)
	assert.NotNil(t, report.AdaptiveGoals)
	assert.Empty(t, sink.reports)
}

func TestGenerateFullRun(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{err: errors.New("sink down")}
	poolLedger := ledger.New(ledger.NewMemory())
	serv, m := newReportService(t, poolLedger, sink)

	marc := &entity.User{ID: uuid.New(), DiscordID: "1", Name: "Marc", Buddy: "lea"}
	lea := &entity.User{ID: uuid.New(), DiscordID: "2", Name: "Lea", Nickname: "lea"}
	newbie := &entity.User{ID: uuid.New(), DiscordID: "3", Name: "Newbie"}
	broken := &entity.User{ID: uuid.New(), DiscordID: "4", Name: "Broken"}
	marcHabit := &entity.Habit{ID: uuid.New(), UserID: marc.ID, Name: "Meditation", TargetFrequency: 5, Cohort: testCohort}
	leaHabit := &entity.Habit{ID: uuid.New(), UserID: lea.ID, Name: "meditation ", TargetFrequency: 5, Cohort: testCohort}
	leaRun := &entity.Habit{ID: uuid.New(), UserID: lea.ID, Name: "Running", TargetFrequency: 4, Cohort: testCohort}

	m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort, Status: entity.CohortStatusActive}, nil)
	m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return([]*entity.User{broken, lea, marc, newbie}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), marc.ID).Return([]*entity.Habit{marcHabit}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), lea.ID).Return([]*entity.Habit{leaHabit, leaRun}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), newbie.ID).Return([]*entity.Habit{}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), broken.ID).Return(nil, errors.New("db error"))
	m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), marcHabit.ID, gomock.Any(), gomock.Any()).Return(proofs(marcHabit.ID, 5), nil)
	m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), leaHabit.ID, gomock.Any(), gomock.Any()).Return(proofs(leaHabit.ID, 2), nil)
	m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), leaRun.ID, gomock.Any(), gomock.Any()).Return(proofs(leaRun.ID, 1), nil)
	m.weeks.EXPECT().ListByUser(gomock.Any(), marc.ID).Return([]entity.WeekRecord{{WeekNum: 1, Score: 7}, {WeekNum: 2, Score: 7}}, nil)
	m.weeks.EXPECT().ListByUser(gomock.Any(), lea.ID).Return(nil, nil)

	var appended []*entity.PricePoolEntry
	m.pricePool.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *entity.PricePoolEntry) (bool, error) {
		appended = append(appended, e)
		return true, nil
	}).Times(2)
	m.pricePool.EXPECT().Sum(gomock.Any(), testCohort, "2026-01-12").Return(decimal.RequireFromString("7.50"), nil)
	require.NoError(t, poolLedger.Set(context.Background(), "2026-01-12"))

	report, err := serv.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testCohort, report.Cohort)
	assert.Equal(t, 2, report.Summary.TotalUsers)
	assert.Equal(t, 1, report.Summary.PerfectWeeks)
	assert.Equal(t, 1, report.Summary.UsersWithCharges)
	assert.True(t, decimal.RequireFromString("3.00").Equal(report.Summary.TotalCharges))
	assert.True(t, decimal.RequireFromString("7.50").Equal(report.Summary.PoolBalance))

	require.Len(t, report.Leaderboard, 2)
	assert.Equal(t, "Marc", report.Leaderboard[0].Name)
	assert.Equal(t, entity.BadgeTrophy, report.Leaderboard[0].Badge)
	assert.Equal(t, "Lea", report.Leaderboard[1].Name)
	assert.InDelta(t, 32.5, report.Leaderboard[1].OverallCompletionRate, 1e-9)

	require.Len(t, report.UserCompliance, 2)
	assert.Equal(t, "Perfect week, 2 in a row", report.UserCompliance[0].OneLiner)
	assert.Equal(t, "0 of 2 habits complete · €3.00 charged", report.UserCompliance[1].OneLiner)

	require.Len(t, appended, 2)
	assert.Equal(t, "meditation: 3 missed (2/5 completed)", appended[0].Message)
	assert.Equal(t, "2026-01-19", appended[0].WeekDate)
	assert.Equal(t, testCohort, appended[0].Cohort)
	assert.True(t, decimal.RequireFromString("1.50").Equal(appended[0].Price))
	assert.Equal(t, "Running: 3 missed (1/4 completed)", appended[1].Message)

	assert.Equal(t, "2026-01-12", report.PoolSummary.BaselineWeek)
	assert.Equal(t, []entity.PoolContributor{{Name: "Lea", Amount: report.UserCompliance[1].TotalCharge}}, report.PoolSummary.TopContributors)

	// meditation averages exactly 70 across Lea and Marc, so only running is challenging
	assert.Equal(t, []entity.ChallengingHabit{{HabitName: "Running", AvgCompletionRate: 25, UsersStruggling: 1}}, report.ChallengingHabits)

	assert.Equal(t, []entity.BuddyPair{{UserA: "Marc", UserB: "Lea", CombinedCompletionRate: 66.25, Status: entity.BuddyMixed}}, report.BuddyPerformance.Pairs)
	assert.Equal(t, 1, report.BuddyPerformance.UnpairedCount)

	require.Len(t, report.RiskAlerts, 1)
	assert.Equal(t, "2 habits below 50%", report.RiskAlerts[0].Reason)
	assert.Equal(t, []entity.PerfectWeekAchiever{{Name: "Marc", Streak: 2, TotalHabits: 1}}, report.PerfectWeekClub)
	require.Len(t, report.AdaptiveGoals, 2)
	assert.Equal(t, "Running", report.AdaptiveGoals[0].HabitName)
	assert.Equal(t, 2, report.AdaptiveGoals[0].RecommendedTarget)

	assert.Equal(t, entity.NarrativeFallback, report.NarrativeSource)
	assert.Equal(t, []string{"Marc leads with 100%", "Group average 66% · 1 charged"}, report.SocialInsights)
	require.Len(t, sink.reports, 1)
	assert.Same(t, report, sink.reports[0])
}

func TestGenerateKeepsBaselineAndSkipsDuplicates(t *testing.T) {
	t.Parallel()
	poolLedger := ledger.New(ledger.NewMemory())
	serv, m := newReportService(t, poolLedger)
	user := &entity.User{ID: uuid.New(), Name: "Lea"}
	habit := &entity.Habit{ID: uuid.New(), UserID: user.ID, Name: "Running", TargetFrequency: 4, Cohort: testCohort}

	for run := 0; run < 2; run++ {
		m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort}, nil)
		m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return([]*entity.User{user}, nil)
		m.habits.EXPECT().ListByUser(gomock.Any(), user.ID).Return([]*entity.Habit{habit}, nil)
		m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), habit.ID, gomock.Any(), gomock.Any()).Return(nil, nil)
		m.weeks.EXPECT().ListByUser(gomock.Any(), user.ID).Return(nil, nil)
		m.pricePool.EXPECT().Sum(gomock.Any(), testCohort, "2026-01-19").Return(decimal.RequireFromString("2.00"), nil)
	}
	gomock.InOrder(
		m.pricePool.EXPECT().Append(gomock.Any(), gomock.Any()).Return(true, nil),
		m.pricePool.EXPECT().Append(gomock.Any(), gomock.Any()).Return(false, nil),
	)

	first, err := serv.Generate(context.Background())
	require.NoError(t, err)
	second, err := serv.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Summary.PoolBalance, second.Summary.PoolBalance)
	assert.Equal(t, "2026-01-19", second.PoolSummary.BaselineWeek)
	assert.NotEqual(t, first.RunID, second.RunID)
	baseline, ok, err := poolLedger.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-01-19", baseline)
}

func TestGenerateChargeFailureDoesNotAbort(t *testing.T) {
	t.Parallel()
	serv, m := newReportService(t, ledger.New(ledger.NewMemory()))
	user := &entity.User{ID: uuid.New(), Name: "Lea"}
	gym := &entity.Habit{ID: uuid.New(), UserID: user.ID, Name: "Gym", TargetFrequency: 3, Cohort: testCohort}
	run := &entity.Habit{ID: uuid.New(), UserID: user.ID, Name: "Run", TargetFrequency: 2, Cohort: testCohort}

	m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort}, nil)
	m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return([]*entity.User{user}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), user.ID).Return([]*entity.Habit{gym, run}, nil)
	m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	m.weeks.EXPECT().ListByUser(gomock.Any(), user.ID).Return(nil, nil)
	m.pricePool.EXPECT().Append(gomock.Any(), gomock.Any()).Return(false, errors.New("db error"))
	m.pricePool.EXPECT().Append(gomock.Any(), gomock.Any()).Return(true, nil)
	m.pricePool.EXPECT().Sum(gomock.Any(), testCohort, gomock.Any()).Return(decimal.RequireFromString("1.00"), nil)

	report, err := serv.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.50").Equal(report.Summary.TotalCharges))
}

func TestGenerateHardFailures(t *testing.T) {
	t.Parallel()
	user := &entity.User{ID: uuid.New(), Name: "Lea"}
	habit := &entity.Habit{ID: uuid.New(), UserID: user.ID, Name: "Gym", TargetFrequency: 1, Cohort: testCohort}
	testCases := []struct {
		Desc         string
		Error        string
		MockPrepFunc func(m repoMocks)
	}{
		{
			Desc:  "cohort lookup",
			Error: "resolving active cohort: connection refused",
			MockPrepFunc: func(m repoMocks) {
				m.cohorts.EXPECT().GetActive(gomock.Any()).Return(nil, errors.New("connection refused"))
			},
		},
		{
			Desc:  "user listing",
			Error: "listing cohort users: connection refused",
			MockPrepFunc: func(m repoMocks) {
				m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort}, nil)
				m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return(nil, errors.New("connection refused"))
			},
		},
		{
			Desc:  "pool sum",
			Error: "summing price pool: connection refused",
			MockPrepFunc: func(m repoMocks) {
				m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort}, nil)
				m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return([]*entity.User{user}, nil)
				m.habits.EXPECT().ListByUser(gomock.Any(), user.ID).Return([]*entity.Habit{habit}, nil)
				m.proofs.EXPECT().ListByHabitAndDateRange(gomock.Any(), habit.ID, gomock.Any(), gomock.Any()).Return(proofs(habit.ID, 1), nil)
				m.weeks.EXPECT().ListByUser(gomock.Any(), user.ID).Return(nil, nil)
				m.pricePool.EXPECT().Sum(gomock.Any(), testCohort, "2026-01-19").Return(decimal.Zero, errors.New("connection refused"))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv, m := newReportService(t, ledger.New(ledger.NewMemory()))
			tc.MockPrepFunc(m)
			report, err := serv.Generate(context.Background())
			assert.EqualError(t, err, tc.Error)
			assert.Nil(t, report)
		})
	}
}

func TestGenerateCancelled(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	serv, m := newReportService(t, ledger.New(ledger.NewMemory()), sink)
	user := &entity.User{ID: uuid.New(), Name: "Lea"}
	ctx, cancel := context.WithCancel(context.Background())

	m.cohorts.EXPECT().GetActive(gomock.Any()).Return(&entity.Cohort{Name: testCohort}, nil)
	m.users.EXPECT().ListActiveInCohort(gomock.Any(), testCohort).Return([]*entity.User{user}, nil)
	m.habits.EXPECT().ListByUser(gomock.Any(), user.ID).DoAndReturn(func(ctx context.Context, _ uuid.UUID) ([]*entity.Habit, error) {
		cancel()
		return nil, ctx.Err()
	})

	report, err := serv.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Empty(t, sink.reports)
}

func TestNewReportServiceRejectsBadPolicy(t *testing.T) {
	policy := service.DefaultPolicy()
	policy.Workers = 0
	_, err := service.NewReportService(service.ReportDeps{}, policy)
	assert.Error(t, err)

	ctrl := gomock.NewController(t)
	policy = service.DefaultPolicy()
	policy.Proofs.CheatDay = "half"
	_, err = service.NewReportService(service.ReportDeps{
		Cohorts:   mocks.NewMockCohortsRepositoryI(ctrl),
		Users:     mocks.NewMockUsersRepositoryI(ctrl),
		Habits:    mocks.NewMockHabitsRepositoryI(ctrl),
		Proofs:    mocks.NewMockProofsRepositoryI(ctrl),
		Weeks:     mocks.NewMockWeeksRepositoryI(ctrl),
		PricePool: mocks.NewMockPricePoolRepositoryI(ctrl),
		Ledger:    ledger.New(ledger.NewMemory()),
		Narrator:  narrative.NewGenerator(nil, narrative.DefaultRetryPolicy()),
	}, policy)
	assert.Error(t, err)
}
