package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HabitCompliance struct {
	HabitID         uuid.UUID       `json:"habit_id" bson:"habitId"`
	HabitName       string          `json:"habit_name" bson:"habitName"`
	TargetFrequency int             `json:"target_frequency" bson:"targetFrequency"`
	ActualProofs    int             `json:"actual_proofs" bson:"actualProofs"`
	MissedCount     int             `json:"missed_count" bson:"missedCount"`
	Charge          decimal.Decimal `json:"charge" bson:"charge"`
	CompletionRate  float64         `json:"completion_rate" bson:"completionRate"`
}

type UserCompliance struct {
	UserID                uuid.UUID         `json:"uid"`
	DiscordID             string            `json:"discord_id"`
	Name                  string            `json:"name"`
	Habits                []HabitCompliance `json:"habits"`
	TotalCharge           decimal.Decimal   `json:"total_charge"`
	PerfectWeek           bool              `json:"perfect_week"`
	TotalHabits           int               `json:"total_habits"`
	CompletedHabits       int               `json:"completed_habits"`
	OverallCompletionRate float64           `json:"overall_completion_rate"`
	CurrentStreak         int               `json:"current_streak"`
}

type Badge string

const (
	BadgeNone    Badge = ""
	BadgeTrophy  Badge = "🏆"
	BadgeSilver  Badge = "🥈"
	BadgeBronze  Badge = "🥉"
	BadgeFire    Badge = "🔥"
	BadgeSparkle Badge = "✨"
)

type LeaderboardEntry struct {
	Rank                  int       `json:"rank" bson:"rank"`
	UserID                uuid.UUID `json:"uid" bson:"userId"`
	DiscordID             string    `json:"discord_id" bson:"discordId"`
	Name                  string    `json:"name" bson:"name"`
	OverallCompletionRate float64   `json:"overall_completion_rate" bson:"overallCompletionRate"`
	TotalHabits           int       `json:"total_habits" bson:"totalHabits"`
	CompletedHabits       int       `json:"completed_habits" bson:"completedHabits"`
	CurrentStreak         int       `json:"current_streak" bson:"currentStreak"`
	Badge                 Badge     `json:"badge,omitempty" bson:"badge,omitempty"`
}

type ReportSummary struct {
	TotalUsers       int             `json:"total_users" bson:"totalUsers"`
	PerfectWeeks     int             `json:"perfect_weeks" bson:"perfectWeeks"`
	UsersWithCharges int             `json:"users_with_charges" bson:"usersWithCharges"`
	TotalCharges     decimal.Decimal `json:"total_charges" bson:"totalCharges"`
	PoolBalance      decimal.Decimal `json:"pool_balance" bson:"poolBalance"`
}

type PoolContributor struct {
	Name   string          `json:"name" bson:"name"`
	Amount decimal.Decimal `json:"amount" bson:"amount"`
}

type PoolSummary struct {
	WeeklyCharges   decimal.Decimal   `json:"weekly_charges" bson:"weeklyCharges"`
	PoolBalance     decimal.Decimal   `json:"pool_balance" bson:"poolBalance"`
	BaselineWeek    string            `json:"baseline_week" bson:"baselineWeek"`
	TopContributors []PoolContributor `json:"top_contributors" bson:"topContributors"`
}

type UserComplianceSummary struct {
	Name           string            `json:"name" bson:"name"`
	DiscordID      string            `json:"discord_id" bson:"discordId"`
	CompletionRate float64           `json:"completion_rate" bson:"completionRate"`
	Habits         []HabitCompliance `json:"habits" bson:"habits"`
	TotalCharge    decimal.Decimal   `json:"total_charge" bson:"totalCharge"`
	Streak         int               `json:"streak" bson:"streak"`
	OneLiner       string            `json:"one_liner" bson:"oneLiner"`
}

type ChallengingHabit struct {
	HabitName         string  `json:"habit_name" bson:"habitName"`
	AvgCompletionRate float64 `json:"avg_completion_rate" bson:"avgCompletionRate"`
	UsersStruggling   int     `json:"users_struggling" bson:"usersStruggling"`
}

type BuddyStatus string

const (
	BuddyBothOnTrack    BuddyStatus = "both_on_track"
	BuddyMixed          BuddyStatus = "mixed"
	BuddyBothStruggling BuddyStatus = "both_struggling"
)

type BuddyPair struct {
	UserA                  string      `json:"user_a" bson:"userA"`
	UserB                  string      `json:"user_b" bson:"userB"`
	CombinedCompletionRate float64     `json:"combined_completion_rate" bson:"combinedCompletionRate"`
	Status                 BuddyStatus `json:"status" bson:"status"`
}

type BuddyPerformance struct {
	Pairs           []BuddyPair `json:"pairs" bson:"pairs"`
	UnpairedCount   int         `json:"unpaired_count" bson:"unpairedCount"`
	UnresolvedCount int         `json:"unresolved_count" bson:"unresolvedCount"`
}

type RiskAlert struct {
	Name           string  `json:"name" bson:"name"`
	Reason         string  `json:"reason" bson:"reason"`
	CompletionRate float64 `json:"completion_rate" bson:"completionRate"`
}

type PerfectWeekAchiever struct {
	Name        string `json:"name" bson:"name"`
	Streak      int    `json:"streak" bson:"streak"`
	TotalHabits int    `json:"total_habits" bson:"totalHabits"`
}

type AdaptiveGoal struct {
	Name              string  `json:"name" bson:"name"`
	HabitName         string  `json:"habit_name" bson:"habitName"`
	CurrentRate       float64 `json:"current_rate" bson:"currentRate"`
	TargetFrequency   int     `json:"target_frequency" bson:"targetFrequency"`
	RecommendedTarget int     `json:"recommended_target" bson:"recommendedTarget"`
}

type NarrativeSource string

const (
	NarrativeNone      NarrativeSource = "none"
	NarrativeGenerated NarrativeSource = "generated"
	NarrativeFallback  NarrativeSource = "fallback"
)

// WeeklyAccountabilityReport is built fresh on every run and never mutated after it is returned.
type WeeklyAccountabilityReport struct {
	RunID             uuid.UUID               `json:"run_id" bson:"runId"`
	Cohort            string                  `json:"cohort" bson:"cohort"`
	WeekStart         string                  `json:"week_start" bson:"weekStart"`
	WeekEnd           string                  `json:"week_end" bson:"weekEnd"`
	Summary           ReportSummary           `json:"summary" bson:"summary"`
	Leaderboard       []LeaderboardEntry      `json:"leaderboard" bson:"leaderboard"`
	UserCompliance    []UserComplianceSummary `json:"user_compliance" bson:"userCompliance"`
	SocialInsights    []string                `json:"social_insights" bson:"socialInsights"`
	NarrativeSource   NarrativeSource         `json:"narrative_source" bson:"narrativeSource"`
	PoolSummary       PoolSummary             `json:"pool_summary" bson:"poolSummary"`
	ChallengingHabits []ChallengingHabit      `json:"challenging_habits" bson:"challengingHabits"`
	BuddyPerformance  BuddyPerformance        `json:"buddy_performance" bson:"buddyPerformance"`
	RiskAlerts        []RiskAlert             `json:"risk_alerts" bson:"riskAlerts"`
	PerfectWeekClub   []PerfectWeekAchiever   `json:"perfect_week_club" bson:"perfectWeekClub"`
	AdaptiveGoals     []AdaptiveGoal          `json:"adaptive_goals" bson:"adaptiveGoals"`
	GeneratedAt       time.Time               `json:"generated_at" bson:"generatedAt"`
}

// NewEmptyReport returns a report with every list allocated and every counter at zero.
func NewEmptyReport(runID uuid.UUID, window WeekWindow, generatedAt time.Time) *WeeklyAccountabilityReport {
	return &WeeklyAccountabilityReport{
		RunID:             runID,
		WeekStart:         window.StartDate(),
		WeekEnd:           window.EndDate(),
		Leaderboard:       []LeaderboardEntry{},
		UserCompliance:    []UserComplianceSummary{},
		SocialInsights:    []string{},
		NarrativeSource:   NarrativeNone,
		PoolSummary:       PoolSummary{TopContributors: []PoolContributor{}},
		ChallengingHabits: []ChallengingHabit{},
		BuddyPerformance:  BuddyPerformance{Pairs: []BuddyPair{}},
		RiskAlerts:        []RiskAlert{},
		PerfectWeekClub:   []PerfectWeekAchiever{},
		AdaptiveGoals:     []AdaptiveGoal{},
		GeneratedAt:       generatedAt,
	}
}
