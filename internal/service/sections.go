package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/limbo/accountability/pkg/entity"
)

const (
	challengingRate = 70.0
	strugglingRate  = 50.0
)

func top[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func buildSummary(compliance []entity.UserCompliance, poolBalance decimal.Decimal) entity.ReportSummary {
	summary := entity.ReportSummary{
		TotalUsers:   len(compliance),
		TotalCharges: decimal.Zero,
		PoolBalance:  poolBalance,
	}
	for _, uc := range compliance {
		if uc.PerfectWeek {
			summary.PerfectWeeks++
		}
		if uc.TotalCharge.IsPositive() {
			summary.UsersWithCharges++
		}
		summary.TotalCharges = summary.TotalCharges.Add(uc.TotalCharge)
	}
	return summary
}

// challengingHabits groups habits by name across users and keeps those the group averages under 70% on.
func challengingHabits(compliance []entity.UserCompliance) []entity.ChallengingHabit {
	type group struct {
		name       string
		rateSum    float64
		count      int
		struggling int
	}
	var order []string
	groups := make(map[string]*group)
	for _, uc := range compliance {
		for _, h := range uc.Habits {
			key := strings.ToLower(strings.TrimSpace(h.HabitName))
			g, ok := groups[key]
			if !ok {
				g = &group{name: strings.TrimSpace(h.HabitName)}
				groups[key] = g
				order = append(order, key)
			}
			g.rateSum += h.CompletionRate
			g.count++
			if h.CompletionRate < strugglingRate {
				g.struggling++
			}
		}
	}
	result := []entity.ChallengingHabit{}
	for _, key := range order {
		g := groups[key]
		avg := g.rateSum / float64(g.count)
		if avg >= challengingRate {
			continue
		}
		result = append(result, entity.ChallengingHabit{
			HabitName:         g.name,
			AvgCompletionRate: avg,
			UsersStruggling:   g.struggling,
		})
	}
	slices.SortStableFunc(result, func(a, b entity.ChallengingHabit) int {
		return cmp.Compare(a.AvgCompletionRate, b.AvgCompletionRate)
	})
	return result
}

func poolContributors(compliance []entity.UserCompliance) []entity.PoolContributor {
	result := []entity.PoolContributor{}
	for _, uc := range compliance {
		if !uc.TotalCharge.IsPositive() {
			continue
		}
		result = append(result, entity.PoolContributor{Name: uc.Name, Amount: uc.TotalCharge})
	}
	slices.SortStableFunc(result, func(a, b entity.PoolContributor) int {
		return b.Amount.Cmp(a.Amount)
	})
	return result
}

func perfectWeekClub(compliance []entity.UserCompliance) []entity.PerfectWeekAchiever {
	result := []entity.PerfectWeekAchiever{}
	for _, uc := range compliance {
		if !uc.PerfectWeek {
			continue
		}
		result = append(result, entity.PerfectWeekAchiever{
			Name:        uc.Name,
			Streak:      uc.CurrentStreak,
			TotalHabits: uc.TotalHabits,
		})
	}
	slices.SortStableFunc(result, func(a, b entity.PerfectWeekAchiever) int {
		return cmp.Compare(b.Streak, a.Streak)
	})
	return result
}

// userSummaries lists every user in leaderboard order.
func userSummaries(compliance []entity.UserCompliance, leaderboard []entity.LeaderboardEntry) []entity.UserComplianceSummary {
	byID := make(map[uuid.UUID]entity.UserCompliance, len(compliance))
	for _, uc := range compliance {
		byID[uc.UserID] = uc
	}
	result := make([]entity.UserComplianceSummary, 0, len(leaderboard))
	for _, entry := range leaderboard {
		uc := byID[entry.UserID]
		result = append(result, entity.UserComplianceSummary{
			Name:           uc.Name,
			DiscordID:      uc.DiscordID,
			CompletionRate: uc.OverallCompletionRate,
			Habits:         uc.Habits,
			TotalCharge:    uc.TotalCharge,
			Streak:         uc.CurrentStreak,
			OneLiner:       oneLiner(uc),
		})
	}
	return result
}

func oneLiner(uc entity.UserCompliance) string {
	if uc.PerfectWeek {
		if uc.CurrentStreak > 1 {
			return fmt.Sprintf("Perfect week, %d in a row", uc.CurrentStreak)
		}
		return fmt.Sprintf("Perfect week across %d habits", uc.TotalHabits)
	}
	line := fmt.Sprintf("%d of %d habits complete", uc.CompletedHabits, uc.TotalHabits)
	if uc.TotalCharge.IsPositive() {
		line += " · €" + uc.TotalCharge.StringFixed(2) + " charged"
	}
	return line
}

func chargeMessage(hc entity.HabitCompliance) string {
	return fmt.Sprintf("%s: %d missed (%d/%d completed)", hc.HabitName, hc.MissedCount, hc.ActualProofs, hc.TargetFrequency)
}
