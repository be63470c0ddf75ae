package service

import (
	"cmp"
	"slices"

	"github.com/limbo/accountability/pkg/entity"
)

const fireStreakWeeks = 4

// BuildLeaderboard ranks every user by overall completion rate. Ties keep input order.
func BuildLeaderboard(compliance []entity.UserCompliance) []entity.LeaderboardEntry {
	sorted := slices.Clone(compliance)
	slices.SortStableFunc(sorted, func(a, b entity.UserCompliance) int {
		return cmp.Compare(b.OverallCompletionRate, a.OverallCompletionRate)
	})
	entries := make([]entity.LeaderboardEntry, 0, len(sorted))
	for i, uc := range sorted {
		rank := i + 1
		entries = append(entries, entity.LeaderboardEntry{
			Rank:                  rank,
			UserID:                uc.UserID,
			DiscordID:             uc.DiscordID,
			Name:                  uc.Name,
			OverallCompletionRate: uc.OverallCompletionRate,
			TotalHabits:           uc.TotalHabits,
			CompletedHabits:       uc.CompletedHabits,
			CurrentStreak:         uc.CurrentStreak,
			Badge:                 badgeFor(rank, uc),
		})
	}
	return entries
}

func badgeFor(rank int, uc entity.UserCompliance) entity.Badge {
	switch {
	case rank == 1:
		return entity.BadgeTrophy
	case rank == 2:
		return entity.BadgeSilver
	case rank == 3:
		return entity.BadgeBronze
	case uc.CurrentStreak >= fireStreakWeeks:
		return entity.BadgeFire
	case uc.PerfectWeek:
		return entity.BadgeSparkle
	}
	return entity.BadgeNone
}
