package service

import (
	"cmp"
	"slices"

	"github.com/limbo/accountability/pkg/entity"
)

const (
	adaptiveRate       = 70.0
	adaptiveSevereRate = 50.0
)

// RecommendGoals proposes lower targets for habits under 70% completion, worst habits first.
func RecommendGoals(compliance []entity.UserCompliance) []entity.AdaptiveGoal {
	goals := []entity.AdaptiveGoal{}
	for _, uc := range compliance {
		for _, h := range uc.Habits {
			if h.CompletionRate >= adaptiveRate || h.TargetFrequency <= 1 {
				continue
			}
			step := 1
			if h.CompletionRate < adaptiveSevereRate {
				step = 2
			}
			recommended := max(1, h.TargetFrequency-step)
			if recommended >= h.TargetFrequency {
				continue
			}
			goals = append(goals, entity.AdaptiveGoal{
				Name:              uc.Name,
				HabitName:         h.HabitName,
				CurrentRate:       h.CompletionRate,
				TargetFrequency:   h.TargetFrequency,
				RecommendedTarget: recommended,
			})
		}
	}
	slices.SortStableFunc(goals, func(a, b entity.AdaptiveGoal) int {
		return cmp.Compare(a.CurrentRate, b.CurrentRate)
	})
	return goals
}
