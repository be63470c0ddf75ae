package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
)

type StreakCalculator struct {
	weeksRepo repository.WeeksRepositoryI
	threshold int
}

func NewStreakCalculator(weeksRepo repository.WeeksRepositoryI, threshold int) *StreakCalculator {
	return &StreakCalculator{
		weeksRepo: weeksRepo,
		threshold: threshold,
	}
}

// Current counts the most recent weeks, by week number, whose score reaches the threshold.
// Gaps in week numbers do not break the run.
func (sc *StreakCalculator) Current(ctx context.Context, uid uuid.UUID) (int, error) {
	weeks, err := sc.weeksRepo.ListByUser(ctx, uid)
	if err != nil {
		return 0, errors.New("repository error: " + err.Error())
	}
	slices.SortStableFunc(weeks, func(a, b entity.WeekRecord) int {
		return cmp.Compare(b.WeekNum, a.WeekNum)
	})
	streak := 0
	for _, w := range weeks {
		if w.Score < sc.threshold {
			break
		}
		streak++
	}
	return streak, nil
}
