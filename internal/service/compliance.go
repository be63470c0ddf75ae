package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/limbo/accountability/pkg/logger"
)

type ComplianceCalculator struct {
	habitsRepo repository.HabitsRepositoryI
	proofsRepo repository.ProofsRepositoryI
	streaks    *StreakCalculator
	rate       decimal.Decimal
	proofs     ProofPolicy
}

func NewComplianceCalculator(habitsRepo repository.HabitsRepositoryI, proofsRepo repository.ProofsRepositoryI, streaks *StreakCalculator, policy Policy) *ComplianceCalculator {
	return &ComplianceCalculator{
		habitsRepo: habitsRepo,
		proofsRepo: proofsRepo,
		streaks:    streaks,
		rate:       policy.ChargePerMiss,
		proofs:     policy.Proofs,
	}
}

// Calculate computes the user's compliance for habits of cohort within window.
// ErrNoComplianceData means the user has nothing to report and must be left out.
// ErrProofsUnavailable means habits exist but none of their proofs could be read.
func (cc *ComplianceCalculator) Calculate(ctx context.Context, user *entity.User, cohort string, window entity.WeekWindow) (*entity.UserCompliance, error) {
	log := logger.FromContext(ctx).With(slog.String("uid", user.ID.String()))
	habits, err := cc.habitsRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	result := &entity.UserCompliance{
		UserID:      user.ID,
		DiscordID:   user.DiscordID,
		Name:        user.Name,
		Habits:      []entity.HabitCompliance{},
		TotalCharge: decimal.Zero,
	}
	failed := 0
	for _, habit := range habits {
		if habit.Cohort != cohort {
			continue
		}
		proofs, err := cc.proofsRepo.ListByHabitAndDateRange(ctx, habit.ID, window.Start, window.End)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("skipping habit: proofs unavailable",
				slog.String("habit_id", habit.ID.String()),
				slog.String("error", err.Error()),
			)
			failed++
			continue
		}
		result.Habits = append(result.Habits, cc.habitCompliance(habit, proofs))
	}
	if len(result.Habits) == 0 {
		if failed > 0 {
			return nil, fmt.Errorf("%w: %d habits failed", errorvalues.ErrProofsUnavailable, failed)
		}
		return nil, errorvalues.ErrNoComplianceData
	}

	rateSum := 0.0
	result.PerfectWeek = true
	for _, hc := range result.Habits {
		result.TotalCharge = result.TotalCharge.Add(hc.Charge)
		rateSum += hc.CompletionRate
		if hc.MissedCount == 0 {
			result.CompletedHabits++
		} else {
			result.PerfectWeek = false
		}
	}
	result.TotalHabits = len(result.Habits)
	result.OverallCompletionRate = rateSum / float64(result.TotalHabits)

	result.CurrentStreak, err = cc.streaks.Current(ctx, user.ID)
	if err != nil {
		return nil, errors.New("computing streak error: " + err.Error())
	}
	return result, nil
}

func (cc *ComplianceCalculator) habitCompliance(habit *entity.Habit, proofs []entity.Proof) entity.HabitCompliance {
	actual := 0
	for _, p := range proofs {
		if cc.proofs.counts(p.IsMinimalDose, p.IsCheatDay) {
			actual++
		}
	}
	target := habit.TargetFrequency
	missed := max(0, target-actual)
	rate := 100.0
	if target > 0 {
		rate = min(100, float64(actual)*100/float64(target))
	}
	return entity.HabitCompliance{
		HabitID:         habit.ID,
		HabitName:       strings.TrimSpace(habit.Name),
		TargetFrequency: target,
		ActualProofs:    actual,
		MissedCount:     missed,
		Charge:          cc.rate.Mul(decimal.NewFromInt(int64(missed))),
		CompletionRate:  rate,
	}
}
