package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProofCounting decides whether flagged proofs (minimal dose, cheat day) count toward a habit.
type ProofCounting string

const (
	ProofCount ProofCounting = "count"
	ProofSkip  ProofCounting = "skip"
)

type ProofPolicy struct {
	MinimalDose ProofCounting `validate:"proof_counting"`
	CheatDay    ProofCounting `validate:"proof_counting"`
}

// Limits caps the length of each ranked report section.
type Limits struct {
	Leaderboard       int `validate:"min=1"`
	BuddyPairs        int `validate:"min=1"`
	RiskAlerts        int `validate:"min=1"`
	AdaptiveGoals     int `validate:"min=1"`
	ChallengingHabits int `validate:"min=1"`
	PoolContributors  int `validate:"min=1"`
}

type Policy struct {
	ChargePerMiss       decimal.Decimal
	RiskChargeThreshold decimal.Decimal
	StreakSuccessScore  int `validate:"min=1"`
	Workers             int `validate:"min=1"`
	Location            *time.Location
	Proofs              ProofPolicy
	Limits              Limits
}

func DefaultPolicy() Policy {
	return Policy{
		ChargePerMiss:       decimal.RequireFromString("0.50"),
		RiskChargeThreshold: decimal.RequireFromString("2.00"),
		StreakSuccessScore:  7,
		Workers:             4,
		Location:            time.Local,
		Proofs: ProofPolicy{
			MinimalDose: ProofCount,
			CheatDay:    ProofCount,
		},
		Limits: Limits{
			Leaderboard:       5,
			BuddyPairs:        3,
			RiskAlerts:        3,
			AdaptiveGoals:     3,
			ChallengingHabits: 3,
			PoolContributors:  3,
		},
	}
}

func (pp ProofPolicy) counts(isMinimalDose, isCheatDay bool) bool {
	if isMinimalDose && pp.MinimalDose == ProofSkip {
		return false
	}
	if isCheatDay && pp.CheatDay == ProofSkip {
		return false
	}
	return true
}
