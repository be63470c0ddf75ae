package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
	})
	return validate
}

type TopN struct {
	Leaderboard       int `yaml:"leaderboard" validate:"min=1"`
	BuddyPairs        int `yaml:"buddy_pairs" validate:"min=1"`
	RiskAlerts        int `yaml:"risk_alerts" validate:"min=1"`
	AdaptiveGoals     int `yaml:"adaptive_goals" validate:"min=1"`
	ChallengingHabits int `yaml:"challenging_habits" validate:"min=1"`
	PoolContributors  int `yaml:"pool_contributors" validate:"min=1"`
}

type ProofPolicy struct {
	MinimalDose string `yaml:"minimal_dose" validate:"oneof=count skip"`
	CheatDay    string `yaml:"cheat_day" validate:"oneof=count skip"`
}

type NarrativeSettings struct {
	MaxAttempts    int           `yaml:"max_attempts" validate:"min=1,max=10"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" validate:"min=1000000"`
	Spacing        time.Duration `yaml:"spacing" validate:"min=0"`
}

// EngineSettings is the policy of the weekly report, read from configs/engine.yaml.
type EngineSettings struct {
	ChargePerMiss       string            `yaml:"charge_per_miss" validate:"required,decimal"`
	RiskChargeThreshold string            `yaml:"risk_charge_threshold" validate:"required,decimal"`
	Timezone            string            `yaml:"timezone" validate:"required,timezone"`
	Workers             int               `yaml:"workers" validate:"min=1,max=64"`
	StreakSuccessScore  int               `yaml:"streak_success_score" validate:"min=1"`
	Top                 TopN              `yaml:"top"`
	ProofPolicy         ProofPolicy       `yaml:"proof_policy"`
	Narrative           NarrativeSettings `yaml:"narrative"`
}

func DefaultEngineSettings() *EngineSettings {
	return &EngineSettings{
		ChargePerMiss:       "0.50",
		RiskChargeThreshold: "2.00",
		Timezone:            "Local",
		Workers:             4,
		StreakSuccessScore:  7,
		Top: TopN{
			Leaderboard:       5,
			BuddyPairs:        3,
			RiskAlerts:        3,
			AdaptiveGoals:     3,
			ChallengingHabits: 3,
			PoolContributors:  3,
		},
		ProofPolicy: ProofPolicy{
			MinimalDose: "count",
			CheatDay:    "count",
		},
		Narrative: NarrativeSettings{
			MaxAttempts:    3,
			AttemptTimeout: 15 * time.Second,
			Spacing:        time.Second,
		},
	}
}

// LoadEngineSettings overlays the yaml file at path on the defaults. A missing file yields the defaults.
func LoadEngineSettings(path string) (*EngineSettings, error) {
	settings := DefaultEngineSettings()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading engine settings: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing engine settings: %w", err)
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *EngineSettings) Validate() error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		err = errors.New("engine settings validation error: ")
		for _, fieldErr := range validationErrors {
			err = errors.Join(err, fieldErr)
		}
		return err
	}
	return errors.New("engine settings unexpected validation error: " + err.Error())
}

func (s *EngineSettings) ChargeRate() decimal.Decimal {
	return decimal.RequireFromString(s.ChargePerMiss)
}

func (s *EngineSettings) RiskThreshold() decimal.Decimal {
	return decimal.RequireFromString(s.RiskChargeThreshold)
}

func (s *EngineSettings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}
