package service

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("proof_counting", func(fl validator.FieldLevel) bool {
			switch ProofCounting(fl.Field().String()) {
			case ProofCount, ProofSkip:
				return true
			}
			return false
		})
	})
}

// Validate checks the policy before a report service accepts it.
func (p *Policy) Validate() error {
	InitValidator()
	if err := validate.Struct(p); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			err = errors.New("policy validation error: ")
			for _, fieldErr := range validationErrors {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("policy unexpected validation error: " + err.Error())
	}
	if p.ChargePerMiss.IsNegative() {
		return errors.New("policy validation error: charge per miss is negative")
	}
	if p.RiskChargeThreshold.IsNegative() {
		return errors.New("policy validation error: risk charge threshold is negative")
	}
	if p.Location == nil {
		return errors.New("policy validation error: location is required")
	}
	return nil
}
