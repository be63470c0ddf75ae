package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/limbo/accountability/pkg/entity"
)

const (
	riskHabitRate   = 50.0
	riskHabitCount  = 2
	riskOverallRate = 60.0
)

// DetectRisks gives each struggling user one reason, the first that applies, worst users first.
func DetectRisks(compliance []entity.UserCompliance, chargeThreshold decimal.Decimal) []entity.RiskAlert {
	alerts := []entity.RiskAlert{}
	for _, uc := range compliance {
		reason := riskReason(uc, chargeThreshold)
		if reason == "" {
			continue
		}
		alerts = append(alerts, entity.RiskAlert{
			Name:           uc.Name,
			Reason:         reason,
			CompletionRate: uc.OverallCompletionRate,
		})
	}
	slices.SortStableFunc(alerts, func(a, b entity.RiskAlert) int {
		return cmp.Compare(a.CompletionRate, b.CompletionRate)
	})
	return alerts
}

func riskReason(uc entity.UserCompliance, chargeThreshold decimal.Decimal) string {
	low := 0
	for _, h := range uc.Habits {
		if h.CompletionRate < riskHabitRate {
			low++
		}
	}
	switch {
	case low >= riskHabitCount:
		return fmt.Sprintf("%d habits below 50%%", low)
	case uc.OverallCompletionRate < riskOverallRate:
		return "overall below 60%"
	case uc.TotalCharge.GreaterThanOrEqual(chargeThreshold):
		return "charges €" + uc.TotalCharge.StringFixed(2)
	}
	return ""
}
