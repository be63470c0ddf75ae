package api

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/limbo/accountability/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(operator string) (string, error)
	ParseToken(tokenString string) (*OperatorClaims, error)
}

type OperatorClaims struct {
	jwt.RegisteredClaims
	Operator string `json:"operator"`
}

type ReportArchiveI interface {
	// Returns the newest archived report, of cohort when it is not empty. ErrReportNotFound if there is none
	Latest(ctx context.Context, cohort string) (*entity.WeeklyAccountabilityReport, error)
}

type LeaderboardReaderI interface {
	GetTop(ctx context.Context, cohort string, limit int) ([]entity.LeaderboardEntry, error)
}
