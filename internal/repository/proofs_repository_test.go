package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProofsByHabitAndDateRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	proofsRepo := repository.NewProofsRepo(mock)
	query := regexp.QuoteMeta(`SELECT id, habit_id, user_id, proof_date, unit, is_minimal_dose, is_cheat_day FROM proofs WHERE habit_id = $1 AND proof_date >= $2 AND proof_date <= $3 ORDER BY proof_date;`)
	habitID := uuid.New()
	uid := uuid.New()
	window := entity.WeekWindowFor(time.Date(2026, time.January, 21, 12, 0, 0, 0, time.UTC))
	returnedProofs := []entity.Proof{
		{ID: uuid.New(), HabitID: habitID, UserID: uid, Date: window.Start, Unit: "30 min"},
		{ID: uuid.New(), HabitID: habitID, UserID: uid, Date: window.Start.AddDate(0, 0, 2), Unit: "10 min", IsMinimalDose: true},
		{ID: uuid.New(), HabitID: habitID, UserID: uid, Date: window.Start.AddDate(0, 0, 6), IsCheatDay: true},
	}
	columns := []string{"id", "habit_id", "user_id", "proof_date", "unit", "is_minimal_dose", "is_cheat_day"}
	testCases := []struct {
		Desc         string
		Error        error
		Result       []entity.Proof
		MockPrepFunc func()
	}{
		{
			Desc:   "success",
			Error:  nil,
			Result: returnedProofs,
			MockPrepFunc: func() {
				rows := pgxmock.NewRows(columns)
				for _, p := range returnedProofs {
					rows.AddRow(p.ID, p.HabitID, p.UserID, p.Date, p.Unit, p.IsMinimalDose, p.IsCheatDay)
				}
				mock.ExpectQuery(query).
					WithArgs(habitID, window.Start, window.End).
					WillReturnRows(rows)
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("getting proofs for period error: db error"),
			MockPrepFunc: func() {
				mock.ExpectQuery(query).
					WithArgs(habitID, window.Start, window.End).
					WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			result, err := proofsRepo.ListByHabitAndDateRange(ctx, habitID, window.Start, window.End)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.Result, result)
			}
		})
	}
}
