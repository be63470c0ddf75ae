package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/limbo/accountability/internal/repository"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHabitsByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	habitsRepo := repository.NewHabitsRepo(mock)
	query := regexp.QuoteMeta(`SELECT id, user_id, name, frequency, cohort FROM habits WHERE user_id = $1 ORDER BY name;`)
	uid := uuid.New()
	returnedHabits := []*entity.Habit{
		{ID: uuid.New(), UserID: uid, Name: "Meditation", TargetFrequency: 5, Cohort: "january 2026"},
		{ID: uuid.New(), UserID: uid, Name: "Running", TargetFrequency: 3, Cohort: "december 2025"},
	}
	testCases := []struct {
		Desc         string
		Error        error
		Result       []*entity.Habit
		MockPrepFunc func()
	}{
		{
			Desc:   "success",
			Error:  nil,
			Result: returnedHabits,
			MockPrepFunc: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "name", "frequency", "cohort"})
				for _, h := range returnedHabits {
					rows.AddRow(h.ID, h.UserID, h.Name, h.TargetFrequency, h.Cohort)
				}
				mock.ExpectQuery(query).WithArgs(uid).WillReturnRows(rows)
			},
		},
		{
			Desc:   "no habits",
			Error:  nil,
			Result: []*entity.Habit{},
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs(uid).WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "frequency", "cohort"}))
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("getting habits by uid error: db error"),
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs(uid).WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			result, err := habitsRepo.ListByUser(ctx, uid)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.Result, result)
			}
		})
	}
}
