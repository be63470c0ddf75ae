package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/limbo/accountability/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(conn PgConnection) *HabitsRepository {
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT id, user_id, name, frequency, cohort FROM habits WHERE user_id = $1 ORDER BY name;`, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.Name, &h.TargetFrequency, &h.Cohort)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}
