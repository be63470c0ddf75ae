package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/limbo/accountability/pkg/entity"
)

type WeeksRepository struct {
	conn PgConnection
}

func NewWeeksRepo(conn PgConnection) *WeeksRepository {
	return &WeeksRepository{
		conn: conn,
	}
}

func (wr *WeeksRepository) ListByUser(ctx context.Context, uid uuid.UUID) ([]entity.WeekRecord, error) {
	rows, err := wr.conn.Query(ctx, `SELECT id, user_id, week_num, start_date, score FROM weeks WHERE user_id = $1;`, uid)
	if err != nil {
		return nil, errors.New("getting weeks by uid error: " + err.Error())
	}
	defer rows.Close()
	weeks := make([]entity.WeekRecord, 0)
	for rows.Next() {
		w := entity.WeekRecord{}
		if err = rows.Scan(&w.ID, &w.UserID, &w.WeekNum, &w.StartDate, &w.Score); err != nil {
			return nil, errors.New("week row parsing error: " + err.Error())
		}
		weeks = append(weeks, w)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected week rows error: " + err.Error())
	}
	return weeks, nil
}
