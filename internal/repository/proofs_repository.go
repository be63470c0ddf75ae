package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/limbo/accountability/pkg/entity"
)

type ProofsRepository struct {
	conn PgConnection
}

func NewProofsRepo(conn PgConnection) *ProofsRepository {
	return &ProofsRepository{
		conn: conn,
	}
}

func (pr *ProofsRepository) ListByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.Proof, error) {
	rows, err := pr.conn.Query(
		ctx,
		`SELECT id, habit_id, user_id, proof_date, unit, is_minimal_dose, is_cheat_day FROM proofs WHERE habit_id = $1 AND proof_date >= $2 AND proof_date <= $3 ORDER BY proof_date;`,
		habitID,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting proofs for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Proof, 0, 7)
	for rows.Next() {
		proof := entity.Proof{}
		err = rows.Scan(&proof.ID, &proof.HabitID, &proof.UserID, &proof.Date, &proof.Unit, &proof.IsMinimalDose, &proof.IsCheatDay)
		if err != nil {
			return nil, errors.New("proof row parsing error: " + err.Error())
		}
		result = append(result, proof)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected proof rows error: " + err.Error())
	}
	return result, nil
}
