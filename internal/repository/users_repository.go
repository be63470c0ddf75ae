package repository

import (
	"context"
	"errors"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
)

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) ListActiveInCohort(ctx context.Context, cohort string) ([]*entity.User, error) {
	if cohort == "" {
		return nil, errorvalues.ErrNoActiveCohort
	}
	rows, err := ur.conn.Query(ctx, `SELECT id, discord_id, name, nickname, buddy, trust_count, status, cohorts
		FROM users WHERE status = 'active' AND $1 = ANY(cohorts) ORDER BY name;`, cohort)
	if err != nil {
		return nil, errors.New("listing cohort users error: " + err.Error())
	}
	defer rows.Close()
	users := make([]*entity.User, 0)
	for rows.Next() {
		var (
			u      entity.User
			status string
		)
		err = rows.Scan(&u.ID, &u.DiscordID, &u.Name, &u.Nickname, &u.Buddy, &u.TrustCount, &status, &u.Cohorts)
		if err != nil {
			return nil, errors.New("user row parsing error: " + err.Error())
		}
		u.Status = entity.UserStatus(status)
		users = append(users, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected user rows error: " + err.Error())
	}
	return users, nil
}
