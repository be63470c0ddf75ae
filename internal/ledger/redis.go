package ledger

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/limbo/accountability/pkg/entity"
)

const DefaultRedisKey = "accountability:pool_reset:last_week_start"

// Redis keeps the baseline under a single key without expiry.
type Redis struct {
	client redis.Cmdable
	key    string
}

func NewRedis(client redis.Cmdable, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Read(ctx context.Context) (*entity.PoolResetRecord, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("reading pool reset key error: " + err.Error())
	}
	return &entity.PoolResetRecord{LastResetWeekStart: val}, nil
}

func (r *Redis) Write(ctx context.Context, rec entity.PoolResetRecord) error {
	if err := r.client.Set(ctx, r.key, rec.LastResetWeekStart, 0).Err(); err != nil {
		return errors.New("writing pool reset key error: " + err.Error())
	}
	return nil
}

func (r *Redis) WriteIfAbsent(ctx context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error) {
	won, err := r.client.SetNX(ctx, r.key, rec.LastResetWeekStart, 0).Result()
	if err != nil {
		return entity.PoolResetRecord{}, errors.New("writing pool reset key error: " + err.Error())
	}
	if won {
		return rec, nil
	}
	stored, err := r.Read(ctx)
	if err != nil {
		return entity.PoolResetRecord{}, err
	}
	if stored == nil {
		return rec, nil
	}
	return *stored, nil
}
