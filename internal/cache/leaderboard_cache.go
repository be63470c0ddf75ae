package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/limbo/accountability/pkg/entity"
)

const DefaultTTL = 14 * 24 * time.Hour

// LeaderboardCache keeps the latest leaderboard of each cohort in Redis for quick reads.
type LeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewLeaderboardCache(client redis.Cmdable, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *LeaderboardCache) rankKey(cohort string) string {
	return fmt.Sprintf("cohort:%s:lb", cohort)
}

func (c *LeaderboardCache) entriesKey(cohort string) string {
	return fmt.Sprintf("cohort:%s:lb:entries", cohort)
}

// Publish replaces the cached leaderboard of report's cohort.
func (c *LeaderboardCache) Publish(ctx context.Context, report *entity.WeeklyAccountabilityReport) error {
	if report.Cohort == "" {
		return nil
	}
	rankKey, entriesKey := c.rankKey(report.Cohort), c.entriesKey(report.Cohort)
	members := make([]redis.Z, 0, len(report.Leaderboard))
	fields := make([]any, 0, 2*len(report.Leaderboard))
	for _, e := range report.Leaderboard {
		member := e.UserID.String()
		data, err := sonic.Marshal(e)
		if err != nil {
			return errors.New("encoding leaderboard entry error: " + err.Error())
		}
		members = append(members, redis.Z{Score: e.OverallCompletionRate, Member: member})
		fields = append(fields, member, string(data))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, rankKey, entriesKey)
		if len(members) == 0 {
			return nil
		}
		pipe.ZAdd(ctx, rankKey, members...)
		pipe.HSet(ctx, entriesKey, fields...)
		pipe.Expire(ctx, rankKey, c.ttl)
		pipe.Expire(ctx, entriesKey, c.ttl)
		return nil
	})
	if err != nil {
		return errors.New("caching leaderboard error: " + err.Error())
	}
	return nil
}

// GetTop returns up to limit cached entries, best first.
func (c *LeaderboardCache) GetTop(ctx context.Context, cohort string, limit int) ([]entity.LeaderboardEntry, error) {
	if limit <= 0 {
		return []entity.LeaderboardEntry{}, nil
	}
	ids, err := c.client.ZRevRange(ctx, c.rankKey(cohort), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.New("reading leaderboard error: " + err.Error())
	}
	entries := make([]entity.LeaderboardEntry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}
	raw, err := c.client.HMGet(ctx, c.entriesKey(cohort), ids...).Result()
	if err != nil {
		return nil, errors.New("reading leaderboard entries error: " + err.Error())
	}
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		var e entity.LeaderboardEntry
		if err := sonic.UnmarshalString(s, &e); err != nil {
			return nil, errors.New("decoding leaderboard entry error: " + err.Error())
		}
		entries = append(entries, e)
	}
	return entries, nil
}
