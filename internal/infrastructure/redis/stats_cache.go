package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// StatsCache stores per-owner task statistics as JSON with a short TTL
type StatsCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewStatsCache(rdb *goredis.Client, ttl time.Duration, logger *logrus.Logger) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl, logger: logger}
}

func statsKey(ownerID string) string {
	return "tasks:stats:" + ownerID
}

func (c *StatsCache) Get(ctx context.Context, ownerID string) (*application.TaskStats, bool) {
	var st application.TaskStats
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, statsKey(ownerID), &st)
	if err != nil {
		c.warn(err, ownerID, "stats cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &st, true
}

func (c *StatsCache) Set(ctx context.Context, ownerID string, stats application.TaskStats) {
	if err := helpers.RedisSetJSON(ctx, c.rdb, statsKey(ownerID), stats, c.ttl); err != nil {
		c.warn(err, ownerID, "stats cache write failed")
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) {
	if err := helpers.RedisDel(ctx, c.rdb, statsKey(ownerID)); err != nil {
		c.warn(err, ownerID, "stats cache invalidate failed")
	}
}

func (c *StatsCache) warn(err error, ownerID, msg string) {
	helpers.LogWarn(c.logger, msg, err, logrus.Fields{"user_id": ownerID})
}

var _ application.StatsCache = (*StatsCache)(nil)
