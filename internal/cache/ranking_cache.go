package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errStaleGeneration = errors.New("leaderboard cache generation changed")

// RankingCache holds the ranked leaderboard between writes.
//
// Readers fill it on a miss: read Generation, then the store, then Set with that
// generation. Set is dropped when an Invalidate happened in between, so a fill that
// raced with a write never outlives it.
type RankingCache interface {
	// Get returns the cached ranking and whether it was present.
	Get(ctx context.Context) ([]models.ModelRecord, bool, error)
	Generation(ctx context.Context) (int64, error)
	// Set stores records only if the generation is still current.
	Set(ctx context.Context, generation int64, records []models.ModelRecord) error
	// Invalidate bumps the generation and drops the cached ranking.
	Invalidate(ctx context.Context) error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisRankingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedisRankingCache connects to redis and verifies the connection with a ping.
func NewRedisRankingCache(ctx context.Context, cfg RedisConfig) (RankingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log := logger.NewNamedLogger("rankingCache")
	log.Infof("Redis ranking cache connected [addr: %s, ttl: %s]", cfg.Addr, cfg.TTL)
	return NewRedisRankingCacheWithClient(client, cfg.TTL), nil
}

func NewRedisRankingCacheWithClient(client *redis.Client, ttl time.Duration) RankingCache {
	return &redisRankingCache{
		client: client,
		ttl:    ttl,
		logger: logger.NewNamedLogger("rankingCache"),
	}
}

func (c *redisRankingCache) Get(ctx context.Context) ([]models.ModelRecord, bool, error) {
	val, err := c.client.Get(ctx, constants.LeaderboardCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []models.ModelRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		c.logger.Warnf("Dropping undecodable leaderboard cache entry: %v", err)
		return nil, false, c.Invalidate(ctx)
	}
	return records, true, nil
}

func (c *redisRankingCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

func readGeneration(ctx context.Context, cmd redis.Cmdable) (int64, error) {
	generation, err := cmd.Get(ctx, constants.LeaderboardGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (c *redisRankingCache) Set(ctx context.Context, generation int64, records []models.ModelRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, constants.LeaderboardCacheKey, data, c.ttl)
			return nil
		})
		return err
	}, constants.LeaderboardGenerationKey)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		c.logger.Infof("Skipping leaderboard cache fill from generation %d", generation)
		return nil
	}
	return err
}

func (c *redisRankingCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, constants.LeaderboardGenerationKey)
		pipe.Del(ctx, constants.LeaderboardCacheKey)
		return nil
	})
	return err
}

type noopRankingCache struct{}

// NewNoopRankingCache is used when redis is not configured. Every Get misses.
func NewNoopRankingCache() RankingCache {
	return noopRankingCache{}
}

func (noopRankingCache) Get(context.Context) ([]models.ModelRecord, bool, error) {
	return nil, false, nil
}

func (noopRankingCache) Generation(context.Context) (int64, error) { return 0, nil }

func (noopRankingCache) Set(context.Context, int64, []models.ModelRecord) error { return nil }

func (noopRankingCache) Invalidate(context.Context) error { return nil }
