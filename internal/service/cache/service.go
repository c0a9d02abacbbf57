package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/constants"
	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/pkg/errors"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(ctx context.Context, cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
	)

	return NewCacheServiceWithClient(client, logger), nil
}

// NewCacheServiceWithClient wraps an already configured client.
func NewCacheServiceWithClient(client *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{client: client, logger: logger}
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}
	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}
	return nil
}

func (c *CacheService) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}

	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}

	added, err := c.client.SAdd(ctx, key, args...).Result()
	if err != nil {
		c.logger.Error("Cache sadd failed", zap.String("key", key), zap.Error(err))
		return 0, errors.NewCacheError("sadd failed", "sadd", key, err)
	}
	return added, nil
}

func (c *CacheService) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return []string{}, errors.NewCacheError("smembers failed", "smembers", key, err)
	}
	return members, nil
}

func (c *CacheService) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecordPublisher mirrors scraped records into Redis so other services can read them without the filesystem.
type RecordPublisher struct {
	cache  *CacheService
	logger *zap.Logger
}

func NewRecordPublisher(cache *CacheService, logger *zap.Logger) *RecordPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordPublisher{cache: cache, logger: logger}
}

func TalentKey(group, id string) string {
	return fmt.Sprintf(constants.CacheKeys.Talent, group, id)
}

func GroupKey(group string) string {
	return fmt.Sprintf(constants.CacheKeys.Group, group)
}

// Name identifies the sink in logs.
func (p *RecordPublisher) Name() string {
	return "redis"
}

// Save stores the record JSON and registers its id in the group set.
func (p *RecordPublisher) Save(ctx context.Context, group string, record *domain.TalentRecord) error {
	if err := p.cache.Set(ctx, TalentKey(group, record.ID), record, 0); err != nil {
		return err
	}
	if _, err := p.cache.SAdd(ctx, GroupKey(group), record.ID); err != nil {
		return err
	}
	p.logger.Debug("Record published to Redis",
		zap.String("group", group),
		zap.String("id", record.ID),
	)
	return nil
}

// Load returns a published record, or nil when it is absent.
func (p *RecordPublisher) Load(ctx context.Context, group, id string) (*domain.TalentRecord, error) {
	var record domain.TalentRecord
	if err := p.cache.Get(ctx, TalentKey(group, id), &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, nil
	}
	return &record, nil
}

func (p *RecordPublisher) Close() error {
	return p.cache.Close()
}
