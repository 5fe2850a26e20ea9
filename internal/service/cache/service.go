package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// Service is a thin JSON-codec layer over Redis. The share mailbox is its
// main consumer; the extraction pipeline itself is deliberately stateless
// and does not cache.
type Service struct {
	client *redis.Client
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// GetDel atomically reads and clears the value at key. A missing key is not
// an error; dest is left untouched and (false, nil) is returned. Backs the
// mailbox's exactly-once consumption.
func (c *Service) GetDel(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache getdel failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewCacheError("getdel failed", "getdel", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			return false, apperrors.NewCacheError("unmarshal failed", "getdel", key, err)
		}
	}

	return true, nil
}

func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *Service) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Service) Close() error {
	return c.client.Close()
}
