// Package cache keeps a copy of the posting list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/search"
)

const (
	DefaultKey = "jobmatch:postings"
	DefaultTTL = 5 * time.Minute
)

// Config describes the Redis connection and cache behaviour.
type Config struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password" json:"-"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// NewClient creates a Redis client for the config.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Postings serves postings from Redis and falls back to the wrapped source on a miss.
// Redis failures are logged and never fail a read.
type Postings struct {
	source search.PostingSource
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

var _ search.PostingSource = (*Postings)(nil)

func New(source search.PostingSource, client *redis.Client, cfg Config, logger *zap.Logger) *Postings {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Postings{source: source, client: client, key: key, ttl: ttl, logger: logger}
}

func (p *Postings) Postings(ctx context.Context) (*jobs.Postings, error) {
	cached, err := p.client.Get(ctx, p.key).Bytes()
	switch {
	case err == nil:
		var v jobs.Postings
		decodeErr := json.Unmarshal(cached, &v)
		if decodeErr == nil {
			p.logger.Debug("postings cache hit", zap.String("key", p.key), zap.Int("count", v.Len()))
			return &v, nil
		}
		p.logger.Warn("postings cache entry is corrupted", zap.String("key", p.key), zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
		p.logger.Debug("postings cache miss", zap.String("key", p.key))
	default:
		p.logger.Warn("postings cache unavailable", zap.Error(err))
	}

	v, err := p.source.Postings(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal postings: %w", err)
	}
	if err := p.client.Set(ctx, p.key, payload, p.ttl).Err(); err != nil {
		p.logger.Warn("postings cache write failed", zap.Error(err))
	}

	return v, nil
}

// Invalidate drops the cached list so the next read goes to the source.
func (p *Postings) Invalidate(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key).Err(); err != nil {
		return fmt.Errorf("invalidate postings cache: %w", err)
	}
	return nil
}
