package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"bayan-ai-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyEmbedding is returned when the wrapped provider answers without a vector
var ErrEmptyEmbedding = errors.New("provider returned an empty embedding")

// CacheConfig tunes the two cache tiers
type CacheConfig struct {
	// Namespace separates vectors of different models
	Namespace string
	LocalTTL  time.Duration
	RemoteTTL time.Duration
	// CallTimeout bounds the shared upstream call, which outlives any single
	// caller's context.
	CallTimeout time.Duration
}

// CachedProvider memoises embeddings in process (go-cache) and, when a redis
// client is given, across instances. Concurrent requests for the same text
// share one upstream call.
type CachedProvider struct {
	next   EmbeddingProvider
	local  *cache.Cache
	rdb    *redis.Client
	group  singleflight.Group
	config CacheConfig
	logger logger.ILogger
}

func NewCachedProvider(next EmbeddingProvider, rdb *redis.Client, log logger.ILogger, cfg CacheConfig) *CachedProvider {
	if cfg.LocalTTL <= 0 {
		cfg.LocalTTL = time.Hour
	}
	if cfg.RemoteTTL <= 0 {
		cfg.RemoteTTL = 24 * time.Hour
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &CachedProvider{
		next:   next,
		local:  cache.New(cfg.LocalTTL, 10*time.Minute),
		rdb:    rdb,
		config: cfg,
		logger: log,
	}
}

func (c *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := c.key(text, taskType)

	if v, ok := c.local.Get(key); ok {
		return clone(v.([]float32)), nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.CallTimeout)
		defer cancel()
		return c.fetch(callCtx, key, text, taskType)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]float32)), nil
	}
}

func (c *CachedProvider) fetch(ctx context.Context, key, text, taskType string) ([]float32, error) {
	if values, ok := c.remoteGet(ctx, key); ok && len(values) > 0 {
		c.local.SetDefault(key, values)
		return values, nil
	}

	res, err := c.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	values := res.Embedding.Values
	c.local.SetDefault(key, values)
	c.remoteSet(ctx, key, values)
	return values, nil
}

func (c *CachedProvider) key(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return "embedding:" + c.config.Namespace + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedProvider) remoteGet(ctx context.Context, key string) ([]float32, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("EmbeddingCache", "Redis read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}
	var values []float32
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	return values, true
}

func (c *CachedProvider) remoteSet(ctx context.Context, key string, values []float32) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.config.RemoteTTL).Err(); err != nil {
		c.logger.Warn("EmbeddingCache", "Redis write failed", map[string]interface{}{"error": err.Error()})
	}
}

func clone(values []float32) *EmbeddingResponse {
	out := make([]float32, len(values))
	copy(out, values)
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: out}}
}
