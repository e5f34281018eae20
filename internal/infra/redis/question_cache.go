package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/record"
	"ladder-quiz/pkg/logger"
)

// QuestionLoader fetches the question set from a backing store (file, database, workbook).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionCache caches the question set in Redis and falls back to a loader on miss.
// Questions are stored as encoded bank lines: RPUSH {prefix}questions {line}...
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	prefix string
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration, prefix string) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		prefix: prefix,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	if qs, ok := c.cached(ctx); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(c.key(), func() (interface{}, error) {
		// Re-check in case another caller filled the cache.
		if qs, ok := c.cached(ctx); ok {
			return qs, nil
		}

		qs, err := c.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		lines := make([]interface{}, len(qs))
		for i, q := range qs {
			lines[i] = record.EncodeQuestion(q)
		}
		ttl := c.ttlWithJitter()
		pipe := c.client.TxPipeline()
		pipe.Del(ctx, c.key())
		pipe.RPush(ctx, c.key(), lines...)
		if ttl > 0 {
			pipe.Expire(ctx, c.key(), ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("cache questions in redis", "error", err.Error())
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate removes the cached set.
func (c *QuestionCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key()).Err()
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	lines, err := c.client.LRange(ctx, c.key(), 0, -1).Result()
	if err != nil || len(lines) == 0 {
		return nil, false
	}
	qs := make([]domain.Question, 0, len(lines))
	for _, line := range lines {
		q, err := record.DecodeQuestion(line)
		if err != nil {
			logger.Warn("dropping corrupt cached question", "error", err.Error())
			continue
		}
		qs = append(qs, q)
	}
	return qs, len(qs) > 0
}

func (c *QuestionCache) key() string {
	return c.prefix + "questions"
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
