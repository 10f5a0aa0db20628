package questionbank

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/brightstep/induction-portal/internal/quiz"
)

// Cache puts a Redis snapshot of each quiz's active question list in front
// of a Store. A cache miss goes through singleflight so concurrent attempt
// starts for the same quiz hit the backing store once. Writes pass through
// and drop the snapshot.
type Cache struct {
	Store
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCache(store Store, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		Store:  store,
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) ListActive(ctx context.Context, quizID string) ([]quiz.Question, error) {
	key := c.key(quizID)
	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var qs []quiz.Question
		if err := json.Unmarshal([]byte(raw), &qs); err == nil {
			return qs, nil
		}
		// Corrupt snapshot: drop it and reload.
		c.client.Del(ctx, key)
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the snapshot.
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var qs []quiz.Question
			if err := json.Unmarshal([]byte(raw), &qs); err == nil {
				return qs, nil
			}
		}

		qs, err := c.Store.ListActive(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if buf, err := json.Marshal(qs); err == nil {
			c.client.Set(ctx, key, buf, c.ttlWithJitter())
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]quiz.Question), nil
}

func (c *Cache) Create(ctx context.Context, e Entry) (Entry, error) {
	created, err := c.Store.Create(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	c.invalidate(ctx, created.QuizID)
	return created, nil
}

func (c *Cache) Update(ctx context.Context, e Entry) (Entry, error) {
	updated, err := c.Store.Update(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	c.invalidate(ctx, updated.QuizID)
	return updated, nil
}

func (c *Cache) Deactivate(ctx context.Context, id string) error {
	e, err := c.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Store.Deactivate(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, e.QuizID)
	return nil
}

func (c *Cache) invalidate(ctx context.Context, quizID string) {
	c.client.Del(ctx, c.key(quizID))
}

func (c *Cache) key(quizID string) string {
	return "questions:" + quizID
}

func (c *Cache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	// rand's top-level source is safe for concurrent singleflight callbacks.
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
