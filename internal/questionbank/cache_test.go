package questionbank_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brightstep/induction-portal/internal/questionbank"
	"github.com/brightstep/induction-portal/internal/quiz"
)

// countingStore wraps MemStore and counts backing reads.
type countingStore struct {
	*questionbank.MemStore
	mu    sync.Mutex
	reads int
}

func (c *countingStore) ListActive(ctx context.Context, quizID string) ([]quiz.Question, error) {
	c.mu.Lock()
	c.reads++
	c.mu.Unlock()
	return c.MemStore.ListActive(ctx, quizID)
}

func (c *countingStore) readCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func newCacheFixture(t *testing.T) (*questionbank.Cache, *countingStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	backing := &countingStore{MemStore: questionbank.NewMemStore()}
	return questionbank.NewCache(backing, client, time.Minute), backing
}

func TestCacheServesSecondReadFromRedis(t *testing.T) {
	ctx := context.Background()
	cache, backing := newCacheFixture(t)
	if _, err := cache.Create(ctx, newEntry("q1", 0, "one")); err != nil {
		t.Fatal(err)
	}

	first, err := cache.ListActive(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d questions, want 1", len(first))
	}
	if n := backing.readCount(); n != 1 {
		t.Fatalf("backing reads = %d, want 1", n)
	}

	second, err := cache.ListActive(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 {
		t.Fatalf("got %d questions from cache, want 1", len(second))
	}
	if n := backing.readCount(); n != 1 {
		t.Fatalf("backing reads after cache hit = %d, want 1", n)
	}
}

func TestCacheWritesDropSnapshot(t *testing.T) {
	ctx := context.Background()
	cache, backing := newCacheFixture(t)
	e, err := cache.Create(ctx, newEntry("q1", 0, "one"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.ListActive(ctx, "q1"); err != nil {
		t.Fatal(err)
	}

	// A second question invalidates the snapshot.
	if _, err := cache.Create(ctx, newEntry("q1", 0, "two")); err != nil {
		t.Fatal(err)
	}
	qs, err := cache.ListActive(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Fatalf("after create: %d questions, want 2", len(qs))
	}
	if n := backing.readCount(); n != 2 {
		t.Fatalf("backing reads = %d, want 2", n)
	}

	// Deactivation does too.
	if err := cache.Deactivate(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	qs, err = cache.ListActive(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Prompt != "two" {
		t.Fatalf("after deactivate: %+v", qs)
	}
}

func TestCacheConcurrentMissesHitStoreOnce(t *testing.T) {
	ctx := context.Background()
	cache, backing := newCacheFixture(t)
	if _, err := cache.Create(ctx, newEntry("q1", 0, "one")); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.ListActive(ctx, "q1"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// Singleflight collapses overlapping misses; sequential stragglers may
	// still read through, but never all eight.
	if n := backing.readCount(); n > 4 {
		t.Fatalf("backing reads = %d, want coalesced misses", n)
	}
}
