package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

type countingBacking struct {
	*memory.QuestionStore
	gets int64
}

func (c *countingBacking) Get(ctx context.Context, id string) (domain.Question, error) {
	atomic.AddInt64(&c.gets, 1)
	return c.QuestionStore.Get(ctx, id)
}

func testClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:      "q1",
		Text:    "What is the capital of Australia?",
		Correct: "Canberra",
		Wrong:   []string{"Sydney", "Melbourne", "Perth"},
		Clues:   []string{"Not the largest city.", "Purpose-built."},
		Value:   5,
	}
}

func TestCatalogCacheFillsOnce(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)

	backing := &countingBacking{QuestionStore: memory.NewQuestionStore()}
	question := sampleQuestion()
	if err := backing.Create(ctx, &question); err != nil {
		t.Fatalf("create: %v", err)
	}

	cache := NewCatalogCache(client, backing, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := cache.Get(ctx, "q1")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.Correct != "Canberra" || len(got.Wrong) != 3 || len(got.Clues) != 2 || got.Value != 5 {
			t.Fatalf("unexpected question: %+v", got)
		}
	}
	if gets := atomic.LoadInt64(&backing.gets); gets != 1 {
		t.Fatalf("expected 1 backing get, got %d", gets)
	}

	if !mr.Exists("question:q1") {
		t.Fatal("expected question hash in redis")
	}
	ttl := mr.TTL("question:q1")
	if ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestCatalogCacheRefillsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)

	backing := &countingBacking{QuestionStore: memory.NewQuestionStore()}
	question := sampleQuestion()
	_ = backing.Create(ctx, &question)

	cache := NewCatalogCache(client, backing, time.Minute)

	if _, err := cache.Get(ctx, "q1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Get(ctx, "q1"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if gets := atomic.LoadInt64(&backing.gets); gets != 2 {
		t.Fatalf("expected 2 backing gets, got %d", gets)
	}
}

func TestCatalogCacheMissSurfacesNotFound(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)

	backing := &countingBacking{QuestionStore: memory.NewQuestionStore()}
	cache := NewCatalogCache(client, backing, time.Minute)

	if _, err := cache.Get(ctx, "missing"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)

	cache := NewStatsCache(client, time.Minute)

	if _, ok, err := cache.AverageCorrect(ctx); err != nil || ok {
		t.Fatalf("expected empty cache, got ok=%v (%v)", ok, err)
	}
	if err := cache.SetAverageCorrect(ctx, 3.25); err != nil {
		t.Fatalf("set: %v", err)
	}
	avg, ok, err := cache.AverageCorrect(ctx)
	if err != nil || !ok || avg != 3.25 {
		t.Fatalf("got %v ok=%v (%v)", avg, ok, err)
	}
}
