package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trivia-service/internal/domain"
)

// countingBacking wraps a QuestionStore and counts Get calls so tests can
// observe cache hits.
type countingBacking struct {
	*QuestionStore
	gets int64
}

func (c *countingBacking) Get(ctx context.Context, id string) (domain.Question, error) {
	atomic.AddInt64(&c.gets, 1)
	return c.QuestionStore.Get(ctx, id)
}

func testQuestion(id string) domain.Question {
	return domain.Question{
		ID:      id,
		Text:    "text " + id,
		Correct: "correct",
		Wrong:   []string{"w1", "w2", "w3"},
		Clues:   []string{"c1", "c2"},
		Value:   5,
	}
}

func TestCatalogCacheServesFromCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingBacking{QuestionStore: NewQuestionStore()}
	question := testQuestion("q1")
	if err := backing.Create(ctx, &question); err != nil {
		t.Fatalf("create: %v", err)
	}

	cache := NewCatalogCache(backing, time.Minute)

	for i := 0; i < 5; i++ {
		got, err := cache.Get(ctx, "q1")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.Text != "text q1" {
			t.Fatalf("unexpected question: %+v", got)
		}
	}
	if gets := atomic.LoadInt64(&backing.gets); gets != 1 {
		t.Fatalf("expected 1 backing get, got %d", gets)
	}
}

func TestCatalogCacheExpires(t *testing.T) {
	ctx := context.Background()
	backing := &countingBacking{QuestionStore: NewQuestionStore()}
	question := testQuestion("q1")
	_ = backing.Create(ctx, &question)

	cache := NewCatalogCache(backing, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	if _, err := cache.Get(ctx, "q1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	// Jitter extends the TTL by at most 10%, so two minutes is past expiry.
	now = now.Add(2 * time.Minute)
	if _, err := cache.Get(ctx, "q1"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if gets := atomic.LoadInt64(&backing.gets); gets != 2 {
		t.Fatalf("expected 2 backing gets, got %d", gets)
	}
}

func TestCatalogCacheCollapsesConcurrentFills(t *testing.T) {
	ctx := context.Background()
	backing := &countingBacking{QuestionStore: NewQuestionStore()}
	question := testQuestion("q1")
	_ = backing.Create(ctx, &question)

	cache := NewCatalogCache(backing, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(ctx, "q1"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()

	if gets := atomic.LoadInt64(&backing.gets); gets < 1 || gets > 2 {
		t.Fatalf("expected the fill to collapse, got %d backing gets", gets)
	}
}

func TestCatalogCachePassesThroughCatalogOps(t *testing.T) {
	ctx := context.Background()
	backing := &countingBacking{QuestionStore: NewQuestionStore()}
	cache := NewCatalogCache(backing, time.Minute)

	question := testQuestion("q1")
	if err := cache.Create(ctx, &question); err != nil {
		t.Fatalf("create: %v", err)
	}
	ids, err := cache.IDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "q1" {
		t.Fatalf("IDs: %v (%v)", ids, err)
	}
	any, err := cache.Any(ctx)
	if err != nil || any.ID != "q1" {
		t.Fatalf("Any: %+v (%v)", any, err)
	}
}

func TestStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache()

	if _, ok, err := cache.AverageCorrect(ctx); err != nil || ok {
		t.Fatalf("expected empty cache, got ok=%v (%v)", ok, err)
	}
	if err := cache.SetAverageCorrect(ctx, 2.5); err != nil {
		t.Fatalf("set: %v", err)
	}
	avg, ok, err := cache.AverageCorrect(ctx)
	if err != nil || !ok || avg != 2.5 {
		t.Fatalf("got %v ok=%v (%v)", avg, ok, err)
	}
}
