package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository,
// used for tests and for running without Postgres.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
	order     []string
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[string]domain.Question)}
}

// NewSeededQuestionStore builds a store preloaded with questions.
func NewSeededQuestionStore(questions []domain.Question) *QuestionStore {
	store := NewQuestionStore()
	for i := range questions {
		_ = store.Create(context.Background(), &questions[i])
	}
	return store
}

func (s *QuestionStore) Create(_ context.Context, question *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.ID] = cloneQuestion(*question)
	s.order = append(s.order, question.ID)
	return nil
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(question), nil
}

func (s *QuestionStore) IDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}

func (s *QuestionStore) Any(_ context.Context) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(s.questions[s.order[0]]), nil
}

func cloneQuestion(question domain.Question) domain.Question {
	question.Wrong = append([]string(nil), question.Wrong...)
	question.Clues = append([]string(nil), question.Clues...)
	return question
}

// CatalogCache caches questions from a slower backing repository with a TTL.
// Questions are immutable, so entries never need invalidation, only expiry.
type CatalogCache struct {
	backing app.QuestionRepository
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewCatalogCache(backing app.QuestionRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		backing: backing,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedQuestion),
	}
}

func (c *CatalogCache) Get(ctx context.Context, id string) (domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.question, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.question, nil
		}
		c.mu.RUnlock()

		question, err := c.backing.Get(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedQuestion{
			question:  question,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *CatalogCache) Create(ctx context.Context, question *domain.Question) error {
	return c.backing.Create(ctx, question)
}

func (c *CatalogCache) IDs(ctx context.Context) ([]string, error) {
	return c.backing.IDs(ctx)
}

func (c *CatalogCache) Any(ctx context.Context) (domain.Question, error) {
	return c.backing.Any(ctx)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
