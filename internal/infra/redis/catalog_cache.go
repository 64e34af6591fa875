package redis

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// CatalogCache caches questions in Redis (one hash per question) and falls
// back to the backing repository on a miss. Layout:
//
//	HSET question:{id} text {text} correct {answer} value {points}
//	                   wrong0..wrong2 {distractors} clue0..clue1 {clues}
type CatalogCache struct {
	client  *redis.Client
	backing app.QuestionRepository
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewCatalogCache(client *redis.Client, backing app.QuestionRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client:  client,
		backing: backing,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Get(ctx context.Context, id string) (domain.Question, error) {
	key := c.key(id)

	fields, err := c.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return questionFromHash(id, fields), nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := c.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			return questionFromHash(id, fields), nil
		}

		question, err := c.backing.Get(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		pipe.HSet(ctx, key, questionToHash(question))
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

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

func (c *CatalogCache) key(id string) string {
	return "question:" + id
}

func questionToHash(question domain.Question) map[string]interface{} {
	fields := map[string]interface{}{
		"text":    question.Text,
		"correct": question.Correct,
		"value":   question.Value,
	}
	for i, wrong := range question.Wrong {
		fields["wrong"+strconv.Itoa(i)] = wrong
	}
	for i, clue := range question.Clues {
		fields["clue"+strconv.Itoa(i)] = clue
	}
	return fields
}

func questionFromHash(id string, fields map[string]string) domain.Question {
	question := domain.Question{
		ID:      id,
		Text:    fields["text"],
		Correct: fields["correct"],
		Value:   domain.DefaultQuestionValue,
	}
	if raw, ok := fields["value"]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			question.Value = v
		}
	}
	for i := 0; ; i++ {
		wrong, ok := fields["wrong"+strconv.Itoa(i)]
		if !ok {
			break
		}
		question.Wrong = append(question.Wrong, wrong)
	}
	for i := 0; i < domain.MaxClues; i++ {
		if clue, ok := fields["clue"+strconv.Itoa(i)]; ok {
			question.Clues = append(question.Clues, clue)
		}
	}
	return question
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
