package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// CatalogService authors and serves trivia questions. Questions never change
// after creation.
type CatalogService struct {
	questions QuestionRepository
}

func NewCatalogService(questions QuestionRepository) *CatalogService {
	return &CatalogService{questions: questions}
}

// CreateQuestion stores a new question. Duplicate texts are allowed; there is
// no uniqueness constraint on content. A non-positive value falls back to the
// default.
func (s *CatalogService) CreateQuestion(ctx context.Context, text, correct string, wrong, clues []string, value int) (domain.Question, error) {
	if text == "" || correct == "" {
		return domain.Question{}, fmt.Errorf("question text and correct answer are required")
	}
	if len(wrong) != 3 {
		return domain.Question{}, fmt.Errorf("expected 3 distractors, got %d", len(wrong))
	}
	if len(clues) != domain.MaxClues {
		return domain.Question{}, fmt.Errorf("expected %d clues, got %d", domain.MaxClues, len(clues))
	}
	if value <= 0 {
		value = domain.DefaultQuestionValue
	}

	question := domain.Question{
		ID:      uuid.NewString(),
		Text:    text,
		Correct: correct,
		Wrong:   append([]string(nil), wrong...),
		Clues:   append([]string(nil), clues...),
		Value:   value,
	}
	if err := s.questions.Create(ctx, &question); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// AnyQuestion returns some catalog question, for standalone practice outside
// a game.
func (s *CatalogService) AnyQuestion(ctx context.Context) (domain.Question, error) {
	return s.questions.Any(ctx)
}

// CheckAnswer checks a candidate answer against a question outside any game.
// The check is pure: it can be repeated against the same question forever.
func (s *CatalogService) CheckAnswer(ctx context.Context, questionID, candidate string) (bool, error) {
	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return false, err
	}
	return question.IsCorrectAnswer(candidate), nil
}
