package app_test

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	service := app.NewCatalogService(memory.NewQuestionStore())

	wrong := []string{"w1", "w2", "w3"}
	clues := []string{"c1", "c2"}

	if _, err := service.CreateQuestion(ctx, "", "a", wrong, clues, 5); err == nil {
		t.Fatal("expected error for empty text")
	}
	if _, err := service.CreateQuestion(ctx, "q?", "", wrong, clues, 5); err == nil {
		t.Fatal("expected error for empty correct answer")
	}
	if _, err := service.CreateQuestion(ctx, "q?", "a", []string{"w1"}, clues, 5); err == nil {
		t.Fatal("expected error for wrong distractor count")
	}
	if _, err := service.CreateQuestion(ctx, "q?", "a", wrong, []string{"c1"}, 5); err == nil {
		t.Fatal("expected error for wrong clue count")
	}

	question, err := service.CreateQuestion(ctx, "q?", "a", wrong, clues, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.ID == "" || question.Value != domain.DefaultQuestionValue {
		t.Fatalf("unexpected question: %+v", question)
	}
}

func TestCheckAnswerIsRepeatable(t *testing.T) {
	ctx := context.Background()
	service := app.NewCatalogService(memory.NewQuestionStore())

	question, err := service.CreateQuestion(ctx, "2+2?", "4", []string{"3", "5", "22"}, []string{"c1", "c2"}, 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		ok, err := service.CheckAnswer(ctx, question.ID, "4")
		if err != nil || !ok {
			t.Fatalf("check %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := service.CheckAnswer(ctx, question.ID, "5")
	if err != nil || ok {
		t.Fatalf("expected incorrect, got ok=%v err=%v", ok, err)
	}

	if _, err := service.CheckAnswer(ctx, "missing", "4"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}
