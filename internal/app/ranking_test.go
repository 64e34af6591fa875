package app_test

import (
	"context"
	"testing"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

func TestRankValue(t *testing.T) {
	cases := []struct {
		name  string
		score domain.Score
		want  float64
	}{
		{
			name:  "accurate player with few clues",
			score: domain.Score{Score: 100, NumCorrect: 8, NumIncorrect: 2, CluesUsed: 1},
			want:  799,
		},
		{
			name:  "same record but clue-hungry",
			score: domain.Score{Score: 100, NumCorrect: 8, NumIncorrect: 2, CluesUsed: 5},
			want:  795,
		},
		{
			name:  "no answers yet",
			score: domain.Score{},
			want:  0,
		},
		{
			name:  "negative ledger stays negative",
			score: domain.Score{Score: -2, NumCorrect: 1, CluesUsed: 2},
			want:  -22,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := app.RankValue(tc.score); got != tc.want {
				t.Fatalf("RankValue(%+v) = %v, want %v", tc.score, got, tc.want)
			}
		})
	}
}

func TestRankingsPenalizeClues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeQuestions(1, 5))

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.register(t, "idle")

	if err := env.scores.Add(ctx, alice.ID, domain.ScoreDelta{Points: 100, NumCorrect: 8, NumIncorrect: 2, CluesUsed: 1}); err != nil {
		t.Fatalf("add alice: %v", err)
	}
	if err := env.scores.Add(ctx, bob.ID, domain.ScoreDelta{Points: 100, NumCorrect: 8, NumIncorrect: 2, CluesUsed: 5}); err != nil {
		t.Fatalf("add bob: %v", err)
	}

	entries, err := env.service.Rankings(ctx)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "alice" || entries[0].Ranking != 799 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "bob" || entries[1].Ranking != 795 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	// Idle users stay on the board at zero instead of dropping off.
	if entries[2].Name != "idle" || entries[2].Ranking != 0 {
		t.Fatalf("unexpected third entry: %+v", entries[2])
	}
}

func TestHighScoresLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeQuestions(1, 5))

	for i, name := range []string{"one", "two", "three"} {
		user := env.register(t, name)
		delta := domain.ScoreDelta{Points: (i + 1) * 10, NumCorrect: 1}
		if err := env.scores.Add(ctx, user.ID, delta); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	views, err := env.service.HighScores(ctx, 2)
	if err != nil {
		t.Fatalf("high scores: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(views))
	}
	if views[0].UserName != "three" || views[0].Score != 30 {
		t.Fatalf("unexpected top row: %+v", views[0])
	}
	if views[1].UserName != "two" || views[1].Score != 20 {
		t.Fatalf("unexpected second row: %+v", views[1])
	}

	view, err := env.service.UserScore(ctx, "one")
	if err != nil || view.Score != 10 {
		t.Fatalf("user score: %+v (%v)", view, err)
	}
}
