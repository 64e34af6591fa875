package app

import (
	"context"

	"trivia-service/internal/domain"
)

// UserRepository is the user registry collaborator. Username uniqueness is
// enforced here.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ByID(ctx context.Context, id string) (domain.User, error)
	ByName(ctx context.Context, name string) (domain.User, error)
}

// QuestionRepository stores and serves catalog questions. Implementations may
// cache aggressively: questions are immutable after creation.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	Get(ctx context.Context, id string) (domain.Question, error)
	IDs(ctx context.Context) ([]string, error)
	Any(ctx context.Context) (domain.Question, error)
}

// GameRepository persists game sessions.
type GameRepository interface {
	Save(ctx context.Context, game *domain.Game) error
	Get(ctx context.Context, id string) (domain.Game, error)
	ActiveByUser(ctx context.Context, userID string) ([]domain.Game, error)
	Active(ctx context.Context) ([]domain.Game, error)
	Completed(ctx context.Context) ([]domain.Game, error)
	Delete(ctx context.Context, id string) error
}

// TurnRepository persists turns.
type TurnRepository interface {
	Save(ctx context.Context, turn *domain.Turn) error
	Get(ctx context.Context, id string) (domain.Turn, error)
	// GetMany returns turns in the order of the supplied IDs.
	GetMany(ctx context.Context, ids []string) ([]domain.Turn, error)
	DeleteByGame(ctx context.Context, gameID string) error
}

// ScoreRepository persists the per-user score ledger. Add must be atomic at
// the storage layer so concurrent rollups for the same user never lose an
// update.
type ScoreRepository interface {
	Create(ctx context.Context, score *domain.Score) error
	Get(ctx context.Context, userID string) (domain.Score, error)
	Add(ctx context.Context, userID string, delta domain.ScoreDelta) error
	// List returns scores ordered by raw score descending, clues ascending.
	// A non-positive limit returns every row.
	List(ctx context.Context, limit int) ([]domain.Score, error)
}

// SummaryRepository persists immutable end-of-game rollups.
type SummaryRepository interface {
	Create(ctx context.Context, summary *domain.GameSummary) error
	ByGame(ctx context.Context, gameID string) (domain.GameSummary, error)
	ByUser(ctx context.Context, userID string) ([]domain.GameSummary, error)
}

// StatsCache holds derived cross-game statistics (the average number of
// correct answers per completed game).
type StatsCache interface {
	SetAverageCorrect(ctx context.Context, avg float64) error
	AverageCorrect(ctx context.Context) (float64, bool, error)
}

// StatsNotifier accepts a fire-and-forget signal that cross-game statistics
// are stale. Implementations must never block the caller.
type StatsNotifier interface {
	NotifyStatsStale()
}

// NopStatsNotifier discards stale signals.
type NopStatsNotifier struct{}

func (NopStatsNotifier) NotifyStatsStale() {}
