package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// ScoreRepo implements app.ScoreRepository on Postgres. Add is a single
// upsert statement, so concurrent rollups for the same user serialize in the
// database instead of racing a read-modify-write in the core.
type ScoreRepo struct {
	db *bun.DB
}

func NewScoreRepo(db *bun.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

func (r *ScoreRepo) Create(ctx context.Context, score *domain.Score) error {
	row := scoreRow{
		UserID:       score.UserID,
		Score:        score.Score,
		NumCorrect:   score.NumCorrect,
		NumIncorrect: score.NumIncorrect,
		CluesUsed:    score.CluesUsed,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *ScoreRepo) Get(ctx context.Context, userID string) (domain.Score, error) {
	var row scoreRow
	err := r.db.NewSelect().Model(&row).Where("s.user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Score{}, domain.ErrScoreNotFound
	}
	if err != nil {
		return domain.Score{}, err
	}
	return row.toDomain(), nil
}

func (r *ScoreRepo) Add(ctx context.Context, userID string, delta domain.ScoreDelta) error {
	row := scoreRow{
		UserID:       userID,
		Score:        delta.Points,
		NumCorrect:   delta.NumCorrect,
		NumIncorrect: delta.NumIncorrect,
		CluesUsed:    delta.CluesUsed,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("score = s.score + EXCLUDED.score").
		Set("num_correct = s.num_correct + EXCLUDED.num_correct").
		Set("num_incorrect = s.num_incorrect + EXCLUDED.num_incorrect").
		Set("clues_used = s.clues_used + EXCLUDED.clues_used").
		Exec(ctx)
	return err
}

func (r *ScoreRepo) List(ctx context.Context, limit int) ([]domain.Score, error) {
	query := r.db.NewSelect().Model((*scoreRow)(nil)).
		Order("score DESC", "clues_used ASC", "user_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []scoreRow
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	scores := make([]domain.Score, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.toDomain())
	}
	return scores, nil
}
