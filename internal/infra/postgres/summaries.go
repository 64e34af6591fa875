package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// SummaryRepo implements app.SummaryRepository on Postgres. Summaries are
// insert-only; there is no update path.
type SummaryRepo struct {
	db *bun.DB
}

func NewSummaryRepo(db *bun.DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

func (r *SummaryRepo) Create(ctx context.Context, summary *domain.GameSummary) error {
	row := summaryRow{
		ID:         summary.ID,
		UserID:     summary.UserID,
		GameID:     summary.GameID,
		PlayedOn:   summary.Date,
		TurnIDs:    summary.TurnIDs,
		TotalScore: summary.TotalScore,
	}
	_, err := r.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

func (r *SummaryRepo) ByGame(ctx context.Context, gameID string) (domain.GameSummary, error) {
	var row summaryRow
	err := r.db.NewSelect().Model(&row).Where("gs.game_id = ?", gameID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameSummary{}, domain.ErrSummaryNotFound
	}
	if err != nil {
		return domain.GameSummary{}, err
	}
	return row.toDomain(), nil
}

func (r *SummaryRepo) ByUser(ctx context.Context, userID string) ([]domain.GameSummary, error) {
	var rows []summaryRow
	err := r.db.NewSelect().Model(&rows).
		Where("gs.user_id = ?", userID).
		Order("played_on ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.GameSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toDomain())
	}
	return summaries, nil
}
