package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// TurnRepo implements app.TurnRepository on Postgres.
type TurnRepo struct {
	db *bun.DB
}

func NewTurnRepo(db *bun.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

func (r *TurnRepo) Save(ctx context.Context, turn *domain.Turn) error {
	row := turnRow{
		ID:          turn.ID,
		GameID:      turn.GameID,
		UserID:      turn.UserID,
		QuestionID:  turn.QuestionID,
		GivenAnswer: turn.GivenAnswer,
		CluesUsed:   turn.CluesUsed,
		Points:      turn.Points,
		IsCorrect:   turn.IsCorrect,
		IsFinished:  turn.IsFinished,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("given_answer = EXCLUDED.given_answer").
		Set("clues_used = EXCLUDED.clues_used").
		Set("points = EXCLUDED.points").
		Set("is_correct = EXCLUDED.is_correct").
		Set("is_finished = EXCLUDED.is_finished").
		Exec(ctx)
	return err
}

func (r *TurnRepo) Get(ctx context.Context, id string) (domain.Turn, error) {
	var row turnRow
	err := r.db.NewSelect().Model(&row).Where("t.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Turn{}, domain.ErrTurnNotFound
	}
	if err != nil {
		return domain.Turn{}, err
	}
	return row.toDomain(), nil
}

func (r *TurnRepo) GetMany(ctx context.Context, ids []string) ([]domain.Turn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []turnRow
	err := r.db.NewSelect().Model(&rows).Where("t.id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]turnRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	// Return turns in the chronological order the caller keeps.
	turns := make([]domain.Turn, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, domain.ErrTurnNotFound
		}
		turns = append(turns, row.toDomain())
	}
	return turns, nil
}

func (r *TurnRepo) DeleteByGame(ctx context.Context, gameID string) error {
	_, err := r.db.NewDelete().Model((*turnRow)(nil)).Where("game_id = ?", gameID).Exec(ctx)
	return err
}
