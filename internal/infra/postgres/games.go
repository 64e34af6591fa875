package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// GameRepo implements app.GameRepository on Postgres. Save upserts the whole
// row; game state is small and owned by a single player, so last-write-wins
// per session is safe.
type GameRepo struct {
	db *bun.DB
}

func NewGameRepo(db *bun.DB) *GameRepo {
	return &GameRepo{db: db}
}

func (r *GameRepo) Save(ctx context.Context, game *domain.Game) error {
	row := gameToRow(game)
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("rounds_remaining = EXCLUDED.rounds_remaining").
		Set("current_score = EXCLUDED.current_score").
		Set("game_over = EXCLUDED.game_over").
		Set("question_pool = EXCLUDED.question_pool").
		Set("turn_ids = EXCLUDED.turn_ids").
		Set("current_turn_id = EXCLUDED.current_turn_id").
		Set("current_question_id = EXCLUDED.current_question_id").
		Exec(ctx)
	return err
}

func (r *GameRepo) Get(ctx context.Context, id string) (domain.Game, error) {
	var row gameRow
	err := r.db.NewSelect().Model(&row).Where("g.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, err
	}
	return row.toDomain(), nil
}

func (r *GameRepo) ActiveByUser(ctx context.Context, userID string) ([]domain.Game, error) {
	var rows []gameRow
	err := r.db.NewSelect().Model(&rows).
		Where("g.user_id = ?", userID).
		Where("NOT g.game_over").
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return gamesToDomain(rows), nil
}

func (r *GameRepo) Active(ctx context.Context) ([]domain.Game, error) {
	var rows []gameRow
	err := r.db.NewSelect().Model(&rows).Where("NOT g.game_over").Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return gamesToDomain(rows), nil
}

func (r *GameRepo) Completed(ctx context.Context) ([]domain.Game, error) {
	var rows []gameRow
	err := r.db.NewSelect().Model(&rows).Where("g.game_over").Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return gamesToDomain(rows), nil
}

func (r *GameRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().Model((*gameRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func gamesToDomain(rows []gameRow) []domain.Game {
	games := make([]domain.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, row.toDomain())
	}
	return games
}
