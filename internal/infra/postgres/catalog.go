package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// QuestionRepo implements app.QuestionRepository on Postgres via bun.
type QuestionRepo struct {
	db *bun.DB
}

func NewQuestionRepo(db *bun.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) Create(ctx context.Context, question *domain.Question) error {
	row := questionRow{
		ID:      question.ID,
		Text:    question.Text,
		Correct: question.Correct,
		Wrong:   question.Wrong,
		Clues:   question.Clues,
		Value:   question.Value,
	}
	_, err := r.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

func (r *QuestionRepo) Get(ctx context.Context, id string) (domain.Question, error) {
	var row questionRow
	err := r.db.NewSelect().Model(&row).Where("q.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return row.toDomain(), nil
}

func (r *QuestionRepo) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().Model((*questionRow)(nil)).Column("id").Order("id").Scan(ctx, &ids)
	return ids, err
}

func (r *QuestionRepo) Any(ctx context.Context) (domain.Question, error) {
	var row questionRow
	err := r.db.NewSelect().Model(&row).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return row.toDomain(), nil
}

// QuestionLoader is a pgx-backed read path for catalog content, kept separate
// from bun so the per-turn question lookups ride the pool directly.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestion(ctx context.Context, id string) (domain.Question, error) {
	var question domain.Question
	err := l.pool.QueryRow(ctx,
		`SELECT id, text, correct, wrong, clues, value FROM questions WHERE id=$1`, id,
	).Scan(&question.ID, &question.Text, &question.Correct, &question.Wrong, &question.Clues, &question.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return question, nil
}

func (l *QuestionLoader) LoadQuestionIDs(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT id FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load question ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Catalog combines the pgx read path with the bun write path into one
// app.QuestionRepository.
type Catalog struct {
	loader *QuestionLoader
	writer *QuestionRepo
}

func NewCatalog(loader *QuestionLoader, writer *QuestionRepo) *Catalog {
	return &Catalog{loader: loader, writer: writer}
}

func (c *Catalog) Create(ctx context.Context, question *domain.Question) error {
	return c.writer.Create(ctx, question)
}

func (c *Catalog) Get(ctx context.Context, id string) (domain.Question, error) {
	return c.loader.LoadQuestion(ctx, id)
}

func (c *Catalog) IDs(ctx context.Context) ([]string, error) {
	return c.loader.LoadQuestionIDs(ctx)
}

func (c *Catalog) Any(ctx context.Context) (domain.Question, error) {
	return c.writer.Any(ctx)
}
