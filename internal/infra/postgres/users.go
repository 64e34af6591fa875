package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"trivia-service/internal/domain"
)

// UserRepo implements app.UserRepository on Postgres. The unique index on
// name enforces username uniqueness.
type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	row := userRow{ID: user.ID, Name: user.Name, Email: user.Email}
	_, err := r.db.NewInsert().Model(&row).Exec(ctx)
	if isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepo) ByID(ctx context.Context, id string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func (r *UserRepo) ByName(ctx context.Context, name string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("u.name = ?", name).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
