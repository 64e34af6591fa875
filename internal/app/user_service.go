package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// UserService registers players. Each new user gets an empty score ledger row
// so score queries never race the first rollup.
type UserService struct {
	users  UserRepository
	scores ScoreRepository
}

func NewUserService(users UserRepository, scores ScoreRepository) *UserService {
	return &UserService{users: users, scores: scores}
}

// Register creates a user with a unique name. Duplicate names surface
// domain.ErrUserExists.
func (s *UserService) Register(ctx context.Context, name, email string) (domain.User, error) {
	if name == "" {
		return domain.User{}, fmt.Errorf("user name is required")
	}
	user := domain.User{ID: uuid.NewString(), Name: name, Email: email}
	if err := s.users.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}
	if err := s.scores.Create(ctx, &domain.Score{UserID: user.ID}); err != nil {
		return domain.User{}, fmt.Errorf("seed score: %w", err)
	}
	return user, nil
}

// Find looks a user up by name.
func (s *UserService) Find(ctx context.Context, name string) (domain.User, error) {
	return s.users.ByName(ctx, name)
}
