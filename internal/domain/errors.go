package domain

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrGameNotFound is returned when a referenced game does not exist.
	ErrGameNotFound = errors.New("game not found")
	// ErrQuestionNotFound is returned when a referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTurnNotFound is returned when a referenced turn does not exist.
	ErrTurnNotFound = errors.New("turn not found")
	// ErrScoreNotFound is returned when a user has no score row yet.
	ErrScoreNotFound = errors.New("score not found")
	// ErrSummaryNotFound is returned when a game has no summary (unfinished or cancelled).
	ErrSummaryNotFound = errors.New("game summary not found")
	// ErrGameOver is returned for operations that are invalid once a game has ended.
	ErrGameOver = errors.New("game is already over")
	// ErrEmptyCatalog is returned when a game cannot start because no questions exist.
	ErrEmptyCatalog = errors.New("no questions in catalog")
)
