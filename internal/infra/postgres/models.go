package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    string `bun:"id,pk"`
	Name  string `bun:"name"`
	Email string `bun:"email"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID      string   `bun:"id,pk"`
	Text    string   `bun:"text"`
	Correct string   `bun:"correct"`
	Wrong   []string `bun:"wrong,array"`
	Clues   []string `bun:"clues,array"`
	Value   int      `bun:"value"`
}

type gameRow struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID                string   `bun:"id,pk"`
	UserID            string   `bun:"user_id"`
	RoundsRemaining   int      `bun:"rounds_remaining"`
	CurrentScore      int      `bun:"current_score"`
	GameOver          bool     `bun:"game_over"`
	QuestionPool      []string `bun:"question_pool,array"`
	TurnIDs           []string `bun:"turn_ids,array"`
	CurrentTurnID     string   `bun:"current_turn_id"`
	CurrentQuestionID string   `bun:"current_question_id"`
}

type turnRow struct {
	bun.BaseModel `bun:"table:turns,alias:t"`

	ID          string `bun:"id,pk"`
	GameID      string `bun:"game_id"`
	UserID      string `bun:"user_id"`
	QuestionID  string `bun:"question_id"`
	GivenAnswer string `bun:"given_answer"`
	CluesUsed   int    `bun:"clues_used"`
	Points      int    `bun:"points"`
	IsCorrect   bool   `bun:"is_correct"`
	IsFinished  bool   `bun:"is_finished"`
}

type scoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	UserID       string `bun:"user_id,pk"`
	Score        int    `bun:"score"`
	NumCorrect   int    `bun:"num_correct"`
	NumIncorrect int    `bun:"num_incorrect"`
	CluesUsed    int    `bun:"clues_used"`
}

type summaryRow struct {
	bun.BaseModel `bun:"table:game_summaries,alias:gs"`

	ID         string    `bun:"id,pk"`
	UserID     string    `bun:"user_id"`
	GameID     string    `bun:"game_id"`
	PlayedOn   time.Time `bun:"played_on"`
	TurnIDs    []string  `bun:"turn_ids,array"`
	TotalScore int       `bun:"total_score"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{ID: r.ID, Name: r.Name, Email: r.Email}
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:      r.ID,
		Text:    r.Text,
		Correct: r.Correct,
		Wrong:   r.Wrong,
		Clues:   r.Clues,
		Value:   r.Value,
	}
}

func (r gameRow) toDomain() domain.Game {
	return domain.Game{
		ID:                r.ID,
		UserID:            r.UserID,
		RoundsRemaining:   r.RoundsRemaining,
		CurrentScore:      r.CurrentScore,
		GameOver:          r.GameOver,
		QuestionPool:      r.QuestionPool,
		TurnIDs:           r.TurnIDs,
		CurrentTurnID:     r.CurrentTurnID,
		CurrentQuestionID: r.CurrentQuestionID,
	}
}

func gameToRow(game *domain.Game) gameRow {
	return gameRow{
		ID:                game.ID,
		UserID:            game.UserID,
		RoundsRemaining:   game.RoundsRemaining,
		CurrentScore:      game.CurrentScore,
		GameOver:          game.GameOver,
		QuestionPool:      game.QuestionPool,
		TurnIDs:           game.TurnIDs,
		CurrentTurnID:     game.CurrentTurnID,
		CurrentQuestionID: game.CurrentQuestionID,
	}
}

func (r turnRow) toDomain() domain.Turn {
	return domain.Turn{
		ID:          r.ID,
		GameID:      r.GameID,
		UserID:      r.UserID,
		QuestionID:  r.QuestionID,
		GivenAnswer: r.GivenAnswer,
		CluesUsed:   r.CluesUsed,
		Points:      r.Points,
		IsCorrect:   r.IsCorrect,
		IsFinished:  r.IsFinished,
	}
}

func (r scoreRow) toDomain() domain.Score {
	return domain.Score{
		UserID:       r.UserID,
		Score:        r.Score,
		NumCorrect:   r.NumCorrect,
		NumIncorrect: r.NumIncorrect,
		CluesUsed:    r.CluesUsed,
	}
}

func (r summaryRow) toDomain() domain.GameSummary {
	return domain.GameSummary{
		ID:         r.ID,
		UserID:     r.UserID,
		GameID:     r.GameID,
		Date:       r.PlayedOn,
		TurnIDs:    r.TurnIDs,
		TotalScore: r.TotalScore,
	}
}
