package domain

import "time"

// DefaultQuestionValue is awarded for a clue-free correct answer unless the
// question overrides it.
const DefaultQuestionValue = 5

// DefaultRounds is the number of rounds a game runs when the caller does not
// pick one.
const DefaultRounds = 5

// MaxClues is the number of clues attached to every question.
const MaxClues = 2

// User is a registered player. Username uniqueness is enforced by the user
// repository, not here.
type User struct {
	ID    string
	Name  string
	Email string
}

// Question is an immutable catalog entry: one correct answer, three
// distractors and two ordered clues.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Correct string   `json:"correct"`
	Wrong   []string `json:"wrong"`
	Clues   []string `json:"clues"`
	Value   int      `json:"value"`
}

// IsCorrectAnswer reports whether candidate matches the stored correct
// answer. Read-only: checking never mutates the question.
func (q Question) IsCorrectAnswer(candidate string) bool {
	return candidate == q.Correct
}

// AnswerOptions returns the correct answer and the distractors as one list,
// correct answer first. Callers presenting the question should shuffle.
func (q Question) AnswerOptions() []string {
	options := make([]string, 0, 1+len(q.Wrong))
	options = append(options, q.Correct)
	options = append(options, q.Wrong...)
	return options
}

// Game is a single-player trivia session. The pool holds IDs of catalog
// questions not yet asked in this game; once GameOver is set the game accepts
// no further turns.
type Game struct {
	ID                string
	UserID            string
	RoundsRemaining   int
	CurrentScore      int
	GameOver          bool
	QuestionPool      []string
	TurnIDs           []string
	CurrentTurnID     string
	CurrentQuestionID string
}

// RemoveFromPool drops questionID from the pool. Returns false if the ID was
// not pooled.
func (g *Game) RemoveFromPool(questionID string) bool {
	for i, id := range g.QuestionPool {
		if id == questionID {
			g.QuestionPool = append(g.QuestionPool[:i], g.QuestionPool[i+1:]...)
			return true
		}
	}
	return false
}

// Turn records one question-answer exchange within a game. A finished turn is
// immutable.
type Turn struct {
	ID          string
	GameID      string
	UserID      string
	QuestionID  string
	GivenAnswer string
	CluesUsed   int
	Points      int
	IsCorrect   bool
	IsFinished  bool
}

// Score is the persistent per-user ledger. It only ever accumulates.
type Score struct {
	UserID       string
	Score        int
	NumCorrect   int
	NumIncorrect int
	CluesUsed    int
}

// ScoreDelta is the per-game aggregate folded into a Score at rollup.
type ScoreDelta struct {
	Points       int
	NumCorrect   int
	NumIncorrect int
	CluesUsed    int
}

// AggregateTurns folds a game's turns into a single delta.
func AggregateTurns(turns []Turn) ScoreDelta {
	var delta ScoreDelta
	for _, turn := range turns {
		delta.Points += turn.Points
		delta.CluesUsed += turn.CluesUsed
		if turn.IsCorrect {
			delta.NumCorrect++
		} else {
			delta.NumIncorrect++
		}
	}
	return delta
}

// GameSummary is the immutable rollup written once when a game ends.
type GameSummary struct {
	ID         string
	UserID     string
	GameID     string
	Date       time.Time
	TurnIDs    []string
	TotalScore int
}

// GameState is the outbound snapshot of a game for players.
type GameState struct {
	Key             string   `json:"key"`
	UserName        string   `json:"userName"`
	RoundsRemaining int      `json:"roundsRemaining"`
	CurrentScore    int      `json:"currentScore"`
	GameOver        bool     `json:"gameOver"`
	Message         string   `json:"message"`
	Options         []string `json:"options,omitempty"`
}

// SummaryView is the outbound per-game summary.
type SummaryView struct {
	UserName          string `json:"userName"`
	Date              string `json:"date"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	Correct           int    `json:"correct"`
	Incorrect         int    `json:"incorrect"`
	CluesUsed         int    `json:"cluesUsed"`
	TotalScore        int    `json:"totalScore"`
}

// TurnDetail is one row of a game's turn-by-turn history.
type TurnDetail struct {
	Date      string `json:"date"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CluesUsed int    `json:"cluesUsed"`
	Correct   string `json:"correct"`
	Points    int    `json:"points"`
}

// GameDetail is a detailed history listing with grand totals, covering either
// one game or all of a user's games.
type GameDetail struct {
	UserName       string       `json:"userName"`
	Items          []TurnDetail `json:"items"`
	TotalCorrect   int          `json:"totalCorrect"`
	TotalIncorrect int          `json:"totalIncorrect"`
	TotalCluesUsed int          `json:"totalCluesUsed"`
	TotalPoints    int          `json:"totalPoints"`
}

// ScoreView is the outbound raw score of a user.
type ScoreView struct {
	UserName string `json:"userName"`
	Score    int    `json:"score"`
}

// RankEntry is one leaderboard row. Ranking is the derived rank value, not
// the raw score.
type RankEntry struct {
	Name    string  `json:"name"`
	Ranking float64 `json:"ranking"`
}

// Leaderboard is the ordered ranking board pushed to subscribers after each
// rollup.
type Leaderboard struct {
	Entries   []RankEntry `json:"entries"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
