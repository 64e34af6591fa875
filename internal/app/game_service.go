package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// Player-facing messages for soft failures and game flow. Finished games
// answer with a message rather than an error so clients can always render the
// response.
const (
	msgGameOver      = "Game already over!"
	msgGoodLuck      = "Good luck playing the trivia game! "
	msgCorrect       = "You are correct. "
	msgIncorrect     = "You are not correct. "
	msgRoundsDone    = "Game over!"
	msgPoolExhausted = "No more questions, game over!"
	msgNoMoreClues   = "You have used up all of your clues!"
)

// GameService drives the draw-answer-score loop: it starts sessions over the
// question catalog, scores answered turns, hands out clues and rolls finished
// games up into summaries and the score ledger.
type GameService struct {
	users     UserRepository
	questions QuestionRepository
	games     GameRepository
	turns     TurnRepository
	scores    ScoreRepository
	summaries SummaryRepository
	stats     StatsNotifier
	board     *LeaderboardHub

	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option customizes a GameService.
type Option func(*GameService)

// WithStatsNotifier wires the fire-and-forget stats recompute signal.
func WithStatsNotifier(notifier StatsNotifier) Option {
	return func(s *GameService) { s.stats = notifier }
}

// WithLeaderboard wires the hub that receives a fresh ranking board after
// every rollup.
func WithLeaderboard(hub *LeaderboardHub) Option {
	return func(s *GameService) { s.board = hub }
}

// WithClock is test-only for deterministic summary dates.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

func NewGameService(
	users UserRepository,
	questions QuestionRepository,
	games GameRepository,
	turns TurnRepository,
	scores ScoreRepository,
	summaries SummaryRepository,
	opts ...Option,
) *GameService {
	s := &GameService{
		users:     users,
		questions: questions,
		games:     games,
		turns:     turns,
		scores:    scores,
		summaries: summaries,
		stats:     NopStatsNotifier{},
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a new game for the named user, pools every catalog question
// and begins the first turn. Rounds defaults when non-positive. An empty
// catalog fails the start outright: there is nothing to play.
func (s *GameService) Start(ctx context.Context, userName string, rounds int) (domain.GameState, error) {
	user, err := s.users.ByName(ctx, userName)
	if err != nil {
		return domain.GameState{}, err
	}
	if rounds <= 0 {
		rounds = domain.DefaultRounds
	}

	ids, err := s.questions.IDs(ctx)
	if err != nil {
		return domain.GameState{}, fmt.Errorf("list questions: %w", err)
	}
	if len(ids) == 0 {
		return domain.GameState{}, domain.ErrEmptyCatalog
	}

	game := &domain.Game{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		RoundsRemaining: rounds,
		QuestionPool:    ids,
	}
	if err := s.games.Save(ctx, game); err != nil {
		return domain.GameState{}, fmt.Errorf("save game: %w", err)
	}

	questionID, _ := s.drawQuestionID(game.QuestionPool)
	if err := s.beginTurn(ctx, game, questionID); err != nil {
		return domain.GameState{}, err
	}
	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return domain.GameState{}, err
	}

	s.stats.NotifyStatsStale()
	return s.state(game, user, msgGoodLuck+question.Text, s.shuffledOptions(question)), nil
}

// State returns the current snapshot of a game: the open question and its
// answer options, or a closing message once the game is over.
func (s *GameService) State(ctx context.Context, gameID string) (domain.GameState, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return domain.GameState{}, err
	}
	user, err := s.users.ByID(ctx, game.UserID)
	if err != nil {
		return domain.GameState{}, err
	}
	if game.GameOver {
		return s.state(&game, user, msgGameOver, nil), nil
	}
	question, err := s.questions.Get(ctx, game.CurrentQuestionID)
	if err != nil {
		return domain.GameState{}, err
	}
	return s.state(&game, user, question.Text, s.shuffledOptions(question)), nil
}

// Answer resolves the game's current turn against the given answer, scores
// it, and either begins the next turn or ends the game. Answering a finished
// game is a soft no-op that reports the game is over.
func (s *GameService) Answer(ctx context.Context, gameID, answer string) (domain.GameState, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return domain.GameState{}, err
	}
	user, err := s.users.ByID(ctx, game.UserID)
	if err != nil {
		return domain.GameState{}, err
	}
	if game.GameOver {
		return s.state(&game, user, msgGameOver, nil), nil
	}

	game.RoundsRemaining--

	turn, err := s.turns.Get(ctx, game.CurrentTurnID)
	if err != nil {
		return domain.GameState{}, err
	}
	question, err := s.questions.Get(ctx, turn.QuestionID)
	if err != nil {
		return domain.GameState{}, err
	}

	result := msgIncorrect
	if question.IsCorrectAnswer(answer) {
		result = msgCorrect
		turn.IsCorrect = true
		points := question.Value
		// Each clue costs 2^clues_used points; a clue-free answer keeps the
		// full value. The discount may push points negative on low-value
		// questions.
		if turn.CluesUsed > 0 {
			points -= 1 << turn.CluesUsed
		}
		turn.Points = points
		game.CurrentScore += points
	}
	turn.GivenAnswer = answer
	turn.IsFinished = true
	if err := s.turns.Save(ctx, &turn); err != nil {
		return domain.GameState{}, fmt.Errorf("save turn: %w", err)
	}

	if game.RoundsRemaining < 1 {
		if err := s.endGame(ctx, &game); err != nil {
			return domain.GameState{}, err
		}
		return s.state(&game, user, result+msgRoundsDone, nil), nil
	}

	questionID, ok := s.drawQuestionID(game.QuestionPool)
	if !ok {
		// Pool exhausted mid-game: same rollup path as a normal finish.
		if err := s.endGame(ctx, &game); err != nil {
			return domain.GameState{}, err
		}
		return s.state(&game, user, result+msgPoolExhausted, nil), nil
	}

	if err := s.beginTurn(ctx, &game, questionID); err != nil {
		return domain.GameState{}, err
	}
	next, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return domain.GameState{}, err
	}
	return s.state(&game, user, result+next.Text, s.shuffledOptions(next)), nil
}

// Clue hands out the next clue for the current turn, charging it against the
// turn. Once both clues are spent a sentinel message comes back instead.
func (s *GameService) Clue(ctx context.Context, gameID string) (string, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return "", err
	}
	if game.GameOver {
		return msgGameOver, nil
	}
	turn, err := s.turns.Get(ctx, game.CurrentTurnID)
	if err != nil {
		return "", err
	}
	if turn.CluesUsed >= domain.MaxClues {
		return msgNoMoreClues, nil
	}
	question, err := s.questions.Get(ctx, turn.QuestionID)
	if err != nil {
		return "", err
	}
	clue := question.Clues[turn.CluesUsed]
	turn.CluesUsed++
	if err := s.turns.Save(ctx, &turn); err != nil {
		return "", fmt.Errorf("save turn: %w", err)
	}
	return clue, nil
}

// Cancel forfeits an active game: its turns are deleted along with the game
// itself, and no summary or score update is produced. Finished games cannot
// be cancelled.
func (s *GameService) Cancel(ctx context.Context, gameID string) error {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if game.GameOver {
		return domain.ErrGameOver
	}
	if err := s.turns.DeleteByGame(ctx, game.ID); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	return s.games.Delete(ctx, game.ID)
}

// endGame is the single rollup path: mark the game over, write the summary,
// fold the aggregates into the score ledger and fan the news out.
func (s *GameService) endGame(ctx context.Context, game *domain.Game) error {
	game.GameOver = true
	if err := s.games.Save(ctx, game); err != nil {
		return fmt.Errorf("save game: %w", err)
	}

	turns, err := s.turns.GetMany(ctx, game.TurnIDs)
	if err != nil {
		return err
	}
	delta := domain.AggregateTurns(turns)

	summary := &domain.GameSummary{
		ID:         uuid.NewString(),
		UserID:     game.UserID,
		GameID:     game.ID,
		Date:       s.now(),
		TurnIDs:    append([]string(nil), game.TurnIDs...),
		TotalScore: delta.Points,
	}
	if err := s.summaries.Create(ctx, summary); err != nil {
		return fmt.Errorf("create summary: %w", err)
	}

	if err := s.scores.Add(ctx, game.UserID, delta); err != nil {
		return fmt.Errorf("record score: %w", err)
	}

	s.stats.NotifyStatsStale()
	s.publishLeaderboard(ctx)
	return nil
}

// beginTurn opens the next turn: the question leaves the pool and becomes
// current, and the turn is appended to the game's history.
func (s *GameService) beginTurn(ctx context.Context, game *domain.Game, questionID string) error {
	turn := &domain.Turn{
		ID:         uuid.NewString(),
		GameID:     game.ID,
		UserID:     game.UserID,
		QuestionID: questionID,
	}
	if err := s.turns.Save(ctx, turn); err != nil {
		return fmt.Errorf("save turn: %w", err)
	}

	game.RemoveFromPool(questionID)
	game.CurrentQuestionID = questionID
	game.CurrentTurnID = turn.ID
	game.TurnIDs = append(game.TurnIDs, turn.ID)
	return s.games.Save(ctx, game)
}

// drawQuestionID picks uniformly at random from the pool. Draws have no
// memory beyond the pool itself shrinking.
func (s *GameService) drawQuestionID(pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rnd.Intn(len(pool))], true
}

func (s *GameService) shuffledOptions(question domain.Question) []string {
	options := question.AnswerOptions()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func (s *GameService) state(game *domain.Game, user domain.User, message string, options []string) domain.GameState {
	return domain.GameState{
		Key:             game.ID,
		UserName:        user.Name,
		RoundsRemaining: game.RoundsRemaining,
		CurrentScore:    game.CurrentScore,
		GameOver:        game.GameOver,
		Message:         message,
		Options:         options,
	}
}

func (s *GameService) publishLeaderboard(ctx context.Context) {
	if s.board == nil {
		return
	}
	entries, err := s.Rankings(ctx)
	if err != nil {
		return
	}
	s.board.Publish(entries)
}
