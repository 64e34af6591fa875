package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	byName map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]domain.User),
		byName: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[user.Name]; ok {
		return domain.ErrUserExists
	}
	s.users[user.ID] = *user
	s.byName[user.Name] = user.ID
	return nil
}

func (s *UserStore) ByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) ByName(_ context.Context, name string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

// GameStore is an in-memory implementation of app.GameRepository. Games are
// copied on the way in and out so callers never alias stored state.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string]domain.Game)}
}

func (s *GameStore) Save(_ context.Context, game *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = cloneGame(*game)
	return nil
}

func (s *GameStore) Get(_ context.Context, id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (s *GameStore) ActiveByUser(_ context.Context, userID string) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []domain.Game
	for _, game := range s.games {
		if game.UserID == userID && !game.GameOver {
			games = append(games, cloneGame(game))
		}
	}
	sortGames(games)
	return games, nil
}

func (s *GameStore) Active(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []domain.Game
	for _, game := range s.games {
		if !game.GameOver {
			games = append(games, cloneGame(game))
		}
	}
	sortGames(games)
	return games, nil
}

func (s *GameStore) Completed(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []domain.Game
	for _, game := range s.games {
		if game.GameOver {
			games = append(games, cloneGame(game))
		}
	}
	sortGames(games)
	return games, nil
}

func (s *GameStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

func cloneGame(game domain.Game) domain.Game {
	game.QuestionPool = append([]string(nil), game.QuestionPool...)
	game.TurnIDs = append([]string(nil), game.TurnIDs...)
	return game
}

// Map iteration order is random; pin a stable order for listings.
func sortGames(games []domain.Game) {
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
}

// TurnStore is an in-memory implementation of app.TurnRepository.
type TurnStore struct {
	mu     sync.RWMutex
	turns  map[string]domain.Turn
	byGame map[string][]string
}

func NewTurnStore() *TurnStore {
	return &TurnStore{
		turns:  make(map[string]domain.Turn),
		byGame: make(map[string][]string),
	}
}

func (s *TurnStore) Save(_ context.Context, turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.turns[turn.ID]; !ok {
		s.byGame[turn.GameID] = append(s.byGame[turn.GameID], turn.ID)
	}
	s.turns[turn.ID] = *turn
	return nil
}

func (s *TurnStore) Get(_ context.Context, id string) (domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turn, ok := s.turns[id]
	if !ok {
		return domain.Turn{}, domain.ErrTurnNotFound
	}
	return turn, nil
}

func (s *TurnStore) GetMany(_ context.Context, ids []string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]domain.Turn, 0, len(ids))
	for _, id := range ids {
		turn, ok := s.turns[id]
		if !ok {
			return nil, domain.ErrTurnNotFound
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *TurnStore) DeleteByGame(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byGame[gameID] {
		delete(s.turns, id)
	}
	delete(s.byGame, gameID)
	return nil
}

// ScoreStore is an in-memory implementation of app.ScoreRepository. Add is
// atomic under the store lock, matching the transactional increment the
// Postgres store does in SQL.
type ScoreStore struct {
	mu     sync.Mutex
	scores map[string]domain.Score
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[string]domain.Score)}
}

func (s *ScoreStore) Create(_ context.Context, score *domain.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scores[score.UserID]; ok {
		return nil
	}
	s.scores[score.UserID] = *score
	return nil
}

func (s *ScoreStore) Get(_ context.Context, userID string) (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.scores[userID]
	if !ok {
		return domain.Score{}, domain.ErrScoreNotFound
	}
	return score, nil
}

func (s *ScoreStore) Add(_ context.Context, userID string, delta domain.ScoreDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	score := s.scores[userID]
	score.UserID = userID
	score.Score += delta.Points
	score.NumCorrect += delta.NumCorrect
	score.NumIncorrect += delta.NumIncorrect
	score.CluesUsed += delta.CluesUsed
	s.scores[userID] = score
	return nil
}

func (s *ScoreStore) List(_ context.Context, limit int) ([]domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scores := make([]domain.Score, 0, len(s.scores))
	for _, score := range s.scores {
		scores = append(scores, score)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].CluesUsed != scores[j].CluesUsed {
			return scores[i].CluesUsed < scores[j].CluesUsed
		}
		return scores[i].UserID < scores[j].UserID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// SummaryStore is an in-memory implementation of app.SummaryRepository.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]domain.GameSummary
	order     []string
}

func NewSummaryStore() *SummaryStore {
	return &SummaryStore{summaries: make(map[string]domain.GameSummary)}
}

func (s *SummaryStore) Create(_ context.Context, summary *domain.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *summary
	clone.TurnIDs = append([]string(nil), summary.TurnIDs...)
	s.summaries[summary.ID] = clone
	s.order = append(s.order, summary.ID)
	return nil
}

func (s *SummaryStore) ByGame(_ context.Context, gameID string) (domain.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if summary := s.summaries[id]; summary.GameID == gameID {
			return summary, nil
		}
	}
	return domain.GameSummary{}, domain.ErrSummaryNotFound
}

func (s *SummaryStore) ByUser(_ context.Context, userID string) ([]domain.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var summaries []domain.GameSummary
	for _, id := range s.order {
		if summary := s.summaries[id]; summary.UserID == userID {
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}
