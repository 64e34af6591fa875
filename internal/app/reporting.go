package app

import (
	"context"

	"trivia-service/internal/domain"
)

const (
	labelCorrect   = "Answered Correctly"
	labelIncorrect = "Answered Incorrectly"
)

// History returns the turn-by-turn record of one completed game with its
// totals. Unfinished or cancelled games have no summary and report not found.
func (s *GameService) History(ctx context.Context, gameID string) (domain.GameDetail, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return domain.GameDetail{}, err
	}
	summary, err := s.summaries.ByGame(ctx, game.ID)
	if err != nil {
		return domain.GameDetail{}, err
	}
	user, err := s.users.ByID(ctx, summary.UserID)
	if err != nil {
		return domain.GameDetail{}, err
	}

	items, delta, err := s.detailRows(ctx, summary)
	if err != nil {
		return domain.GameDetail{}, err
	}
	return domain.GameDetail{
		UserName:       user.Name,
		Items:          items,
		TotalCorrect:   delta.NumCorrect,
		TotalIncorrect: delta.NumIncorrect,
		TotalCluesUsed: delta.CluesUsed,
		TotalPoints:    delta.Points,
	}, nil
}

// UserSummaries returns one summary row per completed game for the named
// user.
func (s *GameService) UserSummaries(ctx context.Context, userName string) ([]domain.SummaryView, error) {
	user, err := s.users.ByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaries.ByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.SummaryView, 0, len(summaries))
	for _, summary := range summaries {
		turns, err := s.turns.GetMany(ctx, summary.TurnIDs)
		if err != nil {
			return nil, err
		}
		delta := domain.AggregateTurns(turns)
		views = append(views, domain.SummaryView{
			UserName:          user.Name,
			Date:              summary.Date.Format("2006-01-02"),
			QuestionsAnswered: len(summary.TurnIDs),
			Correct:           delta.NumCorrect,
			Incorrect:         delta.NumIncorrect,
			CluesUsed:         delta.CluesUsed,
			TotalScore:        delta.Points,
		})
	}
	return views, nil
}

// UserDetail returns every turn across all of the named user's completed
// games, with grand totals across games.
func (s *GameService) UserDetail(ctx context.Context, userName string) (domain.GameDetail, error) {
	user, err := s.users.ByName(ctx, userName)
	if err != nil {
		return domain.GameDetail{}, err
	}
	summaries, err := s.summaries.ByUser(ctx, user.ID)
	if err != nil {
		return domain.GameDetail{}, err
	}

	detail := domain.GameDetail{UserName: user.Name, Items: []domain.TurnDetail{}}
	for _, summary := range summaries {
		items, delta, err := s.detailRows(ctx, summary)
		if err != nil {
			return domain.GameDetail{}, err
		}
		detail.Items = append(detail.Items, items...)
		detail.TotalCorrect += delta.NumCorrect
		detail.TotalIncorrect += delta.NumIncorrect
		detail.TotalCluesUsed += delta.CluesUsed
		detail.TotalPoints += delta.Points
	}
	return detail, nil
}

// ActiveGames returns snapshots of the named user's games still in play.
func (s *GameService) ActiveGames(ctx context.Context, userName string) ([]domain.GameState, error) {
	user, err := s.users.ByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	games, err := s.games.ActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	states := make([]domain.GameState, 0, len(games))
	for i := range games {
		question, err := s.questions.Get(ctx, games[i].CurrentQuestionID)
		if err != nil {
			return nil, err
		}
		states = append(states, s.state(&games[i], user, question.Text, s.shuffledOptions(question)))
	}
	return states, nil
}

func (s *GameService) detailRows(ctx context.Context, summary domain.GameSummary) ([]domain.TurnDetail, domain.ScoreDelta, error) {
	turns, err := s.turns.GetMany(ctx, summary.TurnIDs)
	if err != nil {
		return nil, domain.ScoreDelta{}, err
	}

	date := summary.Date.Format("2006-01-02")
	items := make([]domain.TurnDetail, 0, len(turns))
	for _, turn := range turns {
		question, err := s.questions.Get(ctx, turn.QuestionID)
		if err != nil {
			return nil, domain.ScoreDelta{}, err
		}
		label := labelIncorrect
		if turn.IsCorrect {
			label = labelCorrect
		}
		items = append(items, domain.TurnDetail{
			Date:      date,
			Question:  question.Text,
			Answer:    turn.GivenAnswer,
			CluesUsed: turn.CluesUsed,
			Correct:   label,
			Points:    turn.Points,
		})
	}
	return items, domain.AggregateTurns(turns), nil
}
