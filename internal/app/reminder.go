package app

import (
	"context"
	"fmt"
	"strings"

	"trivia-service/internal/domain"
)

// Reminder is a nudge for a player with a game left hanging. Delivery belongs
// to an external scheduler; this layer only composes the content.
type Reminder struct {
	Email   string
	Subject string
	Body    string
}

const reminderSubject = "A friendly reminder!"

// PendingReminders builds one reminder per active game whose owner has an
// email address on file.
func (s *GameService) PendingReminders(ctx context.Context) ([]Reminder, error) {
	games, err := s.games.Active(ctx)
	if err != nil {
		return nil, err
	}

	reminders := make([]Reminder, 0, len(games))
	for _, game := range games {
		user, err := s.users.ByID(ctx, game.UserID)
		if err != nil {
			return nil, err
		}
		if user.Email == "" {
			continue
		}
		turn, err := s.turns.Get(ctx, game.CurrentTurnID)
		if err != nil {
			return nil, err
		}
		question, err := s.questions.Get(ctx, game.CurrentQuestionID)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, Reminder{
			Email:   user.Email,
			Subject: reminderSubject,
			Body:    reminderBody(user.Name, question, turn.CluesUsed, game.RoundsRemaining),
		})
	}
	return reminders, nil
}

func reminderBody(name string, question domain.Question, cluesUsed, roundsRemaining int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n", name)
	b.WriteString("You started a trivia game, but you haven't answered a question in a while.\n")
	b.WriteString("Why not come back and try to finish your game? You can always ask for a clue if you need one.\n")
	b.WriteString("If you really don't want to finish, you can cancel.\n\n")
	b.WriteString("Here is where your game stands:\n")
	fmt.Fprintf(&b, "Question: %s\n", question.Text)
	for i, option := range question.AnswerOptions() {
		fmt.Fprintf(&b, "%c. %s\n", 'A'+i, option)
	}
	fmt.Fprintf(&b, "You have used %d clues.\n", cluesUsed)
	fmt.Fprintf(&b, "You have %d more questions.\n", roundsRemaining)
	return b.String()
}
