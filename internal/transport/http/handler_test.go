package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

type testServer struct {
	*httptest.Server
	games     *memory.GameStore
	questions *memory.QuestionStore
}

func newTestServer(t *testing.T, questions []domain.Question) *testServer {
	t.Helper()

	users := memory.NewUserStore()
	questionStore := memory.NewSeededQuestionStore(questions)
	games := memory.NewGameStore()
	turns := memory.NewTurnStore()
	scores := memory.NewScoreStore()
	summaries := memory.NewSummaryStore()
	statsCache := memory.NewStatsCache()

	gameService := app.NewGameService(users, questionStore, games, turns, scores, summaries)
	userService := app.NewUserService(users, scores)
	catalogService := app.NewCatalogService(questionStore)
	statsService := app.NewStatsService(games, turns, statsCache)

	handler := NewHandler(gameService, catalogService, userService, statsService, zap.NewNop())
	mux := http.NewServeMux()
	handler.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{Server: server, games: games, questions: questionStore}
}

func testQuestions(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, domain.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Text:    fmt.Sprintf("Question %d?", i+1),
			Correct: fmt.Sprintf("answer-%d", i+1),
			Wrong:   []string{"w1", "w2", "w3"},
			Clues:   []string{"clue one", "clue two"},
			Value:   5,
		})
	}
	return questions
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func (s *testServer) correctAnswer(t *testing.T, gameID string) string {
	t.Helper()
	game, err := s.games.Get(context.Background(), gameID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	question, err := s.questions.Get(context.Background(), game.CurrentQuestionID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	return question.Correct
}

func TestFullGameOverHTTP(t *testing.T) {
	server := newTestServer(t, testQuestions(2))

	resp := server.do(t, http.MethodPost, "/users", map[string]string{"name": "alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: status %d", resp.StatusCode)
	}
	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &msg)
	if msg.Message != "User alice created!" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	resp = server.do(t, http.MethodPost, "/games", map[string]interface{}{"userName": "alice", "rounds": 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start game: status %d", resp.StatusCode)
	}
	var state domain.GameState
	decodeBody(t, resp, &state)
	if state.Key == "" || state.RoundsRemaining != 2 || len(state.Options) != 4 {
		t.Fatalf("unexpected state: %+v", state)
	}

	resp = server.do(t, http.MethodGet, "/games/"+state.Key+"/clue", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clue: status %d", resp.StatusCode)
	}
	decodeBody(t, resp, &msg)
	if msg.Message != "clue one" {
		t.Fatalf("unexpected clue %q", msg.Message)
	}

	resp = server.do(t, http.MethodPut, "/games/"+state.Key+"/answer", map[string]string{"answer": server.correctAnswer(t, state.Key)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer: status %d", resp.StatusCode)
	}
	decodeBody(t, resp, &state)
	// 5 points minus 2^1 for the single clue.
	if state.CurrentScore != 3 || state.RoundsRemaining != 1 {
		t.Fatalf("unexpected state after round 1: %+v", state)
	}

	resp = server.do(t, http.MethodPut, "/games/"+state.Key+"/answer", map[string]string{"answer": "wrong"})
	decodeBody(t, resp, &state)
	if !state.GameOver || state.CurrentScore != 3 {
		t.Fatalf("unexpected final state: %+v", state)
	}

	resp = server.do(t, http.MethodGet, "/games/"+state.Key+"/history", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: status %d", resp.StatusCode)
	}
	var detail domain.GameDetail
	decodeBody(t, resp, &detail)
	if detail.TotalPoints != 3 || detail.TotalCorrect != 1 || detail.TotalIncorrect != 1 || detail.TotalCluesUsed != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	resp = server.do(t, http.MethodGet, "/users/alice/score", nil)
	var score domain.ScoreView
	decodeBody(t, resp, &score)
	if score.UserName != "alice" || score.Score != 3 {
		t.Fatalf("unexpected score: %+v", score)
	}

	resp = server.do(t, http.MethodGet, "/rankings", nil)
	var entries []domain.RankEntry
	decodeBody(t, resp, &entries)
	if len(entries) != 1 || entries[0].Name != "alice" {
		t.Fatalf("unexpected rankings: %+v", entries)
	}
}

func TestCancelGameOverHTTP(t *testing.T) {
	server := newTestServer(t, testQuestions(2))

	server.do(t, http.MethodPost, "/users", map[string]string{"name": "bob"})
	resp := server.do(t, http.MethodPost, "/games", map[string]interface{}{"userName": "bob", "rounds": 2})
	var state domain.GameState
	decodeBody(t, resp, &state)

	resp = server.do(t, http.MethodDelete, "/games/"+state.Key, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d", resp.StatusCode)
	}
	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &msg)
	if msg.Message != "Game cancelled!" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	resp = server.do(t, http.MethodGet, "/games/"+state.Key, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after cancel, got %d", resp.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer(t, testQuestions(1))

	server.do(t, http.MethodPost, "/users", map[string]string{"name": "carol"})

	// Duplicate username conflicts.
	resp := server.do(t, http.MethodPost, "/users", map[string]string{"name": "carol"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate user: status %d", resp.StatusCode)
	}

	// Unknown resources are 404.
	resp = server.do(t, http.MethodGet, "/games/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown game: status %d", resp.StatusCode)
	}
	resp = server.do(t, http.MethodGet, "/users/nobody/summaries", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user: status %d", resp.StatusCode)
	}

	// Unknown starter is 404 too.
	resp = server.do(t, http.MethodPost, "/games", map[string]interface{}{"userName": "nobody"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("start for unknown user: status %d", resp.StatusCode)
	}

	// Malformed input is 400.
	resp = server.do(t, http.MethodPost, "/users", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty name: status %d", resp.StatusCode)
	}
	resp = server.do(t, http.MethodGet, "/scores/high?limit=banana", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad limit: status %d", resp.StatusCode)
	}

	// Cancelling a finished game conflicts.
	respStart := server.do(t, http.MethodPost, "/games", map[string]interface{}{"userName": "carol", "rounds": 1})
	var state domain.GameState
	decodeBody(t, respStart, &state)
	server.do(t, http.MethodPut, "/games/"+state.Key+"/answer", map[string]string{"answer": "wrong"})
	resp = server.do(t, http.MethodDelete, "/games/"+state.Key, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("cancel finished game: status %d", resp.StatusCode)
	}
}

func TestQuestionEndpoints(t *testing.T) {
	server := newTestServer(t, testQuestions(1))

	payload := map[string]interface{}{
		"text":    "What color is the sky?",
		"correct": "Blue",
		"wrong":   []string{"Green", "Red", "Plaid"},
		"clues":   []string{"Look up.", "Not plaid."},
		"value":   5,
	}
	resp := server.do(t, http.MethodPost, "/questions", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create question: status %d", resp.StatusCode)
	}
	var question domain.Question
	decodeBody(t, resp, &question)
	if question.ID == "" || question.Correct != "Blue" {
		t.Fatalf("unexpected question: %+v", question)
	}

	resp = server.do(t, http.MethodPost, "/questions/"+question.ID+"/check", map[string]string{"answer": "Blue"})
	var check struct {
		Correct bool `json:"correct"`
	}
	decodeBody(t, resp, &check)
	if !check.Correct {
		t.Fatal("expected correct check")
	}

	resp = server.do(t, http.MethodGet, "/questions/any", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("any question: status %d", resp.StatusCode)
	}
	var any struct {
		ID      string   `json:"id"`
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}
	decodeBody(t, resp, &any)
	if any.ID == "" || len(any.Options) != 4 {
		t.Fatalf("unexpected any response: %+v", any)
	}

	// Missing distractors are rejected before the service runs.
	payload["wrong"] = []string{"Green"}
	resp = server.do(t, http.MethodPost, "/questions", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid question: status %d", resp.StatusCode)
	}
}

func TestAverageCorrectEndpoint(t *testing.T) {
	server := newTestServer(t, testQuestions(1))

	resp := server.do(t, http.MethodGet, "/stats/average-correct", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	var stats struct {
		Average  float64 `json:"average"`
		Computed bool    `json:"computed"`
	}
	decodeBody(t, resp, &stats)
	if stats.Computed {
		t.Fatalf("expected uncomputed stats, got %+v", stats)
	}
}
