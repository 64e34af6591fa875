package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// Handler exposes the trivia use cases as a JSON API. It is a thin boundary:
// request decoding, error mapping, nothing else.
type Handler struct {
	games   *app.GameService
	catalog *app.CatalogService
	users   *app.UserService
	stats   *app.StatsService
	log     *zap.Logger
}

func NewHandler(games *app.GameService, catalog *app.CatalogService, users *app.UserService, stats *app.StatsService, log *zap.Logger) *Handler {
	return &Handler{games: games, catalog: catalog, users: users, stats: stats, log: log}
}

// Register mounts every route on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", h.createUser)
	mux.HandleFunc("POST /games", h.startGame)
	mux.HandleFunc("GET /games/{id}", h.gameState)
	mux.HandleFunc("PUT /games/{id}/answer", h.answer)
	mux.HandleFunc("GET /games/{id}/clue", h.clue)
	mux.HandleFunc("DELETE /games/{id}", h.cancelGame)
	mux.HandleFunc("GET /games/{id}/history", h.gameHistory)
	mux.HandleFunc("POST /questions", h.createQuestion)
	mux.HandleFunc("GET /questions/any", h.anyQuestion)
	mux.HandleFunc("POST /questions/{id}/check", h.checkAnswer)
	mux.HandleFunc("GET /users/{name}/summaries", h.userSummaries)
	mux.HandleFunc("GET /users/{name}/detail", h.userDetail)
	mux.HandleFunc("GET /users/{name}/games", h.userGames)
	mux.HandleFunc("GET /users/{name}/score", h.userScore)
	mux.HandleFunc("GET /scores/high", h.highScores)
	mux.HandleFunc("GET /rankings", h.rankings)
	mux.HandleFunc("GET /stats/average-correct", h.averageCorrect)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.badRequest(w, "name is required")
		return
	}
	user, err := h.users.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, messageResponse{Message: "User " + user.Name + " created!"})
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		Rounds   int    `json:"rounds"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserName == "" {
		h.badRequest(w, "userName is required")
		return
	}
	state, err := h.games.Start(r.Context(), req.UserName, req.Rounds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, state)
}

func (h *Handler) gameState(w http.ResponseWriter, r *http.Request) {
	state, err := h.games.State(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	state, err := h.games.Answer(r.Context(), r.PathValue("id"), req.Answer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) clue(w http.ResponseWriter, r *http.Request) {
	clue, err := h.games.Clue(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: clue})
}

func (h *Handler) cancelGame(w http.ResponseWriter, r *http.Request) {
	err := h.games.Cancel(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrGameOver) {
		h.writeJSON(w, http.StatusConflict, messageResponse{Message: "Game is over, cannot cancel!"})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Game cancelled!"})
}

func (h *Handler) gameHistory(w http.ResponseWriter, r *http.Request) {
	detail, err := h.games.History(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string   `json:"text"`
		Correct string   `json:"correct"`
		Wrong   []string `json:"wrong"`
		Clues   []string `json:"clues"`
		Value   int      `json:"value"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Text == "" || req.Correct == "" || len(req.Wrong) != 3 || len(req.Clues) != domain.MaxClues {
		h.badRequest(w, "a question needs text, a correct answer, 3 distractors and 2 clues")
		return
	}
	question, err := h.catalog.CreateQuestion(r.Context(), req.Text, req.Correct, req.Wrong, req.Clues, req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) anyQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.catalog.AnyQuestion(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		ID      string   `json:"id"`
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}{question.ID, question.Text, question.AnswerOptions()})
}

func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	correct, err := h.catalog.CheckAnswer(r.Context(), r.PathValue("id"), req.Answer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		Correct bool `json:"correct"`
	}{correct})
}

func (h *Handler) userSummaries(w http.ResponseWriter, r *http.Request) {
	views, err := h.games.UserSummaries(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) userDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.games.UserDetail(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) userGames(w http.ResponseWriter, r *http.Request) {
	states, err := h.games.ActiveGames(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, states)
}

func (h *Handler) userScore(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.UserScore(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) highScores(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	views, err := h.games.HighScores(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) rankings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.games.Rankings(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) averageCorrect(w http.ResponseWriter, r *http.Request) {
	avg, ok, err := h.stats.Average(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		Average  float64 `json:"average"`
		Computed bool    `json:"computed"`
	}{avg, ok})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: message})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrTurnNotFound),
		errors.Is(err, domain.ErrScoreNotFound),
		errors.Is(err, domain.ErrSummaryNotFound):
		h.writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrEmptyCatalog):
		h.writeJSON(w, http.StatusConflict, messageResponse{Message: err.Error()})
	default:
		h.log.Error("request failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("write response", zap.Error(err))
	}
}
