package cli

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
	pgstore "trivia-service/internal/infra/postgres"
	redisstore "trivia-service/internal/infra/redis"
	"trivia-service/internal/jobs"
	transport "trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	statsTTL := config.TTLDuration(cfg.Redis.TTL, 0)

	var (
		userRepo     app.UserRepository
		questionRepo app.QuestionRepository
		gameRepo     app.GameRepository
		turnRepo     app.TurnRepository
		scoreRepo    app.ScoreRepository
		summaryRepo  app.SummaryRepository
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		userRepo = pgstore.NewUserRepo(db)
		gameRepo = pgstore.NewGameRepo(db)
		turnRepo = pgstore.NewTurnRepo(db)
		scoreRepo = pgstore.NewScoreRepo(db)
		summaryRepo = pgstore.NewSummaryRepo(db)
		questionRepo = pgstore.NewCatalog(pgstore.NewQuestionLoader(pool), pgstore.NewQuestionRepo(db))
	} else {
		log.Info("no postgres configured, running on in-memory stores")
		userRepo = memory.NewUserStore()
		gameRepo = memory.NewGameStore()
		turnRepo = memory.NewTurnStore()
		scoreRepo = memory.NewScoreStore()
		summaryRepo = memory.NewSummaryStore()
		questionRepo = memory.NewSeededQuestionStore(sampleQuestions())
	}

	// Questions are immutable, so a cache in front of the catalog is always
	// safe. Redis shares it across instances; otherwise it is per-process.
	if redisClient != nil {
		questionRepo = redisstore.NewCatalogCache(redisClient, questionRepo, catalogTTL)
	} else {
		questionRepo = memory.NewCatalogCache(questionRepo, catalogTTL)
	}

	var statsCache app.StatsCache
	if redisClient != nil {
		statsCache = redisstore.NewStatsCache(redisClient, statsTTL)
	} else {
		statsCache = memory.NewStatsCache()
	}

	statsService := app.NewStatsService(gameRepo, turnRepo, statsCache)
	worker := jobs.NewStatsWorker(statsService, log)
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go worker.Run(workerCtx)

	board := app.NewLeaderboardHub()
	gameService := app.NewGameService(
		userRepo, questionRepo, gameRepo, turnRepo, scoreRepo, summaryRepo,
		app.WithStatsNotifier(worker),
		app.WithLeaderboard(board),
	)
	userService := app.NewUserService(userRepo, scoreRepo)
	catalogService := app.NewCatalogService(questionRepo)

	handler := transport.NewHandler(gameService, catalogService, userService, statsService, log)
	wsHandler := transport.NewWSHandler(board, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("GET /ws/leaderboard", wsHandler.ServeLeaderboard)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting trivia service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil || level == "" {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// sampleQuestions provides a small built-in catalog for running without
// Postgres.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:      "q-capital-australia",
			Text:    "What is the capital of Australia?",
			Correct: "Canberra",
			Wrong:   []string{"Sydney", "Melbourne", "Perth"},
			Clues:   []string{"It is not the largest city.", "It was purpose-built as the capital."},
			Value:   domain.DefaultQuestionValue,
		},
		{
			ID:      "q-red-planet",
			Text:    "Which planet is known as the Red Planet?",
			Correct: "Mars",
			Wrong:   []string{"Venus", "Jupiter", "Mercury"},
			Clues:   []string{"It is the fourth planet from the sun.", "It is named after the Roman god of war."},
			Value:   domain.DefaultQuestionValue,
		},
		{
			ID:      "q-longest-river",
			Text:    "What is the longest river in the world?",
			Correct: "The Nile",
			Wrong:   []string{"The Amazon", "The Yangtze", "The Mississippi"},
			Clues:   []string{"It flows north.", "It empties into the Mediterranean."},
			Value:   domain.DefaultQuestionValue,
		},
		{
			ID:      "q-element-o",
			Text:    "Which element has the chemical symbol O?",
			Correct: "Oxygen",
			Wrong:   []string{"Osmium", "Gold", "Oganesson"},
			Clues:   []string{"You are breathing it.", "It makes up about 21% of the atmosphere."},
			Value:   domain.DefaultQuestionValue,
		},
		{
			ID:      "q-mona-lisa",
			Text:    "Who painted the Mona Lisa?",
			Correct: "Leonardo da Vinci",
			Wrong:   []string{"Michelangelo", "Raphael", "Donatello"},
			Clues:   []string{"He was also an inventor.", "He was born in Vinci, Italy."},
			Value:   domain.DefaultQuestionValue,
		},
	}
}
