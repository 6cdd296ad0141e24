package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/config"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/infra/memory"
	pgstore "quiz-session-service/internal/infra/postgres"
	rediscache "quiz-session-service/internal/infra/redis"
	transport "quiz-session-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	var catalog app.CatalogRepository
	var sessions app.SessionRepository
	var responses app.ResponseRepository

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := pgstore.NewStore(pool)
		catalog, sessions, responses = store, store, store
	} else {
		log.Printf("no postgres configured, using in-memory store with demo catalog")
		store := memory.NewStore(demoCatalog())
		catalog, sessions, responses = store, store, store
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		catalogTTL := config.TTLDuration(cfg.Quiz.CatalogTTL, 10*time.Minute)
		catalog = rediscache.NewCatalogCache(redisClient, catalog, catalogTTL)
	}

	service := app.NewQuizService(catalog, sessions, responses).
		WithSubsetSize(cfg.Quiz.SubsetSize)
	router := transport.NewRouter(service, transport.BasicAuth{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// demoCatalog backs the in-memory mode with one question of each type; the
// full seeded catalog lives in the Postgres migrations.
func demoCatalog() []domain.Question {
	return []domain.Question{
		{
			ID: 1, OrderNo: 1, Text: "What is the capital of France?",
			Type: domain.SingleChoice, CorrectAnswer: "1",
			Options: []domain.Option{
				{ID: 1, QuestionID: 1, Text: "Paris"},
				{ID: 2, QuestionID: 1, Text: "London"},
				{ID: 3, QuestionID: 1, Text: "Berlin"},
				{ID: 4, QuestionID: 1, Text: "Madrid"},
			},
		},
		{
			ID: 2, OrderNo: 2, Text: "Which of the following are programming languages?",
			Type: domain.MultipleChoice, CorrectAnswer: "5,6,7",
			Options: []domain.Option{
				{ID: 5, QuestionID: 2, Text: "C#"},
				{ID: 6, QuestionID: 2, Text: "Python"},
				{ID: 7, QuestionID: 2, Text: "JavaScript"},
				{ID: 8, QuestionID: 2, Text: "Photoshop"},
			},
		},
		{ID: 3, OrderNo: 3, Text: "What does HTML stand for?", Type: domain.ShortAnswer},
		{ID: 4, OrderNo: 4, Text: "Enter your phone number", Type: domain.PhoneNumber},
		{ID: 5, OrderNo: 5, Text: "Explain the concept of Object-Oriented Programming in detail.", Type: domain.LongAnswer},
	}
}
