package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quiz-platform/internal/app"
	"quiz-platform/internal/config"
	"quiz-platform/internal/domain"
	"quiz-platform/internal/infra/memory"
	pgstore "quiz-platform/internal/infra/postgres"
	rediscache "quiz-platform/internal/infra/redis"
	transport "quiz-platform/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz platform server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// userRegistry is a directory that accepts entries from config.
type userRegistry interface {
	app.UserRepository
	PutUser(ctx context.Context, user domain.User) error
}

// quizBackend is both the authoring store and the loader behind the cache.
type quizBackend interface {
	app.QuizStore
	memory.QuizLoader
}

type deps struct {
	quizzes     *app.QuizService
	submissions *app.SubmissionService
	feed        *app.ResultsFeed
	users       userRegistry
	auth        *transport.Authenticator
	close       func()
}

// buildDeps picks postgres or memory storage and redis or memory caching from config.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret not configured")
	}

	var (
		backend     quizBackend
		submissions app.SubmissionStore
		users       userRegistry
		closers     []func()
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pool.Close)
		backend = pgstore.NewQuizStore(pool)
		submissions = pgstore.NewSubmissionStore(pool)
		users = pgstore.NewUserRepository(pool)
	} else {
		log.Printf("postgres not configured, using in-memory storage")
		backend = memory.NewQuizStore()
		submissions = memory.NewSubmissionStore()
		users = memory.NewUserDirectory()
	}

	for _, u := range cfg.Auth.Users {
		role := domain.Role(u.Role)
		if role != domain.RoleRecruiter && role != domain.RoleCandidate {
			return nil, fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
		if err := users.PutUser(ctx, domain.User{ID: u.ID, Username: u.Username, Role: role}); err != nil {
			return nil, err
		}
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
		quizRepo = rediscache.NewQuizRepository(redisClient, backend, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(backend, quizTTL)
	}

	feed := app.NewResultsFeed()
	return &deps{
		quizzes:     app.NewQuizService(backend, quizRepo),
		submissions: app.NewSubmissionService(quizRepo, submissions, users, app.WithPublisher(feed)),
		feed:        feed,
		users:       users,
		auth:        transport.NewAuthenticator(cfg.Auth.Secret, users, tokenTTL(cfg)),
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
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

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.close()

	handler := transport.NewHandler(d.quizzes, d.submissions, d.feed, d.auth)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz platform on :%s", finalPort)
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
