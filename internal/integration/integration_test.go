package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
	pgstore "quiz-platform/internal/infra/postgres"
	pgmigrations "quiz-platform/internal/infra/postgres/migrations"
	infraredis "quiz-platform/internal/infra/redis"
)

func TestSubmitAndStatisticsEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	users := pgstore.NewUserRepository(pool)
	for _, u := range []domain.User{
		{ID: "r1", Username: "recruiter1", Role: domain.RoleRecruiter},
		{ID: "c1", Username: "candidate1", Role: domain.RoleCandidate},
		{ID: "c2", Username: "candidate2", Role: domain.RoleCandidate},
	} {
		if err := users.PutUser(ctx, u); err != nil {
			t.Fatalf("put user: %v", err)
		}
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	quizStore := pgstore.NewQuizStore(pool)
	quizRepo := infraredis.NewQuizRepository(redisClient, quizStore, 5*time.Minute)
	quizzes := app.NewQuizService(quizStore, quizRepo)
	clock := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	submissions := app.NewSubmissionService(quizRepo, pgstore.NewSubmissionStore(pool), users, app.WithClock(tick))

	quiz, err := quizzes.CreateQuiz(ctx, "r1", domain.Quiz{Title: "Labels", DurationMinutes: 10})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	ids := make(map[string]string)
	for _, label := range []string{"A", "B", "C", "D"} {
		q, err := quizzes.AddQuestion(ctx, "r1", quiz.ID, domain.Question{
			Text: "Pick " + label, OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: label,
		})
		if err != nil {
			t.Fatalf("add question: %v", err)
		}
		ids[label] = q.ID
	}

	first, err := submissions.Submit(ctx, quiz.ID, "c1", domain.AnswerSet{ids["A"]: "A", ids["B"]: "B", ids["C"]: "X"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.Score != 2 || first.TotalQuestions != 4 || first.Percentage != 50 {
		t.Fatalf("expected 2/4 = 50%%, got %+v", first)
	}
	if _, err := submissions.Submit(ctx, quiz.ID, "c2", domain.AnswerSet{ids["A"]: "A", ids["B"]: "B", ids["C"]: "C", ids["D"]: "D"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	results, err := submissions.RecruiterQuizResults(ctx, "r1", quiz.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results.Submissions) != 2 || results.AveragePercentage != 75 || results.HighestPercentage != 100 || results.LowestPercentage != 50 {
		t.Fatalf("unexpected results %+v", results)
	}

	latest, err := submissions.Submit(ctx, quiz.ID, "c1", domain.AnswerSet{ids["A"]: "A", ids["B"]: "B", ids["C"]: "C", ids["D"]: "D"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if latest.ID == first.ID {
		t.Fatalf("expected a new submission record on resubmit")
	}

	if err := quizzes.DeleteQuiz(ctx, "r1", quiz.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	history, err := submissions.CandidateHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Submissions) != 2 || history.AveragePercentage != 75 || history.BestPercentage != 100 {
		t.Fatalf("expected submissions to survive quiz deletion, got %+v", history)
	}
	if history.Submissions[0].ID != latest.ID || history.Submissions[1].ID != first.ID {
		t.Fatalf("expected most recent submission first, got %+v", history.Submissions)
	}
	if _, err := submissions.Submit(ctx, quiz.ID, "c1", nil); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found after delete, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
