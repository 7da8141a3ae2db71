package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-platform/internal/domain"
)

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches quizzes in Redis and falls back to a loader on cache miss.
// Each quiz, questions included, is stored as JSON: SET quiz:{quizID} {json} EX ttl
// Invalidate bumps quiz:{quizID}:gen; a fill only lands if the generation it
// read before loading is still current.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		gen, genErr := r.generation(ctx, r.client, quizID)

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if genErr != nil {
			return quiz, nil
		}

		if data, err := json.Marshal(quiz); err == nil {
			// best-effort fill; a failed write only costs a reload
			_ = r.fill(ctx, quizID, gen, data)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate removes a cached quiz after its content changed.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	r.sf.Forget(quizID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(quizID))
		pipe.Del(ctx, r.key(quizID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate quiz: %w", err)
	}
	return nil
}

// fill writes the quiz only while the generation is still gen. A concurrent
// Invalidate either changes the generation or aborts the transaction.
func (r *QuizRepository) fill(ctx context.Context, quizID string, gen int64, data []byte) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.generation(ctx, tx, quizID)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(quizID), data, r.ttlWithJitter())
			return nil
		})
		return err
	}, r.genKey(quizID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *QuizRepository) generation(ctx context.Context, c stringGetter, quizID string) (int64, error) {
	gen, err := c.Get(ctx, r.genKey(quizID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get quiz generation: %w", err)
	}
	return gen, nil
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) key(quizID string) string {
	return "quiz:" + quizID
}

func (r *QuizRepository) genKey(quizID string) string {
	return r.key(quizID) + ":gen"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
