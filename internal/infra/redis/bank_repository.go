package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-arcade/internal/domain"
)

// BankLoader fetches question banks from a backing store (YAML file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

const (
	titleField     = "title"
	questionPrefix = "q:"
)

// BankRepository caches question banks in Redis (hash per bank) and falls back to a loader on cache miss.
// Layout: HSET quiz:bank:{bankID} title {title} q:{index} {question JSON}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	if bank, ok := r.cached(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.QuestionBank{}, err
		}
		if err := bank.Validate(); err != nil {
			return domain.QuestionBank{}, err
		}

		fields := map[string]interface{}{titleField: bank.Title}
		for i, q := range bank.Questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return domain.QuestionBank{}, fmt.Errorf("marshal question: %w", err)
			}
			fields[questionPrefix+strconv.Itoa(i)] = raw
		}

		key := r.key(bankID)
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// best-effort: a failed fill only costs a reload next time
		_, _ = pipe.Exec(ctx)

		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *BankRepository) cached(ctx context.Context, bankID string) (domain.QuestionBank, bool) {
	fields, err := r.client.HGetAll(ctx, r.key(bankID)).Result()
	if err != nil || len(fields) == 0 {
		return domain.QuestionBank{}, false
	}
	bank, err := buildBankFromCache(bankID, fields)
	if err != nil {
		return domain.QuestionBank{}, false
	}
	return bank, true
}

func (r *BankRepository) key(bankID string) string {
	return "quiz:bank:" + bankID
}

func buildBankFromCache(bankID string, fields map[string]string) (domain.QuestionBank, error) {
	type indexed struct {
		index    int
		question domain.Question
	}
	items := make([]indexed, 0, len(fields))
	for field, value := range fields {
		if !strings.HasPrefix(field, questionPrefix) {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(field, questionPrefix))
		if err != nil {
			return domain.QuestionBank{}, fmt.Errorf("bad cache field %q: %w", field, err)
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(value), &q); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("unmarshal question %d: %w", index, err)
		}
		items = append(items, indexed{index: index, question: q})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })

	questions := make([]domain.Question, len(items))
	for i, item := range items {
		if item.index != i {
			return domain.QuestionBank{}, fmt.Errorf("cache for %s missing question %d", bankID, i)
		}
		questions[i] = item.question
	}
	return domain.QuestionBank{ID: bankID, Title: fields[titleField], Questions: questions}, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
