package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-arcade/internal/domain"
)

// BankLoader fetches question banks from a backing store (static map, YAML file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// BankRepository keeps validated question banks in process memory for ttl
// (plus up to 10% jitter). Concurrent misses for one bank share a single load,
// and every caller receives its own copy of the bank.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	loads  singleflight.Group

	jitterMu sync.Mutex
	rnd      *rand.Rand

	mu    sync.RWMutex
	banks map[string]cachedBank
}

type cachedBank struct {
	bank      domain.QuestionBank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		banks:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	if bank, ok := r.cached(bankID); ok {
		return bank.Clone(), nil
	}

	result, err, _ := r.loads.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.cached(bankID); ok {
			return bank, nil
		}
		bank, err := r.load(ctx, bankID)
		if err != nil {
			return domain.QuestionBank{}, err
		}
		r.store(bankID, bank)
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank).Clone(), nil
}

// load fetches bankID and checks it can be played: an ID, at least one
// question, and every question answerable.
func (r *BankRepository) load(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	bank, err := r.loader.LoadBank(ctx, bankID)
	if err != nil {
		return domain.QuestionBank{}, err
	}
	if bank.ID == "" {
		bank.ID = bankID
	}
	if bank.Size() == 0 {
		return domain.QuestionBank{}, fmt.Errorf("%w: bank %s has no questions", domain.ErrInvalidQuestion, bankID)
	}
	if err := bank.Validate(); err != nil {
		return domain.QuestionBank{}, err
	}
	return bank, nil
}

func (r *BankRepository) store(bankID string, bank domain.QuestionBank) {
	expiresAt := r.clock().Add(r.ttlWithJitter())
	r.mu.Lock()
	r.banks[bankID] = cachedBank{bank: bank, expiresAt: expiresAt}
	r.mu.Unlock()
}

func (r *BankRepository) cached(bankID string) (domain.QuestionBank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.banks[bankID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.QuestionBank{}, false
	}
	return entry.bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.jitterMu.Lock()
	defer r.jitterMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(int64(r.ttl)/10+1))
}

// StaticBankLoader is a loader backed by an in-memory map (built-in banks, tests).
type StaticBankLoader struct {
	banks map[string]domain.QuestionBank
}

func NewStaticBankLoader(banks map[string]domain.QuestionBank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.QuestionBank{}, domain.ErrBankNotFound
}
