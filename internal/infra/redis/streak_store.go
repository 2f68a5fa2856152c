package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"quiz-arcade/internal/domain"
)

const (
	streakKey      = "quiz:streak"
	maxTxAttempts  = 10
	fieldUser1Date = "user1_last_date"
	fieldUser2Date = "user2_last_date"
	fieldCount     = "streak_count"
	fieldCounted   = "last_streak_date"
)

// ErrStreakContention is returned when the optimistic transaction keeps losing races.
var ErrStreakContention = errors.New("streak update contended")

// StreakStore keeps the streak record in a Redis hash and applies updates with WATCH/MULTI.
type StreakStore struct {
	client *redis.Client
}

func NewStreakStore(client *redis.Client) *StreakStore {
	return &StreakStore{client: client}
}

func (s *StreakStore) Get(ctx context.Context) (domain.StreakState, error) {
	fields, err := s.client.HGetAll(ctx, streakKey).Result()
	if err != nil {
		return domain.StreakState{}, err
	}
	return decodeStreak(fields), nil
}

func (s *StreakStore) Update(ctx context.Context, fn func(*domain.StreakState)) (domain.StreakState, error) {
	var state domain.StreakState
	txf := func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, streakKey).Result()
		if err != nil {
			return err
		}
		state = decodeStreak(fields)
		fn(&state)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, streakKey, encodeStreak(state))
			return nil
		})
		return err
	}

	for i := 0; i < maxTxAttempts; i++ {
		err := s.client.Watch(ctx, txf, streakKey)
		if err == nil {
			return state, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.StreakState{}, err
	}
	return domain.StreakState{}, fmt.Errorf("%w after %d attempts", ErrStreakContention, maxTxAttempts)
}

func (s *StreakStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, streakKey).Err()
}

func decodeStreak(fields map[string]string) domain.StreakState {
	count, _ := strconv.Atoi(fields[fieldCount])
	return domain.StreakState{
		User1LastDate:  fields[fieldUser1Date],
		User2LastDate:  fields[fieldUser2Date],
		StreakCount:    count,
		LastStreakDate: fields[fieldCounted],
	}
}

func encodeStreak(state domain.StreakState) map[string]interface{} {
	return map[string]interface{}{
		fieldUser1Date: state.User1LastDate,
		fieldUser2Date: state.User2LastDate,
		fieldCount:     state.StreakCount,
		fieldCounted:   state.LastStreakDate,
	}
}
