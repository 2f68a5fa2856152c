package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quiz-arcade/internal/domain"
)

const progressKey = "quiz:progress"

// ProgressStore keeps the progress tracker in one Redis hash, field per player.
// A single HSET per write keeps last-write-wins semantics across instances.
type ProgressStore struct {
	client *redis.Client
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

func (s *ProgressStore) Record(ctx context.Context, record domain.ProgressRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return s.client.HSet(ctx, progressKey, record.PlayerID, raw).Err()
}

func (s *ProgressStore) All(ctx context.Context) (map[string]domain.ProgressRecord, error) {
	fields, err := s.client.HGetAll(ctx, progressKey).Result()
	if err != nil {
		return nil, err
	}
	records := make(map[string]domain.ProgressRecord, len(fields))
	for player, raw := range fields {
		var record domain.ProgressRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("unmarshal progress for %s: %w", player, err)
		}
		record.PlayerID = player
		records[player] = record
	}
	return records, nil
}
