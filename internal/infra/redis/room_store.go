package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-arcade/internal/app"
)

const maxRoomIDAttempts = 16

// ErrRoomIDExhausted is returned when no free room code could be reserved.
var ErrRoomIDExhausted = errors.New("could not allocate room id")

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Rooms and their broadcast state live in a local map; players connect to
//     the instance that owns the room.
//   - Redis reserves room codes with SETNX so two instances never hand out the
//     same code, and marks liveness until the room empties or the TTL lapses.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	newID  func() string
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		newID:  app.NewRoomID,
		rooms:  make(map[string]*app.Room),
	}
}

func (s *RoomStore) Create(ctx context.Context, totalQuestions int) (*app.Room, error) {
	for i := 0; i < maxRoomIDAttempts; i++ {
		id := s.newID()
		reserved, err := s.client.SetNX(ctx, s.key(id), totalQuestions, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("reserve room id: %w", err)
		}
		if !reserved {
			continue
		}

		room := app.NewRoom(id, totalQuestions)
		s.mu.Lock()
		s.rooms[id] = room
		s.mu.Unlock()
		return room, nil
	}
	return nil, ErrRoomIDExhausted
}

func (s *RoomStore) Get(roomID string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

func (s *RoomStore) DeleteIfEmpty(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return
	}
	if room.IsEmpty() {
		delete(s.rooms, roomID)
		_ = s.client.Del(context.Background(), s.key(roomID)).Err()
	}
}

func (s *RoomStore) key(roomID string) string {
	return "quiz:room:" + roomID
}
