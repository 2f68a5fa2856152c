package memory

import (
	"context"
	"errors"
	"sync"

	"quiz-arcade/internal/app"
)

const maxRoomIDAttempts = 16

// ErrRoomIDExhausted is returned when no free room code could be drawn.
var ErrRoomIDExhausted = errors.New("could not allocate room id")

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
	newID func() string
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.Room),
		newID: app.NewRoomID,
	}
}

func (s *RoomStore) Create(_ context.Context, totalQuestions int) (*app.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < maxRoomIDAttempts; i++ {
		id := s.newID()
		if _, taken := s.rooms[id]; taken {
			continue
		}
		room := app.NewRoom(id, totalQuestions)
		s.rooms[id] = room
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
	}
}
