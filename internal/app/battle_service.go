package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"quiz-arcade/internal/domain"
)

// DefaultBattleQuestions is used when a room is created without a question total.
const DefaultBattleQuestions = 10

// RoomRepository abstracts how battle rooms are stored (in-memory, Redis, etc).
type RoomRepository interface {
	Create(ctx context.Context, totalQuestions int) (*Room, error)
	Get(roomID string) (*Room, bool)
	DeleteIfEmpty(roomID string)
}

// BattleService contains the battle room use cases.
type BattleService struct {
	rooms RoomRepository
}

func NewBattleService(rooms RoomRepository) *BattleService {
	return &BattleService{rooms: rooms}
}

// NewRoomID returns a short upper-case room code players can share.
func NewRoomID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// CreateRoom opens an empty room racing over totalQuestions answers.
func (s *BattleService) CreateRoom(ctx context.Context, totalQuestions int) (string, error) {
	if totalQuestions <= 0 {
		totalQuestions = DefaultBattleQuestions
	}
	room, err := s.rooms.Create(ctx, totalQuestions)
	if err != nil {
		return "", err
	}
	return room.ID(), nil
}

// RoomState returns the current players and status of a room.
func (s *BattleService) RoomState(_ context.Context, roomID string) (domain.RoomState, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}
	return room.State(), nil
}

// Join registers or refreshes a participant in a room.
func (s *BattleService) Join(_ context.Context, roomID, userID, username, avatar string) (domain.RoomEvent, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomEvent{}, domain.ErrRoomNotFound
	}
	return room.join(userID, username, avatar), nil
}

// SubmitAnswer moves a participant forward on a correct answer.
func (s *BattleService) SubmitAnswer(_ context.Context, roomID, userID string, correct bool) (domain.RoomEvent, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomEvent{}, domain.ErrRoomNotFound
	}
	return room.answer(userID, correct)
}

// StartBattle marks the room as started and notifies every subscriber.
func (s *BattleService) StartBattle(_ context.Context, roomID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.start()
	return nil
}

// Subscribe returns a channel that receives room events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *BattleService) Subscribe(_ context.Context, roomID string) (<-chan domain.RoomEvent, func(), error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	ch, cancel := room.subscribe()
	return ch, cancel, nil
}

// Leave removes a participant from the room and drops the room if empty.
func (s *BattleService) Leave(_ context.Context, roomID, userID string) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	room.leave(userID)
	if room.isEmpty() {
		s.rooms.DeleteIfEmpty(roomID)
	}
}
