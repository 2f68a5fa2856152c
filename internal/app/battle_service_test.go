package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/domain"
	"quiz-arcade/internal/infra/memory"
)

func TestBattleScoringCapsAtTotal(t *testing.T) {
	ctx := context.Background()
	service := app.NewBattleService(memory.NewRoomStore())
	roomID, err := service.CreateRoom(ctx, 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := service.Join(ctx, roomID, "u1", "Alice", ""); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := service.Join(ctx, roomID, "u2", "Bob", "🦊"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	var ev domain.RoomEvent
	for i := 0; i < 4; i++ {
		ev, err = service.SubmitAnswer(ctx, roomID, "u2", true)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if ev.Players[0].UserID != "u2" || ev.Players[0].Score != 2 {
		t.Fatalf("expected Bob to lead capped at 2, got %+v", ev.Players[0])
	}
	if ev.Players[1].Avatar != "🐼" {
		t.Fatalf("expected default avatar, got %q", ev.Players[1].Avatar)
	}

	if _, err := service.SubmitAnswer(ctx, roomID, "ghost", true); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestBattleFinishedOnce(t *testing.T) {
	ctx := context.Background()
	service := app.NewBattleService(memory.NewRoomStore())
	roomID, _ := service.CreateRoom(ctx, 1)
	service.Join(ctx, roomID, "u1", "Alice", "")
	service.Join(ctx, roomID, "u2", "Bob", "")

	ch, cancel, err := service.Subscribe(ctx, roomID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()
	<-ch // initial snapshot

	if err := service.StartBattle(ctx, roomID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	service.SubmitAnswer(ctx, roomID, "u1", true)
	service.SubmitAnswer(ctx, roomID, "u2", true)

	var types []string
	var winner *domain.Player
	timeout := time.After(2 * time.Second)
	for len(types) < 4 {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
			if ev.Type == domain.EventBattleFinished {
				winner = ev.Winner
			}
		case <-timeout:
			t.Fatalf("timed out, got %v", types)
		}
	}

	want := []string{domain.EventBattleStarted, domain.EventProgressUpdate, domain.EventBattleFinished, domain.EventProgressUpdate}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, types)
		}
	}
	if winner == nil || winner.UserID != "u1" {
		t.Fatalf("expected Alice to win, got %+v", winner)
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %s", ev.Type)
	default:
	}
}

func TestBattleRoomRemovedWhenEmpty(t *testing.T) {
	ctx := context.Background()
	service := app.NewBattleService(memory.NewRoomStore())
	roomID, _ := service.CreateRoom(ctx, 0)

	state, err := service.RoomState(ctx, roomID)
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if state.TotalQuestions != app.DefaultBattleQuestions {
		t.Fatalf("expected default total, got %d", state.TotalQuestions)
	}

	service.Join(ctx, roomID, "u1", "Alice", "")
	service.Join(ctx, roomID, "u2", "Bob", "")
	service.Leave(ctx, roomID, "u1")
	if _, err := service.RoomState(ctx, roomID); err != nil {
		t.Fatalf("room should survive while Bob remains: %v", err)
	}
	service.Leave(ctx, roomID, "u2")
	if _, err := service.RoomState(ctx, roomID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomOrdersTiesByArrival(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	room := app.NewRoomWithClock("ROOM01", 3, func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	service := app.NewBattleService(singleRoom{room})

	service.Join(ctx, "ROOM01", "u1", "Zed", "")
	service.Join(ctx, "ROOM01", "u2", "Amy", "")
	service.SubmitAnswer(ctx, "ROOM01", "u1", true)
	service.SubmitAnswer(ctx, "ROOM01", "u2", true)

	state := room.State()
	if !state.CreatedAt.Equal(time.Date(2026, 10, 19, 12, 0, 1, 0, time.UTC)) {
		t.Fatalf("unexpected creation time %v", state.CreatedAt)
	}
	if state.Players[0].UserID != "u1" {
		t.Fatalf("expected first to reach score 1 to lead, got %+v", state.Players)
	}
}

type singleRoom struct{ room *app.Room }

func (s singleRoom) Create(context.Context, int) (*app.Room, error) { return s.room, nil }

func (s singleRoom) Get(roomID string) (*app.Room, bool) {
	return s.room, roomID == s.room.ID()
}

func (s singleRoom) DeleteIfEmpty(string) {}

func TestBattleSecondConnectionKeepsPlayer(t *testing.T) {
	ctx := context.Background()
	service := app.NewBattleService(memory.NewRoomStore())
	roomID, _ := service.CreateRoom(ctx, 3)

	// Same user in two tabs.
	service.Join(ctx, roomID, "u1", "Alice", "")
	service.Join(ctx, roomID, "u1", "Alice", "")

	service.Leave(ctx, roomID, "u1")
	state, err := service.RoomState(ctx, roomID)
	if err != nil {
		t.Fatalf("room should survive while a connection remains: %v", err)
	}
	if len(state.Players) != 1 || state.Players[0].UserID != "u1" {
		t.Fatalf("expected Alice to remain, got %+v", state.Players)
	}

	service.Leave(ctx, roomID, "u1")
	if _, err := service.RoomState(ctx, roomID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound after last connection, got %v", err)
	}
}
