package app

import (
	"sort"
	"sync"
	"time"

	"quiz-arcade/internal/domain"
)

const defaultBattleAvatar = "🐼"

// Room is an in-memory battle between players racing to answer totalQuestions correctly.
type Room struct {
	id             string
	totalQuestions int
	createdAt      time.Time
	now            func() time.Time
	mu             sync.RWMutex
	players        map[string]*domain.Player
	conns          map[string]int
	started        bool
	winner         *domain.Player
	subscribers    map[chan domain.RoomEvent]struct{}
}

// NewRoom is exported for infrastructure layers that need to seed rooms.
func NewRoom(id string, totalQuestions int) *Room {
	return NewRoomWithClock(id, totalQuestions, time.Now)
}

// NewRoomWithClock is test-only for deterministic timestamps.
func NewRoomWithClock(id string, totalQuestions int, now func() time.Time) *Room {
	return &Room{
		id:             id,
		totalQuestions: totalQuestions,
		createdAt:      now(),
		now:            now,
		players:        make(map[string]*domain.Player),
		conns:          make(map[string]int),
		subscribers:    make(map[chan domain.RoomEvent]struct{}),
	}
}

// ID returns the room code.
func (r *Room) ID() string {
	return r.id
}

// State returns a polling snapshot of the room.
func (r *Room) State() domain.RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.RoomState{
		RoomID:         r.id,
		Players:        r.playersLocked(),
		TotalQuestions: r.totalQuestions,
		Started:        r.started,
		CreatedAt:      r.createdAt,
	}
}

func (r *Room) join(userID, username, avatar string) domain.RoomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if avatar == "" {
		avatar = defaultBattleAvatar
	}
	r.conns[userID]++
	now := r.now()
	if player, ok := r.players[userID]; ok {
		player.Username = username
		player.Avatar = avatar
		player.LastUpdated = now
	} else {
		r.players[userID] = &domain.Player{
			UserID:      userID,
			Username:    username,
			Avatar:      avatar,
			Score:       0,
			Total:       r.totalQuestions,
			LastUpdated: now,
		}
	}
	return r.broadcastLocked(r.eventLocked(domain.EventRoomUpdate))
}

func (r *Room) answer(userID string, correct bool) (domain.RoomEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[userID]
	if !ok {
		return domain.RoomEvent{}, domain.ErrParticipantNotFound
	}
	if correct && player.Score < player.Total {
		player.Score++
		player.LastUpdated = r.now()
	}

	ev := r.broadcastLocked(r.eventLocked(domain.EventProgressUpdate))

	if player.Score >= player.Total && r.winner == nil {
		winner := *player
		r.winner = &winner
		finished := r.eventLocked(domain.EventBattleFinished)
		finished.Winner = &winner
		r.broadcastLocked(finished)
	}
	return ev, nil
}

func (r *Room) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.broadcastLocked(domain.RoomEvent{Type: domain.EventBattleStarted})
}

// leave drops one connection of userID; the player stays while another
// connection for the same user is still open.
func (r *Room) leave(userID string) domain.RoomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] > 1 {
		r.conns[userID]--
		return r.eventLocked(domain.EventRoomUpdate)
	}
	delete(r.conns, userID)
	delete(r.players, userID)
	return r.broadcastLocked(r.eventLocked(domain.EventRoomUpdate))
}

func (r *Room) isEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) == 0
}

// IsEmpty reports whether the room has no players.
func (r *Room) IsEmpty() bool {
	return r.isEmpty()
}

func (r *Room) subscribe() (<-chan domain.RoomEvent, func()) {
	ch := make(chan domain.RoomEvent, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	ch <- r.eventLocked(domain.EventRoomUpdate)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Room) broadcastLocked(ev domain.RoomEvent) domain.RoomEvent {
	for ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop its oldest event instead of blocking the room.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	return ev
}

func (r *Room) eventLocked(eventType string) domain.RoomEvent {
	return domain.RoomEvent{
		Type:           eventType,
		Players:        r.playersLocked(),
		TotalQuestions: r.totalQuestions,
	}
}

// playersLocked orders players by score, then who reached it first, then name.
func (r *Room) playersLocked() []domain.Player {
	players := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		if !players[i].LastUpdated.Equal(players[j].LastUpdated) {
			return players[i].LastUpdated.Before(players[j].LastUpdated)
		}
		return players[i].Username < players[j].Username
	})
	return players
}
