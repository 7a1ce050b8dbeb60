// Package lobby manages the set of live rooms: creation, joining, restart
// recovery and the inactivity sweep.
package lobby

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"truco-lite/internal/room"
	"truco-lite/truco"
	"truco-lite/truco/bot"
)

const (
	defaultSweepTTL      = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

// CreateOptions shape a new game.
type CreateOptions struct {
	// Bots names the persona IDs filling the non-owner seats. Unknown or
	// missing entries fall back to registry defaults.
	Bots        []string
	NoveVariant bool
}

type Lobby struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room

	deps     room.Deps
	sweepTTL time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func sweepTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SWEEP_TTL"))
	if raw == "" {
		return defaultSweepTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return defaultSweepTTL
	}
	return ttl
}

// New creates a lobby and starts its sweeper.
func New(deps room.Deps) *Lobby {
	l := &Lobby{
		rooms:    make(map[string]*room.Room),
		deps:     deps,
		sweepTTL: sweepTTLFromEnv(),
		done:     make(chan struct{}),
	}
	go l.sweeper()
	return l
}

// CreateGame opens a room with the owner at seat 0 and bots in the rest.
// Humans can still take bot seats until the owner starts the game.
func (l *Lobby) CreateGame(ownerID uint64, nickname string, opts CreateOptions) (*room.Room, error) {
	gameID := uuid.NewString()

	var seats [truco.NumSeats]truco.SeatSpec
	var bots [truco.NumSeats]*bot.Instance

	seats[0] = truco.SeatSpec{ID: ownerID, Name: nickname}
	for seat := 1; seat < truco.NumSeats; seat++ {
		persona := l.pickPersona(opts.Bots, seat-1)
		inst := l.deps.BotManager.Spawn(seat, persona)
		bots[seat] = inst
		seats[seat] = truco.SeatSpec{ID: inst.PlayerID, Name: persona.Name, Robot: true}
	}

	game, err := truco.NewGame(gameID, truco.Config{NoveVariant: opts.NoveVariant}, seats)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	r := room.New(room.Config{Truco: truco.Config{NoveVariant: opts.NoveVariant}}, game, bots, l.deps)
	r.MarkOnline(ownerID)

	l.mu.Lock()
	l.rooms[gameID] = r
	l.mu.Unlock()

	log.Printf("[Lobby] User %d created game %s", ownerID, gameID)
	return r, nil
}

func (l *Lobby) pickPersona(requested []string, idx int) *bot.Persona {
	registry := l.deps.BotManager.Registry()
	if idx < len(requested) {
		if p := registry.Get(requested[idx]); p != nil {
			return p
		}
	}
	all := registry.All()
	if len(all) == 0 {
		// Empty registry is a deployment mistake; play on with a blank.
		return &bot.Persona{ID: "anon", Name: "Anon"}
	}
	return all[idx%len(all)]
}

// JoinGame seats a human into an open (bot) seat of a waiting game.
func (l *Lobby) JoinGame(gameID string, userID uint64, nickname string) (*room.Room, int, error) {
	r := l.Room(gameID)
	if r == nil {
		return nil, truco.SeatInvalid, fmt.Errorf("game %s not found", gameID)
	}
	seat, err := r.TakeSeat(userID, nickname)
	if err != nil {
		return nil, truco.SeatInvalid, err
	}
	log.Printf("[Lobby] User %d joined game %s at seat %d", userID, gameID, seat)
	return r, seat, nil
}

// Room returns a live room by game ID.
func (l *Lobby) Room(gameID string) *room.Room {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rooms[gameID]
}

// RoomOf finds the live room a user occupies, if any.
func (l *Lobby) RoomOf(userID uint64) (*room.Room, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.rooms {
		if seat, ok := r.SeatOf(userID); ok {
			return r, seat
		}
	}
	return nil, truco.SeatInvalid
}

// ListGames returns all live game IDs.
func (l *Lobby) ListGames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.rooms))
	for id := range l.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Restore re-opens rooms for every game the store still holds, typically
// at boot. Bot seats come back with fresh brains; completed games are
// left for the sweeper.
func (l *Lobby) Restore(ctx context.Context) error {
	if l.deps.Store == nil {
		return nil
	}
	states, err := l.deps.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	restored := 0
	for _, st := range states {
		if st.Status == truco.StatusCompleted {
			continue
		}
		if l.Room(st.ID) != nil {
			continue
		}
		game, err := truco.Restore(st)
		if err != nil {
			log.Printf("[Lobby] restore %s failed: %v", st.ID, err)
			continue
		}

		var bots [truco.NumSeats]*bot.Instance
		for seat, ps := range st.Players {
			if !ps.Robot {
				continue
			}
			persona := l.deps.BotManager.Registry().Get(strings.ToLower(ps.Name))
			if persona == nil {
				persona = l.pickPersona(nil, seat)
			}
			bots[seat] = l.deps.BotManager.Spawn(seat, persona)
		}

		r := room.New(room.Config{Truco: st.Config}, game, bots, l.deps)

		l.mu.Lock()
		l.rooms[st.ID] = r
		l.mu.Unlock()
		restored++
	}
	if restored > 0 {
		log.Printf("[Lobby] Restored %d game(s) from store", restored)
	}
	return nil
}

func (l *Lobby) sweeper() {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

// sweep closes rooms nobody is using and reaps their stored state.
func (l *Lobby) sweep() {
	l.mu.Lock()
	var reaped []string
	for id, r := range l.rooms {
		if !r.IsIdleFor(l.sweepTTL) {
			continue
		}
		r.Close()
		delete(l.rooms, id)
		reaped = append(reaped, id)
	}
	l.mu.Unlock()

	if l.deps.Store == nil {
		for _, id := range reaped {
			log.Printf("[Lobby] Reaped idle game %s", id)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stored games with no live room (completed games skipped at restore,
	// leftovers from a previous process) go stale in the store; reap those
	// past the TTL too.
	seen := make(map[string]bool, len(reaped))
	for _, id := range reaped {
		seen[id] = true
	}
	if stale, err := l.deps.Store.ListIdle(ctx, time.Now().Add(-l.sweepTTL)); err == nil {
		for _, id := range stale {
			if !seen[id] && l.Room(id) == nil {
				reaped = append(reaped, id)
			}
		}
	} else {
		log.Printf("[Lobby] idle listing failed: %v", err)
	}

	for _, id := range reaped {
		if err := l.deps.Store.Delete(ctx, id); err != nil {
			log.Printf("[Lobby] reap %s: delete failed: %v", id, err)
			continue
		}
		log.Printf("[Lobby] Reaped idle game %s", id)
	}
}

// Stop halts the sweeper and closes every room.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, r := range l.rooms {
		r.Close()
		delete(l.rooms, id)
	}
}
