package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"truco-lite/internal/bus"
	"truco-lite/internal/store"
	"truco-lite/truco"
	"truco-lite/truco/bot"

	"github.com/google/go-cmp/cmp"
)

type eventSink struct {
	mu    sync.Mutex
	kinds []truco.EventKind
	seqs  []uint64
}

func (s *eventSink) record(gameID string, seq uint64, evt truco.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, evt.Kind)
	s.seqs = append(s.seqs, seq)
}

func (s *eventSink) snapshot() []truco.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]truco.EventKind{}, s.kinds...)
}

func humanSeats() [truco.NumSeats]truco.SeatSpec {
	return [truco.NumSeats]truco.SeatSpec{
		{ID: 1, Name: "ana"},
		{ID: 2, Name: "bruno"},
		{ID: 3, Name: "carla"},
		{ID: 4, Name: "davi"},
	}
}

func newTestRoom(t *testing.T) (*Room, *eventSink, *store.MemoryStore) {
	t.Helper()
	game, err := truco.NewGame("g1", truco.Config{Seed: 1}, humanSeats())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	b := bus.New()
	sink := &eventSink{}
	b.Subscribe("g1", sink.record)

	st := store.NewMemoryStore()
	r := New(Config{Truco: truco.Config{Seed: 1}}, game, [truco.NumSeats]*bot.Instance{}, Deps{
		Bus:   b,
		Store: st,
	})
	t.Cleanup(r.Close)
	return r, sink, st
}

func TestSubmitCommandPublishesAndPersists(t *testing.T) {
	r, sink, st := newTestRoom(t)

	if err := r.SubmitCommand(truco.StartGame{Seat: 0}); err != nil {
		t.Fatalf("start game: %v", err)
	}

	want := []truco.EventKind{
		truco.EventGameStarted,
		truco.EventHandStarted,
		truco.EventCardsDealt,
		truco.EventCardsDealt,
		truco.EventCardsDealt,
		truco.EventCardsDealt,
		truco.EventPlayerTurnStarted,
	}
	if diff := cmp.Diff(want, sink.snapshot()); diff != "" {
		t.Fatalf("published events mismatch (-want +got):\n%s", diff)
	}
	if got := r.ServerSeq(); got != uint64(len(want)) {
		t.Fatalf("serverSeq = %d, want %d", got, len(want))
	}

	saved, err := st.Load(context.Background(), "g1")
	if err != nil {
		t.Fatalf("load persisted state: %v", err)
	}
	if saved.Status != truco.StatusActive {
		t.Fatalf("persisted status = %v, want active", saved.Status)
	}
}

func TestSubmitCommandRejectsOutOfTurn(t *testing.T) {
	r, _, _ := newTestRoom(t)

	if err := r.SubmitCommand(truco.StartGame{Seat: 0}); err != nil {
		t.Fatalf("start game: %v", err)
	}

	// Seat 1 leads the first hand; seat 3 may not play yet.
	err := r.SubmitCommand(truco.PlayCard{Seat: 3, CardIndex: 0})
	if !errors.Is(err, truco.ErrOutOfTurn) {
		t.Fatalf("got %v, want ErrOutOfTurn", err)
	}
}

func TestSubmitCommandAfterClose(t *testing.T) {
	r, _, _ := newTestRoom(t)
	r.Close()

	if err := r.SubmitCommand(truco.StartGame{Seat: 0}); !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("got %v, want ErrRoomClosed", err)
	}
}

func newBotRoom(t *testing.T) (*Room, *bot.Manager) {
	t.Helper()
	mgr := bot.NewManager(bot.NewDefaultRegistry())
	personas := bot.NewDefaultRegistry().All()

	var seats [truco.NumSeats]truco.SeatSpec
	var instances [truco.NumSeats]*bot.Instance
	seats[0] = truco.SeatSpec{ID: 1, Name: "ana"}
	for seat := 1; seat < truco.NumSeats; seat++ {
		inst := mgr.Spawn(seat, personas[seat%len(personas)])
		seats[seat] = truco.SeatSpec{ID: inst.PlayerID, Name: inst.Persona.Name, Robot: true}
		instances[seat] = inst
	}

	game, err := truco.NewGame("g2", truco.Config{Seed: 1}, seats)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	r := New(Config{Truco: truco.Config{Seed: 1}}, game, instances, Deps{
		Bus:        bus.New(),
		Store:      store.NewMemoryStore(),
		BotManager: mgr,
	})
	t.Cleanup(r.Close)
	return r, mgr
}

func TestTakeSeatReplacesFirstBot(t *testing.T) {
	r, mgr := newBotRoom(t)

	displaced := r.bots[1].PlayerID

	seat, err := r.TakeSeat(42, "bruno")
	if err != nil {
		t.Fatalf("take seat: %v", err)
	}
	if seat != 1 {
		t.Fatalf("seat = %d, want 1", seat)
	}
	if mgr.IsBot(displaced) {
		t.Fatalf("displaced bot still registered")
	}

	got, ok := r.SeatOf(42)
	if !ok || got != 1 {
		t.Fatalf("SeatOf = (%d, %v), want (1, true)", got, ok)
	}

	// Joining again is a no-op returning the held seat.
	again, err := r.TakeSeat(42, "bruno")
	if err != nil || again != 1 {
		t.Fatalf("rejoin = (%d, %v), want (1, nil)", again, err)
	}
}

func TestTakeSeatFailsWhenFull(t *testing.T) {
	r, _ := newBotRoom(t)

	for i, userID := range []uint64{42, 43, 44} {
		if _, err := r.TakeSeat(userID, "human"); err != nil {
			t.Fatalf("take seat %d: %v", i+1, err)
		}
	}
	if _, err := r.TakeSeat(45, "late"); err == nil {
		t.Fatalf("expected error when all seats are human")
	}
}

func TestTakeSeatRejectedAfterStart(t *testing.T) {
	r, _ := newBotRoom(t)

	if err := r.SubmitCommand(truco.StartGame{Seat: 0}); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if _, err := r.TakeSeat(42, "bruno"); err == nil {
		t.Fatalf("expected error joining a started game")
	}
}

func TestIsIdleForTracksPresence(t *testing.T) {
	r, _, _ := newTestRoom(t)

	// All four humans start offline, so the room counts as empty.
	if !r.IsIdleFor(0) {
		t.Fatalf("room with no humans online should be idle")
	}

	r.MarkOnline(1)
	if r.IsIdleFor(0) {
		t.Fatalf("room with an online human should not be idle")
	}

	r.MarkOffline(1)
	if !r.IsIdleFor(0) {
		t.Fatalf("room should be idle immediately after last human leaves")
	}
}

func TestTurnTimeoutAutoPlays(t *testing.T) {
	game, err := truco.NewGame("g3", truco.Config{Seed: 1}, humanSeats())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	b := bus.New()
	sink := &eventSink{}
	b.Subscribe("g3", sink.record)

	r := New(Config{Truco: truco.Config{Seed: 1}, TurnTimeout: time.Millisecond}, game, [truco.NumSeats]*bot.Instance{}, Deps{
		Bus:   b,
		Store: store.NewMemoryStore(),
	})
	t.Cleanup(r.Close)

	if err := r.SubmitCommand(truco.StartGame{Seat: 0}); err != nil {
		t.Fatalf("start game: %v", err)
	}

	// The actor ticks every 500ms; wait for it to act for the idle seat.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		for _, k := range sink.snapshot() {
			if k == truco.EventCardPlayed {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("turn timeout never auto-played a card")
}
