// Package room hosts one game per actor goroutine. All commands funnel
// through a single channel, so engine access is serialized per game and
// event order on the bus matches apply order.
package room

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"truco-lite/internal/bus"
	"truco-lite/internal/store"
	"truco-lite/truco"
	"truco-lite/truco/bot"
)

var ErrRoomClosed = errors.New("room closed")

const (
	defaultTurnTimeout = 30 * time.Second
	nextHandDelay      = 4 * time.Second
	persistTimeout     = 3 * time.Second
)

// Config carries room behavior knobs on top of the engine config.
type Config struct {
	Truco truco.Config

	// TurnTimeout is how long a human seat may sit on a prompt before the
	// room acts for them. Zero means the default.
	TurnTimeout time.Duration
}

// Deps are the shared services a room publishes into.
type Deps struct {
	Bus        *bus.Bus
	Store      store.Store
	BotManager *bot.Manager
}

// Occupant tracks one human's presence. Bots are tracked separately and
// are always "online".
type Occupant struct {
	UserID   uint64
	Nickname string
	Seat     int
	Online   bool
	LastSeen time.Time
}

type commandMsg struct {
	cmd  truco.Command
	resp chan error
}

type Room struct {
	ID     string
	Config Config

	mu        sync.RWMutex
	game      *truco.Game
	occupants map[uint64]*Occupant // userID -> human occupant
	bots      [truco.NumSeats]*bot.Instance
	closed    bool
	stopOnce  sync.Once

	commands chan commandMsg
	done     chan struct{}

	serverSeq uint64

	turnTimeoutSeat int
	turnDeadline    time.Time
	nextHandAt      time.Time
	emptySince      time.Time
	completedAt     time.Time

	deps Deps
}

// New wraps an engine game in a running actor. bots holds an instance per
// robot seat and nil for human seats; it must agree with the game's seat
// specs.
func New(cfg Config, game *truco.Game, bots [truco.NumSeats]*bot.Instance, deps Deps) *Room {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = defaultTurnTimeout
	}
	r := &Room{
		ID:              game.ID(),
		Config:          cfg,
		game:            game,
		occupants:       make(map[uint64]*Occupant),
		bots:            bots,
		commands:        make(chan commandMsg, 256),
		done:            make(chan struct{}),
		turnTimeoutSeat: truco.SeatInvalid,
		emptySince:      time.Now(),
		deps:            deps,
	}
	for seat := 0; seat < truco.NumSeats; seat++ {
		p := game.Player(seat)
		if p == nil || p.Robot {
			continue
		}
		r.occupants[p.ID] = &Occupant{
			UserID:   p.ID,
			Nickname: p.Name,
			Seat:     seat,
			LastSeen: time.Now(),
		}
	}

	go r.run()

	log.Printf("[Room %s] Created (humans=%d)", r.ID, len(r.occupants))
	return r
}

func (r *Room) run() {
	// Sub-second heartbeat for turn timeouts and inter-hand scheduling.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case msg := <-r.commands:
			err := r.handleCommand(msg.cmd)
			if msg.resp != nil {
				msg.resp <- err
			}
		case <-ticker.C:
			r.tick()
		case <-r.done:
			log.Printf("[Room %s] Actor stopped", r.ID)
			return
		}
	}
}

// SubmitCommand queues a command for the actor and waits for the verdict.
// The caller is responsible for having resolved the command's seat from an
// authenticated user; the engine rejects anything out of place.
func (r *Room) SubmitCommand(cmd truco.Command) error {
	msg := commandMsg{cmd: cmd, resp: make(chan error, 1)}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ErrRoomClosed
	}

	select {
	case r.commands <- msg:
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case err := <-msg.resp:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) handleCommand(cmd truco.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}

	evts, err := r.game.Apply(cmd)
	if err != nil {
		return err
	}
	log.Printf("[Room %s] %s seat=%d applied", r.ID, cmd.CommandName(), cmd.CommandSeat())
	r.afterEventsLocked(evts)
	return nil
}

// afterEventsLocked fans an apply batch out to the bus, persists the new
// state and schedules whatever comes next (bot turn, human deadline, next
// hand).
func (r *Room) afterEventsLocked(evts []truco.Event) {
	for _, evt := range evts {
		r.serverSeq++
		r.deps.Bus.Publish(r.ID, r.serverSeq, evt)
	}

	r.persistLocked()

	for _, evt := range evts {
		switch evt.Kind {
		case truco.EventPlayerTurnStarted:
			p, ok := evt.Payload.(truco.PlayerTurnStartedPayload)
			if !ok {
				continue
			}
			r.promptSeatLocked(p)
		case truco.EventHandCompleted:
			r.clearTurnTimeoutLocked()
			if !r.game.Completed() {
				r.nextHandAt = time.Now().Add(nextHandDelay)
			}
		case truco.EventGameCompleted:
			r.clearTurnTimeoutLocked()
			r.nextHandAt = time.Time{}
			r.completedAt = time.Now()
		}
	}
}

func (r *Room) promptSeatLocked(p truco.PlayerTurnStartedPayload) {
	r.clearTurnTimeoutLocked()
	if inst := r.bots[p.Seat]; inst != nil {
		r.scheduleBotAction(inst, p)
		return
	}
	r.turnTimeoutSeat = p.Seat
	r.turnDeadline = time.Now().Add(r.Config.TurnTimeout)
}

func (r *Room) persistLocked() {
	if r.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.deps.Store.Save(ctx, r.game.ExportState()); err != nil {
		log.Printf("[Room %s] persist failed: %v", r.ID, err)
	}
}

// scheduleBotAction runs the bot brain off the actor goroutine and injects
// its decision back through the command queue. A stale decision (hand
// moved on, window closed) simply fails engine validation and is dropped.
func (r *Room) scheduleBotAction(inst *bot.Instance, p truco.PlayerTurnStartedPayload) {
	mgr := r.deps.BotManager
	if mgr == nil {
		return
	}
	snap := r.game.Snapshot()
	thinkDelay := mgr.ThinkDelay(inst.PlayerID)

	go func() {
		time.Sleep(thinkDelay)

		decision := mgr.OnTurn(inst.PlayerID, snap, p.Available)
		cmd, err := commandForDecision(decision, inst.Seat)
		if err != nil {
			log.Printf("[Room %s] bot %s produced no command: %v", r.ID, inst.Persona.Name, err)
			return
		}
		if err := r.SubmitCommand(cmd); err != nil {
			log.Printf("[Room %s] bot %s command dropped: %v", r.ID, inst.Persona.Name, err)
		}
	}()
}

func commandForDecision(d bot.Decision, seat int) (truco.Command, error) {
	switch d.Action {
	case truco.ActionTypePlayCard:
		return truco.PlayCard{Seat: seat, CardIndex: d.CardIndex}, nil
	case truco.ActionTypeCallTrucoOrRaise:
		return truco.CallTrucoOrRaise{Seat: seat}, nil
	case truco.ActionTypeAcceptTruco:
		return truco.AcceptTruco{Seat: seat}, nil
	case truco.ActionTypeSurrenderTruco:
		return truco.SurrenderTruco{Seat: seat}, nil
	case truco.ActionTypeSurrenderHand:
		return truco.SurrenderHand{Seat: seat}, nil
	case truco.ActionTypePlayAtRaisedStake:
		return truco.PlayAtRaisedStake{Seat: seat}, nil
	default:
		return nil, fmt.Errorf("undecidable action %v", d.Action)
	}
}

func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	now := time.Now()

	if err := r.handleTurnTimeoutLocked(now); err != nil {
		log.Printf("[Room %s] turn timeout handler failed: %v", r.ID, err)
	}

	if !r.nextHandAt.IsZero() && !now.Before(r.nextHandAt) {
		r.nextHandAt = time.Time{}
		evts, err := r.game.BeginNextHand()
		if err != nil {
			log.Printf("[Room %s] next hand failed: %v", r.ID, err)
			return
		}
		r.afterEventsLocked(evts)
	}
}

func (r *Room) handleTurnTimeoutLocked(now time.Time) error {
	if r.turnTimeoutSeat == truco.SeatInvalid || r.turnDeadline.IsZero() {
		return nil
	}
	if now.Before(r.turnDeadline) {
		return nil
	}

	seat := r.turnTimeoutSeat
	r.clearTurnTimeoutLocked()

	avail := r.game.AvailableActions(seat)
	if len(avail) == 0 {
		return nil
	}
	cmd := pickTimeoutCommand(seat, avail)
	log.Printf("[Room %s] turn timeout seat=%d -> auto %s", r.ID, seat, cmd.CommandName())

	evts, err := r.game.Apply(cmd)
	if err != nil {
		return err
	}
	r.afterEventsLocked(evts)
	return nil
}

// pickTimeoutCommand is the penalty action for a seat that ran out the
// clock: throw the first card if playing, otherwise concede the cheapest
// way out.
func pickTimeoutCommand(seat int, avail []truco.ActionType) truco.Command {
	if hasAction(avail, truco.ActionTypePlayCard) {
		return truco.PlayCard{Seat: seat, CardIndex: 0}
	}
	if hasAction(avail, truco.ActionTypeSurrenderTruco) {
		return truco.SurrenderTruco{Seat: seat}
	}
	if hasAction(avail, truco.ActionTypeSurrenderHand) {
		return truco.SurrenderHand{Seat: seat}
	}
	if hasAction(avail, truco.ActionTypePlayAtRaisedStake) {
		return truco.PlayAtRaisedStake{Seat: seat}
	}
	return truco.AcceptTruco{Seat: seat}
}

func hasAction(actions []truco.ActionType, target truco.ActionType) bool {
	for _, a := range actions {
		if a == target {
			return true
		}
	}
	return false
}

// TakeSeat hands the first bot seat to a joining human. Only possible
// before the game starts; after that the cast is fixed.
func (r *Room) TakeSeat(userID uint64, nickname string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return truco.SeatInvalid, ErrRoomClosed
	}
	if occ := r.occupants[userID]; occ != nil {
		return occ.Seat, nil
	}

	for seat := 0; seat < truco.NumSeats; seat++ {
		inst := r.bots[seat]
		if inst == nil {
			continue
		}
		if err := r.game.ReplaceSeat(seat, truco.SeatSpec{ID: userID, Name: nickname}); err != nil {
			return truco.SeatInvalid, err
		}
		if r.deps.BotManager != nil {
			r.deps.BotManager.Despawn(inst.PlayerID)
		}
		r.bots[seat] = nil
		r.occupants[userID] = &Occupant{
			UserID:   userID,
			Nickname: nickname,
			Seat:     seat,
			Online:   true,
			LastSeen: time.Now(),
		}
		r.emptySince = time.Time{}
		log.Printf("[Room %s] User %d took seat %d from %s", r.ID, userID, seat, inst.Persona.Name)
		return seat, nil
	}
	return truco.SeatInvalid, errors.New("no open seat")
}

// SeatOf resolves an authenticated user to their seat.
func (r *Room) SeatOf(userID uint64) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	occ := r.occupants[userID]
	if occ == nil {
		return truco.SeatInvalid, false
	}
	return occ.Seat, true
}

// MarkOnline records a human's (re)connection.
func (r *Room) MarkOnline(userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ := r.occupants[userID]
	if occ == nil {
		return
	}
	occ.Online = true
	occ.LastSeen = time.Now()
	r.emptySince = time.Time{}
}

// MarkOffline records a human's disconnect. The room keeps running; bots
// and timeouts carry the game while nobody watches, and the sweeper
// reclaims it if nobody comes back.
func (r *Room) MarkOffline(userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ := r.occupants[userID]
	if occ == nil {
		return
	}
	occ.Online = false
	occ.LastSeen = time.Now()

	for _, o := range r.occupants {
		if o.Online {
			return
		}
	}
	r.emptySince = time.Now()
}

// IsIdleFor reports whether the room has been reclaimable for at least
// ttl: closed, finished, or with every human gone.
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return true
	}
	if !r.completedAt.IsZero() && time.Since(r.completedAt) >= ttl {
		return true
	}
	if !r.emptySince.IsZero() && time.Since(r.emptySince) >= ttl {
		return true
	}
	return false
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Snapshot returns the unredacted game state. Server-side use only.
func (r *Room) Snapshot() truco.Snapshot {
	return r.game.Snapshot()
}

// ViewFor returns the redacted projection for one seat.
func (r *Room) ViewFor(seat int) truco.Snapshot {
	return r.game.ViewFor(seat)
}

// AvailableActions proxies the engine's legal-action projection.
func (r *Room) AvailableActions(seat int) []truco.ActionType {
	return r.game.AvailableActions(seat)
}

// RevealAll reports whether views from this room skip redaction.
func (r *Room) RevealAll() bool {
	return r.Config.Truco.RevealAll
}

// ServerSeq returns the last published sequence number.
func (r *Room) ServerSeq() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.serverSeq
}

// Close stops the actor. Stored state is left for the lobby to reap.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Room) closeLocked() {
	r.closed = true
	r.nextHandAt = time.Time{}
	r.clearTurnTimeoutLocked()
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room) clearTurnTimeoutLocked() {
	r.turnTimeoutSeat = truco.SeatInvalid
	r.turnDeadline = time.Time{}
}
