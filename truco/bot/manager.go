package bot

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"truco-lite/truco"
)

// Instance represents an active bot seated in a game.
type Instance struct {
	PlayerID   uint64
	Seat       int
	Persona    *Persona
	Brain      BrainDecider
	ThinkDelay time.Duration
}

// Manager manages bot lifecycle and decision-making.
type Manager struct {
	registry  *PersonaRegistry
	instances map[uint64]*Instance // keyed by PlayerID
	mu        sync.RWMutex
	rng       *rand.Rand
	nextID    uint64 // auto-incrementing fake player IDs for bots
}

// NewManager creates a bot manager with the given persona registry.
func NewManager(registry *PersonaRegistry) *Manager {
	return &Manager{
		registry:  registry,
		instances: make(map[uint64]*Instance),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID:    9_000_000, // bot IDs start from 9M to avoid collision with real users
	}
}

// Registry returns the underlying PersonaRegistry.
func (m *Manager) Registry() *PersonaRegistry {
	return m.registry
}

// Spawn creates a bot bound to a seat. The caller seats the returned
// instance into its game.
func (m *Manager) Spawn(seat int, persona *Persona) *Instance {
	m.mu.Lock()
	m.nextID++
	playerID := m.nextID
	seed := m.rng.Int63()

	// Think delay: 1–3 seconds base plus jitter, so bot pacing reads as
	// human at the table.
	baseMs := 1000 + int(persona.Brain.Randomness*1500)
	jitterMs := m.rng.Intn(1500)
	m.mu.Unlock()

	inst := &Instance{
		PlayerID:   playerID,
		Seat:       seat,
		Persona:    persona,
		Brain:      NewRuleBrain(persona, seed),
		ThinkDelay: time.Duration(baseMs+jitterMs) * time.Millisecond,
	}

	m.mu.Lock()
	m.instances[playerID] = inst
	m.mu.Unlock()

	log.Printf("[Bot] Spawned %s (ID=%d) at seat %d", persona.Name, playerID, seat)
	return inst
}

// OnTurn is called when it's a bot's turn to act. It builds a GameView
// from the snapshot and asks the brain for a decision.
func (m *Manager) OnTurn(playerID uint64, snap truco.Snapshot, available []truco.ActionType) Decision {
	m.mu.RLock()
	inst := m.instances[playerID]
	m.mu.RUnlock()

	if inst == nil {
		log.Printf("[Bot] OnTurn called for unknown player %d", playerID)
		return Decision{Action: truco.ActionTypeNone}
	}

	view := buildGameView(inst, snap, available)
	decision := inst.Brain.Decide(view)
	log.Printf("[Bot] %s decides: %v cardIndex=%d", inst.Persona.Name, decision.Action, decision.CardIndex)
	return decision
}

// Instance returns the bot instance for a given playerID, or nil.
func (m *Manager) Instance(playerID uint64) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[playerID]
}

// IsBot checks if a playerID belongs to a bot.
func (m *Manager) IsBot(playerID uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[playerID] != nil
}

// Despawn removes a bot from tracking.
func (m *Manager) Despawn(playerID uint64) {
	m.mu.Lock()
	inst := m.instances[playerID]
	delete(m.instances, playerID)
	m.mu.Unlock()

	if inst != nil {
		log.Printf("[Bot] Despawned %s (ID=%d)", inst.Persona.Name, playerID)
	}
}

// ThinkDelay returns the simulated thinking delay for a bot.
func (m *Manager) ThinkDelay(playerID uint64) time.Duration {
	m.mu.RLock()
	inst := m.instances[playerID]
	m.mu.RUnlock()
	if inst == nil {
		return time.Second
	}
	return inst.ThinkDelay
}

// buildGameView constructs a GameView from a snapshot for a specific bot.
// Only the bot's own seat's hand crosses into the view.
func buildGameView(inst *Instance, snap truco.Snapshot, available []truco.ActionType) GameView {
	team := truco.TeamForSeat(inst.Seat)
	view := GameView{
		Seat:            inst.Seat,
		Team:            team,
		PlayedCards:     snap.PlayedCards,
		RoundNumber:     snap.RoundNumber,
		RoundResults:    snap.RoundResults,
		Stakes:          snap.Stakes,
		ConfirmedStakes: snap.ConfirmedStakes,
		CallState:       snap.CallState,
		Available:       available,
	}
	for _, ps := range snap.Players {
		if ps.Seat == inst.Seat {
			view.Hand = ps.Hand
			break
		}
	}
	if team == truco.TeamA {
		view.ScoreOwn, view.ScoreOpp = snap.ScoreA, snap.ScoreB
	} else {
		view.ScoreOwn, view.ScoreOpp = snap.ScoreB, snap.ScoreA
	}
	return view
}
