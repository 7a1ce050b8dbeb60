package truco

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"truco-lite/card"
)

// SeatSpec describes one occupant handed to NewGame. All four seats are
// fixed for the lifetime of the game.
type SeatSpec struct {
	ID    uint64
	Name  string
	Robot bool
}

type Game struct {
	id  string
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	players [NumSeats]*Player

	status Status

	// hand state
	handNumber  int
	roundNumber int
	dealerSeat  int
	leadSeat    int
	activeSeat  int

	played       map[int]card.Card
	roundResults []RoundResult
	stockCards   card.CardList

	// call ladder
	callState       CallState
	stakes          int // pending value while a call awaits response
	confirmedStakes int
	lastCallerTeam  Team
	lastCallerSeat  int
	responseTeam    Team // non-none while a call awaits its response
	canRaiseTeam    Team

	// near-victory hand
	nearVictoryTeam Team
	callsDisabled   bool
	forcedPending   bool

	awaitingNextHand bool

	scoreA int
	scoreB int
}

func NewGame(id string, cfg Config, seats [NumSeats]SeatSpec) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		id:  id,
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		// First beginHand advances the dealer to seat 0.
		dealerSeat:      NumSeats - 1,
		activeSeat:      SeatInvalid,
		lastCallerSeat:  SeatInvalid,
		stakes:          BaseStakes,
		confirmedStakes: BaseStakes,
		played:          make(map[int]card.Card, NumSeats),
	}
	for seat, s := range seats {
		g.players[seat] = &Player{
			ID:    s.ID,
			Name:  s.Name,
			Seat:  seat,
			Robot: s.Robot,
		}
	}
	return g, nil
}

func (g *Game) ID() string { return g.id }

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Game) Completed() bool { return g.Status() == StatusCompleted }

func (g *Game) Scores() (scoreA, scoreB int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scoreA, g.scoreB
}

func (g *Game) Player(seat int) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	return g.players[seat]
}

// ReplaceSeat swaps the occupant of a seat. Seats are frozen once play
// begins; this only succeeds while the game is still waiting.
func (g *Game) ReplaceSeat(seat int, spec SeatSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusWaiting {
		return ErrInvalidState("game already started")
	}
	if seat < 0 || seat >= NumSeats {
		return ErrInvalidState(fmt.Sprintf("invalid seat %d", seat))
	}
	p := g.players[seat]
	p.ID = spec.ID
	p.Name = spec.Name
	p.Robot = spec.Robot
	return nil
}

func (g *Game) AwaitingNextHand() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.awaitingNextHand
}

// Apply validates cmd against the current state and, only if it is fully
// legal, mutates the game and returns the resulting events. On error the
// state is untouched.
func (g *Game) Apply(cmd Command) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusCompleted {
		return nil, ErrGameCompleted
	}

	var evts []Event
	var err error
	switch c := cmd.(type) {
	case StartGame:
		evts, err = g.applyStartGame(c)
	case PlayCard:
		evts, err = g.applyPlayCard(c)
	case CallTrucoOrRaise:
		evts, err = g.applyCallTrucoOrRaise(c)
	case AcceptTruco:
		evts, err = g.applyAcceptTruco(c)
	case SurrenderTruco:
		evts, err = g.applySurrenderTruco(c)
	case SurrenderHand:
		evts, err = g.applySurrenderHand(c)
	case PlayAtRaisedStake:
		evts, err = g.applyPlayAtRaisedStake(c)
	default:
		return nil, ErrInvalidState(fmt.Sprintf("unknown command %T", cmd))
	}
	if err != nil {
		return nil, err
	}

	g.attachSnapshotLocked(evts)
	return evts, nil
}

// BeginNextHand deals the next hand after a completed one. The room calls
// this on its own clock, it is not a player command.
func (g *Game) BeginNextHand() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusCompleted {
		return nil, ErrGameCompleted
	}
	if g.status != StatusActive || !g.awaitingNextHand {
		return nil, ErrInvalidState("hand still in progress")
	}
	evts := g.beginHandLocked()
	g.attachSnapshotLocked(evts)
	return evts, nil
}

func (g *Game) attachSnapshotLocked(evts []Event) {
	snap := g.snapshotLocked()
	for i := range evts {
		evts[i].State = snap
	}
}

func (g *Game) applyStartGame(StartGame) ([]Event, error) {
	if g.status != StatusWaiting {
		return nil, ErrInvalidState("game already started")
	}
	g.status = StatusActive

	evts := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:     g.id,
			DealerSeat: (g.dealerSeat + 1) % NumSeats,
		},
	}}
	return append(evts, g.beginHandLocked()...), nil
}

func (g *Game) applyPlayCard(c PlayCard) ([]Event, error) {
	if err := g.requireTurnLocked(c.Seat); err != nil {
		return nil, err
	}
	p := g.players[c.Seat]
	if c.CardIndex < 0 || c.CardIndex >= p.HandCards().Count() {
		return nil, ErrInvalidState(fmt.Sprintf("card index %d out of range", c.CardIndex))
	}

	played := p.removeHandCard(c.CardIndex)
	g.played[c.Seat] = played
	evts := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{Seat: c.Seat, Card: played, RoundNumber: g.roundNumber},
	}}

	if len(g.played) < NumSeats {
		g.activeSeat = (c.Seat + 1) % NumSeats
		return append(evts, g.turnEventLocked()), nil
	}

	res := resolveRound(g.played)
	g.roundResults = append(g.roundResults, res)
	evts = append(evts, Event{
		Kind: EventRoundCompleted,
		Payload: RoundCompletedPayload{
			RoundNumber: g.roundNumber,
			Winner:      res.Winner,
			WinnerSeat:  res.WinnerSeat,
			Draw:        res.Draw,
		},
	})

	if winner, done := handOutcome(g.roundResults); done {
		return append(evts, g.endHandLocked(winner, g.confirmedStakes)...), nil
	}

	// A drawn round leaves the lead where it was.
	g.roundNumber++
	if !res.Draw {
		g.leadSeat = res.WinnerSeat
	}
	g.activeSeat = g.leadSeat
	g.played = make(map[int]card.Card, NumSeats)
	return append(evts, g.turnEventLocked()), nil
}

func (g *Game) applyCallTrucoOrRaise(c CallTrucoOrRaise) ([]Event, error) {
	if g.status != StatusActive {
		return nil, ErrInvalidState("game not active")
	}
	if g.awaitingNextHand {
		return nil, ErrHandEnded
	}
	if g.forcedPending {
		return nil, ErrInvalidState("near-victory decision pending")
	}
	if g.callsDisabled {
		return nil, ErrInvalidState("calls disabled this hand")
	}
	next, ok := g.nextCallStateLocked()
	if !ok {
		return nil, ErrInvalidState("stakes already at maximum")
	}
	team := TeamForSeat(c.Seat)
	if team == g.lastCallerTeam {
		return nil, ErrInvalidState("team cannot call twice in a row")
	}
	if g.responseTeam != TeamNone {
		// Counter-raise from either member of the responding team.
		if team != g.responseTeam {
			return nil, ErrOutOfTurn
		}
	} else if c.Seat != g.activeSeat && team != g.canRaiseTeam {
		// Accepting a call grants the whole team the raise right, usable
		// even off turn.
		return nil, ErrOutOfTurn
	}

	g.callState = next
	g.stakes = next.Stakes()
	g.lastCallerTeam = team
	g.lastCallerSeat = c.Seat
	g.responseTeam = team.Opponent()
	g.canRaiseTeam = TeamNone

	evts := []Event{{
		Kind: EventTrucoCalled,
		Payload: TrucoCalledPayload{
			Seat:          c.Seat,
			CallingTeam:   team,
			CallState:     next,
			PendingStakes: g.stakes,
		},
	}}
	return append(evts, g.turnEventLocked()), nil
}

func (g *Game) applyAcceptTruco(c AcceptTruco) ([]Event, error) {
	team, err := g.requireResponseLocked(c.Seat)
	if err != nil {
		return nil, err
	}

	g.confirmedStakes = g.stakes
	g.responseTeam = TeamNone
	g.canRaiseTeam = team

	evts := []Event{{
		Kind:    EventTrucoAccepted,
		Payload: TrucoAcceptedPayload{Seat: c.Seat, Team: team, Stakes: g.confirmedStakes},
	}}
	return append(evts, g.turnEventLocked()), nil
}

func (g *Game) applySurrenderTruco(c SurrenderTruco) ([]Event, error) {
	team, err := g.requireResponseLocked(c.Seat)
	if err != nil {
		return nil, err
	}

	// Declining a call forfeits only what was confirmed before it.
	award := g.confirmedStakes
	to := g.lastCallerTeam
	evts := []Event{{
		Kind: EventTrucoSurrendered,
		Payload: TrucoSurrenderedPayload{
			Seat:          c.Seat,
			Team:          team,
			AwardedTo:     to,
			PointsAwarded: award,
		},
	}}
	return append(evts, g.endHandLocked(to, award)...), nil
}

func (g *Game) applySurrenderHand(c SurrenderHand) ([]Event, error) {
	if g.status != StatusActive {
		return nil, ErrInvalidState("game not active")
	}
	if g.awaitingNextHand {
		return nil, ErrHandEnded
	}
	team := TeamForSeat(c.Seat)
	if g.forcedPending {
		if team != g.nearVictoryTeam {
			return nil, ErrOutOfTurn
		}
	} else {
		if g.responseTeam != TeamNone {
			return nil, ErrInvalidState("truco response pending")
		}
		if team != TeamForSeat(g.activeSeat) {
			return nil, ErrOutOfTurn
		}
	}

	g.players[c.Seat].setFolded(true)
	award := g.confirmedStakes
	to := team.Opponent()
	evts := []Event{{
		Kind: EventHandSurrendered,
		Payload: HandSurrenderedPayload{
			Seat:          c.Seat,
			Team:          team,
			AwardedTo:     to,
			PointsAwarded: award,
		},
	}}
	return append(evts, g.endHandLocked(to, award)...), nil
}

func (g *Game) applyPlayAtRaisedStake(c PlayAtRaisedStake) ([]Event, error) {
	if g.status != StatusActive {
		return nil, ErrInvalidState("game not active")
	}
	if g.awaitingNextHand {
		return nil, ErrHandEnded
	}
	if !g.forcedPending {
		return nil, ErrInvalidState("no raised-stake decision pending")
	}
	team := TeamForSeat(c.Seat)
	if team != g.nearVictoryTeam {
		return nil, ErrOutOfTurn
	}

	g.forcedPending = false
	g.stakes = TrucoStakes
	g.confirmedStakes = TrucoStakes

	evts := []Event{{
		Kind:    EventStakesLockedIn,
		Payload: StakesLockedInPayload{Team: team, Stakes: TrucoStakes},
	}}
	return append(evts, g.turnEventLocked()), nil
}

func (g *Game) requireTurnLocked(seat int) error {
	if g.status != StatusActive {
		return ErrInvalidState("game not active")
	}
	if g.awaitingNextHand {
		return ErrHandEnded
	}
	if g.forcedPending {
		return ErrInvalidState("near-victory decision pending")
	}
	if g.responseTeam != TeamNone {
		return ErrInvalidState("truco response pending")
	}
	if seat != g.activeSeat {
		return ErrOutOfTurn
	}
	return nil
}

func (g *Game) requireResponseLocked(seat int) (Team, error) {
	if g.status != StatusActive {
		return TeamNone, ErrInvalidState("game not active")
	}
	if g.awaitingNextHand {
		return TeamNone, ErrHandEnded
	}
	if g.responseTeam == TeamNone {
		return TeamNone, ErrInvalidState("no pending call")
	}
	team := TeamForSeat(seat)
	if team != g.responseTeam {
		return TeamNone, ErrOutOfTurn
	}
	return team, nil
}

func (g *Game) nextCallStateLocked() (CallState, bool) {
	switch g.callState {
	case CallNone:
		return CallTruco, true
	case CallTruco:
		return CallSeis, true
	case CallSeis:
		if g.cfg.NoveVariant {
			return CallNove, true
		}
		return CallDoze, true
	case CallNove:
		return CallDoze, true
	default:
		return CallNone, false
	}
}

func (g *Game) beginHandLocked() []Event {
	g.handNumber++
	g.dealerSeat = (g.dealerSeat + 1) % NumSeats
	g.roundNumber = 1
	g.leadSeat = (g.dealerSeat + 1) % NumSeats
	g.activeSeat = g.leadSeat
	g.played = make(map[int]card.Card, NumSeats)
	g.roundResults = nil
	g.awaitingNextHand = false

	g.callState = CallNone
	g.stakes = BaseStakes
	g.confirmedStakes = BaseStakes
	g.lastCallerTeam = TeamNone
	g.lastCallerSeat = SeatInvalid
	g.responseTeam = TeamNone
	g.canRaiseTeam = TeamNone

	nearA := g.scoreA >= VictoryThreshold-BaseStakes
	nearB := g.scoreB >= VictoryThreshold-BaseStakes
	g.nearVictoryTeam = TeamNone
	g.callsDisabled = false
	g.forcedPending = false
	switch {
	case nearA && nearB:
		// Both teams one hand away: base stakes, no calls, no decision.
		g.callsDisabled = true
	case nearA:
		g.nearVictoryTeam = TeamA
		g.callsDisabled = true
		g.forcedPending = true
	case nearB:
		g.nearVictoryTeam = TeamB
		g.callsDisabled = true
		g.forcedPending = true
	}

	g.shuffleAndDealLocked()

	evts := []Event{{
		Kind: EventHandStarted,
		Payload: HandStartedPayload{
			HandNumber:      g.handNumber,
			DealerSeat:      g.dealerSeat,
			Stakes:          g.confirmedStakes,
			CallsDisabled:   g.callsDisabled,
			NearVictoryTeam: g.nearVictoryTeam,
		},
	}}
	for seat := 0; seat < NumSeats; seat++ {
		hand := make([]card.Card, g.players[seat].HandCards().Count())
		copy(hand, g.players[seat].HandCards())
		evts = append(evts, Event{
			Kind:           EventCardsDealt,
			Payload:        CardsDealtPayload{Seat: seat, Hand: hand},
			RecipientSeats: []int{seat},
		})
	}
	return append(evts, g.turnEventLocked())
}

func (g *Game) shuffleAndDealLocked() {
	deck := card.NewDeck()
	g.rng.Shuffle(deck.Count(), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	g.stockCards = deck
	for _, p := range g.players {
		p.ResetForNewHand()
	}
	for i := 0; i < CardsPerSeat; i++ {
		for off := 0; off < NumSeats; off++ {
			seat := (g.dealerSeat + 1 + off) % NumSeats
			g.players[seat].AddHandCard(g.stockCards.PopCard())
		}
	}
}

func (g *Game) endHandLocked(winner Team, points int) []Event {
	if winner == TeamNone {
		points = 0
	}
	switch winner {
	case TeamA:
		g.scoreA += points
	case TeamB:
		g.scoreB += points
	}
	g.awaitingNextHand = true
	g.activeSeat = SeatInvalid
	g.forcedPending = false

	// The ladder dies with the hand; snapshots taken between hands must
	// already show it reset.
	g.callState = CallNone
	g.stakes = BaseStakes
	g.confirmedStakes = BaseStakes
	g.lastCallerTeam = TeamNone
	g.lastCallerSeat = SeatInvalid
	g.responseTeam = TeamNone
	g.canRaiseTeam = TeamNone

	evts := []Event{{
		Kind: EventHandCompleted,
		Payload: HandCompletedPayload{
			HandNumber:    g.handNumber,
			Winner:        winner,
			PointsAwarded: points,
			ScoreA:        g.scoreA,
			ScoreB:        g.scoreB,
		},
	}}

	if g.scoreA >= VictoryThreshold || g.scoreB >= VictoryThreshold {
		g.status = StatusCompleted
		w := TeamA
		if g.scoreB >= VictoryThreshold {
			w = TeamB
		}
		evts = append(evts, Event{
			Kind:    EventGameCompleted,
			Payload: GameCompletedPayload{Winner: w, ScoreA: g.scoreA, ScoreB: g.scoreB},
		})
	}
	return evts
}

// turnEventLocked emits the prompt for whoever must act next: a regular
// turn, a truco response window, or the near-victory forced decision.
func (g *Game) turnEventLocked() Event {
	switch {
	case g.forcedPending:
		seat := g.leadSeat
		if TeamForSeat(seat) != g.nearVictoryTeam {
			seat = (seat + 1) % NumSeats
		}
		return Event{
			Kind: EventPlayerTurnStarted,
			Payload: PlayerTurnStartedPayload{
				Seat:           seat,
				Available:      g.availableActionsLocked(seat),
				ResponseWindow: true,
			},
		}
	case g.responseTeam != TeamNone:
		seat := (g.lastCallerSeat + 1) % NumSeats
		return Event{
			Kind: EventPlayerTurnStarted,
			Payload: PlayerTurnStartedPayload{
				Seat:           seat,
				Available:      g.availableActionsLocked(seat),
				ResponseWindow: true,
			},
		}
	default:
		return Event{
			Kind: EventPlayerTurnStarted,
			Payload: PlayerTurnStartedPayload{
				Seat:      g.activeSeat,
				Available: g.availableActionsLocked(g.activeSeat),
			},
		}
	}
}

// AvailableActions is the pure projection of what seat may do right now.
// It never mutates state and returns nil for a seat with nothing to do.
func (g *Game) AvailableActions(seat int) []ActionType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.availableActionsLocked(seat)
}

func (g *Game) availableActionsLocked(seat int) []ActionType {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	if g.status != StatusActive || g.awaitingNextHand {
		return nil
	}
	team := TeamForSeat(seat)

	if g.forcedPending {
		if team != g.nearVictoryTeam {
			return nil
		}
		return []ActionType{ActionTypePlayAtRaisedStake, ActionTypeSurrenderHand}
	}

	if g.responseTeam != TeamNone {
		if team != g.responseTeam {
			return nil
		}
		acts := []ActionType{ActionTypeAcceptTruco, ActionTypeSurrenderTruco}
		if g.canEscalateLocked(team) {
			acts = append(acts, ActionTypeCallTrucoOrRaise)
		}
		return acts
	}

	if seat != g.activeSeat {
		if team == g.canRaiseTeam && g.canEscalateLocked(team) {
			return []ActionType{ActionTypeCallTrucoOrRaise}
		}
		return nil
	}
	acts := []ActionType{ActionTypePlayCard, ActionTypeSurrenderHand}
	if g.canEscalateLocked(team) {
		acts = append(acts, ActionTypeCallTrucoOrRaise)
	}
	return acts
}

func (g *Game) canEscalateLocked(team Team) bool {
	if g.callsDisabled {
		return false
	}
	if _, ok := g.nextCallStateLocked(); !ok {
		return false
	}
	return team != g.lastCallerTeam
}
