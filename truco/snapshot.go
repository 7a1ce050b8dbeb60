package truco

import "truco-lite/card"

type PlayerSnapshot struct {
	ID     uint64      `json:"id"`
	Name   string      `json:"name"`
	Seat   int         `json:"seat"`
	Team   Team        `json:"team"`
	Robot  bool        `json:"robot"`
	Folded bool        `json:"folded"`
	Dealer bool        `json:"dealer"`
	Active bool        `json:"active"`
	Hand   []card.Card `json:"hand,omitempty"`
	// HandCount survives redaction when Hand does not.
	HandCount int `json:"handCount"`
}

type Snapshot struct {
	GameID string `json:"gameId"`
	Status Status `json:"status"`

	HandNumber  int `json:"handNumber"`
	RoundNumber int `json:"roundNumber"`
	DealerSeat  int `json:"dealerSeat"`
	LeadSeat    int `json:"leadSeat"`
	// ActiveSeat is SeatInvalid while a response or near-victory window
	// is open and between hands.
	ActiveSeat int `json:"activeSeat"`

	Stakes          int       `json:"stakes"`
	ConfirmedStakes int       `json:"confirmedStakes"`
	CallState       CallState `json:"callState"`
	LastCallerTeam  Team      `json:"lastCallerTeam"`
	ResponseTeam    Team      `json:"responseTeam"`
	CanRaiseTeam    Team      `json:"canRaiseTeam"`

	NearVictoryTeam Team `json:"nearVictoryTeam"`
	CallsDisabled   bool `json:"callsDisabled"`
	ForcedPending   bool `json:"forcedPending"`

	AwaitingNextHand bool `json:"awaitingNextHand"`

	PlayedCards  map[int]card.Card `json:"playedCards"`
	RoundResults []RoundResult     `json:"roundResults"`

	ScoreA int `json:"scoreA"`
	ScoreB int `json:"scoreB"`

	Players []PlayerSnapshot `json:"players"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		GameID:           g.id,
		Status:           g.status,
		HandNumber:       g.handNumber,
		RoundNumber:      g.roundNumber,
		DealerSeat:       g.dealerSeat,
		LeadSeat:         g.leadSeat,
		ActiveSeat:       g.activeSeat,
		Stakes:           g.stakes,
		ConfirmedStakes:  g.confirmedStakes,
		CallState:        g.callState,
		LastCallerTeam:   g.lastCallerTeam,
		ResponseTeam:     g.responseTeam,
		CanRaiseTeam:     g.canRaiseTeam,
		NearVictoryTeam:  g.nearVictoryTeam,
		CallsDisabled:    g.callsDisabled,
		ForcedPending:    g.forcedPending,
		AwaitingNextHand: g.awaitingNextHand,
		PlayedCards:      make(map[int]card.Card, len(g.played)),
		RoundResults:     append([]RoundResult{}, g.roundResults...),
		ScoreA:           g.scoreA,
		ScoreB:           g.scoreB,
	}
	if g.responseTeam != TeamNone || g.forcedPending {
		s.ActiveSeat = SeatInvalid
	}
	for seat, c := range g.played {
		s.PlayedCards[seat] = c
	}

	for seat := 0; seat < NumSeats; seat++ {
		p := g.players[seat]
		s.Players = append(s.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Team:      p.Team(),
			Robot:     p.Robot,
			Folded:    p.folded,
			Dealer:    seat == g.dealerSeat,
			Active:    seat == s.ActiveSeat,
			Hand:      append([]card.Card{}, p.handCards...),
			HandCount: len(p.handCards),
		})
	}
	return s
}

// ViewFor redacts the snapshot for one viewer: every other seat's unplayed
// cards are stripped, leaving only the count. Seat SeatInvalid yields a
// spectator view with all hands hidden. Redaction is skipped entirely
// under Config.RevealAll.
func (s Snapshot) ViewFor(seat int, revealAll bool) Snapshot {
	if revealAll {
		return s
	}
	v := s
	v.Players = make([]PlayerSnapshot, len(s.Players))
	copy(v.Players, s.Players)
	for i := range v.Players {
		if v.Players[i].Seat == seat {
			continue
		}
		v.Players[i].Hand = nil
	}
	return v
}

// ViewFor is the per-seat redacted projection of the live game.
func (g *Game) ViewFor(seat int) Snapshot {
	return g.Snapshot().ViewFor(seat, g.cfg.RevealAll)
}
