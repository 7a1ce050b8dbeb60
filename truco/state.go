package truco

import (
	"math/rand"
	"time"

	"truco-lite/card"
)

// PlayerState and GameState are the flat serializable form of a game,
// used by the persistence layer. They carry everything needed to resume
// play except the RNG stream: a restored game reshuffles from a fresh
// seed, which only affects hands not yet dealt.
type PlayerState struct {
	ID     uint64      `json:"id"`
	Name   string      `json:"name"`
	Seat   int         `json:"seat"`
	Robot  bool        `json:"robot"`
	Folded bool        `json:"folded"`
	Hand   []card.Card `json:"hand"`
}

type GameState struct {
	ID     string `json:"id"`
	Config Config `json:"config"`
	Status Status `json:"status"`

	HandNumber  int `json:"handNumber"`
	RoundNumber int `json:"roundNumber"`
	DealerSeat  int `json:"dealerSeat"`
	LeadSeat    int `json:"leadSeat"`
	ActiveSeat  int `json:"activeSeat"`

	Played       map[int]card.Card `json:"played"`
	RoundResults []RoundResult     `json:"roundResults"`

	CallState       CallState `json:"callState"`
	Stakes          int       `json:"stakes"`
	ConfirmedStakes int       `json:"confirmedStakes"`
	LastCallerTeam  Team      `json:"lastCallerTeam"`
	LastCallerSeat  int       `json:"lastCallerSeat"`
	ResponseTeam    Team      `json:"responseTeam"`
	CanRaiseTeam    Team      `json:"canRaiseTeam"`

	NearVictoryTeam  Team `json:"nearVictoryTeam"`
	CallsDisabled    bool `json:"callsDisabled"`
	ForcedPending    bool `json:"forcedPending"`
	AwaitingNextHand bool `json:"awaitingNextHand"`

	ScoreA int `json:"scoreA"`
	ScoreB int `json:"scoreB"`

	Players [NumSeats]PlayerState `json:"players"`
}

func (g *Game) ExportState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := GameState{
		ID:               g.id,
		Config:           g.cfg,
		Status:           g.status,
		HandNumber:       g.handNumber,
		RoundNumber:      g.roundNumber,
		DealerSeat:       g.dealerSeat,
		LeadSeat:         g.leadSeat,
		ActiveSeat:       g.activeSeat,
		Played:           make(map[int]card.Card, len(g.played)),
		RoundResults:     append([]RoundResult{}, g.roundResults...),
		CallState:        g.callState,
		Stakes:           g.stakes,
		ConfirmedStakes:  g.confirmedStakes,
		LastCallerTeam:   g.lastCallerTeam,
		LastCallerSeat:   g.lastCallerSeat,
		ResponseTeam:     g.responseTeam,
		CanRaiseTeam:     g.canRaiseTeam,
		NearVictoryTeam:  g.nearVictoryTeam,
		CallsDisabled:    g.callsDisabled,
		ForcedPending:    g.forcedPending,
		AwaitingNextHand: g.awaitingNextHand,
		ScoreA:           g.scoreA,
		ScoreB:           g.scoreB,
	}
	for seat, c := range g.played {
		st.Played[seat] = c
	}
	for seat, p := range g.players {
		st.Players[seat] = PlayerState{
			ID:     p.ID,
			Name:   p.Name,
			Seat:   p.Seat,
			Robot:  p.Robot,
			Folded: p.folded,
			Hand:   append([]card.Card{}, p.handCards...),
		}
	}
	return st
}

// Restore rebuilds a live game from a saved state.
func Restore(st GameState) (*Game, error) {
	if err := st.Config.validate(); err != nil {
		return nil, err
	}
	seed := st.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		id:               st.ID,
		cfg:              st.Config,
		rng:              rand.New(rand.NewSource(seed)),
		status:           st.Status,
		handNumber:       st.HandNumber,
		roundNumber:      st.RoundNumber,
		dealerSeat:       st.DealerSeat,
		leadSeat:         st.LeadSeat,
		activeSeat:       st.ActiveSeat,
		played:           make(map[int]card.Card, len(st.Played)),
		roundResults:     append([]RoundResult{}, st.RoundResults...),
		callState:        st.CallState,
		stakes:           st.Stakes,
		confirmedStakes:  st.ConfirmedStakes,
		lastCallerTeam:   st.LastCallerTeam,
		lastCallerSeat:   st.LastCallerSeat,
		responseTeam:     st.ResponseTeam,
		canRaiseTeam:     st.CanRaiseTeam,
		nearVictoryTeam:  st.NearVictoryTeam,
		callsDisabled:    st.CallsDisabled,
		forcedPending:    st.ForcedPending,
		awaitingNextHand: st.AwaitingNextHand,
		scoreA:           st.ScoreA,
		scoreB:           st.ScoreB,
	}
	for seat, c := range st.Played {
		g.played[seat] = c
	}
	for seat, ps := range st.Players {
		hand := make(card.CardList, 0, CardsPerSeat)
		hand.Add(ps.Hand...)
		g.players[seat] = &Player{
			ID:        ps.ID,
			Name:      ps.Name,
			Seat:      seat,
			Robot:     ps.Robot,
			folded:    ps.Folded,
			handCards: hand,
		}
	}
	return g, nil
}
