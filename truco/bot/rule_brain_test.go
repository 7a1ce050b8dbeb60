package bot

import (
	"testing"

	"truco-lite/card"
	"truco-lite/truco"
)

func turnView(hand []card.Card, played map[int]card.Card) GameView {
	return GameView{
		Seat:        2,
		Team:        truco.TeamA,
		Hand:        hand,
		PlayedCards: played,
		RoundNumber: 1,
		Available:   []truco.ActionType{truco.ActionTypePlayCard, truco.ActionTypeSurrenderHand},
	}
}

func TestRuleBrainSpendsCheapestWinningCard(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "test",
		Name:  "TEST",
		Brain: PersonalityProfile{Aggression: 0, Caution: 0.5},
	}, 42)

	// Opponent at seat 1 holds the trick with a king. Both the 3 and the
	// zap would win; the 3 is the cheaper spend.
	view := turnView(
		[]card.Card{card.CardClub4, card.CardHeart3, card.CardSpade5},
		map[int]card.Card{1: card.CardDiamondK},
	)
	d := brain.Decide(view)
	if d.Action != truco.ActionTypePlayCard || d.CardIndex != 1 {
		t.Fatalf("expected the 3 at index 1, got %+v", d)
	}
}

func TestRuleBrainDumpsUnderPartnerLead(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "test",
		Name:  "TEST",
		Brain: PersonalityProfile{Aggression: 0, Caution: 0.5},
	}, 42)

	// Partner at seat 0 has the trick locked with the zap: throw away the
	// weakest card instead of wasting the 3.
	view := turnView(
		[]card.Card{card.CardHeart3, card.CardSpade5, card.CardHeartJ},
		map[int]card.Card{0: card.CardClub4, 1: card.CardDiamondK},
	)
	d := brain.Decide(view)
	if d.Action != truco.ActionTypePlayCard || d.CardIndex != 1 {
		t.Fatalf("expected the 5 at index 1, got %+v", d)
	}
}

func TestRuleBrainDumpsWhenTrickIsLost(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "test",
		Name:  "TEST",
		Brain: PersonalityProfile{Aggression: 0, Caution: 0.5},
	}, 42)

	view := turnView(
		[]card.Card{card.CardHeartK, card.CardSpade5, card.CardHeartJ},
		map[int]card.Card{1: card.CardClub4},
	)
	d := brain.Decide(view)
	if d.Action != truco.ActionTypePlayCard || d.CardIndex != 1 {
		t.Fatalf("expected to dump the 5 at index 1, got %+v", d)
	}
}

func TestCautiousBrainDeclinesOnWeakHand(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "rock",
		Name:  "ROCK",
		Brain: PersonalityProfile{Aggression: 0, Caution: 0.9, Bluffing: 0, Randomness: 0},
	}, 7)

	view := GameView{
		Seat: 2,
		Team: truco.TeamA,
		Hand: []card.Card{card.CardSpade4, card.CardHeart5, card.CardDiamond6},
		Available: []truco.ActionType{
			truco.ActionTypeAcceptTruco,
			truco.ActionTypeSurrenderTruco,
			truco.ActionTypeCallTrucoOrRaise,
		},
	}
	d := brain.Decide(view)
	if d.Action != truco.ActionTypeSurrenderTruco {
		t.Fatalf("a rock with garbage must decline, got %+v", d)
	}
}

func TestBrainAcceptsWithManilhas(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "rock",
		Name:  "ROCK",
		Brain: PersonalityProfile{Aggression: 0, Caution: 0.9, Bluffing: 0, Randomness: 0},
	}, 7)

	view := GameView{
		Seat: 2,
		Team: truco.TeamA,
		Hand: []card.Card{card.CardClub4, card.CardHeart7, card.CardSpade3},
		Available: []truco.ActionType{
			truco.ActionTypeAcceptTruco,
			truco.ActionTypeSurrenderTruco,
		},
	}
	d := brain.Decide(view)
	if d.Action != truco.ActionTypeAcceptTruco {
		t.Fatalf("zap plus copas must be accepted even by a rock, got %+v", d)
	}
}

func TestAggressiveBrainCallsTrucoOften(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "maniac",
		Name:  "MANIAC",
		Brain: PersonalityProfile{Aggression: 1.0, Caution: 0.1, Bluffing: 0.2, Randomness: 0},
	}, 99)

	view := GameView{
		Seat: 1,
		Team: truco.TeamB,
		Hand: []card.Card{card.CardClub4, card.CardHeart7, card.CardSpade3},
		Available: []truco.ActionType{
			truco.ActionTypePlayCard,
			truco.ActionTypeSurrenderHand,
			truco.ActionTypeCallTrucoOrRaise,
		},
	}

	const rounds = 2000
	calls := 0
	for i := 0; i < rounds; i++ {
		if brain.Decide(view).Action == truco.ActionTypeCallTrucoOrRaise {
			calls++
		}
	}
	if calls < rounds/2 {
		t.Fatalf("maniac with the top hand called only %d/%d times", calls, rounds)
	}
}

func TestForcedDecisionPrefersPlaying(t *testing.T) {
	brain := NewRuleBrain(&Persona{
		ID:    "test",
		Name:  "TEST",
		Brain: PersonalityProfile{Aggression: 0.5, Caution: 0.5},
	}, 42)

	view := GameView{
		Seat: 0,
		Team: truco.TeamA,
		Hand: []card.Card{card.CardHeart3, card.CardSpade2, card.CardHeartK},
		Available: []truco.ActionType{
			truco.ActionTypePlayAtRaisedStake,
			truco.ActionTypeSurrenderHand,
		},
	}
	if d := brain.Decide(view); d.Action != truco.ActionTypePlayAtRaisedStake {
		t.Fatalf("decent hand must play at 4, got %+v", d)
	}
}

func TestManagerSpawnAndViewRedaction(t *testing.T) {
	m := NewManager(NewDefaultRegistry())
	persona := m.Registry().Get("dona_lurdes")
	if persona == nil {
		t.Fatal("default registry missing dona_lurdes")
	}
	inst := m.Spawn(3, persona)
	if !m.IsBot(inst.PlayerID) {
		t.Fatal("spawned instance not tracked")
	}
	if m.ThinkDelay(inst.PlayerID) <= 0 {
		t.Fatal("think delay must be positive")
	}

	snap := truco.Snapshot{
		Players: []truco.PlayerSnapshot{
			{Seat: 0, Hand: []card.Card{card.CardClub4}},
			{Seat: 3, Hand: []card.Card{card.CardHeart3, card.CardSpade5}},
		},
		ScoreA: 4,
		ScoreB: 6,
	}
	view := buildGameView(inst, snap, []truco.ActionType{truco.ActionTypePlayCard})
	if len(view.Hand) != 2 {
		t.Fatalf("view must carry the bot's own hand, got %v", view.Hand)
	}
	if view.ScoreOwn != 6 || view.ScoreOpp != 4 {
		t.Fatalf("seat 3 is team B: own=%d opp=%d", view.ScoreOwn, view.ScoreOpp)
	}

	m.Despawn(inst.PlayerID)
	if m.IsBot(inst.PlayerID) {
		t.Fatal("despawned instance still tracked")
	}
}
