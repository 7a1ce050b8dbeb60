package bot

import (
	"math/rand"

	"truco-lite/card"
	"truco-lite/truco"
)

// RuleBrain makes decisions based on a PersonalityProfile with tunable
// parameters.
type RuleBrain struct {
	Persona *Persona
	rng     *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *Persona, seed int64) *RuleBrain {
	return &RuleBrain{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements BrainDecider.
func (b *RuleBrain) Decide(view GameView) Decision {
	if len(view.Available) == 0 {
		return Decision{Action: truco.ActionTypeNone}
	}
	p := b.Persona.Brain

	aggression := clamp01(p.Aggression + (b.rng.Float64()-0.5)*p.Randomness*0.4)
	caution := clamp01(p.Caution + (b.rng.Float64()-0.5)*p.Randomness*0.3)

	strength := handStrength(view.Hand)

	canPlay := contains(view.Available, truco.ActionTypePlayCard)
	canCall := contains(view.Available, truco.ActionTypeCallTrucoOrRaise)
	canAccept := contains(view.Available, truco.ActionTypeAcceptTruco)
	canDecline := contains(view.Available, truco.ActionTypeSurrenderTruco)
	canLockStakes := contains(view.Available, truco.ActionTypePlayAtRaisedStake)

	// Near-victory decision: concede the cheap 2 only with a hopeless
	// hand, otherwise play for the locked 4.
	if canLockStakes {
		if strength < 0.2 && caution > 0.5 {
			return Decision{Action: truco.ActionTypeSurrenderHand}
		}
		return Decision{Action: truco.ActionTypePlayAtRaisedStake}
	}

	// Responding to a call: counter-raise with a monster, accept on
	// decent cards, fold the rest.
	if canAccept || canDecline {
		if canCall && strength > 0.75 && b.rng.Float64() < aggression {
			return Decision{Action: truco.ActionTypeCallTrucoOrRaise}
		}
		acceptThreshold := 0.25 + caution*0.35
		if strength >= acceptThreshold || b.rng.Float64() < p.Bluffing*0.3 {
			return Decision{Action: truco.ActionTypeAcceptTruco}
		}
		return Decision{Action: truco.ActionTypeSurrenderTruco}
	}

	// Our turn: maybe escalate first.
	if canCall {
		callChance := aggression * (strength - 0.45) * 2
		if b.rng.Float64() < p.Bluffing*0.15 {
			callChance = p.Bluffing // truco on nothing
		}
		if callChance > 0 && b.rng.Float64() < callChance {
			return Decision{Action: truco.ActionTypeCallTrucoOrRaise}
		}
	}

	if canPlay {
		return Decision{Action: truco.ActionTypePlayCard, CardIndex: b.chooseCard(view)}
	}

	// Fallback: first legal action.
	return Decision{Action: view.Available[0]}
}

// chooseCard picks which card to throw.
//
// If the partner currently holds the trick, dump the weakest card. If an
// opponent holds it, spend the cheapest card that still beats theirs, or
// dump the weakest when nothing does. When leading, open strong.
func (b *RuleBrain) chooseCard(view GameView) int {
	if len(view.Hand) == 0 {
		return 0
	}

	topStrength, topSeat := -1, truco.SeatInvalid
	for seat, c := range view.PlayedCards {
		if s := card.Strength(c); s > topStrength {
			topStrength, topSeat = s, seat
		}
	}

	if topSeat == truco.SeatInvalid {
		return strongestIndex(view.Hand)
	}
	if truco.TeamForSeat(topSeat) == view.Team {
		return weakestIndex(view.Hand)
	}

	bestIdx, bestStrength := -1, int(^uint(0)>>1)
	for i, c := range view.Hand {
		s := card.Strength(c)
		if s > topStrength && s < bestStrength {
			bestIdx, bestStrength = i, s
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}
	return weakestIndex(view.Hand)
}

// handStrength returns a 0.0–1.0 heuristic weighted toward the top cards:
// in a best-of-three trick game two strong cards matter far more than a
// balanced average.
func handStrength(hand []card.Card) float64 {
	if len(hand) == 0 {
		return 0
	}
	best, second := 0, 0
	for _, c := range hand {
		s := card.Strength(c)
		if s > best {
			best, second = s, best
		} else if s > second {
			second = s
		}
	}
	return clamp01((float64(best)*0.7 + float64(second)*0.3) / 14.0)
}

func strongestIndex(hand []card.Card) int {
	idx, best := 0, -1
	for i, c := range hand {
		if s := card.Strength(c); s > best {
			idx, best = i, s
		}
	}
	return idx
}

func weakestIndex(hand []card.Card) int {
	idx, worst := 0, int(^uint(0)>>1)
	for i, c := range hand {
		if s := card.Strength(c); s < worst {
			idx, worst = i, s
		}
	}
	return idx
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contains(actions []truco.ActionType, target truco.ActionType) bool {
	for _, a := range actions {
		if a == target {
			return true
		}
	}
	return false
}
