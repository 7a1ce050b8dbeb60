package bot

import (
	"truco-lite/card"
	"truco-lite/truco"
)

// GameView is a read-only projection of the game state visible to the bot.
// It carries only the bot's own hand, never an opponent's.
type GameView struct {
	Seat int
	Team truco.Team

	Hand        []card.Card
	PlayedCards map[int]card.Card

	RoundNumber  int
	RoundResults []truco.RoundResult

	Stakes          int
	ConfirmedStakes int
	CallState       truco.CallState

	ScoreOwn int
	ScoreOpp int

	Available []truco.ActionType
}

// Decision is what a BrainDecider returns. CardIndex is only meaningful
// for ActionTypePlayCard.
type Decision struct {
	Action    truco.ActionType
	CardIndex int
}

// BrainDecider is the core interface all bot types implement.
type BrainDecider interface {
	// Decide is called when it's the bot's turn.
	Decide(view GameView) Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}
