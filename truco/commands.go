package truco

// Command is one player intent submitted to Game.Apply. Each concrete
// command carries the seat it originates from; Apply validates the whole
// command against the current state before mutating anything.
type Command interface {
	CommandSeat() int
	CommandName() string
}

// StartGame begins play: the first hand is dealt and the first turn opens.
type StartGame struct {
	Seat int
}

// PlayCard plays the card at CardIndex of the seat's current hand.
type PlayCard struct {
	Seat      int
	CardIndex int
}

// CallTrucoOrRaise escalates the stakes one rung up the call ladder. The
// same command both opens the first call (truco) and counter-raises a
// pending one.
type CallTrucoOrRaise struct {
	Seat int
}

// AcceptTruco accepts the pending call; play resumes at the raised stakes.
type AcceptTruco struct {
	Seat int
}

// SurrenderTruco declines the pending call; the calling team is awarded
// the stakes that were confirmed before the call.
type SurrenderTruco struct {
	Seat int
}

// SurrenderHand concedes the current hand at its confirmed stakes.
type SurrenderHand struct {
	Seat int
}

// PlayAtRaisedStake is the near-victory team's decision to play the hand
// at the locked-in truco value instead of conceding.
type PlayAtRaisedStake struct {
	Seat int
}

func (c StartGame) CommandSeat() int         { return c.Seat }
func (c PlayCard) CommandSeat() int          { return c.Seat }
func (c CallTrucoOrRaise) CommandSeat() int  { return c.Seat }
func (c AcceptTruco) CommandSeat() int       { return c.Seat }
func (c SurrenderTruco) CommandSeat() int    { return c.Seat }
func (c SurrenderHand) CommandSeat() int     { return c.Seat }
func (c PlayAtRaisedStake) CommandSeat() int { return c.Seat }

func (c StartGame) CommandName() string         { return "START_GAME" }
func (c PlayCard) CommandName() string          { return "PLAY_CARD" }
func (c CallTrucoOrRaise) CommandName() string  { return "CALL_TRUCO_OR_RAISE" }
func (c AcceptTruco) CommandName() string       { return "ACCEPT_TRUCO" }
func (c SurrenderTruco) CommandName() string    { return "SURRENDER_TRUCO" }
func (c SurrenderHand) CommandName() string     { return "SURRENDER_HAND" }
func (c PlayAtRaisedStake) CommandName() string { return "PLAY_AT_RAISED_STAKE" }
