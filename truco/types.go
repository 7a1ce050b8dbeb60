package truco

const (
	NumSeats      = 4
	CardsPerSeat  = 3
	RoundsPerHand = 3

	BaseStakes  = 2
	TrucoStakes = 4

	VictoryThreshold = 12

	SeatInvalid = -1
)

// Team identifies one of the two fixed partnerships. Seats 0 and 2 are
// team A, seats 1 and 3 are team B.
type Team byte

const (
	TeamNone Team = 0
	TeamA    Team = 1
	TeamB    Team = 2
)

var teamDictionary = map[Team]string{
	TeamNone: "none",
	TeamA:    "A",
	TeamB:    "B",
}

func (t Team) String() string { return teamDictionary[t] }

func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamNone
	}
}

func TeamForSeat(seat int) Team {
	if seat < 0 || seat >= NumSeats {
		return TeamNone
	}
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// Status is the game lifecycle state.
type Status byte

const (
	StatusWaiting   Status = 0
	StatusActive    Status = 1
	StatusCompleted Status = 2
)

var StatusDictionary = map[Status]string{
	StatusWaiting:   "waiting",
	StatusActive:    "active",
	StatusCompleted: "completed",
}

func (s Status) String() string { return StatusDictionary[s] }

// CallState is a rung on the call ladder:
// truco(4) -> seis(8) -> [nove(10)] -> doze(12).
// The nove rung only exists when Config.NoveVariant is on.
type CallState byte

const (
	CallNone  CallState = 0
	CallTruco CallState = 1
	CallSeis  CallState = 2
	CallNove  CallState = 3
	CallDoze  CallState = 4
)

var CallStateDictionary = map[CallState]string{
	CallNone:  "none",
	CallTruco: "truco",
	CallSeis:  "seis",
	CallNove:  "nove",
	CallDoze:  "doze",
}

func (c CallState) String() string { return CallStateDictionary[c] }

// Stakes is the hand value once this rung has been confirmed.
func (c CallState) Stakes() int {
	switch c {
	case CallTruco:
		return 4
	case CallSeis:
		return 8
	case CallNove:
		return 10
	case CallDoze:
		return 12
	default:
		return BaseStakes
	}
}

// ActionType enumerates the commands a seat may legally submit.
type ActionType byte

const (
	ActionTypeNone              ActionType = 0
	ActionTypePlayCard          ActionType = 1
	ActionTypeCallTrucoOrRaise  ActionType = 2
	ActionTypeAcceptTruco       ActionType = 3
	ActionTypeSurrenderTruco    ActionType = 4
	ActionTypeSurrenderHand     ActionType = 5
	ActionTypePlayAtRaisedStake ActionType = 6
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:              "NONE",
	ActionTypePlayCard:          "PLAY_CARD",
	ActionTypeCallTrucoOrRaise:  "CALL_TRUCO_OR_RAISE",
	ActionTypeAcceptTruco:       "ACCEPT_TRUCO",
	ActionTypeSurrenderTruco:    "SURRENDER_TRUCO",
	ActionTypeSurrenderHand:     "SURRENDER_HAND",
	ActionTypePlayAtRaisedStake: "PLAY_AT_RAISED_STAKE",
}

func (a ActionType) String() string { return ActionTypeDictionary[a] }

// RoundResult records the outcome of one trick. On a draw Winner is
// TeamNone and WinnerSeat is SeatInvalid.
type RoundResult struct {
	Winner     Team `json:"winner"`
	WinnerSeat int  `json:"winnerSeat"`
	Draw       bool `json:"draw"`
}
