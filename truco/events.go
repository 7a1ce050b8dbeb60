package truco

import "truco-lite/card"

type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventHandStarted       EventKind = "hand_started"
	EventCardsDealt        EventKind = "cards_dealt"
	EventPlayerTurnStarted EventKind = "player_turn_started"
	EventCardPlayed        EventKind = "card_played"
	EventRoundCompleted    EventKind = "round_completed"
	EventTrucoCalled       EventKind = "truco_called"
	EventTrucoAccepted     EventKind = "truco_accepted"
	EventTrucoSurrendered  EventKind = "truco_surrendered"
	EventHandSurrendered   EventKind = "hand_surrendered"
	EventStakesLockedIn    EventKind = "stakes_locked_in"
	EventHandCompleted     EventKind = "hand_completed"
	EventGameCompleted     EventKind = "game_completed"
)

// Event is one state transition emitted by Game.Apply. Events are return
// values, not callbacks: the caller (the room) decides how to fan them out.
//
// RecipientSeats empty means broadcast. CardsDealt is the only private
// event; it is addressed to a single seat.
//
// State is the full post-mutation snapshot, identical across every event
// of one Apply batch. Consumers that show it to a player must redact it
// through Snapshot.ViewFor first.
type Event struct {
	Kind           EventKind
	Payload        any
	RecipientSeats []int
	State          Snapshot
}

func (e Event) Broadcast() bool { return len(e.RecipientSeats) == 0 }

type GameStartedPayload struct {
	GameID     string `json:"gameId"`
	DealerSeat int    `json:"dealerSeat"`
}

type HandStartedPayload struct {
	HandNumber    int  `json:"handNumber"`
	DealerSeat    int  `json:"dealerSeat"`
	Stakes        int  `json:"stakes"`
	CallsDisabled bool `json:"callsDisabled"`
	// NearVictoryTeam is TeamNone unless exactly one team sits within
	// BaseStakes of the victory threshold.
	NearVictoryTeam Team `json:"nearVictoryTeam"`
}

type CardsDealtPayload struct {
	Seat int         `json:"seat"`
	Hand []card.Card `json:"hand"`
}

type PlayerTurnStartedPayload struct {
	Seat      int          `json:"seat"`
	Available []ActionType `json:"available"`
	// ResponseWindow marks a truco response prompt: Seat is a
	// representative of the responding team, but either member may act.
	ResponseWindow bool `json:"responseWindow"`
}

type CardPlayedPayload struct {
	Seat        int       `json:"seat"`
	Card        card.Card `json:"card"`
	RoundNumber int       `json:"roundNumber"`
}

type RoundCompletedPayload struct {
	RoundNumber int  `json:"roundNumber"`
	Winner      Team `json:"winner"`
	WinnerSeat  int  `json:"winnerSeat"`
	Draw        bool `json:"draw"`
}

type TrucoCalledPayload struct {
	Seat          int       `json:"seat"`
	CallingTeam   Team      `json:"callingTeam"`
	CallState     CallState `json:"callState"`
	PendingStakes int       `json:"pendingStakes"`
}

type TrucoAcceptedPayload struct {
	Seat   int  `json:"seat"`
	Team   Team `json:"team"`
	Stakes int  `json:"stakes"`
}

type TrucoSurrenderedPayload struct {
	Seat          int  `json:"seat"`
	Team          Team `json:"team"`
	AwardedTo     Team `json:"awardedTo"`
	PointsAwarded int  `json:"pointsAwarded"`
}

type HandSurrenderedPayload struct {
	Seat          int  `json:"seat"`
	Team          Team `json:"team"`
	AwardedTo     Team `json:"awardedTo"`
	PointsAwarded int  `json:"pointsAwarded"`
}

type StakesLockedInPayload struct {
	Team   Team `json:"team"`
	Stakes int  `json:"stakes"`
}

type HandCompletedPayload struct {
	HandNumber int `json:"handNumber"`
	// Winner is TeamNone when all three rounds drew and no points move.
	Winner        Team `json:"winner"`
	PointsAwarded int  `json:"pointsAwarded"`
	ScoreA        int  `json:"scoreA"`
	ScoreB        int  `json:"scoreB"`
}

type GameCompletedPayload struct {
	Winner Team `json:"winner"`
	ScoreA int  `json:"scoreA"`
	ScoreB int  `json:"scoreB"`
}
