// Package codec defines the JSON wire format spoken over the websocket
// and the per-viewer filtering applied before anything leaves the server.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"truco-lite/truco"
)

// Client message types.
const (
	ClientCreateGame        = "create_game"
	ClientJoinGame          = "join_game"
	ClientStartGame         = "start_game"
	ClientPlayCard          = "play_card"
	ClientCallTrucoOrRaise  = "call_truco_or_raise"
	ClientAcceptTruco       = "accept_truco"
	ClientSurrenderTruco    = "surrender_truco"
	ClientSurrenderHand     = "surrender_hand"
	ClientPlayAtRaisedStake = "play_at_raised_stake"
)

// Server message types. Game events go out under their truco.EventKind.
const (
	ServerError   = "error"
	ServerWelcome = "welcome"
	ServerJoined  = "joined"
	ServerView    = "view"
)

// ClientEnvelope is every message a client may send.
type ClientEnvelope struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`

	// play_card
	CardIndex int `json:"cardIndex,omitempty"`

	// create_game
	Bots        []string `json:"bots,omitempty"` // persona IDs for the empty seats
	NoveVariant bool     `json:"noveVariant,omitempty"`
}

// ServerEnvelope is every message the server sends.
type ServerEnvelope struct {
	Type       string `json:"type"`
	GameID     string `json:"gameId,omitempty"`
	ServerSeq  uint64 `json:"serverSeq,omitempty"`
	ServerTsMs int64  `json:"serverTsMs"`

	// Game event fields.
	Payload json.RawMessage `json:"payload,omitempty"`
	View    *truco.Snapshot `json:"view,omitempty"`

	// error
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// welcome / joined
	UserID uint64 `json:"userId,omitempty"`
	Seat   *int   `json:"seat,omitempty"`
}

// CommandFromEnvelope maps an in-game client message to an engine command
// issued by the given seat.
func CommandFromEnvelope(env ClientEnvelope, seat int) (truco.Command, error) {
	switch env.Type {
	case ClientStartGame:
		return truco.StartGame{Seat: seat}, nil
	case ClientPlayCard:
		return truco.PlayCard{Seat: seat, CardIndex: env.CardIndex}, nil
	case ClientCallTrucoOrRaise:
		return truco.CallTrucoOrRaise{Seat: seat}, nil
	case ClientAcceptTruco:
		return truco.AcceptTruco{Seat: seat}, nil
	case ClientSurrenderTruco:
		return truco.SurrenderTruco{Seat: seat}, nil
	case ClientSurrenderHand:
		return truco.SurrenderHand{Seat: seat}, nil
	case ClientPlayAtRaisedStake:
		return truco.PlayAtRaisedStake{Seat: seat}, nil
	default:
		return nil, fmt.Errorf("not a game command: %q", env.Type)
	}
}

// EncodeEventFor renders one game event for one viewer seat. It returns
// ok=false when the event is private to other seats. The attached view is
// redacted for the viewer; a spectator passes truco.SeatInvalid.
func EncodeEventFor(gameID string, seq uint64, evt truco.Event, viewerSeat int, revealAll bool) (data []byte, ok bool) {
	if !evt.Broadcast() && !addressedTo(evt, viewerSeat) {
		return nil, false
	}

	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, false
	}
	view := evt.State.ViewFor(viewerSeat, revealAll)
	env := ServerEnvelope{
		Type:       string(evt.Kind),
		GameID:     gameID,
		ServerSeq:  seq,
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    payload,
		View:       &view,
	}
	data, err = json.Marshal(env)
	if err != nil {
		return nil, false
	}
	return data, true
}

// EncodeView renders a standalone redacted snapshot, used on join/resume.
func EncodeView(gameID string, seq uint64, snap truco.Snapshot, viewerSeat int, revealAll bool) []byte {
	view := snap.ViewFor(viewerSeat, revealAll)
	data, _ := json.Marshal(ServerEnvelope{
		Type:       ServerView,
		GameID:     gameID,
		ServerSeq:  seq,
		ServerTsMs: time.Now().UnixMilli(),
		View:       &view,
	})
	return data
}

func EncodeError(gameID string, code int, msg string) []byte {
	data, _ := json.Marshal(ServerEnvelope{
		Type:       ServerError,
		GameID:     gameID,
		ServerTsMs: time.Now().UnixMilli(),
		Code:       code,
		Message:    msg,
	})
	return data
}

func addressedTo(evt truco.Event, seat int) bool {
	for _, s := range evt.RecipientSeats {
		if s == seat {
			return true
		}
	}
	return false
}
