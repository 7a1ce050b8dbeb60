package codec

import (
	"encoding/json"
	"testing"

	"truco-lite/card"
	"truco-lite/truco"

	"github.com/google/go-cmp/cmp"
)

func TestCommandFromEnvelope(t *testing.T) {
	tests := []struct {
		env  ClientEnvelope
		want truco.Command
	}{
		{ClientEnvelope{Type: ClientStartGame}, truco.StartGame{Seat: 2}},
		{ClientEnvelope{Type: ClientPlayCard, CardIndex: 1}, truco.PlayCard{Seat: 2, CardIndex: 1}},
		{ClientEnvelope{Type: ClientCallTrucoOrRaise}, truco.CallTrucoOrRaise{Seat: 2}},
		{ClientEnvelope{Type: ClientAcceptTruco}, truco.AcceptTruco{Seat: 2}},
		{ClientEnvelope{Type: ClientSurrenderTruco}, truco.SurrenderTruco{Seat: 2}},
		{ClientEnvelope{Type: ClientSurrenderHand}, truco.SurrenderHand{Seat: 2}},
		{ClientEnvelope{Type: ClientPlayAtRaisedStake}, truco.PlayAtRaisedStake{Seat: 2}},
	}
	for _, tt := range tests {
		got, err := CommandFromEnvelope(tt.env, 2)
		if err != nil {
			t.Fatalf("%s: %v", tt.env.Type, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("%s command mismatch (-want +got):\n%s", tt.env.Type, diff)
		}
	}

	if _, err := CommandFromEnvelope(ClientEnvelope{Type: ClientCreateGame}, 0); err == nil {
		t.Fatalf("create_game must not map to an engine command")
	}
	if _, err := CommandFromEnvelope(ClientEnvelope{Type: "bogus"}, 0); err == nil {
		t.Fatalf("unknown type must not map to an engine command")
	}
}

func testSnapshot() truco.Snapshot {
	return truco.Snapshot{
		GameID: "g1",
		Status: truco.StatusActive,
		Players: []truco.PlayerSnapshot{
			{Seat: 0, Hand: []card.Card{card.CardClub4}, HandCount: 1},
			{Seat: 1, Hand: []card.Card{card.CardHeart7}, HandCount: 1},
			{Seat: 2, Hand: []card.Card{card.CardSpadeA}, HandCount: 1},
			{Seat: 3, Hand: []card.Card{card.CardDiamond7}, HandCount: 1},
		},
	}
}

func TestEncodeEventForRedactsView(t *testing.T) {
	evt := truco.Event{
		Kind:    truco.EventCardPlayed,
		Payload: truco.CardPlayedPayload{Seat: 1, Card: card.CardHeart7},
		State:   testSnapshot(),
	}

	data, ok := EncodeEventFor("g1", 7, evt, 2, false)
	if !ok {
		t.Fatalf("broadcast event not encoded")
	}

	var env ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != string(truco.EventCardPlayed) {
		t.Fatalf("type = %q, want %q", env.Type, truco.EventCardPlayed)
	}
	if env.ServerSeq != 7 {
		t.Fatalf("serverSeq = %d, want 7", env.ServerSeq)
	}
	if env.View == nil {
		t.Fatalf("event missing view")
	}
	for _, p := range env.View.Players {
		if p.Seat == 2 && len(p.Hand) == 0 {
			t.Fatalf("viewer's own hand redacted")
		}
		if p.Seat != 2 && len(p.Hand) != 0 {
			t.Fatalf("seat %d hand leaked to viewer", p.Seat)
		}
		if p.HandCount != 1 {
			t.Fatalf("seat %d handCount = %d, want 1", p.Seat, p.HandCount)
		}
	}
}

func TestEncodeEventForPrivateDelivery(t *testing.T) {
	evt := truco.Event{
		Kind:           truco.EventCardsDealt,
		Payload:        truco.CardsDealtPayload{Seat: 1, Hand: []card.Card{card.CardHeart7}},
		RecipientSeats: []int{1},
		State:          testSnapshot(),
	}

	if _, ok := EncodeEventFor("g1", 1, evt, 0, false); ok {
		t.Fatalf("private event delivered to wrong seat")
	}
	if _, ok := EncodeEventFor("g1", 1, evt, truco.SeatInvalid, false); ok {
		t.Fatalf("private event delivered to spectator")
	}
	if _, ok := EncodeEventFor("g1", 1, evt, 1, false); !ok {
		t.Fatalf("private event not delivered to addressee")
	}
}

func TestEncodeViewSpectator(t *testing.T) {
	data := EncodeView("g1", 3, testSnapshot(), truco.SeatInvalid, false)

	var env ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != ServerView {
		t.Fatalf("type = %q, want %q", env.Type, ServerView)
	}
	for _, p := range env.View.Players {
		if len(p.Hand) != 0 {
			t.Fatalf("spectator view leaked seat %d hand", p.Seat)
		}
	}
}

func TestEncodeViewRevealAll(t *testing.T) {
	data := EncodeView("g1", 3, testSnapshot(), 0, true)

	var env ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, p := range env.View.Players {
		if len(p.Hand) != 1 {
			t.Fatalf("reveal-all view missing seat %d hand", p.Seat)
		}
	}
}

func TestEncodeError(t *testing.T) {
	var env ServerEnvelope
	if err := json.Unmarshal(EncodeError("g1", 4, "out of turn"), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != ServerError || env.Code != 4 || env.Message != "out of turn" {
		t.Fatalf("unexpected error envelope: %+v", env)
	}
}
