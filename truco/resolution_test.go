package truco

import (
	"testing"

	"truco-lite/card"
)

func TestResolveRoundHighestCardWins(t *testing.T) {
	played := map[int]card.Card{
		0: card.CardSpadeQ,   // strength 5
		1: card.CardHeart2,   // strength 9
		2: card.CardClub6,    // strength 3
		3: card.CardDiamond5, // strength 2
	}
	res := resolveRound(played)
	if res.Draw {
		t.Fatalf("unexpected draw: %+v", res)
	}
	if res.WinnerSeat != 1 || res.Winner != TeamB {
		t.Fatalf("expected seat 1 / team B, got seat %d / team %v", res.WinnerSeat, res.Winner)
	}
}

func TestResolveRoundSharedTopRankDraws(t *testing.T) {
	played := map[int]card.Card{
		0: card.CardHeart3,
		1: card.CardClub3,
		2: card.CardHeart4,
		3: card.CardDiamond5,
	}
	res := resolveRound(played)
	if !res.Draw {
		t.Fatalf("expected draw, got %+v", res)
	}
	if res.Winner != TeamNone || res.WinnerSeat != SeatInvalid {
		t.Fatalf("draw must carry no winner, got %+v", res)
	}
}

func TestResolveRoundLowTieDoesNotDraw(t *testing.T) {
	// Two losers tie; the unique top card still wins.
	played := map[int]card.Card{
		0: card.CardSpade4,
		1: card.CardHeart4,
		2: card.CardClub3,
		3: card.CardDiamond6,
	}
	res := resolveRound(played)
	if res.Draw || res.WinnerSeat != 2 {
		t.Fatalf("expected seat 2 to win, got %+v", res)
	}
}

func TestResolveRoundManilhasNeverTie(t *testing.T) {
	played := map[int]card.Card{
		0: card.CardClub4,    // zap
		1: card.CardHeart7,   // copas
		2: card.CardSpadeA,   // espadilha
		3: card.CardDiamond7, // ourito
	}
	res := resolveRound(played)
	if res.Draw || res.WinnerSeat != 0 {
		t.Fatalf("expected zap at seat 0 to win, got %+v", res)
	}
}

func TestHandOutcome(t *testing.T) {
	winA := RoundResult{Winner: TeamA, WinnerSeat: 0}
	winB := RoundResult{Winner: TeamB, WinnerSeat: 1}
	draw := RoundResult{Winner: TeamNone, WinnerSeat: SeatInvalid, Draw: true}

	cases := []struct {
		name    string
		results []RoundResult
		winner  Team
		done    bool
	}{
		{"two straight wins", []RoundResult{winA, winA}, TeamA, true},
		{"rubber round", []RoundResult{winA, winB, winA}, TeamA, true},
		{"split after one round", []RoundResult{winA, winB}, TeamNone, false},
		{"first round pending", []RoundResult{winA}, TeamNone, false},
		{"draw then decided", []RoundResult{draw, winB}, TeamB, true},
		{"draw still open", []RoundResult{draw}, TeamNone, false},
		{"two draws still open", []RoundResult{draw, draw}, TeamNone, false},
		{"two draws then decided", []RoundResult{draw, draw, winA}, TeamA, true},
		{"win then draw", []RoundResult{winA, draw}, TeamA, true},
		{"split then draw", []RoundResult{winB, winA, draw}, TeamB, true},
		{"all drawn", []RoundResult{draw, draw, draw}, TeamNone, true},
		{"empty", nil, TeamNone, false},
	}
	for _, tc := range cases {
		winner, done := handOutcome(tc.results)
		if winner != tc.winner || done != tc.done {
			t.Fatalf("%s: got winner=%v done=%v, want winner=%v done=%v",
				tc.name, winner, done, tc.winner, tc.done)
		}
	}
}
