package truco

import "truco-lite/card"

// resolveRound compares the four cards on the table. The unique strongest
// card wins the trick for its seat; if the top strength is shared the
// trick is a draw. Draws only ever come from same-rank ordinary cards,
// the four manilhas have distinct strengths.
func resolveRound(played map[int]card.Card) RoundResult {
	best, bestSeat, dup := -1, SeatInvalid, false
	for seat := 0; seat < NumSeats; seat++ {
		c, ok := played[seat]
		if !ok {
			continue
		}
		s := card.Strength(c)
		switch {
		case s > best:
			best, bestSeat, dup = s, seat, false
		case s == best:
			dup = true
		}
	}
	if dup {
		return RoundResult{Winner: TeamNone, WinnerSeat: SeatInvalid, Draw: true}
	}
	return RoundResult{Winner: TeamForSeat(bestSeat), WinnerSeat: bestSeat}
}

// handOutcome decides whether the hand is over and who takes it.
//
// Two round wins take the hand outright. Draws bend the rest:
//   - round 1 decided, any later round drawn: round 1's winner takes it
//   - round 1 drawn: the first decided round takes it
//   - all three rounds drawn: the hand is void, winner TeamNone
func handOutcome(results []RoundResult) (winner Team, done bool) {
	winsA, winsB := 0, 0
	for _, r := range results {
		switch r.Winner {
		case TeamA:
			winsA++
		case TeamB:
			winsB++
		}
	}
	if winsA >= 2 {
		return TeamA, true
	}
	if winsB >= 2 {
		return TeamB, true
	}
	if len(results) == 0 {
		return TeamNone, false
	}

	if results[0].Draw {
		for _, r := range results[1:] {
			if !r.Draw {
				return r.Winner, true
			}
		}
		if len(results) == RoundsPerHand {
			return TeamNone, true
		}
		return TeamNone, false
	}

	for _, r := range results[1:] {
		if r.Draw {
			return results[0].Winner, true
		}
	}
	return TeamNone, false
}
