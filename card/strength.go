package card

// Truco strength table ("manilhas cravadas" variant: the four manilhas are
// fixed, they do not rotate with a turned card).
//
// Manilhas, strongest first: 4♣ (zap), 7♥ (copas), A♠ (espadilha),
// 7♦ (ourito). Every manilha beats every ordinary card.
//
// Ordinary cards rank 3 > 2 > A > K > J > Q > 7 > 6 > 5 > 4 regardless of
// suit, so two ordinary cards of the same rank tie. Round draws in the game
// come from exactly these ties.
const (
	strengthOurito    = 11
	strengthEspadilha = 12
	strengthSeteCopas = 13
	strengthZap       = 14
)

// IsManilha reports whether c is one of the four fixed manilhas.
func IsManilha(c Card) bool {
	switch c {
	case CardClub4, CardHeart7, CardSpadeA, CardDiamond7:
		return true
	}
	return false
}

// Strength maps a card to its comparable strength. Manilhas occupy 11..14
// (each distinct), ordinary ranks occupy 1..10 (equal across suits).
func Strength(c Card) int {
	switch c {
	case CardClub4:
		return strengthZap
	case CardHeart7:
		return strengthSeteCopas
	case CardSpadeA:
		return strengthEspadilha
	case CardDiamond7:
		return strengthOurito
	}

	switch c.Rank() {
	case 3:
		return 10
	case 2:
		return 9
	case 1: // A
		return 8
	case 13: // K
		return 7
	case 11: // J
		return 6
	case 12: // Q
		return 5
	case 7:
		return 4
	case 6:
		return 3
	case 5:
		return 2
	case 4:
		return 1
	}
	return 0
}
