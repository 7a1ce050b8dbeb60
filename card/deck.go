package card

// TrucoDeck lists the full 40-card deck in suit/rank order.
var TrucoDeck = []Card{
	CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5,
	CardSpade6, CardSpade7, CardSpadeJ, CardSpadeQ, CardSpadeK,
	CardHeartA, CardHeart2, CardHeart3, CardHeart4, CardHeart5,
	CardHeart6, CardHeart7, CardHeartJ, CardHeartQ, CardHeartK,
	CardClubA, CardClub2, CardClub3, CardClub4, CardClub5,
	CardClub6, CardClub7, CardClubJ, CardClubQ, CardClubK,
	CardDiamondA, CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5,
	CardDiamond6, CardDiamond7, CardDiamondJ, CardDiamondQ, CardDiamondK,
}

// NewDeck returns a fresh copy of the 40-card deck.
func NewDeck() CardList {
	var deck CardList
	deck.Init(TrucoDeck)
	return deck
}
