package truco

import "truco-lite/card"

type Player struct {
	ID    uint64
	Name  string
	Seat  int
	Robot bool

	folded bool

	handCards card.CardList
}

func (p *Player) SeatID() int   { return p.Seat }
func (p *Player) IsRobot() bool { return p.Robot }
func (p *Player) Team() Team    { return TeamForSeat(p.Seat) }

func (p *Player) Folded() bool { return p.folded }
func (p *Player) Hand() []card.Card {
	return p.handCards
}

func (p *Player) ResetForNewHand() {
	p.folded = false
	p.handCards = make([]card.Card, 0, CardsPerSeat)
}

func (p *Player) AddHandCard(cards ...card.Card) {
	p.handCards = append(p.handCards, cards...)
}

func (p *Player) HandCards() card.CardList { return p.handCards }

// removeHandCard pops the card at idx, preserving the order of the rest.
func (p *Player) removeHandCard(idx int) card.Card {
	c := p.handCards[idx]
	p.handCards = append(p.handCards[:idx], p.handCards[idx+1:]...)
	return c
}

func (p *Player) setFolded(v bool) { p.folded = v }
