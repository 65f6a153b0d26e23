package deck

import rand "math/rand/v2"

// Size is the number of cards in a full deck.
const Size = 52

// Deck represents an ordered deck of playing cards. Hands are dealt from
// the front.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck shuffled with the provided RNG.
// The RNG is required so games and tests control their own determinism.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}

	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	for suit := Spades; suit <= Diamonds; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.Shuffle()
	return d
}

// NewOrdered creates an unshuffled deck. Intended for deterministic tests.
func NewOrdered() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	for suit := Spades; suit <= Diamonds; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewStacked creates a deck that deals the given cards in order.
// Intended for tests that need exact hands.
func NewStacked(cards ...Card) *Deck {
	return &Deck{cards: cards}
}

// Shuffle performs a Fisher-Yates shuffle over the remaining cards.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals up to n cards from the front of the deck.
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i], _ = d.Deal()
	}
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
