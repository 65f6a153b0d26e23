package game

import (
	"github.com/dashkit/goldenflower/internal/deck"
	"github.com/dashkit/goldenflower/internal/evaluator"
)

// Player represents a seated player in a round.
//
// Balance is an in-round working copy of the player's persisted balance;
// every mutation is mirrored as a BalanceDelta for the ledger collaborator.
type Player struct {
	Seat     int
	ID       string
	Name     string
	Title    string
	Balance  int
	Hand     []deck.Card
	Folded   bool
	Seen     bool // holder has inspected their hand
	Revealed bool // hand is visible to every observer
	TotalBet int  // everything wagered this round, antes included
	Status   string
	Human    bool
	Tier     Tier
}

// Evaluation ranks the player's current hand.
func (p *Player) Evaluation() evaluator.Evaluation {
	return evaluator.Evaluate(p.Hand)
}

// betMultiplier is 2 once a player has seen their hand: open wagers cost
// double the blind amount.
func (p *Player) betMultiplier() int {
	if p.Seen {
		return 2
	}
	return 1
}
