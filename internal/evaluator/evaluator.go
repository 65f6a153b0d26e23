// Package evaluator ranks three-card Golden Flower hands.
//
// Each hand maps to a category plus an integer score built from a fixed
// per-category band and a tiebreak over the card values. The traditional
// house rules apply: 2-3-5 offsuit is the lowest-scoring hand but beats a
// Leopard head to head, and an ace can run low in A-3-2.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/dashkit/goldenflower/internal/deck"
)

// Category represents a hand category
type Category int

const (
	TwoThreeFive Category = iota
	HighCard
	Pair
	Straight
	Flush
	StraightFlush
	Leopard
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case TwoThreeFive:
		return "235"
	case HighCard:
		return "high card"
	case Pair:
		return "pair"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case StraightFlush:
		return "straight flush"
	case Leopard:
		return "leopard"
	default:
		return "unknown"
	}
}

// Score band offsets per category. A hand's score is its band plus a
// tiebreak of v0*10000 + v1*100 + v2 over the descending card values
// (pairs instead encode pairValue*10000 + kicker).
const (
	scoreLeopard       = 600000
	scoreStraightFlush = 500000
	scoreFlush         = 400000
	scoreStraight      = 300000
	scorePair          = 200000
	scoreHighCard      = 100000
)

// MaxScore is an upper bound on any evaluated score, used to normalize
// scores into a 0..1 strength for the AI policy.
const MaxScore = 700000

// Evaluation is the result of ranking a three-card hand.
type Evaluation struct {
	Category Category
	Score    int
	Tiebreak [3]int // card values sorted descending
}

func (e Evaluation) String() string {
	return fmt.Sprintf("%s (%d)", e.Category, e.Score)
}

// Evaluate ranks a three-card hand.
func Evaluate(cards []deck.Card) Evaluation {
	if len(cards) != 3 {
		panic(fmt.Sprintf("evaluate requires exactly 3 cards, got %d", len(cards)))
	}

	vals := []int{cards[0].Value(), cards[1].Value(), cards[2].Value()}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
	var tb [3]int
	copy(tb[:], vals)
	tiebreak := vals[0]*10000 + vals[1]*100 + vals[2]

	flush := cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
	straight := isRun(vals)

	switch {
	case vals[0] == vals[1] && vals[1] == vals[2]:
		return Evaluation{Leopard, scoreLeopard + tiebreak, tb}
	case flush && straight:
		return Evaluation{StraightFlush, scoreStraightFlush + tiebreak, tb}
	case flush:
		return Evaluation{Flush, scoreFlush + tiebreak, tb}
	case straight:
		return Evaluation{Straight, scoreStraight + tiebreak, tb}
	case vals[0] == vals[1] || vals[1] == vals[2]:
		pair, kicker := vals[1], vals[0]
		if vals[0] == vals[1] {
			kicker = vals[2]
		}
		return Evaluation{Pair, scorePair + pair*10000 + kicker, tb}
	case vals[0] == 5 && vals[1] == 3 && vals[2] == 2:
		// Offsuit 2-3-5: nominally the weakest hand, but see Compare.
		return Evaluation{TwoThreeFive, 0, tb}
	default:
		return Evaluation{HighCard, scoreHighCard + tiebreak, tb}
	}
}

// isRun reports whether three descending values form a straight.
// A-3-2 counts as a run (ace low); A-K-Q is the highest run.
func isRun(vals []int) bool {
	if vals[0]-1 == vals[1] && vals[1]-1 == vals[2] {
		return true
	}
	// Ace-low: 14,3,2 plays as 3,2,ace-as-1.
	return vals[0] == 14 && vals[1] == 3 && vals[2] == 2
}

// Compare reports whether the challenger's hand beats the defender's.
// The 2-3-5 kill rule overrides scores against a Leopard in both
// directions. Exact ties always go to the defender: a compare is initiated
// by the challenger, so the passive party wins.
func Compare(challenger, defender Evaluation) bool {
	if challenger.Category == TwoThreeFive && defender.Category == Leopard {
		return true
	}
	if challenger.Category == Leopard && defender.Category == TwoThreeFive {
		return false
	}
	return challenger.Score > defender.Score
}
