package game

import (
	rand "math/rand/v2"

	"github.com/dashkit/goldenflower/internal/evaluator"
)

// Tier is an opponent skill level. Tiers are assigned from the player's
// persisted balance at game setup: a richer directory entry plays a
// stronger simulated game.
type Tier int

const (
	Beginner Tier = iota
	Intermediate
	Advanced
	Master
	Grandmaster
)

func (t Tier) String() string {
	return [...]string{"beginner", "intermediate", "advanced", "master", "grandmaster"}[t]
}

// TierForBalance maps a persisted balance to a tier.
func TierForBalance(balance int) Tier {
	switch {
	case balance < 500:
		return Beginner
	case balance < 2000:
		return Intermediate
	case balance < 5000:
		return Advanced
	case balance < 10000:
		return Master
	default:
		return Grandmaster
	}
}

// profile holds the three knobs a tier plays by: the minimum normalized
// hand strength it plays confidently, its bluff probability on weak hands,
// and its raise probability when confident.
type profile struct {
	threshold float64
	bluff     float64
	aggro     float64
}

var profiles = [...]profile{
	Beginner:     {threshold: 0.15, bluff: 0.30, aggro: 0.20},
	Intermediate: {threshold: 0.20, bluff: 0.25, aggro: 0.30},
	Advanced:     {threshold: 0.25, bluff: 0.20, aggro: 0.40},
	Master:       {threshold: 0.28, bluff: 0.15, aggro: 0.55},
	Grandmaster:  {threshold: 0.30, bluff: 0.10, aggro: 0.65},
}

// DecisionContext is everything the policy may consider besides the hand.
type DecisionContext struct {
	BettingRound int
	MaxRounds    int
	CurrentBet   int
	MaxBet       int
	Pot          int
	Unfolded     int
	Seen         bool
	Balance      int
}

// Decide chooses one action for an AI turn. It is a pure function of the
// tier, the hand evaluation, the context and the random source; no AI
// state survives between turns.
func Decide(rng *rand.Rand, tier Tier, ev evaluator.Evaluation, ctx DecisionContext) Action {
	prof := profiles[tier]

	// Forced resolution once the betting cap is reached.
	if ctx.BettingRound >= ctx.MaxRounds {
		return Compare
	}

	// An unseen hand may get looked at before anything else; looking
	// consumes the turn.
	if !ctx.Seen {
		lookChance := 0.10
		if tier == Beginner {
			lookChance = 0.50
		}
		if ctx.BettingRound > 3 {
			lookChance = 0.80
		}
		if rng.Float64() < lookChance {
			return Look
		}
	}

	strength := float64(ev.Score) / float64(evaluator.MaxScore)

	var action Action
	switch {
	case ctx.Seen && strength < prof.threshold:
		action = Fold
		if rng.Float64() < prof.bluff {
			if rng.Float64() < 0.5 {
				action = Raise
			} else {
				action = Call
			}
		}

	case ctx.Seen:
		action = Call
		if rng.Float64() < prof.aggro {
			action = Raise
		}
		// Strong hands sometimes slow-play to trap.
		if tier >= Master && strength > 0.8 && action == Raise && rng.Float64() < 0.3 {
			action = Call
		}

	default:
		// Playing blind. Big bets pressure most tiers into looking first.
		if ctx.CurrentBet > 300 && tier != Grandmaster {
			return Look
		}
		action = Call
		if rng.Float64() < prof.aggro*0.3 {
			action = Raise
		}
	}

	// A bloated multi-way pot can force a showdown regardless.
	if ctx.Pot > 3000 && ctx.Unfolded > 2 && rng.Float64() < 0.4 {
		action = Compare
	}

	// Clamps: no raising at the bet cap, and never wager past the balance.
	if action == Raise && ctx.CurrentBet >= ctx.MaxBet {
		action = Call
	}
	if ctx.Balance < ctx.CurrentBet && action != Fold && action != Look {
		action = Fold
	}

	return action
}
