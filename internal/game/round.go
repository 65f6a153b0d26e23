package game

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/dashkit/goldenflower/internal/deck"
	"github.com/dashkit/goldenflower/internal/evaluator"
)

// Round owns a single round of Golden Flower from deal to settlement.
//
// All state transitions happen through NewRound, BeginPlay and Apply; the
// round never touches collaborators itself. Ledger adjustments and domain
// events accumulate on the round and are drained by the caller after each
// transition, in order.
type Round struct {
	rules   Rules
	Players []*Player
	Deck    *deck.Deck

	Phase        Phase
	Pot          int
	CurrentBet   int
	Dealer       int
	Active       int // seat with the turn, -1 outside Playing
	BettingRound int
	WinnerSeat   int // -1 until Ended

	firstSeat int // first seat to act, fixed for the round
	log       []string
	events    []Event
	deltas    []BalanceDelta
}

// NewRound collects antes and deals three cards to every seat, leaving the
// round in the Dealing phase. Callers must have verified that every player
// can cover the ante.
func NewRound(rules Rules, rng *rand.Rand, players []*Player, dealer int) *Round {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		panic(fmt.Sprintf("unsupported player count %d", len(players)))
	}
	if dealer < 0 || dealer >= len(players) {
		panic("dealer seat out of range")
	}

	r := &Round{
		rules:      rules,
		Players:    players,
		Deck:       deck.New(rng),
		Phase:      Dealing,
		Dealer:     dealer,
		Active:     -1,
		WinnerSeat: -1,
	}

	names := make([]string, len(players))
	for i, p := range players {
		p.Seat = i
		names[i] = p.Name

		// Ante comes off the balance before any card is visible.
		p.Balance -= rules.Ante
		p.TotalBet = rules.Ante
		r.deltas = append(r.deltas, BalanceDelta{PlayerID: p.ID, Amount: -rules.Ante})

		p.Hand = r.Deck.DealN(3)
	}

	r.Pot = rules.Ante * len(players)
	r.CurrentBet = rules.Ante
	r.BettingRound = 1

	r.events = append(r.events, RoundStartedEvent{
		Players:   names,
		Dealer:    dealer,
		Ante:      rules.Ante,
		Pot:       r.Pot,
		timestamp: time.Now(),
	})
	r.logf("new round: %d players, ante %d, dealer %s", len(players), rules.Ante, players[dealer].Name)

	return r
}

// BeginPlay moves the round from Dealing to Playing and gives the turn to
// the seat after the dealer. It must be called exactly once.
func (r *Round) BeginPlay() error {
	if r.Phase != Dealing {
		return fmt.Errorf("%w: begin play in phase %s", ErrWrongPhase, r.Phase)
	}
	r.Phase = Playing
	r.firstSeat = r.nextUnfolded(r.Dealer + 1)
	r.Active = r.firstSeat
	r.logf("%s acts first", r.Players[r.Active].Name)
	return nil
}

// Apply performs one action for the identified player. Illegal actions are
// rejected with a typed error and leave the round untouched.
func (r *Round) Apply(playerID string, action Action) error {
	if r.Phase != Playing {
		return fmt.Errorf("%w: phase is %s", ErrWrongPhase, r.Phase)
	}
	seat, ok := r.seatOf(playerID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	p := r.Players[seat]
	if p.Folded {
		return fmt.Errorf("%w: %s", ErrPlayerFolded, p.Name)
	}
	if seat != r.Active {
		return fmt.Errorf("%w: waiting on %s", ErrNotYourTurn, r.Players[r.Active].Name)
	}

	switch action {
	case Look:
		p.Seen = true
		p.Status = "looked"
		r.record(seat, Look, 0, false)
		r.logf("%s looks at their hand", p.Name)

	case Fold:
		p.Folded = true
		p.Status = "folded"
		r.record(seat, Fold, 0, false)
		r.logf("%s folds", p.Name)
		if last, only := r.lastUnfolded(); only {
			r.endWith(last)
			return nil
		}

	case Call:
		cost := r.CurrentBet * p.betMultiplier()
		if p.Balance < cost {
			return fmt.Errorf("%w: call costs %d, balance %d", ErrInsufficientBalance, cost, p.Balance)
		}
		r.debit(p, cost)
		p.Status = "called"
		r.record(seat, Call, cost, false)
		r.logf("%s calls %d%s", p.Name, cost, blindSuffix(p))

	case Raise:
		newBet := r.CurrentBet + 2*r.rules.Ante
		if newBet > r.rules.MaxBet {
			newBet = r.rules.MaxBet
		}
		cost := newBet * p.betMultiplier()
		if p.Balance < cost {
			return fmt.Errorf("%w: raise costs %d, balance %d", ErrInsufficientBalance, cost, p.Balance)
		}
		r.debit(p, cost)
		r.CurrentBet = newBet
		p.Status = "raised"
		r.record(seat, Raise, cost, false)
		r.logf("%s raises, bet is now %d%s", p.Name, newBet, blindSuffix(p))

	case Compare:
		cost := 2 * r.CurrentBet * p.betMultiplier()
		if p.Balance < cost {
			return fmt.Errorf("%w: compare costs %d, balance %d", ErrInsufficientBalance, cost, p.Balance)
		}
		r.debit(p, cost)
		r.record(seat, Compare, cost, false)
		if r.resolveCompare(seat) {
			return nil
		}

	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}

	r.advanceTurn()
	return nil
}

// resolveCompare performs the showdown between the challenger and the next
// un-folded seat. Returns true if the round ended.
func (r *Round) resolveCompare(challenger int) bool {
	defender := r.nextUnfolded(challenger + 1)
	ch, def := r.Players[challenger], r.Players[defender]

	challengerWins := evaluator.Compare(ch.Evaluation(), def.Evaluation())

	ch.Revealed, ch.Seen = true, true
	def.Revealed, def.Seen = true, true

	winner, loser := challenger, defender
	if !challengerWins {
		winner, loser = defender, challenger
	}
	r.Players[loser].Folded = true
	r.Players[loser].Status = "lost compare"

	r.events = append(r.events, HandsComparedEvent{
		ChallengerSeat: challenger,
		DefenderSeat:   defender,
		WinnerSeat:     winner,
		timestamp:      time.Now(),
	})
	r.logf("%s compares with %s: %s loses", ch.Name, def.Name, r.Players[loser].Name)

	if last, only := r.lastUnfolded(); only {
		r.endWith(last)
		return true
	}
	return false
}

// advanceTurn hands the turn to the next un-folded seat. Wrapping past the
// first seat starts a new round of betting, and once the round cap is hit
// the remaining seats are forced through compares until someone wins.
func (r *Round) advanceTurn() {
	old := r.Active
	r.Active = r.nextUnfolded(old + 1)
	if r.rel(r.Active) <= r.rel(old) {
		r.BettingRound++
		if r.BettingRound >= r.rules.MaxRounds {
			r.forceResolution()
		}
	}
}

// forceResolution compares the active seat against the next un-folded seat
// repeatedly until one player remains. A forced compare is clamped to the
// challenger's balance so the cap can always terminate the round.
func (r *Round) forceResolution() {
	for r.Phase == Playing {
		p := r.Players[r.Active]
		cost := 2 * r.CurrentBet * p.betMultiplier()
		if cost > p.Balance {
			cost = p.Balance
		}
		r.debit(p, cost)
		r.record(r.Active, Compare, cost, true)
		r.logf("betting cap reached, %s must compare", p.Name)
		if r.resolveCompare(r.Active) {
			return
		}
		r.Active = r.nextUnfolded(r.Active + 1)
	}
}

// endWith settles the round: every hand is revealed and the winner's
// balance receives the whole pot in a single adjustment.
func (r *Round) endWith(winner int) {
	r.Phase = Ended
	r.Active = -1
	r.WinnerSeat = winner

	for _, p := range r.Players {
		p.Seen = true
		p.Revealed = true
	}

	w := r.Players[winner]
	w.Balance += r.Pot
	w.Status = "winner"
	r.deltas = append(r.deltas, BalanceDelta{PlayerID: w.ID, Amount: r.Pot})

	r.events = append(r.events, RoundEndedEvent{
		WinnerSeat: winner,
		WinnerID:   w.ID,
		Pot:        r.Pot,
		timestamp:  time.Now(),
	})
	r.logf("%s wins the pot (%d)", w.Name, r.Pot)
}

// debit moves an amount from the player's balance into the pot.
func (r *Round) debit(p *Player, amount int) {
	p.Balance -= amount
	p.TotalBet += amount
	r.Pot += amount
	if amount != 0 {
		r.deltas = append(r.deltas, BalanceDelta{PlayerID: p.ID, Amount: -amount})
	}
}

func (r *Round) record(seat int, action Action, cost int, forced bool) {
	r.events = append(r.events, PlayerActedEvent{
		Seat:      seat,
		PlayerID:  r.Players[seat].ID,
		Action:    action,
		Cost:      cost,
		Forced:    forced,
		PotAfter:  r.Pot,
		timestamp: time.Now(),
	})
}

// nextUnfolded returns the first un-folded seat at or after the given seat,
// scanning the ring. Callers guarantee at least one un-folded seat exists.
func (r *Round) nextUnfolded(from int) int {
	n := len(r.Players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if !r.Players[seat].Folded {
			return seat
		}
	}
	return -1
}

// rel maps a seat to its position in turn order, first-to-act being zero.
func (r *Round) rel(seat int) int {
	n := len(r.Players)
	return (seat - r.firstSeat + n) % n
}

// lastUnfolded returns the only un-folded seat, if exactly one remains.
func (r *Round) lastUnfolded() (int, bool) {
	last, count := -1, 0
	for seat, p := range r.Players {
		if !p.Folded {
			last = seat
			count++
		}
	}
	return last, count == 1
}

// Unfolded returns the number of seats still contesting the pot.
func (r *Round) Unfolded() int {
	count := 0
	for _, p := range r.Players {
		if !p.Folded {
			count++
		}
	}
	return count
}

func (r *Round) seatOf(playerID string) (int, bool) {
	for seat, p := range r.Players {
		if p.ID == playerID {
			return seat, true
		}
	}
	return -1, false
}

// DrainEvents returns and clears the accumulated events.
func (r *Round) DrainEvents() []Event {
	events := r.events
	r.events = nil
	return events
}

// DrainDeltas returns and clears the pending ledger adjustments, in the
// order they were produced.
func (r *Round) DrainDeltas() []BalanceDelta {
	deltas := r.deltas
	r.deltas = nil
	return deltas
}

// Log returns a copy of the human-readable round log.
func (r *Round) Log() []string {
	out := make([]string, len(r.log))
	copy(out, r.log)
	return out
}

func (r *Round) logf(format string, args ...any) {
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

func blindSuffix(p *Player) string {
	if p.Seen {
		return ""
	}
	return " (blind)"
}
