package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/dashkit/goldenflower/internal/activity"
	"github.com/dashkit/goldenflower/internal/ledger"
	"github.com/dashkit/goldenflower/internal/randutil"
)

const (
	defaultDealDelay = 1500 * time.Millisecond

	// AI turns fire after a randomized pacing delay of 1-3 seconds.
	aiDelayBase   = time.Second
	aiDelayJitter = 2 * time.Second
)

// Session orchestrates games for one human player. It owns the current
// round, samples opponents from the directory, schedules AI turns on a
// clock, and forwards balance deltas to the ledger in apply order.
//
// All scheduled callbacks capture the session generation at scheduling
// time; a new game bumps the generation so stale timers become no-ops.
type Session struct {
	mu       sync.Mutex
	logger   *log.Logger
	clock    quartz.Clock
	rng      *rand.Rand
	rules    Rules
	ledger   ledger.Ledger
	activity activity.Sink

	humanID   string
	humanName string

	round      *Round
	generation int
	dealer     int
	dealDelay  time.Duration

	leaderID   string
	leaderName string

	pending  []BalanceDelta
	onUpdate func()
	onEvent  func(Event)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRules overrides the default table rules.
func WithRules(rules Rules) SessionOption {
	return func(s *Session) { s.rules = rules }
}

// WithClock injects the clock used for deal pacing and AI turns. Tests
// pass a quartz mock.
func WithClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithSeed makes the session's randomness reproducible.
func WithSeed(seed int64) SessionOption {
	return func(s *Session) { s.rng = randutil.New(seed) }
}

// WithActivity injects the notification sink.
func WithActivity(sink activity.Sink) SessionOption {
	return func(s *Session) { s.activity = sink }
}

// WithDealDelay overrides the presentation delay between dealing and the
// first turn.
func WithDealDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.dealDelay = d }
}

// NewSession creates a session for the given human identity.
func NewSession(logger *log.Logger, store ledger.Ledger, humanID, humanName string, opts ...SessionOption) *Session {
	s := &Session{
		logger:    logger.WithPrefix("session"),
		clock:     quartz.NewReal(),
		rng:       randutil.New(time.Now().UnixNano()),
		rules:     DefaultRules(),
		ledger:    store,
		activity:  activity.Nop{},
		humanID:   humanID,
		humanName: humanName,
		dealer:    -1,
		dealDelay: defaultDealDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Track the current leaderboard head so settlement can detect a
	// succession later.
	if top, err := store.TopBalanceHolder(); err == nil {
		s.leaderID, s.leaderName = top.ID, top.Name
	}

	return s
}

// SetOnUpdate registers a callback invoked after every state transition.
// The callback runs without session locks held and may call Snapshot.
func (s *Session) SetOnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// SetOnEvent registers a callback receiving every round event, in order.
// Like the update callback it runs without session locks held.
func (s *Session) SetOnEvent(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

// HumanID returns the seated human's directory ID.
func (s *Session) HumanID() string {
	return s.humanID
}

// StartGame samples opponents and starts a fresh round. Any round still in
// flight is abandoned and its pending timers are discarded.
func (s *Session) StartGame(playerCount int) error {
	s.mu.Lock()

	if playerCount < MinPlayers || playerCount > MaxPlayers {
		s.mu.Unlock()
		return fmt.Errorf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, playerCount)
	}

	entries, err := s.ledger.ListEligible(s.rules.Ante)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listing eligible players: %w", err)
	}

	var human *ledger.Entry
	opponents := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == s.humanID {
			entry := e
			human = &entry
			continue
		}
		opponents = append(opponents, e)
	}
	if human == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s cannot cover the ante", ErrInsufficientBalance, s.humanName)
	}
	if len(opponents) < playerCount-1 {
		s.mu.Unlock()
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughOpponents, playerCount-1, len(opponents))
	}

	// Stale timers from the previous game must not touch the new round.
	s.generation++
	gen := s.generation

	s.rng.Shuffle(len(opponents), func(i, j int) {
		opponents[i], opponents[j] = opponents[j], opponents[i]
	})

	players := make([]*Player, 0, playerCount)
	players = append(players, &Player{
		ID:      human.ID,
		Name:    human.Name,
		Balance: human.Balance,
		Human:   true,
	})
	for _, e := range opponents[:playerCount-1] {
		tier := TierForBalance(e.Balance)
		players = append(players, &Player{
			ID:      e.ID,
			Name:    e.Name,
			Title:   tier.String(),
			Balance: e.Balance,
			Tier:    tier,
		})
	}

	s.dealer = (s.dealer + 1) % playerCount
	s.round = NewRound(s.rules, s.rng, players, s.dealer)
	s.flushDeltas()
	s.logger.Info("game started", "players", playerCount, "dealer", s.dealer, "pot", s.round.Pot)

	// The dealing phase holds for a fixed presentation delay, then play
	// begins exactly once.
	s.clock.AfterFunc(s.dealDelay, func() {
		s.mu.Lock()
		if gen != s.generation || s.round == nil || s.round.Phase != Dealing {
			s.mu.Unlock()
			return
		}
		if err := s.round.BeginPlay(); err != nil {
			s.logger.Error("begin play failed", "error", err)
			s.mu.Unlock()
			return
		}
		s.afterTransition()
	})

	events := s.round.DrainEvents()
	cb, ecb := s.onUpdate, s.onEvent
	s.mu.Unlock()
	if ecb != nil {
		for _, e := range events {
			ecb(e)
		}
	}
	if cb != nil {
		cb()
	}
	return nil
}

// SubmitAction is the single mutation entry point for the human player.
func (s *Session) SubmitAction(playerID string, action Action) error {
	s.mu.Lock()

	if playerID != s.humanID {
		s.mu.Unlock()
		return fmt.Errorf("%w: only the seated human may submit actions", ErrUnknownPlayer)
	}
	if s.round == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no game in progress", ErrWrongPhase)
	}
	if err := s.round.Apply(playerID, action); err != nil {
		s.mu.Unlock()
		return err
	}
	s.afterTransition()
	return nil
}

// Snapshot returns the current round projected for the given viewer.
func (s *Session) Snapshot(viewerID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return Snapshot{}, false
	}
	return s.round.Snapshot(viewerID), true
}

// afterTransition runs the post-apply pipeline: ledger writes, settlement,
// AI scheduling and the update callback. It is called with the lock held
// and releases it.
func (s *Session) afterTransition() {
	s.flushDeltas()

	switch s.round.Phase {
	case Ended:
		s.settle()
	case Playing:
		if p := s.round.Players[s.round.Active]; !p.Human {
			s.scheduleAITurn()
		}
	}

	events := s.round.DrainEvents()
	cb, ecb := s.onUpdate, s.onEvent
	s.mu.Unlock()
	if ecb != nil {
		for _, e := range events {
			ecb(e)
		}
	}
	if cb != nil {
		cb()
	}
}

// scheduleAITurn arms a timer for the active AI seat. The callback
// re-checks the generation and the turn before acting so a stale timer is
// a no-op.
func (s *Session) scheduleAITurn() {
	gen := s.generation
	seat := s.round.Active
	delay := aiDelayBase + time.Duration(s.rng.Float64()*float64(aiDelayJitter))

	s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if gen != s.generation || s.round == nil || s.round.Phase != Playing || s.round.Active != seat {
			s.mu.Unlock()
			return
		}
		p := s.round.Players[seat]
		if p.Human {
			s.mu.Unlock()
			return
		}

		action := Decide(s.rng, p.Tier, p.Evaluation(), DecisionContext{
			BettingRound: s.round.BettingRound,
			MaxRounds:    s.rules.MaxRounds,
			CurrentBet:   s.round.CurrentBet,
			MaxBet:       s.rules.MaxBet,
			Pot:          s.round.Pot,
			Unfolded:     s.round.Unfolded(),
			Seen:         p.Seen,
			Balance:      p.Balance,
		})

		if err := s.round.Apply(p.ID, action); err != nil {
			// The policy clamps against the current bet, but a compare
			// costs more; a short stack folds instead.
			if errors.Is(err, ErrInsufficientBalance) {
				err = s.round.Apply(p.ID, Fold)
			}
			if err != nil {
				s.logger.Error("ai action failed", "player", p.Name, "action", action, "error", err)
				s.mu.Unlock()
				return
			}
		}
		s.afterTransition()
	})
}

// flushDeltas forwards pending balance adjustments to the ledger in order.
// A failed write is kept on the queue, retried on the next flush, and
// surfaced as a warning; a transient store failure never blocks play.
func (s *Session) flushDeltas() {
	if s.round != nil {
		s.pending = append(s.pending, s.round.DrainDeltas()...)
	}
	for len(s.pending) > 0 {
		d := s.pending[0]
		if err := s.ledger.AdjustBalance(d.PlayerID, d.Amount); err != nil {
			s.logger.Warn("ledger write failed, will retry", "player", d.PlayerID, "delta", d.Amount, "error", err)
			return
		}
		s.pending = s.pending[1:]
	}
}

// settle records the win and checks the directory leaderboard for a
// succession. Called with the lock held.
func (s *Session) settle() {
	winner := s.round.Players[s.round.WinnerSeat]
	s.logger.Info("round settled", "winner", winner.Name, "pot", s.round.Pot)

	if err := s.activity.Record(winner.ID, activity.KindWin, fmt.Sprintf("%s won a %d point pot", winner.Name, s.round.Pot)); err != nil {
		s.logger.Warn("activity record failed", "error", err)
	}

	top, err := s.ledger.TopBalanceHolder()
	if err != nil {
		s.logger.Warn("leaderboard lookup failed", "error", err)
		return
	}
	if top.ID != s.leaderID {
		prev := s.leaderName
		s.leaderID, s.leaderName = top.ID, top.Name
		msg := fmt.Sprintf("%s overtook %s as point leader with %d points at %s",
			top.Name, prev, top.Balance, time.Now().Format(time.RFC3339))
		if err := s.activity.Record(top.ID, activity.KindSuccession, msg); err != nil {
			s.logger.Warn("activity record failed", "error", err)
		}
		s.logger.Info("leaderboard succession", "previous", prev, "new", top.Name, "balance", top.Balance)
	}
}
