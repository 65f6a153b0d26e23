package game

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashkit/goldenflower/internal/ledger"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testDirectory() *ledger.Memory {
	return ledger.NewMemory(
		ledger.Entry{ID: "h1", Name: "You", Balance: 1000, Status: ledger.StatusActive},
		ledger.Entry{ID: "n1", Name: "Mei", Balance: 800, Status: ledger.StatusActive},
		ledger.Entry{ID: "n2", Name: "Raj", Balance: 2500, Status: ledger.StatusActive},
		ledger.Entry{ID: "n3", Name: "Ivy", Balance: 6000, Status: ledger.StatusActive},
		ledger.Entry{ID: "n4", Name: "Kofi", Balance: 12000, Status: ledger.StatusActive},
		ledger.Entry{ID: "n5", Name: "Ana", Balance: 300, Status: ledger.StatusActive},
	)
}

// recordingSink captures activity records for assertions.
type recordingSink struct {
	mu      sync.Mutex
	records []recordedActivity
}

type recordedActivity struct {
	playerID, kind, message string
}

func (s *recordingSink) Record(playerID, kind, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recordedActivity{playerID, kind, message})
	return nil
}

func (s *recordingSink) byKind(kind string) []recordedActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedActivity
	for _, r := range s.records {
		if r.kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// flakyLedger fails the first n AdjustBalance calls.
type flakyLedger struct {
	*ledger.Memory
	failures int
}

func (f *flakyLedger) AdjustBalance(id string, delta int) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("store unavailable")
	}
	return f.Memory.AdjustBalance(id, delta)
}

func TestStartGameValidatesPlayerCount(t *testing.T) {
	t.Parallel()
	s := NewSession(testLogger(), testDirectory(), "h1", "You", WithClock(quartz.NewMock(t)))

	require.Error(t, s.StartGame(2))
	require.Error(t, s.StartGame(7))
}

func TestStartGameRequiresEligibleOpponents(t *testing.T) {
	t.Parallel()
	store := ledger.NewMemory(
		ledger.Entry{ID: "h1", Name: "You", Balance: 1000, Status: ledger.StatusActive},
		ledger.Entry{ID: "n1", Name: "Mei", Balance: 800, Status: ledger.StatusActive},
	)
	s := NewSession(testLogger(), store, "h1", "You", WithClock(quartz.NewMock(t)))

	err := s.StartGame(3)
	assert.ErrorIs(t, err, ErrNotEnoughOpponents)

	// The failure is a pre-game condition: no round exists and a retry
	// with another count may succeed.
	_, ok := s.Snapshot("h1")
	assert.False(t, ok)
}

func TestStartGameRequiresHumanAnte(t *testing.T) {
	t.Parallel()
	store := testDirectory()
	store.Add(ledger.Entry{ID: "h1", Name: "You", Balance: 50, Status: ledger.StatusActive})
	s := NewSession(testLogger(), store, "h1", "You", WithClock(quartz.NewMock(t)))

	err := s.StartGame(3)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestStartGameDeductsAntesImmediately(t *testing.T) {
	t.Parallel()
	store := testDirectory()
	s := NewSession(testLogger(), store, "h1", "You",
		WithClock(quartz.NewMock(t)), WithSeed(1))

	require.NoError(t, s.StartGame(4))

	snap, ok := s.Snapshot("h1")
	require.True(t, ok)
	assert.Equal(t, "dealing", snap.Phase)
	assert.Equal(t, 400, snap.Pot)

	// Antes hit the ledger before any card is shown.
	balance, _ := store.Balance("h1")
	assert.Equal(t, 900, balance)

	// Opponents carry tiers derived from their persisted balance.
	for _, pv := range snap.Players {
		if pv.Human {
			continue
		}
		assert.NotEmpty(t, pv.Tier, "npc %s should carry a tier", pv.Name)
	}
}

func TestDealDelayStartsPlayExactlyOnce(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	s := NewSession(testLogger(), testDirectory(), "h1", "You",
		WithClock(mock), WithSeed(1))

	require.NoError(t, s.StartGame(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mock.Advance(defaultDealDelay).MustWait(ctx)

	snap, ok := s.Snapshot("h1")
	require.True(t, ok)
	assert.Equal(t, "playing", snap.Phase)

	turns := 0
	for _, pv := range snap.Players {
		if pv.Turn {
			turns++
		}
	}
	assert.Equal(t, 1, turns, "exactly one seat should hold the turn")
}

// Drive a whole game: the human folds at the first opportunity and the AI
// seats play each other to completion on the mock clock.
func TestFullGameRunsToSettlement(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	store := testDirectory()
	sink := &recordingSink{}
	s := NewSession(testLogger(), store, "h1", "You",
		WithClock(mock), WithSeed(7), WithActivity(sink))

	startingTotal := directoryTotal(t, store)

	require.NoError(t, s.StartGame(4))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	mock.Advance(defaultDealDelay).MustWait(ctx)

	for i := 0; i < 300; i++ {
		snap, ok := s.Snapshot("h1")
		require.True(t, ok)
		if snap.Phase == "ended" {
			break
		}

		humanTurn := false
		for _, pv := range snap.Players {
			if pv.Turn && pv.Human {
				humanTurn = true
			}
		}
		if humanTurn {
			require.NoError(t, s.SubmitAction("h1", Fold))
			continue
		}
		// AI pacing delay is at most three seconds.
		_, w := mock.AdvanceNext()
		w.MustWait(ctx)
	}

	snap, ok := s.Snapshot("h1")
	require.True(t, ok)
	require.Equal(t, "ended", snap.Phase, "game failed to terminate")
	require.GreaterOrEqual(t, snap.WinnerSeat, 0)

	// Every hand is revealed at the end.
	for _, pv := range snap.Players {
		assert.True(t, pv.Revealed, "%s should be revealed", pv.Name)
		assert.Len(t, pv.Cards, 3)
	}

	// The point economy is zero-sum across the directory.
	assert.Equal(t, startingTotal, directoryTotal(t, store))

	// Settlement records the win.
	wins := sink.byKind("win")
	require.Len(t, wins, 1)
	assert.Equal(t, snap.Players[snap.WinnerSeat].ID, wins[0].playerID)
}

func TestEventsReachSubscriberInOrder(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	s := NewSession(testLogger(), testDirectory(), "h1", "You",
		WithClock(mock), WithSeed(5))

	var mu sync.Mutex
	var events []Event
	s.SetOnEvent(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	require.NoError(t, s.StartGame(3))

	mu.Lock()
	require.Len(t, events, 1)
	started, ok := events[0].(RoundStartedEvent)
	require.True(t, ok)
	assert.Equal(t, 100, started.Ante)
	assert.Equal(t, 300, started.Pot)
	assert.Len(t, started.Players, 3)
	mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mock.Advance(defaultDealDelay).MustWait(ctx)

	// Run the game out with the human folding on their turn.
	for i := 0; i < 300; i++ {
		snap, ok := s.Snapshot("h1")
		require.True(t, ok)
		if snap.Phase == "ended" {
			break
		}
		humanTurn := false
		for _, pv := range snap.Players {
			if pv.Turn && pv.Human {
				humanTurn = true
			}
		}
		if humanTurn {
			require.NoError(t, s.SubmitAction("h1", Fold))
			continue
		}
		_, w := mock.AdvanceNext()
		w.MustWait(ctx)
	}

	mu.Lock()
	defer mu.Unlock()
	// Every applied action produced an event and the stream terminates
	// with the settlement.
	require.Greater(t, len(events), 2)
	_, ok = events[len(events)-1].(RoundEndedEvent)
	assert.True(t, ok, "last event should close the round")
	for _, e := range events[1 : len(events)-1] {
		switch e.(type) {
		case PlayerActedEvent, HandsComparedEvent:
		default:
			t.Fatalf("unexpected event in mid-round stream: %T", e)
		}
	}
}

func TestSubmitActionRejectsNonHuman(t *testing.T) {
	t.Parallel()
	s := NewSession(testLogger(), testDirectory(), "h1", "You",
		WithClock(quartz.NewMock(t)), WithSeed(1))
	require.NoError(t, s.StartGame(3))

	err := s.SubmitAction("n1", Fold)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	err = s.SubmitAction("h1", Call)
	assert.ErrorIs(t, err, ErrWrongPhase, "no actions during dealing")
}

func TestNewGameDiscardsStaleTimers(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	s := NewSession(testLogger(), testDirectory(), "h1", "You",
		WithClock(mock), WithSeed(3))

	require.NoError(t, s.StartGame(3))

	// Restart before the deal timer fires; the old timer must not touch
	// the new round.
	require.NoError(t, s.StartGame(4))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mock.Advance(defaultDealDelay).MustWait(ctx)

	snap, ok := s.Snapshot("h1")
	require.True(t, ok)
	assert.Len(t, snap.Players, 4, "stale timer should not have replaced the round")
	assert.Equal(t, "playing", snap.Phase)
	assert.Equal(t, 400, snap.Pot, "pot must reflect the second game's antes only")
}

func TestLedgerFailuresRetryInOrder(t *testing.T) {
	t.Parallel()
	flaky := &flakyLedger{Memory: testDirectory(), failures: 1}
	s := NewSession(testLogger(), flaky, "h1", "You",
		WithClock(quartz.NewMock(t)), WithSeed(1))

	// The first ante write fails and the whole batch stays queued.
	require.NoError(t, s.StartGame(3))
	balance, _ := flaky.Balance("h1")
	assert.Equal(t, 1000, balance, "failed write should not land")

	// In-memory round state is unaffected by the store failure.
	snap, ok := s.Snapshot("h1")
	require.True(t, ok)
	assert.Equal(t, 300, snap.Pot)

	// The next flush replays the queue in order.
	s.mu.Lock()
	s.flushDeltas()
	s.mu.Unlock()

	balance, _ = flaky.Balance("h1")
	assert.Equal(t, 900, balance)
}

func TestSuccessionEventOnLeaderChange(t *testing.T) {
	t.Parallel()
	// The reigning leader is inactive, so it cannot be sampled into the
	// game, but it still tops the leaderboard at 650.
	store := ledger.NewMemory(
		ledger.Entry{ID: "rich", Name: "Old King", Balance: 650, Status: "inactive"},
		ledger.Entry{ID: "h1", Name: "You", Balance: 500, Status: ledger.StatusActive},
		ledger.Entry{ID: "n1", Name: "Mei", Balance: 600, Status: ledger.StatusActive},
		ledger.Entry{ID: "n2", Name: "Raj", Balance: 620, Status: ledger.StatusActive},
	)
	sink := &recordingSink{}
	mock := quartz.NewMock(t)
	s := NewSession(testLogger(), store, "h1", "You",
		WithClock(mock), WithSeed(1), WithActivity(sink))

	require.NoError(t, s.StartGame(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mock.Advance(defaultDealDelay).MustWait(ctx)

	// Fold both NPC seats directly so the human wins the 300 point pot
	// and overtakes the idle leader.
	s.mu.Lock()
	for _, p := range s.round.Players {
		if p.Human {
			continue
		}
		require.NoError(t, s.round.Apply(p.ID, Fold))
		if s.round.Phase == Ended {
			break
		}
	}
	s.afterTransition() // releases the lock

	balance, _ := store.Balance("h1")
	assert.Equal(t, 700, balance)

	successions := sink.byKind("succession")
	require.Len(t, successions, 1)
	assert.Equal(t, "h1", successions[0].playerID)
	assert.Contains(t, successions[0].message, "Old King")
	assert.Contains(t, successions[0].message, "You")
}

func directoryTotal(t *testing.T, m *ledger.Memory) int {
	t.Helper()
	total := 0
	for _, id := range []string{"h1", "n1", "n2", "n3", "n4", "n5"} {
		b, ok := m.Balance(id)
		require.True(t, ok)
		total += b
	}
	return total
}
