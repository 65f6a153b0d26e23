package game

import "time"

// EventType identifies a game event
type EventType string

const (
	EventTypeRoundStarted  EventType = "round_started"
	EventTypePlayerActed   EventType = "player_acted"
	EventTypeHandsCompared EventType = "hands_compared"
	EventTypeRoundEnded    EventType = "round_ended"
)

func (et EventType) String() string {
	return string(et)
}

// Event represents something that happened inside a round. Events are
// accumulated by the round and drained by the orchestrating session after
// every transition.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartedEvent is recorded once antes are collected and hands dealt.
type RoundStartedEvent struct {
	Players   []string
	Dealer    int
	Ante      int
	Pot       int
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActedEvent is recorded for every applied action.
type PlayerActedEvent struct {
	Seat      int
	PlayerID  string
	Action    Action
	Cost      int // amount paid into the pot, zero for look/fold
	Forced    bool
	PotAfter  int
	timestamp time.Time
}

func (e PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }
func (e PlayerActedEvent) Timestamp() time.Time { return e.timestamp }

// HandsComparedEvent is recorded when a compare resolves.
type HandsComparedEvent struct {
	ChallengerSeat int
	DefenderSeat   int
	WinnerSeat     int
	timestamp      time.Time
}

func (e HandsComparedEvent) EventType() EventType { return EventTypeHandsCompared }
func (e HandsComparedEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndedEvent is recorded when the round terminates.
type RoundEndedEvent struct {
	WinnerSeat int
	WinnerID   string
	Pot        int
	timestamp  time.Time
}

func (e RoundEndedEvent) EventType() EventType { return EventTypeRoundEnded }
func (e RoundEndedEvent) Timestamp() time.Time { return e.timestamp }

// BalanceDelta is a pending ledger adjustment produced by an applied
// action. Deltas must reach the ledger in the order they were produced.
type BalanceDelta struct {
	PlayerID string
	Amount   int
}
