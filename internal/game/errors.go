package game

import "errors"

var (
	// ErrNotEnoughOpponents is returned from game setup when the directory
	// has too few eligible players for the requested seat count. It is a
	// pre-game condition, not a round failure; callers may retry.
	ErrNotEnoughOpponents = errors.New("not enough eligible opponents")

	// ErrWrongPhase is returned for actions outside the Playing phase.
	ErrWrongPhase = errors.New("round is not accepting actions")

	// ErrNotYourTurn is returned when a player acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrPlayerFolded is returned when a folded player tries to act.
	ErrPlayerFolded = errors.New("player has folded")

	// ErrUnknownPlayer is returned for an ID not seated in the round.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrUnknownAction is returned for an unrecognised action name.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInsufficientBalance is returned before any ledger mutation when a
	// player cannot cover the cost of the chosen action.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
