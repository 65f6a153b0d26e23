// Package ledger defines the engine's view of the persistent point
// economy. The store itself lives elsewhere (the dashboard's serverless
// backend); the engine only reads balances and issues deltas through this
// interface and never caches balances across games.
package ledger

import "errors"

// ErrUnknownPlayer is returned for adjustments against an unknown ID.
var ErrUnknownPlayer = errors.New("ledger: unknown player")

// ErrEmpty is returned by TopBalanceHolder when the directory is empty.
var ErrEmpty = errors.New("ledger: no players")

// StatusActive marks a directory entry as eligible for opponent sampling.
const StatusActive = "active"

// Entry is one row of the player directory.
type Entry struct {
	ID        string
	Name      string
	AvatarRef string
	Balance   int
	Status    string
}

// Ledger is the directory/balance collaborator.
type Ledger interface {
	// ListEligible returns active players whose balance is at least
	// minBalance.
	ListEligible(minBalance int) ([]Entry, error)

	// AdjustBalance applies a signed delta to a player's balance.
	AdjustBalance(id string, delta int) error

	// TopBalanceHolder returns the entry with the highest balance.
	TopBalanceHolder() (Entry, error)
}
