package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEligibleFiltersStatusAndBalance(t *testing.T) {
	t.Parallel()
	m := NewMemory(
		Entry{ID: "a", Name: "Ada", Balance: 1000, Status: StatusActive},
		Entry{ID: "b", Name: "Ben", Balance: 50, Status: StatusActive},
		Entry{ID: "c", Name: "Cat", Balance: 5000, Status: "banned"},
	)

	eligible, err := m.ListEligible(100)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "a", eligible[0].ID)
}

func TestAdjustBalance(t *testing.T) {
	t.Parallel()
	m := NewMemory(Entry{ID: "a", Balance: 1000, Status: StatusActive})

	require.NoError(t, m.AdjustBalance("a", -300))
	balance, ok := m.Balance("a")
	require.True(t, ok)
	assert.Equal(t, 700, balance)

	err := m.AdjustBalance("missing", 10)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestTopBalanceHolder(t *testing.T) {
	t.Parallel()
	m := NewMemory(
		Entry{ID: "a", Balance: 1000, Status: StatusActive},
		Entry{ID: "b", Balance: 2000, Status: StatusActive},
	)

	top, err := m.TopBalanceHolder()
	require.NoError(t, err)
	assert.Equal(t, "b", top.ID)

	require.NoError(t, m.AdjustBalance("a", 5000))
	top, err = m.TopBalanceHolder()
	require.NoError(t, err)
	assert.Equal(t, "a", top.ID)
}

func TestTopBalanceHolderEmpty(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	_, err := m.TopBalanceHolder()
	assert.ErrorIs(t, err, ErrEmpty)
}
