package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftl/db"
	"ftl/store"
)

func newTestRegistry(t *testing.T) *AllowanceRegistry {
	t.Helper()

	provider, err := db.NewMemoryProvider()
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	allowances, err := store.NewGenericAllowanceStore(provider)
	require.NoError(t, err)
	return NewAllowanceRegistry(allowances)
}

func TestAllowanceDefaultsToZero(t *testing.T) {
	r := newTestRegistry(t)

	allowance, err := r.AllowanceOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "0", allowance.Dec())
}

func TestSetAllowanceOverwrites(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetAllowance("alice", "bob", uint256.NewInt(10)))
	require.NoError(t, r.SetAllowance("alice", "bob", uint256.NewInt(5)))

	// replacement, not addition
	allowance, err := r.AllowanceOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "5", allowance.Dec())
}

func TestAllowancePairsAreIndependent(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetAllowance("alice", "bob", uint256.NewInt(10)))
	require.NoError(t, r.SetAllowance("bob", "alice", uint256.NewInt(3)))

	ab, err := r.AllowanceOf("alice", "bob")
	require.NoError(t, err)
	ba, err := r.AllowanceOf("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "10", ab.Dec())
	assert.Equal(t, "3", ba.Dec())
}

func TestDecreaseAllowance(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetAllowance("alice", "bob", uint256.NewInt(10)))
	require.NoError(t, r.DecreaseAllowance("alice", "bob", uint256.NewInt(4)))

	allowance, err := r.AllowanceOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "6", allowance.Dec())
}

func TestDecreaseAllowanceInsufficient(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetAllowance("alice", "bob", uint256.NewInt(10)))

	err := r.DecreaseAllowance("alice", "bob", uint256.NewInt(20))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	// check precedes mutation
	allowance, err := r.AllowanceOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "10", allowance.Dec())
}
