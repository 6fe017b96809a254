package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftl/db"
	"ftl/events"
	"ftl/ledger"
	"ftl/store"
)

const (
	deployer = "alice"
	bob      = "bob"
	frank    = "frank"
)

type testEnv struct {
	engine *Engine
	ledger *ledger.Ledger
	log    *events.EventLog
}

func newTestEngine(t *testing.T) *testEnv {
	t.Helper()

	provider, err := db.NewMemoryProvider()
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	balances, err := store.NewGenericBalanceStore(provider.(db.IterableProvider))
	require.NoError(t, err)
	allowances, err := store.NewGenericAllowanceStore(provider)
	require.NoError(t, err)
	supply, err := store.NewGenericSupplyStore(provider)
	require.NoError(t, err)

	l, err := ledger.NewLedger(balances, supply)
	require.NoError(t, err)

	eventLog := events.NewEventLog()
	router := events.NewEventRouter(events.NewEventBus(), eventLog)

	return &testEnv{
		engine: NewEngine(l, ledger.NewAllowanceRegistry(allowances), router),
		ledger: l,
		log:    eventLog,
	}
}

func newInitializedEngine(t *testing.T, initialSupply uint64) *testEnv {
	t.Helper()

	env := newTestEngine(t)
	require.NoError(t, env.engine.InitGenesis(deployer, uint256.NewInt(initialSupply)))
	return env
}

func (env *testEnv) balance(t *testing.T, addr string) string {
	t.Helper()
	balance, err := env.engine.BalanceOf(addr)
	require.NoError(t, err)
	return balance.Dec()
}

func (env *testEnv) allowance(t *testing.T, owner, spender string) string {
	t.Helper()
	allowance, err := env.engine.Allowance(owner, spender)
	require.NoError(t, err)
	return allowance.Dec()
}

func (env *testEnv) assertConserved(t *testing.T) {
	t.Helper()
	sum, err := env.ledger.SumBalances()
	require.NoError(t, err)
	assert.Equal(t, env.engine.TotalSupply().Dec(), sum.Dec(), "sum of balances must equal total supply")
}

func TestGenesis(t *testing.T) {
	env := newInitializedEngine(t, 100)

	assert.Equal(t, "100", env.engine.TotalSupply().Dec())
	assert.Equal(t, "100", env.balance(t, deployer))
	assert.Equal(t, "0", env.balance(t, bob))
	env.assertConserved(t)

	// genesis emits a single Transfer with an empty source
	require.Equal(t, 1, env.log.Len())
	transfer, ok := env.log.Last().(*events.Transfer)
	require.True(t, ok)
	assert.True(t, transfer.IsGenesis())
	assert.Equal(t, deployer, transfer.To())
	assert.Equal(t, "100", transfer.Value().Dec())
}

func TestGenesisOnlyOnce(t *testing.T) {
	env := newInitializedEngine(t, 100)

	err := env.engine.InitGenesis(bob, uint256.NewInt(50))
	assert.ErrorIs(t, err, ledger.ErrSupplyAlreadySet)

	assert.Equal(t, "100", env.engine.TotalSupply().Dec())
	assert.Equal(t, 1, env.log.Len(), "failed genesis must not emit")
}

func TestTransfer(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Transfer(deployer, bob, uint256.NewInt(10)))

	assert.Equal(t, "90", env.balance(t, deployer))
	assert.Equal(t, "10", env.balance(t, bob))
	env.assertConserved(t)

	require.Equal(t, 2, env.log.Len())
	transfer, ok := env.log.Last().(*events.Transfer)
	require.True(t, ok)
	assert.Equal(t, deployer, transfer.From())
	assert.Equal(t, bob, transfer.To())
	assert.Equal(t, "10", transfer.Value().Dec())
}

func TestTransferInsufficientBalance(t *testing.T) {
	env := newInitializedEngine(t, 100)

	err := env.engine.Transfer(deployer, bob, uint256.NewInt(150))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	assert.Equal(t, "100", env.balance(t, deployer))
	assert.Equal(t, "0", env.balance(t, bob))
	assert.Equal(t, 1, env.log.Len(), "failed transfer must not emit")
	env.assertConserved(t)
}

func TestSelfTransferEmitsButConserves(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Transfer(deployer, deployer, uint256.NewInt(25)))

	assert.Equal(t, "100", env.balance(t, deployer))
	env.assertConserved(t)

	require.Equal(t, 2, env.log.Len())
	transfer, ok := env.log.Last().(*events.Transfer)
	require.True(t, ok)
	assert.Equal(t, deployer, transfer.From())
	assert.Equal(t, deployer, transfer.To())
}

func TestApproveOverwritesNotAdds(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(10)))
	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(5)))

	assert.Equal(t, "5", env.allowance(t, deployer, bob))

	// one Approval per call, each carrying the full replacement value
	eventList := env.log.Events()
	require.Len(t, eventList, 3)
	first, ok := eventList[1].(*events.Approval)
	require.True(t, ok)
	second, ok := eventList[2].(*events.Approval)
	require.True(t, ok)
	assert.Equal(t, "10", first.Value().Dec())
	assert.Equal(t, "5", second.Value().Dec())
	assert.Equal(t, deployer, second.Owner())
	assert.Equal(t, bob, second.Spender())
}

func TestApproveExceedingBalanceSucceeds(t *testing.T) {
	env := newInitializedEngine(t, 100)

	// no precondition on balance: granting more than owned is allowed
	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(100000)))
	assert.Equal(t, "100000", env.allowance(t, deployer, bob))
}

func TestTransferFrom(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(10)))
	require.NoError(t, env.engine.TransferFrom(bob, deployer, frank, uint256.NewInt(10)))

	assert.Equal(t, "90", env.balance(t, deployer))
	assert.Equal(t, "10", env.balance(t, frank))
	assert.Equal(t, "0", env.allowance(t, deployer, bob))
	env.assertConserved(t)

	transfer, ok := env.log.Last().(*events.Transfer)
	require.True(t, ok)
	assert.Equal(t, deployer, transfer.From())
	assert.Equal(t, frank, transfer.To())
}

func TestTransferFromInsufficientAllowance(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(10)))

	err := env.engine.TransferFrom(bob, deployer, frank, uint256.NewInt(20))
	assert.ErrorIs(t, err, ledger.ErrInsufficientAllowance)

	// no state mutation at all
	assert.Equal(t, "10", env.allowance(t, deployer, bob))
	assert.Equal(t, "100", env.balance(t, deployer))
	assert.Equal(t, "0", env.balance(t, frank))
	assert.Equal(t, 2, env.log.Len())
	env.assertConserved(t)
}

func TestTransferFromInsufficientBalanceKeepsAllowance(t *testing.T) {
	env := newInitializedEngine(t, 100)

	// grant exceeds the owner's balance
	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(500)))

	err := env.engine.TransferFrom(bob, deployer, frank, uint256.NewInt(200))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	// balance movement failed, so the allowance must remain untouched
	assert.Equal(t, "500", env.allowance(t, deployer, bob))
	assert.Equal(t, "100", env.balance(t, deployer))
	assert.Equal(t, "0", env.balance(t, frank))
	env.assertConserved(t)
}

func TestTransferFromPartialSpend(t *testing.T) {
	env := newInitializedEngine(t, 100)

	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(10)))
	require.NoError(t, env.engine.TransferFrom(bob, deployer, frank, uint256.NewInt(4)))

	assert.Equal(t, "6", env.allowance(t, deployer, bob))
	assert.Equal(t, "4", env.balance(t, frank))

	// the remaining grant is spendable
	require.NoError(t, env.engine.TransferFrom(bob, deployer, frank, uint256.NewInt(6)))
	assert.Equal(t, "0", env.allowance(t, deployer, bob))
	assert.Equal(t, "10", env.balance(t, frank))
	env.assertConserved(t)
}

func TestReadsAreIdempotent(t *testing.T) {
	env := newInitializedEngine(t, 100)
	require.NoError(t, env.engine.Approve(deployer, bob, uint256.NewInt(7)))

	before, err := env.ledger.StateDigest()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, "100", env.engine.TotalSupply().Dec())
		assert.Equal(t, "100", env.balance(t, deployer))
		assert.Equal(t, "0", env.balance(t, bob))
		assert.Equal(t, "7", env.allowance(t, deployer, bob))
	}

	after, err := env.ledger.StateDigest()
	require.NoError(t, err)
	assert.Equal(t, before, after, "reads must not mutate state")
	assert.Equal(t, 2, env.log.Len())
}

func TestConservationUnderMixedOperations(t *testing.T) {
	env := newInitializedEngine(t, 1000)

	require.NoError(t, env.engine.Transfer(deployer, bob, uint256.NewInt(300)))
	require.NoError(t, env.engine.Approve(bob, frank, uint256.NewInt(150)))
	require.NoError(t, env.engine.TransferFrom(frank, bob, deployer, uint256.NewInt(120)))
	require.NoError(t, env.engine.Transfer(bob, bob, uint256.NewInt(50)))

	err := env.engine.TransferFrom(frank, bob, deployer, uint256.NewInt(100))
	require.ErrorIs(t, err, ledger.ErrInsufficientAllowance)

	assert.Equal(t, "820", env.balance(t, deployer))
	assert.Equal(t, "180", env.balance(t, bob))
	assert.Equal(t, "30", env.allowance(t, bob, frank))
	env.assertConserved(t)
}

func TestEventsReachBusSubscribers(t *testing.T) {
	provider, err := db.NewMemoryProvider()
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	balances, err := store.NewGenericBalanceStore(provider.(db.IterableProvider))
	require.NoError(t, err)
	allowances, err := store.NewGenericAllowanceStore(provider)
	require.NoError(t, err)
	supply, err := store.NewGenericSupplyStore(provider)
	require.NoError(t, err)

	l, err := ledger.NewLedger(balances, supply)
	require.NoError(t, err)

	bus := events.NewEventBus()
	router := events.NewEventRouter(bus, events.NewEventLog())
	engine := NewEngine(l, ledger.NewAllowanceRegistry(allowances), router)

	_, ch := router.Subscribe()
	require.NoError(t, engine.InitGenesis(deployer, uint256.NewInt(10)))

	event := <-ch
	transfer, ok := event.(*events.Transfer)
	require.True(t, ok)
	assert.True(t, transfer.IsGenesis())
	assert.Equal(t, deployer, transfer.To())
}
