package ledger

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Transfer(addrR, addrA, uint256.NewInt(1000)))
	require.NoError(t, l.Approve(addrR, addrP, uint256.NewInt(500)))

	snap := l.Snapshot()

	restored := New(testParams())
	require.NoError(t, restored.Restore(snap))

	assert.True(t, restored.Initialized())
	assert.Equal(t, l.TotalSupply().Dec(), restored.TotalSupply().Dec())
	assert.Equal(t, l.BalanceOf(addrR).Dec(), restored.BalanceOf(addrR).Dec())
	assert.Equal(t, "1000", restored.BalanceOf(addrA).Dec())
	assert.Equal(t, "500", restored.Allowance(addrR, addrP).Dec())
}

func TestSnapshot_SurvivesJSON(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Approve(addrR, addrP, MaxAllowance))

	data, err := json.Marshal(l.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := New(testParams())
	require.NoError(t, restored.Restore(&snap))
	assert.True(t, restored.Allowance(addrR, addrP).Eq(MaxAllowance), "sentinel allowance survives persistence")
}

func TestSnapshot_OmitsZeroEntries(t *testing.T) {
	l := newFundedLedger(t)
	require.NoError(t, l.Transfer(addrR, addrA, uint256.NewInt(10)))
	require.NoError(t, l.Transfer(addrA, addrR, uint256.NewInt(10)))
	require.NoError(t, l.Approve(addrR, addrP, uint256.NewInt(0)))

	snap := l.Snapshot()
	_, hasA := snap.Balances[addrA.Hex()]
	assert.False(t, hasA, "zero balance is equivalent to absence")
	assert.Empty(t, snap.Allowances)
}

func TestSnapshot_PreservesEventSequence(t *testing.T) {
	sink := NewMemorySink()
	l := newFundedLedger(t)
	require.NoError(t, l.Transfer(addrR, addrA, uint256.NewInt(1)))

	restored := New(testParams(), WithSink(sink))
	require.NoError(t, restored.Restore(l.Snapshot()))
	require.NoError(t, restored.Transfer(addrA, addrR, uint256.NewInt(1)))

	require.Len(t, sink.Events(), 1)
	assert.Equal(t, uint64(4), sink.Events()[0].Seq, "numbering continues after restore")
}

func TestRestore_RejectsBadAmounts(t *testing.T) {
	l := New(testParams())
	err := l.Restore(&Snapshot{TotalSupply: "not-a-number"})
	require.Error(t, err)
}

func TestSnapshot_NoncesRoundTrip(t *testing.T) {
	l := newFundedLedger(t)
	l.mu.Lock()
	l.nonces[addrR] = 3
	l.mu.Unlock()

	restored := New(testParams())
	require.NoError(t, restored.Restore(l.Snapshot()))
	assert.Equal(t, uint64(3), restored.Nonces(addrR))
}
