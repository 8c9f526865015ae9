package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	l := New()
	require.NoError(t, l.Mint("alice", 100))

	require.NoError(t, l.Transfer("alice", "bob", 40))
	require.Equal(t, int64(60), l.Balance("alice"))
	require.Equal(t, int64(40), l.Balance("bob"))
}

func TestTransferInsufficientFunds(t *testing.T) {
	l := New()
	require.NoError(t, l.Mint("alice", 10))

	err := l.Transfer("alice", "bob", 11)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, int64(10), l.Balance("alice"))
	require.Equal(t, int64(0), l.Balance("bob"))
}

func TestTransferUnknownAccount(t *testing.T) {
	l := New()
	err := l.Transfer("ghost", "bob", 1)
	require.ErrorIs(t, err, ErrUnknownAccount)
}

func TestTransferInvalidAmount(t *testing.T) {
	l := New()
	require.NoError(t, l.Mint("alice", 10))
	require.ErrorIs(t, l.Transfer("alice", "bob", 0), ErrInvalidAmount)
	require.ErrorIs(t, l.Transfer("alice", "bob", -5), ErrInvalidAmount)
}

func TestTotalSupplyConserved(t *testing.T) {
	l := New()
	require.NoError(t, l.Mint("alice", 500))
	require.NoError(t, l.Mint("bob", 250))
	supply := l.TotalSupply()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Transfer("alice", "bob", 3)
			_ = l.Transfer("bob", "alice", 2)
		}()
	}
	wg.Wait()

	require.Equal(t, supply, l.TotalSupply())
}
