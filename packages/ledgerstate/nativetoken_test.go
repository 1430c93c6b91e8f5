package ledgerstate

import (
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeTokenBalances_SetAddSub(t *testing.T) {
	tokenA := TokenID{1}
	tokenB := TokenID{2}

	balances := NewNativeTokenBalances()
	balances.Set(tokenA, big.NewInt(100))
	balances.Add(tokenB, big.NewInt(50))
	balances.Add(tokenA, big.NewInt(25))

	amountA, exists := balances.Get(tokenA)
	require.True(t, exists)
	assert.EqualValues(t, 125, amountA.Int64())

	// subtracting below zero fails and leaves the balance untouched
	assert.False(t, balances.Sub(tokenB, big.NewInt(51)))
	amountB, exists := balances.Get(tokenB)
	require.True(t, exists)
	assert.EqualValues(t, 50, amountB.Int64())

	// subtracting to exactly zero removes the balance
	assert.True(t, balances.Sub(tokenB, big.NewInt(50)))
	_, exists = balances.Get(tokenB)
	assert.False(t, exists)
	assert.Equal(t, 1, balances.Size())

	// setting a zero amount deletes the entry
	balances.Set(tokenA, big.NewInt(0))
	assert.Equal(t, 0, balances.Size())
}

func TestNativeTokenBalances_DefensiveCopies(t *testing.T) {
	tokenA := TokenID{1}

	amount := big.NewInt(100)
	balances := NewNativeTokenBalances()
	balances.Set(tokenA, amount)

	// mutating the provided amount does not change the stored balance
	amount.SetInt64(1)
	storedAmount, exists := balances.Get(tokenA)
	require.True(t, exists)
	assert.EqualValues(t, 100, storedAmount.Int64())

	// mutating the returned amount does not change the stored balance either
	storedAmount.SetInt64(1)
	storedAmount, _ = balances.Get(tokenA)
	assert.EqualValues(t, 100, storedAmount.Int64())
}

func TestNativeTokenBalances_Bytes(t *testing.T) {
	tokenA := TokenID{3}
	tokenB := TokenID{1}
	tokenC := TokenID{2}

	balances := NewNativeTokenBalances()
	balances.Set(tokenA, big.NewInt(300))
	balances.Set(tokenB, big.NewInt(100))
	balances.Set(tokenC, new(big.Int).Lsh(big.NewInt(1), 200))

	restoredBalances, err := NativeTokenBalancesFromMarshalUtil(marshalutil.New(balances.Bytes()))
	require.NoError(t, err)
	assert.True(t, balances.Equals(restoredBalances))

	// serialization is canonical: iterating yields the token ids in ascending order
	var seenTokenIDs []TokenID
	restoredBalances.ForEach(func(tokenID TokenID, amount *big.Int) bool {
		seenTokenIDs = append(seenTokenIDs, tokenID)

		return true
	})
	require.Len(t, seenTokenIDs, 3)
	assert.Equal(t, []TokenID{tokenB, tokenC, tokenA}, seenTokenIDs)
}
