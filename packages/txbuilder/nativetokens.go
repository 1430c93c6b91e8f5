package txbuilder

import (
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region NativeTokens fulfiller ///////////////////////////////////////////////////////////////////////////////////////

// requiredNativeTokenIDs returns the ids of all native tokens that the preparation has to source: the tokens of the
// requested outputs plus the tokens that are explicitly burned.
func (t *TransactionBuilder) requiredNativeTokenIDs() (tokenIDs []ledgerstate.TokenID) {
	requiredTokens := ledgerstate.NewNativeTokenBalances()
	for _, output := range t.outputs {
		output.NativeTokens().ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
			requiredTokens.Add(tokenID, amount)
			return true
		})
	}
	t.burn.NativeTokens.ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
		requiredTokens.Add(tokenID, amount)
		return true
	})

	tokenIDs = make([]ledgerstate.TokenID, 0, requiredTokens.Size())
	requiredTokens.ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
		tokenIDs = append(tokenIDs, tokenID)
		return true
	})

	return
}

// nativeTokenSums returns the amount of the given native token that the selected inputs provide and the amount that
// the requested outputs and burns require.
func (t *TransactionBuilder) nativeTokenSums(tokenID ledgerstate.TokenID) (inputSum *big.Int, requiredSum *big.Int) {
	inputSum = new(big.Int)
	requiredSum = new(big.Int)

	for _, candidate := range t.selected {
		if amount, exists := candidate.Output.NativeTokens().Get(tokenID); exists {
			inputSum.Add(inputSum, amount)
		}
	}
	for _, output := range t.outputs {
		if amount, exists := output.NativeTokens().Get(tokenID); exists {
			requiredSum.Add(requiredSum, amount)
		}
	}
	if amount, exists := t.burn.NativeTokens.Get(tokenID); exists {
		requiredSum.Add(requiredSum, amount)
	}

	return
}

// fulfillNativeTokens selects candidates that carry the given native token until the selected inputs cover the
// required amount.
func (t *TransactionBuilder) fulfillNativeTokens(tokenID ledgerstate.TokenID) (err error) {
	for {
		inputSum, requiredSum := t.nativeTokenSums(tokenID)
		if inputSum.Cmp(requiredSum) >= 0 {
			return nil
		}

		candidate, exists := t.pool.PopWhere(func(candidate *InputSigningData) bool {
			_, carriesToken := candidate.Output.NativeTokens().Get(tokenID)
			return carriesToken
		})
		if !exists {
			return errors.WithStack(&InsufficientNativeTokensError{TokenID: tokenID, Found: inputSum, Required: requiredSum})
		}

		t.selectInput(candidate)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
