package txbuilder

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region Balance & remainder calculator ///////////////////////////////////////////////////////////////////////////////

// buildRemainders closes the balance of the preparation after the requirement loop converged: it synthesizes the
// storage deposit return outputs that the selected inputs oblige, and pays every remaining surplus (base tokens,
// native tokens, mana) back to the remainder address. If the base token surplus is positive but too small to fund a
// valid remainder output, one more input is pulled from the pool and the calculation restarts, since the fresh input
// can bring new obligations of its own.
func (t *TransactionBuilder) buildRemainders() (sdrOutputs ledgerstate.Outputs, remainderOutputs ledgerstate.Outputs, err error) {
	maxIterations := t.pool.Len() + 2
	for iteration := 0; ; iteration++ {
		if iteration > maxIterations {
			panic(fmt.Sprintf("remainder calculation did not converge after %d iterations", iteration))
		}

		sdrOutputs = t.storageDepositReturnOutputs()

		inputSum, _ := t.amountSums()
		requiredSum := t.outputs.TotalAmount() + sdrOutputs.TotalAmount()
		baseSurplus, valid := ledgerstate.SafeSubUint64(inputSum, requiredSum)
		if !valid {
			// fulfillAmount guarantees input >= required; a fresh storage deposit obligation can break that again
			if err = t.pullRemainderInput(inputSum, requiredSum); err != nil {
				return nil, nil, err
			}
			continue
		}

		tokenSurplus := t.nativeTokenSurplus()
		manaSurplus := t.manaSurplus()

		if baseSurplus == 0 && tokenSurplus.Size() == 0 && manaSurplus == 0 {
			return sdrOutputs, nil, nil
		}

		remainderAddress := t.resolveRemainderAddress()

		remainderOutputs, err = t.remainderOutputsFor(remainderAddress, baseSurplus, tokenSurplus, manaSurplus)
		if err == nil {
			return sdrOutputs, remainderOutputs, nil
		}

		var insufficientAmount *InsufficientAmountError
		if !errors.As(err, &insufficientAmount) {
			return nil, nil, err
		}
		if pullErr := t.pullRemainderInput(insufficientAmount.Found, insufficientAmount.Required); pullErr != nil {
			return nil, nil, pullErr
		}
	}
}

// pullRemainderInput selects one more input from the pool to fund a remainder that would otherwise fall below its
// minimum storage deposit. An exhausted pool fails the whole preparation.
func (t *TransactionBuilder) pullRemainderInput(found uint64, required uint64) (err error) {
	candidate, exists := t.pool.Pop()
	if !exists {
		return errors.WithStack(&InsufficientAmountError{Found: found, Required: required})
	}

	t.selectInput(candidate)

	return nil
}

// storageDepositReturnOutputs synthesizes the outputs that pay back the unexpired storage deposit return obligations
// of the selected inputs, merged per return address.
func (t *TransactionBuilder) storageDepositReturnOutputs() (sdrOutputs ledgerstate.Outputs) {
	amountsByAddress := make(map[string]uint64)
	addressOrder := make([]ledgerstate.Address, 0)

	for _, candidate := range t.selected {
		unlockConditions := candidate.Output.UnlockConditions()
		storageDepositReturn := unlockConditions.StorageDepositReturn()
		if storageDepositReturn == nil || unlockConditions.ExpiredAt(t.buildSlot) {
			continue
		}

		addressKey := string(storageDepositReturn.ReturnAddress().Bytes())
		if _, seen := amountsByAddress[addressKey]; !seen {
			addressOrder = append(addressOrder, storageDepositReturn.ReturnAddress())
		}
		amountsByAddress[addressKey] += storageDepositReturn.Amount()
	}

	sdrOutputs = make(ledgerstate.Outputs, 0, len(addressOrder))
	for _, returnAddress := range addressOrder {
		sdrOutputs = append(sdrOutputs, ledgerstate.NewAddressOutput(amountsByAddress[string(returnAddress.Bytes())], returnAddress))
	}

	return
}

// nativeTokenSurplus returns the native token amounts that the selected inputs provide beyond what the requested
// outputs and burns consume.
func (t *TransactionBuilder) nativeTokenSurplus() (surplus *ledgerstate.NativeTokenBalances) {
	surplus = ledgerstate.NewNativeTokenBalances()
	for _, candidate := range t.selected {
		candidate.Output.NativeTokens().ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
			surplus.Add(tokenID, amount)
			return true
		})
	}
	for _, output := range t.outputs {
		output.NativeTokens().ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
			surplus.Sub(tokenID, amount)
			return true
		})
	}
	t.burn.NativeTokens.ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
		surplus.Sub(tokenID, amount)
		return true
	})

	return
}

// manaSurplus returns the mana that the selected inputs provide beyond what the outputs and allotments consume. A
// requested mana burn drops the surplus, which is the single audited exception to conservation.
func (t *TransactionBuilder) manaSurplus() (surplus uint64) {
	inputSum, requiredSum := t.manaSums()
	surplus = inputSum - requiredSum
	if t.burn.Mana {
		surplus = 0
	}

	return
}

// resolveRemainderAddress returns the address that surpluses are paid back to: the explicit option wins, then the
// sender address, then the unlock address of the first selected input.
func (t *TransactionBuilder) resolveRemainderAddress() ledgerstate.Address {
	if t.remainderAddress != nil {
		return t.remainderAddress
	}
	if t.sender != nil {
		return t.sender
	}

	return t.selected[0].Output.UnlockConditions().UnlockAddress(t.buildSlot)
}

// remainderOutputsFor shapes the surpluses into remainder outputs for the given address. Native token surpluses are
// merged into the main remainder output; tokens beyond MaxNativeTokenCount overflow into additional outputs that hold
// exactly their own minimum storage deposit. The returned InsufficientAmountError signals that the base surplus can
// not fund the required remainder shape and one more input has to be pulled.
func (t *TransactionBuilder) remainderOutputsFor(remainderAddress ledgerstate.Address, baseSurplus uint64, tokenSurplus *ledgerstate.NativeTokenBalances, manaSurplus uint64) (remainderOutputs ledgerstate.Outputs, err error) {
	tokenChunks := t.chunkNativeTokens(tokenSurplus)

	var mainChunk *ledgerstate.NativeTokenBalances
	if len(tokenChunks) > 0 {
		mainChunk = tokenChunks[0]
	}

	var overflowCost uint64
	overflowOutputs := make(ledgerstate.Outputs, 0)
	for _, chunk := range tokenChunks[min(len(tokenChunks), 1):] {
		chunkOutput := ledgerstate.NewBasicOutput(0, 0, chunk, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(remainderAddress)})
		chunkDeposit := t.params.RentStructure.MinimumStorageDeposit(chunkOutput)
		overflowOutputs = append(overflowOutputs, ledgerstate.NewBasicOutput(chunkDeposit, 0, chunk, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(remainderAddress)}))
		overflowCost += chunkDeposit
	}

	mainOutput := ledgerstate.NewBasicOutput(0, manaSurplus, mainChunk, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(remainderAddress)})
	mainDeposit := t.params.RentStructure.MinimumStorageDeposit(mainOutput)

	mainAmount, valid := ledgerstate.SafeSubUint64(baseSurplus, overflowCost)
	if !valid || mainAmount < mainDeposit {
		inputSum, _ := t.amountSums()
		return nil, errors.WithStack(&InsufficientAmountError{
			Found:    inputSum,
			Required: t.outputs.TotalAmount() + t.storageDepositReturnSum() + overflowCost + mainDeposit,
		})
	}

	remainderOutputs = append(ledgerstate.Outputs{
		ledgerstate.NewBasicOutput(mainAmount, manaSurplus, mainChunk, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(remainderAddress)}),
	}, overflowOutputs...)

	return remainderOutputs, nil
}

// chunkNativeTokens splits the given balances into chunks of at most MaxNativeTokenCount distinct tokens.
func (t *TransactionBuilder) chunkNativeTokens(balances *ledgerstate.NativeTokenBalances) (chunks []*ledgerstate.NativeTokenBalances) {
	maxPerChunk := int(t.params.MaxNativeTokenCount)

	currentChunk := ledgerstate.NewNativeTokenBalances()
	balances.ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
		if currentChunk.Size() == maxPerChunk {
			chunks = append(chunks, currentChunk)
			currentChunk = ledgerstate.NewNativeTokenBalances()
		}
		currentChunk.Set(tokenID, amount)
		return true
	})
	if currentChunk.Size() > 0 {
		chunks = append(chunks, currentChunk)
	}

	return
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
