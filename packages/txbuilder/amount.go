package txbuilder

import (
	"github.com/cockroachdb/errors"
)

// region Amount fulfiller /////////////////////////////////////////////////////////////////////////////////////////////

// amountSums returns the base token amount that the selected inputs provide and the amount that the requested outputs
// require. An unexpired storage deposit return condition of a selected input adds its return amount to the required
// side, since the preparation has to pay it back in the same transaction.
func (t *TransactionBuilder) amountSums() (inputSum uint64, requiredSum uint64) {
	for _, candidate := range t.selected {
		inputSum += candidate.Output.Amount()
	}

	requiredSum = t.outputs.TotalAmount() + t.storageDepositReturnSum()

	return
}

// storageDepositReturnSum returns the total amount that the selected inputs oblige the preparation to send back via
// storage deposit return conditions that have not expired at the build slot.
func (t *TransactionBuilder) storageDepositReturnSum() (returnSum uint64) {
	for _, candidate := range t.selected {
		unlockConditions := candidate.Output.UnlockConditions()
		storageDepositReturn := unlockConditions.StorageDepositReturn()
		if storageDepositReturn == nil || unlockConditions.ExpiredAt(t.buildSlot) {
			continue
		}

		returnSum += storageDepositReturn.Amount()
	}

	return
}

// fulfillAmount selects candidates from the pool (largest first) until the selected inputs cover the required base
// token amount. Every selection can raise the required side again (a fresh storage deposit return obligation), so the
// sums are recomputed per iteration.
func (t *TransactionBuilder) fulfillAmount() (err error) {
	for {
		inputSum, requiredSum := t.amountSums()
		if inputSum >= requiredSum {
			return nil
		}

		candidate, exists := t.pool.Pop()
		if !exists {
			return errors.WithStack(&InsufficientAmountError{Found: inputSum, Required: requiredSum})
		}

		t.selectInput(candidate)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Mana fulfiller ///////////////////////////////////////////////////////////////////////////////////////////////

// manaSums returns the mana that the selected inputs provide and the mana that the requested outputs and allotments
// require.
func (t *TransactionBuilder) manaSums() (inputSum uint64, requiredSum uint64) {
	for _, candidate := range t.selected {
		inputSum += candidate.Output.Mana()
	}
	for _, output := range t.outputs {
		requiredSum += output.Mana()
	}
	requiredSum += t.allotments.Total()

	return
}

// fulfillMana selects mana carrying candidates until the selected inputs cover the mana that the outputs and
// allotments require.
func (t *TransactionBuilder) fulfillMana() (err error) {
	for {
		inputSum, requiredSum := t.manaSums()
		if inputSum >= requiredSum {
			return nil
		}

		candidate, exists := t.pool.PopWhere(func(candidate *InputSigningData) bool {
			return candidate.Output.Mana() > 0
		})
		if !exists {
			return errors.WithStack(&InsufficientManaError{Found: inputSum, Required: requiredSum})
		}

		t.selectInput(candidate)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
