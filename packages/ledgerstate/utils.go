package ledgerstate

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
)

// SafeAddUint64 adds two uint64 values. It returns the result and a valid flag that indicates whether the addition is
// valid without causing an overflow.
func SafeAddUint64(a uint64, b uint64) (result uint64, valid bool) {
	valid = !(math.MaxUint64-a < b)
	result = a + b
	return
}

// SafeSubUint64 subtracts two uint64 values. It returns the result and a valid flag that indicates whether the
// subtraction is valid without causing an overflow.
func SafeSubUint64(a uint64, b uint64) (result uint64, valid bool) {
	valid = b <= a
	result = a - b
	return
}

// TransactionBalancesValid checks the balance related rules that a Transaction has to satisfy: the base token amounts
// of the consumed and the created Outputs have to match exactly, native tokens and mana must not be created out of
// thin air (consuming more than is created burns the difference, which is legal).
func TransactionBalancesValid(consumedOutputs Outputs, createdOutputs Outputs, allotments ManaAllotments) (valid bool) {
	var consumedAmount, createdAmount uint64
	var consumedMana, createdMana uint64
	consumedTokens := NewNativeTokenBalances()
	createdTokens := NewNativeTokenBalances()

	for _, output := range consumedOutputs {
		if consumedAmount, valid = SafeAddUint64(consumedAmount, output.Amount()); !valid {
			return false
		}
		if consumedMana, valid = SafeAddUint64(consumedMana, output.Mana()); !valid {
			return false
		}
		output.NativeTokens().ForEach(func(tokenID TokenID, amount *big.Int) bool {
			consumedTokens.Add(tokenID, amount)
			return true
		})
	}
	for _, output := range createdOutputs {
		if createdAmount, valid = SafeAddUint64(createdAmount, output.Amount()); !valid {
			return false
		}
		if createdMana, valid = SafeAddUint64(createdMana, output.Mana()); !valid {
			return false
		}
		output.NativeTokens().ForEach(func(tokenID TokenID, amount *big.Int) bool {
			createdTokens.Add(tokenID, amount)
			return true
		})
	}
	if createdMana, valid = SafeAddUint64(createdMana, allotments.Total()); !valid {
		return false
	}

	if consumedAmount != createdAmount {
		return false
	}
	if createdMana > consumedMana {
		return false
	}

	tokensCovered := true
	createdTokens.ForEach(func(tokenID TokenID, createdAmount *big.Int) bool {
		consumedAmount, exists := consumedTokens.Get(tokenID)
		if !exists || consumedAmount.Cmp(createdAmount) < 0 {
			tokensCovered = false
			return false
		}
		return true
	})

	return tokensCovered
}

// UnlockBlocksValidWithError checks if the UnlockBlocks of the given Transaction are allowed to spend the consumed
// Outputs at the given SlotIndex. Unlike the boolean check it returns the details of the failure.
func UnlockBlocksValidWithError(consumedOutputs Outputs, transaction *Transaction, slotIndex SlotIndex) (err error) {
	unlockBlocks := transaction.UnlockBlocks()
	signedData := transaction.Essence().Bytes()

	for i, output := range consumedOutputs {
		unlockConditions := output.UnlockConditions()
		if unlockConditions.TimelockedAt(slotIndex) {
			return errors.Errorf("input %d is timelocked at slot %d: %w", i, slotIndex, ErrTransactionInvalid)
		}
		unlockAddress := unlockConditions.UnlockAddress(slotIndex)
		if unlockAddress == nil {
			return errors.Errorf("input %d has no unlockable address: %w", i, ErrTransactionInvalid)
		}

		signatureUnlockBlock, resolveErr := resolveSignatureUnlockBlock(unlockBlocks, i)
		if resolveErr != nil {
			return resolveErr
		}
		if !signatureUnlockBlock.AddressSignatureValid(unlockAddress, signedData) {
			return errors.Errorf("UnlockBlock %d does not sign address %s: %w", i, unlockAddress.Base58(), ErrTransactionInvalid)
		}
	}

	return nil
}

// UnlockBlocksValid checks if the UnlockBlocks of the given Transaction are allowed to spend the consumed Outputs at
// the given SlotIndex.
func UnlockBlocksValid(consumedOutputs Outputs, transaction *Transaction, slotIndex SlotIndex) (valid bool) {
	return UnlockBlocksValidWithError(consumedOutputs, transaction, slotIndex) == nil
}

// resolveSignatureUnlockBlock returns the SignatureUnlockBlock for the Input with the given index, following a
// ReferenceUnlockBlock to its referenced SignatureUnlockBlock if necessary.
func resolveSignatureUnlockBlock(unlockBlocks UnlockBlocks, inputIndex int) (signatureUnlockBlock *SignatureUnlockBlock, err error) {
	currentUnlockBlock := unlockBlocks[inputIndex]
	if referenceUnlockBlock, isReference := currentUnlockBlock.(*ReferenceUnlockBlock); isReference {
		referencedIndex := int(referenceUnlockBlock.ReferencedIndex())
		if referencedIndex >= inputIndex {
			return nil, errors.Errorf("ReferenceUnlockBlock %d references a later UnlockBlock: %w", inputIndex, ErrTransactionInvalid)
		}
		currentUnlockBlock = unlockBlocks[referencedIndex]
	}

	signatureUnlockBlock, isSignatureUnlockBlock := currentUnlockBlock.(*SignatureUnlockBlock)
	if !isSignatureUnlockBlock {
		return nil, errors.Errorf("UnlockBlock %d is not a SignatureUnlockBlock: %w", inputIndex, ErrTransactionInvalid)
	}

	return signatureUnlockBlock, nil
}
