package ledgerstate

import (
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomOutputID(t *testing.T, outputIndex uint16) OutputID {
	transactionID, err := TransactionIDFromRandomness()
	require.NoError(t, err)

	return NewOutputID(transactionID, outputIndex)
}

func addressOutputWithID(t *testing.T, amount uint64, address Address) *BasicOutput {
	output := NewAddressOutput(amount, address)
	output.SetID(randomOutputID(t, 0))

	return output
}

func TestInputs_SortedAndDeduplicated(t *testing.T) {
	firstOutputID := randomOutputID(t, 1)
	secondOutputID := randomOutputID(t, 0)

	inputs := NewInputs(
		NewUTXOInput(firstOutputID),
		NewUTXOInput(secondOutputID),
		NewUTXOInput(firstOutputID),
	)

	// duplicates are dropped and the result is sorted
	require.Len(t, inputs, 2)
	assert.True(t, inputs[0].Compare(inputs[1]) < 0)
}

func TestTransactionEssenceFromBytes(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	ownerAddress := NewED25519Address(keyPair.PublicKey)

	nativeTokens := NewNativeTokenBalances()
	nativeTokens.Set(TokenID{3}, big.NewInt(999))
	unlockConditions, err := NewUnlockConditions(NewAddressUnlockCondition(ownerAddress))
	require.NoError(t, err)

	allotments := make(ManaAllotments)
	allotments[AccountID{1}] = 77

	essence := NewTransactionEssence(
		0,
		42,
		NewInputs(NewUTXOInput(randomOutputID(t, 0)), NewUTXOInput(randomOutputID(t, 1))),
		NewOutputs(NewBasicOutput(1000, 5, nativeTokens, unlockConditions)),
		allotments,
	)

	restoredEssence, consumedBytes, err := TransactionEssenceFromBytes(essence.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(essence.Bytes()), consumedBytes)
	assert.Equal(t, essence.Bytes(), restoredEssence.Bytes())
	assert.EqualValues(t, 42, restoredEssence.CreationSlot())
	assert.EqualValues(t, 77, restoredEssence.Allotments().Total())
}

func TestTransactionBalancesValid(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	consumedOutput := NewBasicOutput(1000, 10, nil, mustUnlockConditions(t, ownerAddress))

	// base token amounts must match exactly
	assert.True(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 10, nil, mustUnlockConditions(t, ownerAddress))},
		nil,
	))
	assert.False(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(999, 10, nil, mustUnlockConditions(t, ownerAddress))},
		nil,
	))

	// mana may be dropped but never created
	assert.True(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 0, nil, mustUnlockConditions(t, ownerAddress))},
		nil,
	))
	assert.False(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 11, nil, mustUnlockConditions(t, ownerAddress))},
		nil,
	))

	// allotments count against the consumed mana
	allotments := make(ManaAllotments)
	allotments[AccountID{9}] = 10
	assert.True(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 0, nil, mustUnlockConditions(t, ownerAddress))},
		allotments,
	))
	allotments[AccountID{9}] = 11
	assert.False(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 0, nil, mustUnlockConditions(t, ownerAddress))},
		allotments,
	))
}

func TestTransactionBalancesValid_NativeTokens(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)
	tokenID := TokenID{5}

	consumedTokens := NewNativeTokenBalances()
	consumedTokens.Set(tokenID, big.NewInt(100))
	consumedOutput := NewBasicOutput(1000, 0, consumedTokens, mustUnlockConditions(t, ownerAddress))

	createdTokens := NewNativeTokenBalances()
	createdTokens.Set(tokenID, big.NewInt(60))

	// burning native tokens is legal, minting them is not
	assert.True(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 0, createdTokens, mustUnlockConditions(t, ownerAddress))},
		nil,
	))

	mintedTokens := NewNativeTokenBalances()
	mintedTokens.Set(tokenID, big.NewInt(101))
	assert.False(t, TransactionBalancesValid(
		Outputs{consumedOutput},
		Outputs{NewBasicOutput(1000, 0, mintedTokens, mustUnlockConditions(t, ownerAddress))},
		nil,
	))
}

func TestUnlockBlocksValid(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	otherKeyPair := ed25519.GenerateKeyPair()
	ownerAddress := NewED25519Address(keyPair.PublicKey)

	firstInput := addressOutputWithID(t, 500, ownerAddress)
	secondInput := addressOutputWithID(t, 500, ownerAddress)

	essence := NewTransactionEssence(
		0,
		10,
		NewInputs(firstInput.Input(), secondInput.Input()),
		NewOutputs(NewAddressOutput(1000, ownerAddress)),
		nil,
	)

	// the consumed outputs have to be provided in essence input order
	consumedOutputs := Outputs{firstInput, secondInput}
	if firstInput.ID().Compare(secondInput.ID()) > 0 {
		consumedOutputs = Outputs{secondInput, firstInput}
	}

	// both inputs are owned by the same address, so the second unlock block references the first
	signature := NewED25519Signature(keyPair.PublicKey, keyPair.PrivateKey.Sign(essence.Bytes()))
	transaction := NewTransaction(essence, UnlockBlocks{
		NewSignatureUnlockBlock(signature),
		NewReferenceUnlockBlock(0),
	})
	assert.True(t, UnlockBlocksValid(consumedOutputs, transaction, 10))

	// a signature of a foreign key does not unlock the outputs
	foreignSignature := NewED25519Signature(otherKeyPair.PublicKey, otherKeyPair.PrivateKey.Sign(essence.Bytes()))
	invalidTransaction := NewTransaction(essence, UnlockBlocks{
		NewSignatureUnlockBlock(foreignSignature),
		NewReferenceUnlockBlock(0),
	})
	assert.False(t, UnlockBlocksValid(consumedOutputs, invalidTransaction, 10))
}

func TestUnlockBlocksValid_Timelock(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	ownerAddress := NewED25519Address(keyPair.PublicKey)

	unlockConditions, err := NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewTimelockUnlockCondition(20),
	)
	require.NoError(t, err)
	timelockedInput := NewBasicOutput(1000, 0, nil, unlockConditions)
	timelockedInput.SetID(randomOutputID(t, 0))

	essence := NewTransactionEssence(0, 10, NewInputs(timelockedInput.Input()), NewOutputs(NewAddressOutput(1000, ownerAddress)), nil)
	transaction := NewTransaction(essence, UnlockBlocks{
		NewSignatureUnlockBlock(NewED25519Signature(keyPair.PublicKey, keyPair.PrivateKey.Sign(essence.Bytes()))),
	})

	// the transaction only becomes valid once the timelock has passed
	assert.False(t, UnlockBlocksValid(Outputs{timelockedInput}, transaction, 10))
	assert.True(t, UnlockBlocksValid(Outputs{timelockedInput}, transaction, 20))
}

func TestTransactionFromBytes(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	ownerAddress := NewED25519Address(keyPair.PublicKey)

	input := addressOutputWithID(t, 1000, ownerAddress)
	essence := NewTransactionEssence(0, 7, NewInputs(input.Input()), NewOutputs(NewAddressOutput(1000, ownerAddress)), nil)
	transaction := NewTransaction(essence, UnlockBlocks{
		NewSignatureUnlockBlock(NewED25519Signature(keyPair.PublicKey, keyPair.PrivateKey.Sign(essence.Bytes()))),
	})

	restoredTransaction, consumedBytes, err := TransactionFromBytes(transaction.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(transaction.Bytes()), consumedBytes)
	assert.Equal(t, transaction.Bytes(), restoredTransaction.Bytes())
	assert.Equal(t, transaction.ID(), restoredTransaction.ID())
}

func mustUnlockConditions(t *testing.T, address Address) UnlockConditions {
	unlockConditions, err := NewUnlockConditions(NewAddressUnlockCondition(address))
	require.NoError(t, err)

	return unlockConditions
}
