package ledgerstate

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnlockConditions(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)
	returnAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	// conditions are sorted by type regardless of the order they were provided in
	unlockConditions, err := NewUnlockConditions(
		NewTimelockUnlockCondition(12),
		NewAddressUnlockCondition(ownerAddress),
	)
	require.NoError(t, err)
	assert.Equal(t, AddressUnlockConditionType, unlockConditions[0].Type())
	assert.Equal(t, TimelockUnlockConditionType, unlockConditions[1].Type())

	// duplicated condition types are rejected
	_, err = NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewAddressUnlockCondition(returnAddress),
	)
	require.ErrorIs(t, err, ErrInvalidUnlockConditions)
}

func TestUnlockConditions_Timelock(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	unlockConditions, err := NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewTimelockUnlockCondition(10),
	)
	require.NoError(t, err)

	assert.True(t, unlockConditions.TimelockedAt(9))
	assert.False(t, unlockConditions.TimelockedAt(10))
	assert.False(t, unlockConditions.TimelockedAt(11))

	// a timelocked output can not be unlocked even by its owner
	assert.False(t, unlockConditions.UnlockableBy(ownerAddress, 9))
	assert.True(t, unlockConditions.UnlockableBy(ownerAddress, 10))
}

func TestUnlockConditions_Expiration(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)
	returnAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	unlockConditions, err := NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewExpirationUnlockCondition(returnAddress, 20),
	)
	require.NoError(t, err)

	assert.False(t, unlockConditions.ExpiredAt(19))
	assert.True(t, unlockConditions.ExpiredAt(20))

	// before the expiration the owner controls the output, afterwards the return address does
	assert.True(t, unlockConditions.UnlockAddress(19).Equals(ownerAddress))
	assert.True(t, unlockConditions.UnlockAddress(20).Equals(returnAddress))

	assert.True(t, unlockConditions.UnlockableBy(ownerAddress, 19))
	assert.False(t, unlockConditions.UnlockableBy(ownerAddress, 20))
	assert.False(t, unlockConditions.UnlockableBy(returnAddress, 19))
	assert.True(t, unlockConditions.UnlockableBy(returnAddress, 20))
}

func TestUnlockConditions_StorageDepositReturn(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)
	returnAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	unlockConditions, err := NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewStorageDepositReturnUnlockCondition(returnAddress, 1000),
	)
	require.NoError(t, err)

	storageDepositReturn := unlockConditions.StorageDepositReturn()
	require.NotNil(t, storageDepositReturn)
	assert.EqualValues(t, 1000, storageDepositReturn.Amount())
	assert.True(t, storageDepositReturn.ReturnAddress().Equals(returnAddress))
}

func TestUnlockConditionsFromMarshalUtil(t *testing.T) {
	ownerAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)
	returnAddress := NewED25519Address(ed25519.GenerateKeyPair().PublicKey)

	unlockConditions, err := NewUnlockConditions(
		NewAddressUnlockCondition(ownerAddress),
		NewStorageDepositReturnUnlockCondition(returnAddress, 424242),
		NewTimelockUnlockCondition(7),
		NewExpirationUnlockCondition(returnAddress, 9),
	)
	require.NoError(t, err)

	restoredUnlockConditions, err := UnlockConditionsFromMarshalUtil(marshalutil.New(unlockConditions.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, unlockConditions.Bytes(), restoredUnlockConditions.Bytes())
	assert.True(t, restoredUnlockConditions.Address().Address().Equals(ownerAddress))
}
