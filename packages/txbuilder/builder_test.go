package txbuilder

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

func randomOutputID(t *testing.T) ledgerstate.OutputID {
	transactionID, err := ledgerstate.TransactionIDFromRandomness()
	require.NoError(t, err)

	return ledgerstate.NewOutputID(transactionID, 0)
}

func generateAddress() *ledgerstate.ED25519Address {
	keyPair := ed25519.GenerateKeyPair()

	return ledgerstate.NewED25519Address(keyPair.PublicKey)
}

func newCandidate(t *testing.T, amount uint64, mana uint64, nativeTokens *ledgerstate.NativeTokenBalances, owner ledgerstate.Address) *InputSigningData {
	output := ledgerstate.NewBasicOutput(amount, mana, nativeTokens, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(owner)})
	output.SetID(randomOutputID(t))

	return &InputSigningData{Output: output, OwningAddress: owner}
}

func mustUnlockConditions(t *testing.T, optionalUnlockConditions ...ledgerstate.UnlockCondition) ledgerstate.UnlockConditions {
	unlockConditions, err := ledgerstate.NewUnlockConditions(optionalUnlockConditions...)
	require.NoError(t, err)

	return unlockConditions
}

func selectedAmounts(preparedTransaction *PreparedTransaction) (totalAmount uint64) {
	for _, inputData := range preparedTransaction.InputsData() {
		totalAmount += inputData.Output.Amount()
	}

	return
}

func TestFinish_SimpleSendWithRemainder(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{
		newCandidate(t, 1000000, 0, nil, owner),
		newCandidate(t, 500000, 0, nil, owner),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(600000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// the largest candidate alone covers the request, the smaller one stays untouched
	require.Len(t, preparedTransaction.InputsData(), 1)
	assert.EqualValues(t, 1000000, preparedTransaction.InputsData()[0].Output.Amount())

	require.Len(t, preparedTransaction.Essence().Outputs(), 2)
	assert.Same(t, outputs[0], preparedTransaction.Essence().Outputs()[0])

	require.Len(t, preparedTransaction.Remainders(), 1)
	remainder := preparedTransaction.Remainders()[0]
	assert.EqualValues(t, 400000, remainder.Amount())
	assert.True(t, remainder.UnlockConditions().Address().Address().Equals(owner))

	assert.Equal(t, selectedAmounts(preparedTransaction), preparedTransaction.Essence().Outputs().TotalAmount())

	// the preparation is deterministic
	secondPreparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)
	assert.Equal(t, preparedTransaction.Essence().Bytes(), secondPreparedTransaction.Essence().Bytes())
}

func TestFinish_NativeTokens(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	tokenID := ledgerstate.TokenID{1}
	inputTokens := ledgerstate.NewNativeTokenBalances()
	inputTokens.Set(tokenID, big.NewInt(150))

	availableInputs := []*InputSigningData{
		newCandidate(t, 200000, 0, nil, owner),
		newCandidate(t, 100000, 0, inputTokens, owner),
	}

	requestedTokens := ledgerstate.NewNativeTokenBalances()
	requestedTokens.Set(tokenID, big.NewInt(100))
	outputs := ledgerstate.Outputs{
		ledgerstate.NewBasicOutput(50000, 0, requestedTokens, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(destination)}),
	}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// only the token carrying candidate is selected even though it is the smaller one
	require.Len(t, preparedTransaction.InputsData(), 1)
	assert.EqualValues(t, 100000, preparedTransaction.InputsData()[0].Output.Amount())

	require.Len(t, preparedTransaction.Remainders(), 1)
	remainder := preparedTransaction.Remainders()[0]
	assert.EqualValues(t, 50000, remainder.Amount())
	remainingAmount, exists := remainder.NativeTokens().Get(tokenID)
	require.True(t, exists)
	assert.Zero(t, remainingAmount.Cmp(big.NewInt(50)))
}

func TestFinish_InsufficientNativeTokens(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	tokenID := ledgerstate.TokenID{1}
	inputTokens := ledgerstate.NewNativeTokenBalances()
	inputTokens.Set(tokenID, big.NewInt(100))

	availableInputs := []*InputSigningData{newCandidate(t, 500000, 0, inputTokens, owner)}

	requestedTokens := ledgerstate.NewNativeTokenBalances()
	requestedTokens.Set(tokenID, big.NewInt(200))
	outputs := ledgerstate.Outputs{
		ledgerstate.NewBasicOutput(50000, 0, requestedTokens, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(destination)}),
	}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var insufficientNativeTokens *InsufficientNativeTokensError
	require.True(t, errors.As(err, &insufficientNativeTokens))
	assert.Equal(t, tokenID, insufficientNativeTokens.TokenID)
	assert.Zero(t, insufficientNativeTokens.Found.Cmp(big.NewInt(100)))
	assert.Zero(t, insufficientNativeTokens.Required.Cmp(big.NewInt(200)))
}

func TestFinish_StorageDepositReturn(t *testing.T) {
	owner := generateAddress()
	returnAddress := generateAddress()
	destination := generateAddress()

	depositOutput := ledgerstate.NewBasicOutput(100000, 0, nil, mustUnlockConditions(t,
		ledgerstate.NewAddressUnlockCondition(owner),
		ledgerstate.NewStorageDepositReturnUnlockCondition(returnAddress, 39500),
	))
	depositOutput.SetID(randomOutputID(t))
	depositInput := &InputSigningData{Output: depositOutput, OwningAddress: owner}

	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(20000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, []*InputSigningData{depositInput}, outputs,
		WithRequiredInputs(depositInput),
	).Finish()
	require.NoError(t, err)

	// consuming the input obliges the preparation to pay the deposit back in the same transaction
	essenceOutputs := preparedTransaction.Essence().Outputs()
	require.Len(t, essenceOutputs, 3)
	assert.EqualValues(t, 20000, essenceOutputs[0].Amount())
	assert.EqualValues(t, 39500, essenceOutputs[1].Amount())
	assert.True(t, essenceOutputs[1].UnlockConditions().Address().Address().Equals(returnAddress))
	assert.EqualValues(t, 40500, essenceOutputs[2].Amount())
	assert.True(t, essenceOutputs[2].UnlockConditions().Address().Address().Equals(owner))

	assert.Equal(t, selectedAmounts(preparedTransaction), essenceOutputs.TotalAmount())
}

func TestFinish_ImplicitAccountCreation(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	owner := ledgerstate.NewED25519Address(keyPair.PublicKey)
	implicitAccountAddress := ledgerstate.NewImplicitAccountCreationAddress(keyPair.PublicKey)

	availableInputs := []*InputSigningData{
		newCandidate(t, 1000000, 0, nil, generateAddress()),
		newCandidate(t, 100000, 0, nil, owner),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, implicitAccountAddress)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// the funding input has to be controlled by the key behind the implicit account address
	require.Len(t, preparedTransaction.InputsData(), 1)
	assert.True(t, preparedTransaction.InputsData()[0].OwningAddress.Equals(owner))
}

func TestFinish_ImplicitAccountCreationUnfulfillable(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	implicitAccountAddress := ledgerstate.NewImplicitAccountCreationAddress(keyPair.PublicKey)

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, generateAddress())}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, implicitAccountAddress)}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var unfulfillable *UnfulfillableRequirementError
	require.True(t, errors.As(err, &unfulfillable))
	assert.Equal(t, Ed25519SignatureRequirementKind, unfulfillable.Requirement.Kind())
}

func TestFinish_RemainderBelowMinimumPullsInput(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{
		newCandidate(t, 110000, 0, nil, owner),
		newCandidate(t, 50000, 0, nil, owner),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(100000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// the 10000 surplus of the first input can not fund a valid remainder output on its own
	require.Len(t, preparedTransaction.InputsData(), 2)
	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.EqualValues(t, 60000, preparedTransaction.Remainders()[0].Amount())
	assert.Equal(t, selectedAmounts(preparedTransaction), preparedTransaction.Essence().Outputs().TotalAmount())
}

func TestFinish_RemainderBelowMinimumExhaustsPool(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 110000, 0, nil, owner)}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(100000, destination)}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var insufficientAmount *InsufficientAmountError
	require.True(t, errors.As(err, &insufficientAmount))
}

func TestFinish_NativeTokenRemainderOverflow(t *testing.T) {
	params := ledgerstate.DefaultProtocolParameters()
	params.MaxNativeTokenCount = 2

	owner := generateAddress()
	destination := generateAddress()

	inputTokens := ledgerstate.NewNativeTokenBalances()
	inputTokens.Set(ledgerstate.TokenID{1}, big.NewInt(10))
	inputTokens.Set(ledgerstate.TokenID{2}, big.NewInt(20))
	inputTokens.Set(ledgerstate.TokenID{3}, big.NewInt(30))

	availableInputs := []*InputSigningData{newCandidate(t, 300000, 0, inputTokens, owner)}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, destination)}

	preparedTransaction, err := NewTransactionBuilder(params, 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// the token surplus does not fit into a single remainder output anymore
	remainders := preparedTransaction.Remainders()
	require.Len(t, remainders, 2)
	assert.Equal(t, 2, remainders[0].NativeTokens().Size())
	assert.Equal(t, 1, remainders[1].NativeTokens().Size())

	// the overflow output holds exactly its own minimum storage deposit
	assert.Equal(t, params.RentStructure.MinimumStorageDeposit(remainders[1]), remainders[1].Amount())

	assert.Equal(t, selectedAmounts(preparedTransaction), preparedTransaction.Essence().Outputs().TotalAmount())
	for _, output := range preparedTransaction.Essence().Outputs() {
		assert.LessOrEqual(t, output.NativeTokens().Size(), 2)
	}
}

func TestFinish_SenderFeature(t *testing.T) {
	sender := generateAddress()
	otherOwner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{
		newCandidate(t, 1000000, 0, nil, otherOwner),
		newCandidate(t, 100000, 0, nil, sender),
	}

	sendingOutput := ledgerstate.NewBasicOutput(600000, 0, nil, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(destination)})
	features, err := ledgerstate.NewFeatures(ledgerstate.NewSenderFeature(sender))
	require.NoError(t, err)
	outputs := ledgerstate.Outputs{sendingOutput.WithFeatures(features)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// an input of the claimed sender has to be part of the transaction even though it can not fund the transfer on
	// its own
	require.Len(t, preparedTransaction.InputsData(), 2)
	senderSelected := false
	for _, inputData := range preparedTransaction.InputsData() {
		senderSelected = senderSelected || inputData.OwningAddress.Equals(sender)
	}
	assert.True(t, senderSelected)

	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.EqualValues(t, 500000, preparedTransaction.Remainders()[0].Amount())
}

func TestFinish_EmptyPool(t *testing.T) {
	destination := generateAddress()
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(100, destination)}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, nil, outputs).Finish()
	require.True(t, errors.Is(err, ErrNoAvailableInputs))
}

func TestFinish_IssuerFeatureUnfulfillable(t *testing.T) {
	issuer := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, generateAddress())}

	issuedOutput := ledgerstate.NewBasicOutput(50000, 0, nil, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(destination)})
	features, err := ledgerstate.NewFeatures(ledgerstate.NewIssuerFeature(issuer))
	require.NoError(t, err)
	outputs := ledgerstate.Outputs{issuedOutput.WithFeatures(features)}

	_, err = NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	// the failure names the issuer obligation, not the sender substitute it is resolved through
	var unfulfillable *UnfulfillableRequirementError
	require.True(t, errors.As(err, &unfulfillable))
	assert.Equal(t, IssuerRequirementKind, unfulfillable.Requirement.Kind())
	assert.True(t, unfulfillable.Requirement.Address().Equals(issuer))
}

func TestFinish_WithSender(t *testing.T) {
	sender := generateAddress()
	otherOwner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{
		newCandidate(t, 1000000, 0, nil, otherOwner),
		newCandidate(t, 100000, 0, nil, sender),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithSender(sender),
	).Finish()
	require.NoError(t, err)

	require.Len(t, preparedTransaction.InputsData(), 1)
	assert.True(t, preparedTransaction.InputsData()[0].OwningAddress.Equals(sender))

	// the sender also becomes the remainder address
	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.True(t, preparedTransaction.Remainders()[0].UnlockConditions().Address().Address().Equals(sender))
}

func TestFinish_WithRemainderAddress(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()
	remainderAddress := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, owner)}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(600000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithRemainderAddress(remainderAddress),
	).Finish()
	require.NoError(t, err)

	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.True(t, preparedTransaction.Remainders()[0].UnlockConditions().Address().Address().Equals(remainderAddress))
}

func TestFinish_BurnMana(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 50, nil, owner)}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(600000, destination)}

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.NoError(t, err)

	// without a burn the mana surplus is credited to the remainder
	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.EqualValues(t, 50, preparedTransaction.Remainders()[0].Mana())

	burn := NewBurn()
	burn.Mana = true

	burnedPreparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithBurn(burn),
	).Finish()
	require.NoError(t, err)

	require.Len(t, burnedPreparedTransaction.Remainders(), 1)
	assert.Zero(t, burnedPreparedTransaction.Remainders()[0].Mana())
}

func TestFinish_BurnNativeTokens(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	tokenID := ledgerstate.TokenID{7}
	inputTokens := ledgerstate.NewNativeTokenBalances()
	inputTokens.Set(tokenID, big.NewInt(100))

	availableInputs := []*InputSigningData{
		newCandidate(t, 1000000, 0, nil, owner),
		newCandidate(t, 100000, 0, inputTokens, owner),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(30000, destination)}

	burn := NewBurn()
	burn.NativeTokens.Set(tokenID, big.NewInt(40))

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithBurn(burn),
	).Finish()
	require.NoError(t, err)

	// the burn forces the token carrier into the selection and only the unburned rest reaches the remainder
	require.Len(t, preparedTransaction.InputsData(), 1)
	require.Len(t, preparedTransaction.Remainders(), 1)
	remainingAmount, exists := preparedTransaction.Remainders()[0].NativeTokens().Get(tokenID)
	require.True(t, exists)
	assert.Zero(t, remainingAmount.Cmp(big.NewInt(60)))
}

func TestFinish_ManaAllotments(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()
	accountID := ledgerstate.AccountID{9}

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 20, nil, owner)}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(600000, destination)}

	allotments := make(ledgerstate.ManaAllotments)
	allotments[accountID] = 15

	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithManaAllotments(allotments),
	).Finish()
	require.NoError(t, err)

	assert.EqualValues(t, 15, preparedTransaction.Essence().Allotments().Total())

	// the allotted mana counts against the inputs, only the rest reaches the remainder
	require.Len(t, preparedTransaction.Remainders(), 1)
	assert.EqualValues(t, 5, preparedTransaction.Remainders()[0].Mana())
}

func TestFinish_InsufficientMana(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, owner)}
	outputs := ledgerstate.Outputs{
		ledgerstate.NewBasicOutput(600000, 10, nil, ledgerstate.UnlockConditions{ledgerstate.NewAddressUnlockCondition(destination)}),
	}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var insufficientMana *InsufficientManaError
	require.True(t, errors.As(err, &insufficientMana))
	assert.EqualValues(t, 0, insufficientMana.Found)
	assert.EqualValues(t, 10, insufficientMana.Required)
}

func TestFinish_InsufficientAmount(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{
		newCandidate(t, 100000, 0, nil, owner),
		newCandidate(t, 50000, 0, nil, owner),
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(600000, destination)}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var insufficientAmount *InsufficientAmountError
	require.True(t, errors.As(err, &insufficientAmount))
	assert.EqualValues(t, 150000, insufficientAmount.Found)
	assert.EqualValues(t, 600000, insufficientAmount.Required)
}

func TestFinish_TimelockedAndExpiredCandidatesFiltered(t *testing.T) {
	owner := generateAddress()
	returnAddress := generateAddress()
	destination := generateAddress()

	timelockedOutput := ledgerstate.NewBasicOutput(1000000, 0, nil, mustUnlockConditions(t,
		ledgerstate.NewAddressUnlockCondition(owner),
		ledgerstate.NewTimelockUnlockCondition(20),
	))
	timelockedOutput.SetID(randomOutputID(t))

	expiredOutput := ledgerstate.NewBasicOutput(1000000, 0, nil, mustUnlockConditions(t,
		ledgerstate.NewAddressUnlockCondition(owner),
		ledgerstate.NewExpirationUnlockCondition(returnAddress, 5),
	))
	expiredOutput.SetID(randomOutputID(t))

	availableInputs := []*InputSigningData{
		{Output: timelockedOutput, OwningAddress: owner},
		{Output: expiredOutput, OwningAddress: owner},
	}
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, destination)}

	// at slot 10 neither candidate is spendable by its owner
	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs).Finish()
	require.True(t, errors.Is(err, ErrNoAvailableInputs))

	// at slot 20 the timelock has passed
	preparedTransaction, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 20, availableInputs, outputs).Finish()
	require.NoError(t, err)
	require.Len(t, preparedTransaction.InputsData(), 1)
	assert.Same(t, timelockedOutput, preparedTransaction.InputsData()[0].Output)
}

func TestFinish_RequiredInputNotAvailable(t *testing.T) {
	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, owner)}
	foreignInput := newCandidate(t, 500000, 0, nil, owner)
	outputs := ledgerstate.Outputs{ledgerstate.NewAddressOutput(50000, destination)}

	_, err := NewTransactionBuilder(ledgerstate.DefaultProtocolParameters(), 10, availableInputs, outputs,
		WithRequiredInputs(foreignInput),
	).Finish()
	require.True(t, errors.Is(err, ErrRequiredInputNotAvailable))
}

func TestFinish_TooManyOutputs(t *testing.T) {
	params := ledgerstate.DefaultProtocolParameters()
	params.MaxOutputCount = 2

	owner := generateAddress()
	destination := generateAddress()

	availableInputs := []*InputSigningData{newCandidate(t, 1000000, 0, nil, owner)}
	outputs := ledgerstate.Outputs{
		ledgerstate.NewAddressOutput(50000, destination),
		ledgerstate.NewAddressOutput(50000, destination),
		ledgerstate.NewAddressOutput(50000, destination),
	}

	_, err := NewTransactionBuilder(params, 10, availableInputs, outputs).Finish()
	require.Error(t, err)

	var invalidOutputCount *InvalidOutputCountError
	require.True(t, errors.As(err, &invalidOutputCount))
	assert.Equal(t, 3, invalidOutputCount.Count)
	assert.Equal(t, 2, invalidOutputCount.Max)
}

func TestInputPool_Order(t *testing.T) {
	owner := generateAddress()

	small := newCandidate(t, 5, 0, nil, owner)
	firstLarge := newCandidate(t, 10, 0, nil, owner)
	secondLarge := newCandidate(t, 10, 0, nil, owner)

	pool := NewInputPool([]*InputSigningData{small, firstLarge, secondLarge})
	require.Equal(t, 3, pool.Len())

	// largest first, amount ties broken by OutputID
	first, exists := pool.Pop()
	require.True(t, exists)
	second, exists := pool.Pop()
	require.True(t, exists)
	assert.EqualValues(t, 10, first.Output.Amount())
	assert.EqualValues(t, 10, second.Output.Amount())
	assert.True(t, first.Output.ID().Compare(second.Output.ID()) < 0)

	third, exists := pool.Pop()
	require.True(t, exists)
	assert.Same(t, small, third)

	_, exists = pool.Pop()
	assert.False(t, exists)
}

func TestInputPool_PopWhereAndRemoveByID(t *testing.T) {
	owner := generateAddress()

	first := newCandidate(t, 100, 0, nil, owner)
	second := newCandidate(t, 50, 0, nil, owner)

	pool := NewInputPool([]*InputSigningData{first, second})

	candidate, exists := pool.PopWhere(func(candidate *InputSigningData) bool {
		return candidate.Output.Amount() < 100
	})
	require.True(t, exists)
	assert.Same(t, second, candidate)

	_, exists = pool.PopWhere(func(candidate *InputSigningData) bool {
		return candidate.Output.Amount() < 100
	})
	assert.False(t, exists)

	assert.True(t, pool.RemoveByID(first.Output.ID()))
	assert.False(t, pool.RemoveByID(first.Output.ID()))
	assert.Zero(t, pool.Len())
}

func TestRequirementStack(t *testing.T) {
	address := generateAddress()

	stack := requirementStack{}
	stack.Push(AmountRequirement())
	stack.Push(SenderRequirement(address))
	stack.Push(AmountRequirement())
	stack.Push(SenderRequirement(address))

	// duplicates of pending requirements are ignored
	require.Equal(t, 2, stack.Len())

	requirement, exists := stack.Pop()
	require.True(t, exists)
	assert.Equal(t, SenderRequirementKind, requirement.Kind())

	requirement, exists = stack.Pop()
	require.True(t, exists)
	assert.Equal(t, AmountRequirementKind, requirement.Kind())

	_, exists = stack.Pop()
	assert.False(t, exists)
}
