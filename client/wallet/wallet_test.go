package wallet

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/hive.go/bitmask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/client/wallet/packages/seed"
	"github.com/iotaledger/txbuilder/client/wallet/packages/sendoptions"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
	"github.com/iotaledger/txbuilder/packages/txbuilder"
)

// region fakeConnector ////////////////////////////////////////////////////////////////////////////////////////////////

// fakeConnector serves outputs from memory so the wallet can be tested without a node.
type fakeConnector struct {
	unspentOutputs   OutputsByAddressAndOutputID
	currentSlot      ledgerstate.SlotIndex
	sentTransactions []*ledgerstate.Transaction
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		unspentOutputs: NewAddressToOutputs(),
		currentSlot:    10,
	}
}

// AddConfirmedOutput funds the given address with an output that the connector reports as confirmed.
func (f *fakeConnector) AddConfirmedOutput(t *testing.T, addr address.Address, outputObject ledgerstate.Output) {
	f.addOutput(t, addr, outputObject, InclusionState{Confirmed: true})
}

// AddPendingOutput funds the given address with an output that has not been confirmed yet.
func (f *fakeConnector) AddPendingOutput(t *testing.T, addr address.Address, outputObject ledgerstate.Output) {
	f.addOutput(t, addr, outputObject, InclusionState{Pending: true})
}

func (f *fakeConnector) addOutput(t *testing.T, addr address.Address, outputObject ledgerstate.Output, inclusionState InclusionState) {
	transactionID, err := ledgerstate.TransactionIDFromRandomness()
	require.NoError(t, err)
	outputObject.SetID(ledgerstate.NewOutputID(transactionID, 0))

	if _, addressExists := f.unspentOutputs[addr]; !addressExists {
		f.unspentOutputs[addr] = make(map[ledgerstate.OutputID]*Output)
	}
	f.unspentOutputs[addr][outputObject.ID()] = &Output{
		Address:        addr,
		Object:         outputObject,
		InclusionState: inclusionState,
	}
}

func (f *fakeConnector) UnspentOutputs(addresses ...address.Address) (unspentOutputs OutputsByAddressAndOutputID, err error) {
	unspentOutputs = NewAddressToOutputs()
	for _, addr := range addresses {
		for outputID, output := range f.unspentOutputs[addr] {
			if _, addressExists := unspentOutputs[addr]; !addressExists {
				unspentOutputs[addr] = make(map[ledgerstate.OutputID]*Output)
			}

			// hand out copies so the local bookkeeping of the wallet does not write through to the fixture
			outputCopy := *output
			unspentOutputs[addr][outputID] = &outputCopy
		}
	}

	return unspentOutputs, nil
}

func (f *fakeConnector) SendTransaction(transaction *ledgerstate.Transaction) (err error) {
	f.sentTransactions = append(f.sentTransactions, transaction)

	return nil
}

func (f *fakeConnector) ProtocolParameters() (protocolParameters ledgerstate.ProtocolParameters, err error) {
	return ledgerstate.DefaultProtocolParameters(), nil
}

func (f *fakeConnector) CurrentSlot() (slotIndex ledgerstate.SlotIndex, err error) {
	return f.currentSlot, nil
}

var _ Connector = &fakeConnector{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

func newTestWallet(t *testing.T, connector *fakeConnector, fundedAmounts ...uint64) (wallet *Wallet, walletSeed *seed.Seed) {
	walletSeed = seed.NewSeed()
	for _, amount := range fundedAmounts {
		connector.AddConfirmedOutput(t, walletSeed.Address(0), ledgerstate.NewAddressOutput(amount, walletSeed.Address(0).Address()))
	}

	wallet = New(
		GenericConnector(connector),
		Import(walletSeed, 0, []bitmask.BitMask{}),
	)

	return
}

func TestWallet_SendFunds(t *testing.T) {
	connector := newFakeConnector()
	wallet, walletSeed := newTestWallet(t, connector, 1000000)

	receiverAddress := seed.NewSeed().Address(0).Address()

	tx, err := wallet.SendFunds(sendoptions.Destination(receiverAddress, 600000))
	require.NoError(t, err)
	require.Len(t, connector.sentTransactions, 1)

	// the transaction pays the receiver and keeps the remainder on a fresh wallet address
	essenceOutputs := tx.Essence().Outputs()
	require.Len(t, essenceOutputs, 2)
	assert.EqualValues(t, 600000, essenceOutputs[0].Amount())
	assert.True(t, essenceOutputs[0].UnlockConditions().Address().Address().Equals(receiverAddress))
	assert.EqualValues(t, 400000, essenceOutputs[1].Amount())
	assert.True(t, essenceOutputs[1].UnlockConditions().Address().Address().Equals(walletSeed.Address(1).Address()))

	// the consumed output is booked as spent, so a second transfer can not select it again
	confirmedBalance, pendingBalance, err := wallet.AvailableBalance(false)
	require.NoError(t, err)
	assert.Zero(t, confirmedBalance)
	assert.Zero(t, pendingBalance)

	_, err = wallet.SendFunds(sendoptions.Destination(receiverAddress, 100000))
	require.True(t, errors.Is(err, txbuilder.ErrNoAvailableInputs))
}

func TestWallet_SendFunds_SignatureReuse(t *testing.T) {
	connector := newFakeConnector()
	wallet, _ := newTestWallet(t, connector, 400000, 300000)

	receiverAddress := seed.NewSeed().Address(0).Address()

	tx, err := wallet.SendFunds(sendoptions.Destination(receiverAddress, 600000))
	require.NoError(t, err)

	// both inputs live on the same address, so the second unlock block references the first signature
	unlockBlocks := tx.UnlockBlocks()
	require.Len(t, unlockBlocks, 2)

	var signatureBlocks, referenceBlocks int
	for _, unlockBlock := range unlockBlocks {
		switch unlockBlock.(type) {
		case *ledgerstate.SignatureUnlockBlock:
			signatureBlocks++
		case *ledgerstate.ReferenceUnlockBlock:
			referenceBlocks++
		}
	}
	assert.Equal(t, 1, signatureBlocks)
	assert.Equal(t, 1, referenceBlocks)
}

func TestWallet_SendFunds_InsufficientFunds(t *testing.T) {
	connector := newFakeConnector()
	wallet, _ := newTestWallet(t, connector, 100000)

	receiverAddress := seed.NewSeed().Address(0).Address()

	_, err := wallet.SendFunds(sendoptions.Destination(receiverAddress, 600000))
	require.Error(t, err)

	var insufficientAmount *txbuilder.InsufficientAmountError
	require.True(t, errors.As(err, &insufficientAmount))
	assert.EqualValues(t, 100000, insufficientAmount.Found)
}

func TestWallet_SendFunds_RequiredInputNotAvailable(t *testing.T) {
	connector := newFakeConnector()
	wallet, _ := newTestWallet(t, connector, 1000000)

	receiverAddress := seed.NewSeed().Address(0).Address()

	transactionID, err := ledgerstate.TransactionIDFromRandomness()
	require.NoError(t, err)
	unknownOutputID := ledgerstate.NewOutputID(transactionID, 0)

	_, err = wallet.SendFunds(
		sendoptions.Destination(receiverAddress, 100000),
		sendoptions.RequiredInput(unknownOutputID),
	)
	require.True(t, errors.Is(err, txbuilder.ErrRequiredInputNotAvailable))
	assert.Empty(t, connector.sentTransactions)
}

func TestWallet_SendFunds_ExplicitRemainder(t *testing.T) {
	connector := newFakeConnector()
	wallet, _ := newTestWallet(t, connector, 1000000)

	receiverAddress := seed.NewSeed().Address(0).Address()
	remainderAddress := seed.NewSeed().Address(0).Address()

	tx, err := wallet.SendFunds(
		sendoptions.Destination(receiverAddress, 600000),
		sendoptions.Remainder(remainderAddress),
	)
	require.NoError(t, err)

	essenceOutputs := tx.Essence().Outputs()
	require.Len(t, essenceOutputs, 2)
	assert.True(t, essenceOutputs[1].UnlockConditions().Address().Address().Equals(remainderAddress))
}

func TestWallet_AvailableBalance(t *testing.T) {
	connector := newFakeConnector()
	walletSeed := seed.NewSeed()
	connector.AddConfirmedOutput(t, walletSeed.Address(0), ledgerstate.NewAddressOutput(500000, walletSeed.Address(0).Address()))
	connector.AddPendingOutput(t, walletSeed.Address(0), ledgerstate.NewAddressOutput(250000, walletSeed.Address(0).Address()))

	wallet := New(
		GenericConnector(connector),
		Import(walletSeed, 0, []bitmask.BitMask{}),
	)

	confirmedBalance, pendingBalance, err := wallet.AvailableBalance()
	require.NoError(t, err)
	assert.EqualValues(t, 500000, confirmedBalance)
	assert.EqualValues(t, 250000, pendingBalance)
}

func TestWallet_ReceiveAddress(t *testing.T) {
	wallet, walletSeed := newTestWallet(t, newFakeConnector())

	assert.Equal(t, walletSeed.Address(0), wallet.ReceiveAddress())

	newAddress := wallet.NewReceiveAddress()
	assert.Equal(t, walletSeed.Address(1), newAddress)
	assert.Equal(t, newAddress, wallet.ReceiveAddress())
}

func TestAddressManager_SpentTracking(t *testing.T) {
	addressManager := NewAddressManager(seed.NewSeed(), 0, []bitmask.BitMask{})

	addressManager.NewAddress()
	addressManager.NewAddress()
	require.Len(t, addressManager.Addresses(), 3)

	addressManager.MarkAddressSpent(0)
	assert.True(t, addressManager.IsAddressSpent(0))
	assert.False(t, addressManager.IsAddressSpent(1))

	assert.EqualValues(t, 1, addressManager.FirstUnspentAddress().Index)
	assert.EqualValues(t, 2, addressManager.LastUnspentAddress().Index)
	require.Len(t, addressManager.SpentAddresses(), 1)
	require.Len(t, addressManager.UnspentAddresses(), 2)
}
