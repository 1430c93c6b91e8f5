package wallet

import (
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/bitmask"

	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/client/wallet/packages/seed"
	"github.com/iotaledger/txbuilder/client/wallet/packages/sendoptions"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
	"github.com/iotaledger/txbuilder/packages/txbuilder"
)

// region Wallet ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Wallet represents a simple wallet that tracks the unspent outputs of its addresses and prepares, signs and submits
// transactions that spend them.
type Wallet struct {
	addressManager *AddressManager
	outputManager  *UnspentOutputManager
	connector      Connector
	signer         Signer
	assetRegistry  *AssetRegistry

	// if this option is enabled the wallet will use a single reusable address instead of changing addresses.
	reusableAddress bool

	// transfers are prepared one at a time, so concurrent SendFunds calls do not select the same outputs.
	sendMutex sync.Mutex
}

// New is the factory method of the wallet. It either creates a new wallet or restores the wallet backup that is handed
// in as an optional parameter.
func New(options ...Option) (wallet *Wallet) {
	// create wallet
	wallet = &Wallet{}

	// configure wallet
	for _, option := range options {
		option(wallet)
	}

	// initialize wallet with default address manager if we did not import a previous wallet
	if wallet.addressManager == nil {
		wallet.addressManager = NewAddressManager(seed.NewSeed(), 0, []bitmask.BitMask{})
	}

	// initialize wallet with default signer that signs with the keys of the wallet seed
	if wallet.signer == nil {
		wallet.signer = NewSeedSigner(wallet.addressManager.Seed())
	}

	// initialize wallet with default connector (server) if none was provided
	if wallet.connector == nil {
		panic("you need to provide a connector for your wallet")
	}

	// initialize asset registry if none was provided
	if wallet.assetRegistry == nil {
		wallet.assetRegistry = NewAssetRegistry("mainnet")
	}

	// initialize output manager
	wallet.outputManager = NewUnspentOutputManager(wallet.addressManager, wallet.connector)
	if err := wallet.outputManager.Refresh(true); err != nil {
		panic(err)
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SendFunds ////////////////////////////////////////////////////////////////////////////////////////////////////

// SendFunds sends funds from the wallet. It prepares an unsigned transaction that creates the requested outputs from
// the unspent outputs of the wallet, signs it and submits it to the network.
func (wallet *Wallet) SendFunds(options ...sendoptions.SendFundsOption) (tx *ledgerstate.Transaction, err error) {
	wallet.sendMutex.Lock()
	defer wallet.sendMutex.Unlock()

	sendOptions, err := sendoptions.Build(options...)
	if err != nil {
		return
	}

	// fetch the current view of the ledger
	if err = wallet.outputManager.Refresh(); err != nil {
		return
	}
	protocolParameters, err := wallet.connector.ProtocolParameters()
	if err != nil {
		return
	}
	currentSlot, err := wallet.connector.CurrentSlot()
	if err != nil {
		return
	}

	// collect the candidate inputs for funding the transfer
	consumableOutputs := wallet.outputManager.UnspentOutputs(sendOptions.UsePendingOutputs)
	availableInputs := consumableOutputs.ToInputSigningData()

	// build the requested outputs
	outputs, err := buildOutputs(sendOptions)
	if err != nil {
		return
	}

	// prepare the transaction
	builderOptions, err := wallet.buildTransactionOptions(sendOptions, availableInputs)
	if err != nil {
		return
	}
	preparedTransaction, err := txbuilder.NewTransactionBuilder(protocolParameters, currentSlot, availableInputs, outputs, builderOptions...).Finish()
	if err != nil {
		return
	}

	// sign the prepared transaction
	unlockBlocks, err := wallet.signer.Sign(preparedTransaction.Essence(), preparedTransaction.InputsData())
	if err != nil {
		return
	}
	tx = ledgerstate.NewTransaction(preparedTransaction.Essence(), unlockBlocks)

	// check syntactical validity by marshaling and unmarshaling
	tx, _, err = ledgerstate.TransactionFromBytes(tx.Bytes())
	if err != nil {
		return nil, err
	}

	// check tx validity (balances, unlock blocks)
	consumedOutputs := preparedTransaction.ConsumedOutputs()
	if !ledgerstate.TransactionBalancesValid(consumedOutputs, tx.Essence().Outputs(), tx.Essence().Allotments()) {
		return nil, errors.Errorf("created transaction does not conserve balances: %s", tx.String())
	}
	if !ledgerstate.UnlockBlocksValid(consumedOutputs, tx, currentSlot) {
		return nil, errors.Errorf("created transaction contains invalid unlock blocks: %s", tx.String())
	}

	wallet.markOutputsAndAddressesSpent(preparedTransaction.InputsData())

	err = wallet.connector.SendTransaction(tx)
	if err != nil {
		return nil, err
	}

	return tx, err
}

// buildOutputs translates the destinations of the transfer into ledger outputs.
func buildOutputs(sendOptions *sendoptions.SendFundsOptions) (outputs ledgerstate.Outputs, err error) {
	outputs = make(ledgerstate.Outputs, 0, len(sendOptions.Destinations))
	for _, destination := range sendOptions.Destinations {
		unlockConditions, conditionsErr := ledgerstate.NewUnlockConditions(ledgerstate.NewAddressUnlockCondition(destination.Address))
		if conditionsErr != nil {
			err = conditionsErr

			return
		}

		outputs = append(outputs, ledgerstate.NewBasicOutput(destination.Amount, destination.Mana, destination.NativeTokens, unlockConditions))
	}

	return
}

// buildTransactionOptions derives the options for the transaction builder from the options of the transfer.
func (wallet *Wallet) buildTransactionOptions(sendOptions *sendoptions.SendFundsOptions, availableInputs []*txbuilder.InputSigningData) (builderOptions []txbuilder.Option, err error) {
	// determine where the remainder will go
	builderOptions = append(builderOptions, txbuilder.WithRemainderAddress(wallet.chooseRemainderAddress(sendOptions.RemainderAddress).Address()))

	// resolve forced inputs against the candidates
	if len(sendOptions.RequiredInputs) > 0 {
		requiredInputs := make([]*txbuilder.InputSigningData, len(sendOptions.RequiredInputs))
		for i, requiredOutputID := range sendOptions.RequiredInputs {
			if requiredInputs[i] = findInputByID(availableInputs, requiredOutputID); requiredInputs[i] == nil {
				err = errors.Errorf("output %s is not among the unspent outputs of the wallet: %w", requiredOutputID.Base58(), txbuilder.ErrRequiredInputNotAvailable)

				return
			}
		}
		builderOptions = append(builderOptions, txbuilder.WithRequiredInputs(requiredInputs...))
	}

	// burn requests
	if sendOptions.BurnMana || sendOptions.BurnedNativeTokens != nil {
		burn := txbuilder.NewBurn()
		burn.Mana = sendOptions.BurnMana
		if sendOptions.BurnedNativeTokens != nil {
			burn.NativeTokens = sendOptions.BurnedNativeTokens
		}
		builderOptions = append(builderOptions, txbuilder.WithBurn(burn))
	}

	// mana allotments
	if len(sendOptions.ManaAllotments) > 0 {
		builderOptions = append(builderOptions, txbuilder.WithManaAllotments(sendOptions.ManaAllotments))
	}

	return
}

// chooseRemainderAddress determines where the remainder of a transfer goes. If no explicit address was provided, then
// the remainder stays in the wallet.
func (wallet *Wallet) chooseRemainderAddress(optionalAddress ledgerstate.Address) (remainderAddress address.Address) {
	if optionalAddress != nil {
		return address.Address{AddressBytes: optionalAddress.Array()}
	}
	if wallet.reusableAddress {
		return wallet.addressManager.FirstUnspentAddress()
	}

	return wallet.addressManager.NewAddress()
}

// findInputByID scans the candidate inputs for the output with the given ID.
func findInputByID(availableInputs []*txbuilder.InputSigningData, outputID ledgerstate.OutputID) *txbuilder.InputSigningData {
	for _, candidate := range availableInputs {
		if candidate.Output.ID() == outputID {
			return candidate
		}
	}

	return nil
}

// markOutputsAndAddressesSpent marks consumed outputs and their addresses as spent.
func (wallet *Wallet) markOutputsAndAddressesSpent(consumedInputs []*txbuilder.InputSigningData) {
	for _, inputData := range consumedInputs {
		addr := address.Address{AddressBytes: inputData.OwningAddress.Array(), Index: inputData.AddressIndex}

		wallet.outputManager.MarkOutputSpent(addr, inputData.Output.ID())
		if !wallet.reusableAddress {
			wallet.addressManager.MarkAddressSpent(addr.Index)
		}
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Balances /////////////////////////////////////////////////////////////////////////////////////////////////////

// AvailableBalance returns the confirmed and pending base token balance of the wallet.
func (wallet *Wallet) AvailableBalance(refresh ...bool) (confirmedBalance uint64, pendingBalance uint64, err error) {
	shouldRefresh := true
	if len(refresh) >= 1 {
		shouldRefresh = refresh[0]
	}
	if shouldRefresh {
		if err = wallet.outputManager.Refresh(); err != nil {
			return
		}
	}

	for _, outputs := range wallet.outputManager.UnspentOutputs(true) {
		for _, output := range outputs {
			if output.InclusionState.Confirmed {
				confirmedBalance += output.Object.Amount()
			} else {
				pendingBalance += output.Object.Amount()
			}
		}
	}

	return
}

// AvailableNativeTokenBalance returns the native token balances of the confirmed unspent outputs of the wallet.
func (wallet *Wallet) AvailableNativeTokenBalance(refresh ...bool) (balances *ledgerstate.NativeTokenBalances, err error) {
	shouldRefresh := true
	if len(refresh) >= 1 {
		shouldRefresh = refresh[0]
	}
	if shouldRefresh {
		if err = wallet.outputManager.Refresh(); err != nil {
			return
		}
	}

	balances = ledgerstate.NewNativeTokenBalances()
	for _, outputs := range wallet.outputManager.UnspentOutputs(false) {
		for _, output := range outputs {
			output.Object.NativeTokens().ForEach(func(tokenID ledgerstate.TokenID, amount *big.Int) bool {
				balances.Add(tokenID, amount)

				return true
			})
		}
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Address related accessors ////////////////////////////////////////////////////////////////////////////////////

// ReceiveAddress returns the current receive address of the wallet.
func (wallet *Wallet) ReceiveAddress() address.Address {
	return wallet.addressManager.LastUnspentAddress()
}

// NewReceiveAddress generates and returns a new unused receive address.
func (wallet *Wallet) NewReceiveAddress() address.Address {
	return wallet.addressManager.NewAddress()
}

// Seed returns the seed of this wallet that is used to generate all of the wallets addresses and private keys.
func (wallet *Wallet) Seed() *seed.Seed {
	return wallet.addressManager.Seed()
}

// AddressManager returns the manager for the addresses of this wallet.
func (wallet *Wallet) AddressManager() *AddressManager {
	return wallet.addressManager
}

// Connector returns the connector that is used by this wallet to communicate with the network.
func (wallet *Wallet) Connector() Connector {
	return wallet.connector
}

// AssetRegistry returns the registry that is used to look up the metadata of native tokens held by the wallet.
func (wallet *Wallet) AssetRegistry() *AssetRegistry {
	return wallet.assetRegistry
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
