package wallet

import (
	"github.com/iotaledger/hive.go/bitmask"

	"github.com/iotaledger/txbuilder/client/wallet/packages/seed"
)

// Option represents an optional parameter for the New wallet constructor.
type Option func(*Wallet)

// WebAPI connects the wallet to a node over its web API.
func WebAPI(baseURL string) Option {
	return func(wallet *Wallet) {
		wallet.connector = NewWebConnector(baseURL)
	}
}

// GenericConnector allows us to provide a custom connector (for example for testing or for local use on a node).
func GenericConnector(connector Connector) Option {
	return func(wallet *Wallet) {
		wallet.connector = connector
	}
}

// Import restores a wallet that was previously created from the given seed and bookkeeping state.
func Import(seed *seed.Seed, lastAddressIndex uint64, spentAddresses []bitmask.BitMask) Option {
	return func(wallet *Wallet) {
		wallet.addressManager = NewAddressManager(seed, lastAddressIndex, spentAddresses)
	}
}

// CustomSigner allows us to provide a custom signer (for example a hardware backed one) instead of signing with the
// keys of the wallet seed.
func CustomSigner(signer Signer) Option {
	return func(wallet *Wallet) {
		wallet.signer = signer
	}
}

// CustomAssetRegistry makes the wallet use the given registry for looking up the metadata of native tokens.
func CustomAssetRegistry(assetRegistry *AssetRegistry) Option {
	return func(wallet *Wallet) {
		wallet.assetRegistry = assetRegistry
	}
}

// ReusableAddress makes the wallet use a single reusable address instead of changing addresses for each transfer.
func ReusableAddress(enabled bool) Option {
	return func(wallet *Wallet) {
		wallet.reusableAddress = enabled
	}
}
