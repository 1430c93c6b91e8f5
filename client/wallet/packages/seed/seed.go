package seed

import (
	"github.com/iotaledger/hive.go/crypto/ed25519"

	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// Seed represents a seed for the addresses of a wallet. It is a thin wrapper around the ed25519 seed that hides the
// complexity of key derivation and creates the corresponding addresses.
type Seed struct {
	*ed25519.Seed
}

// NewSeed is the factory method of the Seed. It either generates a new random seed or restores the seed from the
// optionally provided bytes.
func NewSeed(optionalSeedBytes ...[]byte) *Seed {
	return &Seed{
		ed25519.NewSeed(optionalSeedBytes...),
	}
}

// Address returns the address that belongs to the given derivation index.
func (seed *Seed) Address(index uint64) (walletAddress address.Address) {
	return address.Address{
		AddressBytes: ledgerstate.NewED25519Address(seed.Seed.KeyPair(index).PublicKey).Array(),
		Index:        index,
	}
}

// ImplicitAccountCreationAddress returns the implicit account creation address that is backed by the key at the given
// derivation index. It shares the key digest with the regular address at the same index.
func (seed *Seed) ImplicitAccountCreationAddress(index uint64) (walletAddress address.Address) {
	return address.Address{
		AddressBytes: ledgerstate.NewImplicitAccountCreationAddress(seed.Seed.KeyPair(index).PublicKey).Array(),
		Index:        index,
	}
}
