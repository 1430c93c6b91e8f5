package wallet

import (
	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/client/wallet/packages/seed"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
	"github.com/iotaledger/txbuilder/packages/txbuilder"
)

// region Signer ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Signer is an interface that turns a prepared transaction into a signed one. It is a pure function of the essence and
// the signing metadata of the consumed inputs, so implementations can live outside of the wallet (hardware wallets,
// remote signers).
type Signer interface {
	Sign(essence *ledgerstate.TransactionEssence, inputsData []*txbuilder.InputSigningData) (unlockBlocks ledgerstate.UnlockBlocks, err error)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SeedSigner ///////////////////////////////////////////////////////////////////////////////////////////////////

// SeedSigner signs transaction essences with the keys derived from a wallet seed. Inputs that are owned by the same
// address reference the first signature instead of repeating it.
type SeedSigner struct {
	seed *seed.Seed
}

// NewSeedSigner creates a Signer that derives its keys from the given seed.
func NewSeedSigner(seed *seed.Seed) *SeedSigner {
	return &SeedSigner{
		seed: seed,
	}
}

// Sign creates the unlock blocks for the given essence. The inputs data is expected to be in essence order.
func (s *SeedSigner) Sign(essence *ledgerstate.TransactionEssence, inputsData []*txbuilder.InputSigningData) (unlockBlocks ledgerstate.UnlockBlocks, err error) {
	if len(inputsData) != len(essence.Inputs()) {
		return nil, errors.Errorf("amount of inputs data (%d) does not match amount of inputs in the essence (%d)", len(inputsData), len(essence.Inputs()))
	}

	essenceBytes := essence.Bytes()

	unlockBlocks = make(ledgerstate.UnlockBlocks, len(inputsData))
	existingUnlockBlocks := make(map[string]uint16)
	for inputIndex, inputData := range inputsData {
		if inputData.OwningAddress == nil {
			return nil, errors.Errorf("input %s has no owning address", inputData.Output.ID())
		}

		// inputs owned by the same key reference the existing signature
		digest := string(inputData.OwningAddress.Digest())
		if unlockBlockIndex, unlockBlockExists := existingUnlockBlocks[digest]; unlockBlockExists {
			unlockBlocks[inputIndex] = ledgerstate.NewReferenceUnlockBlock(unlockBlockIndex)

			continue
		}

		keyPair := s.seed.KeyPair(inputData.AddressIndex)
		unlockBlocks[inputIndex] = ledgerstate.NewSignatureUnlockBlock(ledgerstate.NewED25519Signature(keyPair.PublicKey, keyPair.PrivateKey.Sign(essenceBytes)))
		existingUnlockBlocks[digest] = uint16(inputIndex)
	}

	return
}

// Interface contract: make compiler warn if the interface is not implemented correctly.
var _ Signer = &SeedSigner{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
