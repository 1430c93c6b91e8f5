package txbuilder

import (
	"bytes"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region Sender / Issuer / Ed25519 fulfillers /////////////////////////////////////////////////////////////////////////

// fulfillSender makes sure that one of the selected inputs is unlockable by the given address at the build slot. If
// none is, it selects the first pool candidate that is.
func (t *TransactionBuilder) fulfillSender(address ledgerstate.Address) (err error) {
	if t.selectedInputUnlockableBy(address) {
		return nil
	}

	candidate, exists := t.pool.PopWhere(func(candidate *InputSigningData) bool {
		return candidate.Output.UnlockConditions().UnlockableBy(address, t.buildSlot)
	})
	if !exists {
		return errors.WithStack(&UnfulfillableRequirementError{Requirement: SenderRequirement(address)})
	}

	t.selectInput(candidate)

	return nil
}

// fulfillIssuer resolves an Issuer Requirement by retrying it as the equivalent Sender Requirement (issuer and sender
// obligations are satisfied by the same unlocked address in this protocol). If the Sender attempt reports
// unfulfillability, the error is re-tagged with the Issuer Requirement before surfacing so that the caller sees the
// semantically correct failure instead of the internal substitution.
func (t *TransactionBuilder) fulfillIssuer(address ledgerstate.Address) (err error) {
	if err = t.fulfillSender(address); err != nil {
		var unfulfillable *UnfulfillableRequirementError
		if errors.As(err, &unfulfillable) {
			return errors.WithStack(&UnfulfillableRequirementError{Requirement: IssuerRequirement(address)})
		}

		return err
	}

	return nil
}

// fulfillEd25519Signature makes sure that a selected input is unlocked by a plain Ed25519 signature for the digest of
// the given address. An output owned by an ImplicitAccountCreationAddress is funded by the Ed25519 key behind the same
// digest, so the match is digest based and type insensitive.
func (t *TransactionBuilder) fulfillEd25519Signature(address ledgerstate.Address) (err error) {
	matches := func(candidate *InputSigningData) bool {
		unlockAddress := candidate.Output.UnlockConditions().UnlockAddress(t.buildSlot)
		if unlockAddress == nil || !ledgerstate.IsEd25519Backed(unlockAddress) {
			return false
		}
		if candidate.Output.UnlockConditions().TimelockedAt(t.buildSlot) {
			return false
		}

		return bytes.Equal(unlockAddress.Digest(), address.Digest())
	}

	for _, candidate := range t.selected {
		if matches(candidate) {
			return nil
		}
	}

	candidate, exists := t.pool.PopWhere(matches)
	if !exists {
		return errors.WithStack(&UnfulfillableRequirementError{Requirement: Ed25519SignatureRequirement(address)})
	}

	t.selectInput(candidate)

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
