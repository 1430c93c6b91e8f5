package txbuilder

import (
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region RequirementKind //////////////////////////////////////////////////////////////////////////////////////////////

const (
	// AmountRequirementKind represents the obligation to cover the base token amount of the requested outputs.
	AmountRequirementKind RequirementKind = iota

	// NativeTokensRequirementKind represents the obligation to cover the amount of a specific native token.
	NativeTokensRequirementKind

	// SenderRequirementKind represents the obligation to prove control over a specific address.
	SenderRequirementKind

	// IssuerRequirementKind represents the obligation to prove control over a specific issuer address.
	IssuerRequirementKind

	// Ed25519SignatureRequirementKind represents the obligation to unlock an input with a plain Ed25519 signature for
	// a specific address digest (implicit accounts).
	Ed25519SignatureRequirementKind

	// ManaRequirementKind represents the obligation to cover the mana of the requested outputs and allotments.
	ManaRequirementKind
)

// RequirementKind enumerates the different obligations that a transaction preparation has to satisfy.
type RequirementKind uint8

// String returns a human readable representation of the RequirementKind.
func (r RequirementKind) String() string {
	return [...]string{
		"AmountRequirementKind",
		"NativeTokensRequirementKind",
		"SenderRequirementKind",
		"IssuerRequirementKind",
		"Ed25519SignatureRequirementKind",
		"ManaRequirementKind",
	}[r]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Requirement //////////////////////////////////////////////////////////////////////////////////////////////////

// Requirement is a tagged value that describes a single obligation of a transaction preparation. It carries no
// behavior, the fulfillment logic lives in the TransactionBuilder.
type Requirement struct {
	kind    RequirementKind
	tokenID ledgerstate.TokenID
	address ledgerstate.Address
}

// AmountRequirement returns the Requirement to cover the aggregated base token amount.
func AmountRequirement() Requirement {
	return Requirement{kind: AmountRequirementKind}
}

// NativeTokensRequirement returns the Requirement to cover the amount of the given native token.
func NativeTokensRequirement(tokenID ledgerstate.TokenID) Requirement {
	return Requirement{kind: NativeTokensRequirementKind, tokenID: tokenID}
}

// SenderRequirement returns the Requirement to prove control over the given address.
func SenderRequirement(address ledgerstate.Address) Requirement {
	return Requirement{kind: SenderRequirementKind, address: address}
}

// IssuerRequirement returns the Requirement to prove control over the given issuer address.
func IssuerRequirement(address ledgerstate.Address) Requirement {
	return Requirement{kind: IssuerRequirementKind, address: address}
}

// Ed25519SignatureRequirement returns the Requirement to unlock an input with a plain Ed25519 signature for the digest
// of the given address.
func Ed25519SignatureRequirement(address ledgerstate.Address) Requirement {
	return Requirement{kind: Ed25519SignatureRequirementKind, address: address}
}

// ManaRequirement returns the Requirement to cover the aggregated mana of the outputs and allotments.
func ManaRequirement() Requirement {
	return Requirement{kind: ManaRequirementKind}
}

// Kind returns the RequirementKind of the Requirement.
func (r Requirement) Kind() RequirementKind {
	return r.kind
}

// TokenID returns the native token that the Requirement refers to (only set for NativeTokensRequirementKind).
func (r Requirement) TokenID() ledgerstate.TokenID {
	return r.tokenID
}

// Address returns the address that the Requirement refers to (only set for the address based kinds).
func (r Requirement) Address() ledgerstate.Address {
	return r.address
}

// Equals returns true if the two Requirements describe the same obligation.
func (r Requirement) Equals(other Requirement) bool {
	if r.kind != other.kind {
		return false
	}
	if r.tokenID != other.tokenID {
		return false
	}
	if r.address == nil || other.address == nil {
		return r.address == nil && other.address == nil
	}

	return r.address.Equals(other.address)
}

// String returns a human readable version of the Requirement.
func (r Requirement) String() string {
	switch r.kind {
	case NativeTokensRequirementKind:
		return stringify.Struct("Requirement",
			stringify.StructField("kind", r.kind),
			stringify.StructField("tokenID", r.tokenID),
		)
	case SenderRequirementKind, IssuerRequirementKind, Ed25519SignatureRequirementKind:
		return stringify.Struct("Requirement",
			stringify.StructField("kind", r.kind),
			stringify.StructField("address", r.address),
		)
	default:
		return stringify.Struct("Requirement",
			stringify.StructField("kind", r.kind),
		)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region requirementStack /////////////////////////////////////////////////////////////////////////////////////////////

// requirementStack is a LIFO stack of Requirements that ignores pushes of already-pending duplicates.
type requirementStack struct {
	requirements []Requirement
}

// Push adds the given Requirement to the top of the stack unless an equal Requirement is already pending.
func (r *requirementStack) Push(requirement Requirement) {
	for _, pending := range r.requirements {
		if pending.Equals(requirement) {
			return
		}
	}

	r.requirements = append(r.requirements, requirement)
}

// Pop removes and returns the most recently pushed Requirement.
func (r *requirementStack) Pop() (requirement Requirement, exists bool) {
	if len(r.requirements) == 0 {
		return Requirement{}, false
	}

	requirement = r.requirements[len(r.requirements)-1]
	r.requirements = r.requirements[:len(r.requirements)-1]

	return requirement, true
}

// Len returns the amount of pending Requirements.
func (r *requirementStack) Len() int {
	return len(r.requirements)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
