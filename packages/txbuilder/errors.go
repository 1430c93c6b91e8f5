package txbuilder

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

var (
	// ErrNoAvailableInputs is returned if a preparation is started without a single candidate input.
	ErrNoAvailableInputs = errors.New("no available inputs provided")

	// ErrRequiredInputNotAvailable is returned if an input that was explicitly required is not part of the available
	// inputs.
	ErrRequiredInputNotAvailable = errors.New("required input is not available")
)

// region InsufficientAmountError //////////////////////////////////////////////////////////////////////////////////////

// InsufficientAmountError is returned if the candidate inputs can not cover the base token amount that the requested
// outputs (and their storage deposit obligations) require.
type InsufficientAmountError struct {
	Found    uint64
	Required uint64
}

// Error returns a human readable version of the error.
func (e *InsufficientAmountError) Error() string {
	return fmt.Sprintf("insufficient amount: found %d, required %d", e.Found, e.Required)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region InsufficientManaError ////////////////////////////////////////////////////////////////////////////////////////

// InsufficientManaError is returned if the candidate inputs can not cover the mana that the requested outputs and
// allotments require.
type InsufficientManaError struct {
	Found    uint64
	Required uint64
}

// Error returns a human readable version of the error.
func (e *InsufficientManaError) Error() string {
	return fmt.Sprintf("insufficient mana: found %d, required %d", e.Found, e.Required)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region InsufficientNativeTokensError ////////////////////////////////////////////////////////////////////////////////

// InsufficientNativeTokensError is returned if the candidate inputs can not cover the amount of a native token that
// the requested outputs and burns require.
type InsufficientNativeTokensError struct {
	TokenID  ledgerstate.TokenID
	Found    *big.Int
	Required *big.Int
}

// Error returns a human readable version of the error.
func (e *InsufficientNativeTokensError) Error() string {
	return fmt.Sprintf("insufficient native tokens for %s: found %s, required %s", e.TokenID.Base58(), e.Found, e.Required)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnfulfillableRequirementError ////////////////////////////////////////////////////////////////////////////////

// UnfulfillableRequirementError is returned if the candidate inputs are exhausted for a specific constraint.
type UnfulfillableRequirementError struct {
	Requirement Requirement
}

// Error returns a human readable version of the error.
func (e *UnfulfillableRequirementError) Error() string {
	return fmt.Sprintf("unfulfillable requirement: %s", e.Requirement)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region count / size errors //////////////////////////////////////////////////////////////////////////////////////////

// InvalidInputCountError is returned if the amount of Inputs violates the protocol limits after assembly.
type InvalidInputCountError struct {
	Count int
	Max   int
}

// Error returns a human readable version of the error.
func (e *InvalidInputCountError) Error() string {
	return fmt.Sprintf("invalid input count: %d inputs exceed the maximum of %d", e.Count, e.Max)
}

// InvalidOutputCountError is returned if the amount of Outputs violates the protocol limits after assembly.
type InvalidOutputCountError struct {
	Count int
	Max   int
}

// Error returns a human readable version of the error.
func (e *InvalidOutputCountError) Error() string {
	return fmt.Sprintf("invalid output count: %d outputs exceed the maximum of %d", e.Count, e.Max)
}

// InvalidNativeTokenCountError is returned if an Output carries more distinct native tokens than the protocol allows.
type InvalidNativeTokenCountError struct {
	Count int
	Max   int
}

// Error returns a human readable version of the error.
func (e *InvalidNativeTokenCountError) Error() string {
	return fmt.Sprintf("invalid native token count: %d distinct tokens exceed the maximum of %d per output", e.Count, e.Max)
}

// TransactionByteSizeError is returned if the serialized transaction essence exceeds the maximum transaction size.
type TransactionByteSizeError struct {
	Size int
	Max  int
}

// Error returns a human readable version of the error.
func (e *TransactionByteSizeError) Error() string {
	return fmt.Sprintf("transaction size of %d bytes exceeds the maximum of %d bytes", e.Size, e.Max)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
