package ledgerstate

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrTransactionInvalid is returned if a transaction or any of its building blocks is considered to be invalid.
	ErrTransactionInvalid = errors.New("transaction invalid")

	// ErrInvalidUnlockConditions is returned if a collection of UnlockConditions violates the uniqueness constraint.
	ErrInvalidUnlockConditions = errors.New("invalid unlock conditions")

	// ErrOutputInvalid is returned if an Output violates one of the constraints imposed by the protocol parameters.
	ErrOutputInvalid = errors.New("output invalid")
)
