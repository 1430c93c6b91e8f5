package txbuilder

import (
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region Burn /////////////////////////////////////////////////////////////////////////////////////////////////////////

// Burn describes the quantities that the caller explicitly wants to destroy instead of sending them to a remainder.
type Burn struct {
	// Mana drops the mana surplus from the remainder instead of crediting it.
	Mana bool

	// NativeTokens holds the native token amounts that are consumed without being recreated.
	NativeTokens *ledgerstate.NativeTokenBalances
}

// NewBurn creates an empty Burn.
func NewBurn() *Burn {
	return &Burn{
		NativeTokens: ledgerstate.NewNativeTokenBalances(),
	}
}

// String returns a human readable version of the Burn.
func (b *Burn) String() string {
	return stringify.Struct("Burn",
		stringify.StructField("mana", b.Mana),
		stringify.StructField("nativeTokens", b.NativeTokens),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Options //////////////////////////////////////////////////////////////////////////////////////////////////////

// Option represents an optional parameter of the TransactionBuilder.
type Option func(builder *TransactionBuilder)

// WithRequiredInputs makes the TransactionBuilder select the given inputs no matter what the requirements ask for.
// They are credited before the resolution loop starts and are never re-derived.
func WithRequiredInputs(requiredInputs ...*InputSigningData) Option {
	return func(builder *TransactionBuilder) {
		builder.requiredInputs = requiredInputs
	}
}

// WithRemainderAddress overrides the address that surpluses are paid back to.
func WithRemainderAddress(remainderAddress ledgerstate.Address) Option {
	return func(builder *TransactionBuilder) {
		builder.remainderAddress = remainderAddress
	}
}

// WithBurn attaches explicit burn instructions to the preparation.
func WithBurn(burn *Burn) Option {
	return func(builder *TransactionBuilder) {
		builder.burn = burn
	}
}

// WithManaAllotments makes the prepared transaction allot mana to the given accounts.
func WithManaAllotments(allotments ledgerstate.ManaAllotments) Option {
	return func(builder *TransactionBuilder) {
		builder.allotments = allotments
	}
}

// WithSender adds an explicit Sender requirement for the given address and makes it the preferred remainder address.
func WithSender(sender ledgerstate.Address) Option {
	return func(builder *TransactionBuilder) {
		builder.sender = sender
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
