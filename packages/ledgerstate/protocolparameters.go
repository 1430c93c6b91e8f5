package ledgerstate

import (
	"github.com/iotaledger/hive.go/stringify"
)

// region RentStructure ////////////////////////////////////////////////////////////////////////////////////////////////

// RentStructure defines the weights that are used to calculate the storage deposit that an Output has to hold to pay
// for its share of the ledger database.
type RentStructure struct {
	// VByteCost is the cost of a single weighted byte.
	VByteCost uint32

	// VByteFactorData is the weight of a serialized data byte.
	VByteFactorData uint8

	// VByteFactorKey is the weight of a byte that is used as a database key.
	VByteFactorKey uint8
}

// MinimumStorageDeposit returns the amount of base tokens that the given Output needs to hold to cover its share of
// the ledger database. Next to the serialized data of the Output itself, every Output is stored under its OutputID
// which is weighted as a key.
func (r RentStructure) MinimumStorageDeposit(output Output) uint64 {
	weightedBytes := uint64(r.VByteFactorKey)*OutputIDLength + uint64(r.VByteFactorData)*uint64(len(output.Bytes()))

	return uint64(r.VByteCost) * weightedBytes
}

// CoversStorageDeposit returns true if the amount of the given Output reaches its minimum storage deposit.
func (r RentStructure) CoversStorageDeposit(output Output) bool {
	return output.Amount() >= r.MinimumStorageDeposit(output)
}

// String returns a human readable version of the RentStructure.
func (r RentStructure) String() string {
	return stringify.Struct("RentStructure",
		stringify.StructField("vByteCost", r.VByteCost),
		stringify.StructField("vByteFactorData", r.VByteFactorData),
		stringify.StructField("vByteFactorKey", r.VByteFactorKey),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ProtocolParameters ///////////////////////////////////////////////////////////////////////////////////////////

// ProtocolParameters bundles the protocol wide constraints that transactions have to satisfy to be considered valid.
type ProtocolParameters struct {
	// TokenSupply is the total amount of base tokens in circulation.
	TokenSupply uint64

	// MaxInputCount is the maximum amount of Inputs in a Transaction.
	MaxInputCount uint16

	// MaxOutputCount is the maximum amount of Outputs in a Transaction.
	MaxOutputCount uint16

	// MaxNativeTokenCount is the maximum amount of different native tokens in a single Output.
	MaxNativeTokenCount uint16

	// MaxTransactionByteSize is the maximum serialized size of a Transaction.
	MaxTransactionByteSize uint32

	// RentStructure holds the weights used to calculate storage deposits.
	RentStructure RentStructure
}

// DefaultProtocolParameters returns the ProtocolParameters that are used when no custom parameters are configured.
func DefaultProtocolParameters() ProtocolParameters {
	return ProtocolParameters{
		TokenSupply:            MaxOutputBalance,
		MaxInputCount:          MaxInputCount,
		MaxOutputCount:         MaxOutputCount,
		MaxNativeTokenCount:    64,
		MaxTransactionByteSize: 32768,
		RentStructure: RentStructure{
			VByteCost:       100,
			VByteFactorData: 1,
			VByteFactorKey:  10,
		},
	}
}

// String returns a human readable version of the ProtocolParameters.
func (p ProtocolParameters) String() string {
	return stringify.Struct("ProtocolParameters",
		stringify.StructField("tokenSupply", p.TokenSupply),
		stringify.StructField("maxInputCount", p.MaxInputCount),
		stringify.StructField("maxOutputCount", p.MaxOutputCount),
		stringify.StructField("maxNativeTokenCount", p.MaxNativeTokenCount),
		stringify.StructField("maxTransactionByteSize", p.MaxTransactionByteSize),
		stringify.StructField("rentStructure", p.RentStructure),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
