package wallet

import (
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
	"github.com/iotaledger/txbuilder/packages/txbuilder"
)

// Output is a wallet specific representation of an output on the ledger.
type Output struct {
	Address        address.Address
	Object         ledgerstate.Output
	InclusionState InclusionState
}

// region InclusionState ///////////////////////////////////////////////////////////////////////////////////////////////

// InclusionState is a container for the different flags of an output that define if it was accepted by the network.
type InclusionState struct {
	Pending   bool
	Confirmed bool
	Rejected  bool
	Spent     bool
}

// String returns a human-readable representation of the InclusionState.
func (i InclusionState) String() string {
	return stringify.Struct("InclusionState",
		stringify.StructField("Pending", i.Pending),
		stringify.StructField("Confirmed", i.Confirmed),
		stringify.StructField("Rejected", i.Rejected),
		stringify.StructField("Spent", i.Spent),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputsByID //////////////////////////////////////////////////////////////////////////////////////////////////

// OutputsByID is a collection of Outputs associated with their OutputID.
type OutputsByID map[ledgerstate.OutputID]*Output

// OutputsByAddressAndOutputID returns a collection of Outputs associated with their Address and OutputID.
func (o OutputsByID) OutputsByAddressAndOutputID() (outputsByAddressAndOutputID OutputsByAddressAndOutputID) {
	outputsByAddressAndOutputID = make(OutputsByAddressAndOutputID)
	for outputID, output := range o {
		outputsByAddress, exists := outputsByAddressAndOutputID[output.Address]
		if !exists {
			outputsByAddress = make(OutputsByID)
			outputsByAddressAndOutputID[output.Address] = outputsByAddress
		}

		outputsByAddress[outputID] = output
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputsByAddressAndOutputID //////////////////////////////////////////////////////////////////////////////////

// OutputsByAddressAndOutputID is a collection of Outputs associated with their Address and OutputID.
type OutputsByAddressAndOutputID map[address.Address]map[ledgerstate.OutputID]*Output

// NewAddressToOutputs creates an empty OutputsByAddressAndOutputID collection.
func NewAddressToOutputs() OutputsByAddressAndOutputID {
	return make(map[address.Address]map[ledgerstate.OutputID]*Output)
}

// OutputsByID returns a collection of Outputs associated with their OutputID.
func (o OutputsByAddressAndOutputID) OutputsByID() (outputsByID OutputsByID) {
	outputsByID = make(OutputsByID)
	for _, outputs := range o {
		for outputID, output := range outputs {
			outputsByID[outputID] = output
		}
	}

	return
}

// OutputCount returns the number of Outputs in the collection.
func (o OutputsByAddressAndOutputID) OutputCount() (count int) {
	for _, outputs := range o {
		count += len(outputs)
	}

	return
}

// TotalFundsInOutputs returns the total base token amount that is contained in the collection.
func (o OutputsByAddressAndOutputID) TotalFundsInOutputs() (totalFunds uint64) {
	for _, outputs := range o {
		for _, output := range outputs {
			totalFunds += output.Object.Amount()
		}
	}

	return
}

// ToInputSigningData translates the collection into the candidate input representation that the transaction builder
// consumes. The signing metadata keeps the derivation index of the owning address.
func (o OutputsByAddressAndOutputID) ToInputSigningData() (inputSigningData []*txbuilder.InputSigningData) {
	inputSigningData = make([]*txbuilder.InputSigningData, 0, o.OutputCount())
	for addr, outputs := range o {
		for _, output := range outputs {
			inputSigningData = append(inputSigningData, &txbuilder.InputSigningData{
				Output:        output.Object,
				OwningAddress: addr.Address(),
				AddressIndex:  addr.Index,
			})
		}
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
