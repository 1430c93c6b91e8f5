package wallet

import (
	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// UnspentOutputManager is a manager for the unspent outputs of the addresses of a wallet. It keeps track of the spent
// state of outputs using our local knowledge about outputs that have already been consumed and caches results that
// would otherwise have to be requested from the server over and over again.
type UnspentOutputManager struct {
	addressManager *AddressManager
	connector      Connector
	unspentOutputs OutputsByAddressAndOutputID
}

// NewUnspentOutputManager creates a new UnspentOutputManager.
func NewUnspentOutputManager(addressManager *AddressManager, connector Connector) (outputManager *UnspentOutputManager) {
	outputManager = &UnspentOutputManager{
		addressManager: addressManager,
		connector:      connector,
		unspentOutputs: NewAddressToOutputs(),
	}

	return
}

// Refresh retrieves the unspent outputs from the node. If includeSpentAddresses is set to true, then it also scans the
// addresses from which we previously spent already.
func (unspentOutputManager *UnspentOutputManager) Refresh(includeSpentAddresses ...bool) (err error) {
	var addressesToRefresh []address.Address
	if len(includeSpentAddresses) >= 1 && includeSpentAddresses[0] {
		addressesToRefresh = unspentOutputManager.addressManager.Addresses()
	} else {
		addressesToRefresh = unspentOutputManager.addressManager.UnspentAddresses()
	}

	unspentOutputs, err := unspentOutputManager.connector.UnspentOutputs(addressesToRefresh...)
	if err != nil {
		return
	}

	for outputAddress, unspentOutputsOnAddress := range unspentOutputs {
		for outputID, output := range unspentOutputsOnAddress {
			if _, addressExists := unspentOutputManager.unspentOutputs[outputAddress]; !addressExists {
				unspentOutputManager.unspentOutputs[outputAddress] = make(map[ledgerstate.OutputID]*Output)
			}

			// mark the output as spent if we already marked it as spent locally
			if existingOutput, outputExists := unspentOutputManager.unspentOutputs[outputAddress][outputID]; outputExists && existingOutput.InclusionState.Spent {
				output.InclusionState.Spent = true
			}

			unspentOutputManager.unspentOutputs[outputAddress][outputID] = output
		}
	}

	return
}

// UnspentOutputs returns the outputs that have not been spent yet. If the optional includePending parameter is set to
// false, then only confirmed outputs are returned.
func (unspentOutputManager *UnspentOutputManager) UnspentOutputs(includePending bool, addresses ...address.Address) (unspentOutputs OutputsByAddressAndOutputID) {
	// prepare result
	unspentOutputs = NewAddressToOutputs()

	// retrieve the list of addresses from the address manager if none was provided
	if len(addresses) == 0 {
		addresses = unspentOutputManager.addressManager.Addresses()
	}

	// iterate through addresses and scan for unspent outputs
	for _, addr := range addresses {
		// skip the address if we have no outputs for it stored
		unspentOutputsOnAddress, addressExistsInStoredOutputs := unspentOutputManager.unspentOutputs[addr]
		if !addressExistsInStoredOutputs {
			continue
		}

		// iterate through outputs
		for outputID, output := range unspentOutputsOnAddress {
			// skip spent and rejected outputs
			if output.InclusionState.Spent || output.InclusionState.Rejected {
				continue
			}

			// skip pending outputs unless they were requested
			if !includePending && !output.InclusionState.Confirmed {
				continue
			}

			// store unspent outputs in result
			if _, addressExists := unspentOutputs[addr]; !addressExists {
				unspentOutputs[addr] = make(map[ledgerstate.OutputID]*Output)
			}
			unspentOutputs[addr][outputID] = output
		}
	}

	return
}

// MarkOutputSpent marks the output identified by the given parameters as spent.
func (unspentOutputManager *UnspentOutputManager) MarkOutputSpent(address address.Address, outputID ledgerstate.OutputID) {
	// abort if we try to mark an unknown output as spent
	if _, addressExists := unspentOutputManager.unspentOutputs[address]; !addressExists {
		return
	}
	output, outputExists := unspentOutputManager.unspentOutputs[address][outputID]
	if !outputExists {
		return
	}

	// mark output as spent
	output.InclusionState.Spent = true
}
