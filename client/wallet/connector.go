package wallet

import (
	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// Connector represents an interface that defines how the wallet interacts with the network. A wallet can either be used
// locally on a server or it can connect remotely using the web API.
type Connector interface {
	UnspentOutputs(addresses ...address.Address) (unspentOutputs OutputsByAddressAndOutputID, err error)
	SendTransaction(transaction *ledgerstate.Transaction) (err error)
	ProtocolParameters() (protocolParameters ledgerstate.ProtocolParameters, err error)
	CurrentSlot() (slotIndex ledgerstate.SlotIndex, err error)
}

// ServerStatus defines the information of connected server.
type ServerStatus struct {
	ID          string
	Synced      bool
	Version     string
	CurrentSlot uint32
}
