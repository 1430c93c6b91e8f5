package address

import (
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// Address represents an address in a wallet. It extends the normal address type with the derivation index that was
// used to generate the address from the seed.
type Address struct {
	AddressBytes [ledgerstate.AddressLength]byte
	Index        uint64
}

// AddressEmpty represents the 0-value of an address and therefore indicates a missing address.
var AddressEmpty = Address{}

// Address returns the ledger representation of this wallet Address.
func (a Address) Address() (ledgerStateAddress ledgerstate.Address) {
	ledgerStateAddress, _, err := ledgerstate.AddressFromBytes(a.AddressBytes[:])
	if err != nil {
		panic(err)
	}

	return
}

// Base58 returns the base58 encoded address.
func (a Address) Base58() string {
	return a.Address().Base58()
}

// IsEmpty returns true if the address is the 0-value of the Address type.
func (a Address) IsEmpty() bool {
	return a == AddressEmpty
}

func (a Address) String() string {
	return stringify.Struct("Address",
		stringify.StructField("address", a.Address()),
		stringify.StructField("index", a.Index),
	)
}
