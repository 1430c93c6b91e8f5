package wallet

import (
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// Asset represents the metadata of a native token.
type Asset struct {
	// TokenID contains the identifier of this asset.
	TokenID ledgerstate.TokenID

	// Name of the asset.
	Name string

	// Symbol is the currency symbol of the asset (optional).
	Symbol string

	// Precision defines how many decimal places are shown when displaying amounts of this asset.
	Precision uint32
}

// AssetFromMarshalUtil unmarshals an Asset using a MarshalUtil (for easier unmarshaling).
func AssetFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (asset *Asset, err error) {
	asset = new(Asset)
	if asset.TokenID, err = ledgerstate.TokenIDFromMarshalUtil(marshalUtil); err != nil {
		return
	}

	nameLength, err := marshalUtil.ReadUint32()
	if err != nil {
		return
	}
	nameBytes, err := marshalUtil.ReadBytes(int(nameLength))
	if err != nil {
		return
	}
	asset.Name = string(nameBytes)

	symbolLength, err := marshalUtil.ReadUint32()
	if err != nil {
		return
	}
	symbolBytes, err := marshalUtil.ReadBytes(int(symbolLength))
	if err != nil {
		return
	}
	asset.Symbol = string(symbolBytes)

	if asset.Precision, err = marshalUtil.ReadUint32(); err != nil {
		return
	}

	return
}

// Bytes returns a marshaled version of the Asset.
func (a *Asset) Bytes() []byte {
	return marshalutil.New().
		WriteBytes(a.TokenID.Bytes()).
		WriteUint32(uint32(len(a.Name))).
		WriteBytes([]byte(a.Name)).
		WriteUint32(uint32(len(a.Symbol))).
		WriteBytes([]byte(a.Symbol)).
		WriteUint32(a.Precision).
		Bytes()
}

// String returns a human readable version of the Asset.
func (a *Asset) String() string {
	return stringify.Struct("Asset",
		stringify.StructField("tokenID", a.TokenID),
		stringify.StructField("name", a.Name),
		stringify.StructField("symbol", a.Symbol),
		stringify.StructField("precision", a.Precision),
	)
}
