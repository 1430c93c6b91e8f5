package ledgerstate

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
)

// region SlotIndex ////////////////////////////////////////////////////////////////////////////////////////////////////

// SlotIndex represents the index of a slot, the discrete unit of ledger time. All time based conditions of Outputs are
// expressed in SlotIndexes.
type SlotIndex uint32

// SlotIndexFromMarshalUtil unmarshals a SlotIndex using a MarshalUtil (for easier unmarshaling).
func SlotIndexFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (slotIndex SlotIndex, err error) {
	untypedSlotIndex, err := marshalUtil.ReadUint32()
	if err != nil {
		err = errors.Errorf("failed to parse SlotIndex (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	slotIndex = SlotIndex(untypedSlotIndex)

	return
}

// Bytes returns a marshaled version of the SlotIndex.
func (s SlotIndex) Bytes() []byte {
	return marshalutil.New(marshalutil.Uint32Size).WriteUint32(uint32(s)).Bytes()
}

// String returns a human readable version of the SlotIndex.
func (s SlotIndex) String() string {
	return "SlotIndex(" + strconv.FormatUint(uint64(s), 10) + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
