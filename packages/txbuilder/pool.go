package txbuilder

import (
	"sort"

	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region InputSigningData /////////////////////////////////////////////////////////////////////////////////////////////

// InputSigningData bundles a candidate input with the metadata that is needed to sign for it later.
type InputSigningData struct {
	// Output is the unspent Output that the input references (its ID has to be set).
	Output ledgerstate.Output

	// OwningAddress is the Address that is able to unlock the Output at the build slot.
	OwningAddress ledgerstate.Address

	// AddressIndex is the derivation index of the OwningAddress in the signing seed.
	AddressIndex uint64
}

// String returns a human readable version of the InputSigningData.
func (i *InputSigningData) String() string {
	return stringify.Struct("InputSigningData",
		stringify.StructField("output", i.Output),
		stringify.StructField("owningAddress", i.OwningAddress),
		stringify.StructField("addressIndex", i.AddressIndex),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region InputPool ////////////////////////////////////////////////////////////////////////////////////////////////////

// InputPool holds the not-yet-selected candidate inputs in a deterministic order: base token amount descending, ties
// broken by the lexicographic order of the OutputIDs (largest first).
type InputPool struct {
	candidates []*InputSigningData
}

// NewInputPool creates an InputPool from the given candidates.
func NewInputPool(candidates []*InputSigningData) (pool *InputPool) {
	pool = &InputPool{
		candidates: make([]*InputSigningData, len(candidates)),
	}
	copy(pool.candidates, candidates)

	sort.SliceStable(pool.candidates, func(i, j int) bool {
		if pool.candidates[i].Output.Amount() != pool.candidates[j].Output.Amount() {
			return pool.candidates[i].Output.Amount() > pool.candidates[j].Output.Amount()
		}

		return pool.candidates[i].Output.ID().Compare(pool.candidates[j].Output.ID()) < 0
	})

	return
}

// Pop removes and returns the first candidate of the pool.
func (i *InputPool) Pop() (candidate *InputSigningData, exists bool) {
	if len(i.candidates) == 0 {
		return nil, false
	}

	candidate = i.candidates[0]
	i.candidates = i.candidates[1:]

	return candidate, true
}

// PopWhere removes and returns the first candidate of the pool that satisfies the given predicate.
func (i *InputPool) PopWhere(predicate func(candidate *InputSigningData) bool) (candidate *InputSigningData, exists bool) {
	for index, poolCandidate := range i.candidates {
		if predicate(poolCandidate) {
			i.candidates = append(i.candidates[:index], i.candidates[index+1:]...)

			return poolCandidate, true
		}
	}

	return nil, false
}

// RemoveByID removes the candidate that references the Output with the given OutputID from the pool.
func (i *InputPool) RemoveByID(outputID ledgerstate.OutputID) (removed bool) {
	for index, poolCandidate := range i.candidates {
		if poolCandidate.Output.ID() == outputID {
			i.candidates = append(i.candidates[:index], i.candidates[index+1:]...)

			return true
		}
	}

	return false
}

// Len returns the amount of candidates that are left in the pool.
func (i *InputPool) Len() int {
	return len(i.candidates)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
