package txbuilder

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region PreparedTransaction //////////////////////////////////////////////////////////////////////////////////////////

// PreparedTransaction is the immutable, unsigned result of a successful preparation. The signing data is ordered like
// the Inputs of the essence, so the UnlockBlock at index i belongs to InputsData[i].
type PreparedTransaction struct {
	essence    *ledgerstate.TransactionEssence
	inputsData []*InputSigningData
	remainders ledgerstate.Outputs
}

// Essence returns the unsigned TransactionEssence.
func (p *PreparedTransaction) Essence() *ledgerstate.TransactionEssence {
	return p.essence
}

// InputsData returns the signing metadata of the selected inputs in essence order.
func (p *PreparedTransaction) InputsData() []*InputSigningData {
	return p.inputsData
}

// Remainders returns the remainder outputs that the preparation synthesized (they are also part of the essence).
func (p *PreparedTransaction) Remainders() ledgerstate.Outputs {
	return p.remainders
}

// ConsumedOutputs returns the Outputs that the prepared transaction consumes, in essence order.
func (p *PreparedTransaction) ConsumedOutputs() (consumedOutputs ledgerstate.Outputs) {
	consumedOutputs = make(ledgerstate.Outputs, len(p.inputsData))
	for i, inputData := range p.inputsData {
		consumedOutputs[i] = inputData.Output
	}

	return
}

// String returns a human readable version of the PreparedTransaction.
func (p *PreparedTransaction) String() string {
	return stringify.Struct("PreparedTransaction",
		stringify.StructField("essence", p.essence),
		stringify.StructField("remainders", p.remainders),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Assembler ////////////////////////////////////////////////////////////////////////////////////////////////////

// assemble turns the converged selection into the final essence: it orders the selected inputs by OutputID, appends
// the synthesized outputs to the requested ones and validates the protocol limits and the conservation of every
// quantity one last time.
func (t *TransactionBuilder) assemble(sdrOutputs ledgerstate.Outputs, remainderOutputs ledgerstate.Outputs) (preparedTransaction *PreparedTransaction, err error) {
	finalOutputs := make(ledgerstate.Outputs, 0, len(t.outputs)+len(sdrOutputs)+len(remainderOutputs))
	finalOutputs = append(finalOutputs, t.outputs...)
	finalOutputs = append(finalOutputs, sdrOutputs...)
	finalOutputs = append(finalOutputs, remainderOutputs...)

	if len(t.selected) > int(t.params.MaxInputCount) {
		return nil, errors.WithStack(&InvalidInputCountError{Count: len(t.selected), Max: int(t.params.MaxInputCount)})
	}
	if len(finalOutputs) > int(t.params.MaxOutputCount) {
		return nil, errors.WithStack(&InvalidOutputCountError{Count: len(finalOutputs), Max: int(t.params.MaxOutputCount)})
	}
	for _, output := range finalOutputs {
		if output.NativeTokens().Size() > int(t.params.MaxNativeTokenCount) {
			return nil, errors.WithStack(&InvalidNativeTokenCountError{Count: output.NativeTokens().Size(), Max: int(t.params.MaxNativeTokenCount)})
		}
	}

	inputsData := make([]*InputSigningData, len(t.selected))
	copy(inputsData, t.selected)
	sort.Slice(inputsData, func(i, j int) bool {
		return inputsData[i].Output.ID().Compare(inputsData[j].Output.ID()) < 0
	})

	inputs := make([]ledgerstate.Input, len(inputsData))
	for i, inputData := range inputsData {
		inputs[i] = inputData.Output.Input()
	}

	essence := ledgerstate.NewTransactionEssence(0, t.buildSlot, ledgerstate.NewInputs(inputs...), ledgerstate.NewOutputs(finalOutputs...), t.allotments)

	essenceSize := len(essence.Bytes())
	if essenceSize > int(t.params.MaxTransactionByteSize) {
		return nil, errors.WithStack(&TransactionByteSizeError{Size: essenceSize, Max: int(t.params.MaxTransactionByteSize)})
	}

	consumedOutputs := make(ledgerstate.Outputs, len(inputsData))
	for i, inputData := range inputsData {
		consumedOutputs[i] = inputData.Output
	}
	if !ledgerstate.TransactionBalancesValid(consumedOutputs, finalOutputs, t.allotments) {
		return nil, errors.Errorf("prepared transaction does not conserve balances: %w", ledgerstate.ErrTransactionInvalid)
	}

	return &PreparedTransaction{
		essence:    essence,
		inputsData: inputsData,
		remainders: remainderOutputs,
	}, nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
