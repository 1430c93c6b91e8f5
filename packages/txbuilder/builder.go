package txbuilder

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region TransactionBuilder ///////////////////////////////////////////////////////////////////////////////////////////

// TransactionBuilder turns a set of requested outputs and a pool of candidate inputs into an unsigned transaction
// essence. It models the preparation as a stack of Requirements that is resolved until it is empty: fulfilling one
// Requirement can select inputs whose own obligations (storage deposit returns, unlock addresses, native tokens) push
// or retroactively satisfy further Requirements. Any failure aborts the whole preparation, no partial result escapes.
type TransactionBuilder struct {
	params          ledgerstate.ProtocolParameters
	buildSlot       ledgerstate.SlotIndex
	availableInputs []*InputSigningData
	outputs         ledgerstate.Outputs

	requiredInputs   []*InputSigningData
	remainderAddress ledgerstate.Address
	sender           ledgerstate.Address
	burn             *Burn
	allotments       ledgerstate.ManaAllotments

	pool         *InputPool
	selected     []*InputSigningData
	selectedByID map[ledgerstate.OutputID]*InputSigningData
	stack        requirementStack
}

// NewTransactionBuilder creates a TransactionBuilder that prepares a transaction creating the given outputs at the
// given slot, drawing from the given candidate inputs.
func NewTransactionBuilder(params ledgerstate.ProtocolParameters, buildSlot ledgerstate.SlotIndex, availableInputs []*InputSigningData, outputs ledgerstate.Outputs, options ...Option) (builder *TransactionBuilder) {
	builder = &TransactionBuilder{
		params:          params,
		buildSlot:       buildSlot,
		availableInputs: availableInputs,
		outputs:         outputs,
		burn:            NewBurn(),
		allotments:      make(ledgerstate.ManaAllotments),
		selectedByID:    make(map[ledgerstate.OutputID]*InputSigningData),
	}
	for _, option := range options {
		option(builder)
	}
	if builder.burn == nil {
		builder.burn = NewBurn()
	}
	if builder.allotments == nil {
		builder.allotments = make(ledgerstate.ManaAllotments)
	}

	return
}

// Finish resolves all Requirements and returns the prepared, unsigned transaction. It fails atomically: on any error
// no PreparedTransaction is returned.
func (t *TransactionBuilder) Finish() (preparedTransaction *PreparedTransaction, err error) {
	if len(t.outputs) > int(t.params.MaxOutputCount) {
		return nil, errors.WithStack(&InvalidOutputCountError{Count: len(t.outputs), Max: int(t.params.MaxOutputCount)})
	}

	t.pool = NewInputPool(t.filterCandidates())
	if t.pool.Len() == 0 && len(t.requiredInputs) == 0 {
		return nil, errors.WithStack(ErrNoAvailableInputs)
	}

	if err = t.selectRequiredInputs(); err != nil {
		return nil, err
	}

	t.seedRequirements()

	maxIterations := (len(t.availableInputs)+len(t.requiredInputs)+len(t.outputs))*8 + 64
	for iteration := 0; ; iteration++ {
		if iteration > maxIterations {
			panic(fmt.Sprintf("requirement resolution did not converge after %d iterations", iteration))
		}

		requirement, exists := t.stack.Pop()
		if !exists {
			break
		}

		if err = t.fulfill(requirement); err != nil {
			return nil, err
		}
	}

	sdrOutputs, remainderOutputs, err := t.buildRemainders()
	if err != nil {
		return nil, err
	}

	return t.assemble(sdrOutputs, remainderOutputs)
}

// filterCandidates drops candidates that can not legally be spent at the build slot: outputs that are timelocked,
// outputs whose expiration already handed them to a foreign address and outputs that the claimed owning address can
// not unlock.
func (t *TransactionBuilder) filterCandidates() (spendableCandidates []*InputSigningData) {
	spendableCandidates = make([]*InputSigningData, 0, len(t.availableInputs))
	for _, candidate := range t.availableInputs {
		if candidate.Output.ID() == ledgerstate.EmptyOutputID {
			continue
		}
		if candidate.OwningAddress == nil {
			continue
		}
		if !candidate.Output.UnlockConditions().UnlockableBy(candidate.OwningAddress, t.buildSlot) {
			continue
		}

		spendableCandidates = append(spendableCandidates, candidate)
	}

	return
}

// selectRequiredInputs credits the explicitly required inputs before the resolution loop starts.
func (t *TransactionBuilder) selectRequiredInputs() (err error) {
	for _, requiredInput := range t.requiredInputs {
		outputID := requiredInput.Output.ID()
		if _, alreadySelected := t.selectedByID[outputID]; alreadySelected {
			continue
		}

		candidate, exists := t.pool.PopWhere(func(candidate *InputSigningData) bool {
			return candidate.Output.ID() == outputID
		})
		if !exists {
			return errors.Errorf("input %s: %w", outputID.Base58(), ErrRequiredInputNotAvailable)
		}

		t.selectInput(candidate)
	}

	return nil
}

// seedRequirements derives the initial Requirements from the requested outputs and the options. The stack is LIFO, so
// the obligations that should be resolved first are pushed last.
func (t *TransactionBuilder) seedRequirements() {
	t.stack.Push(ManaRequirement())
	t.stack.Push(AmountRequirement())

	for _, tokenID := range t.requiredNativeTokenIDs() {
		t.stack.Push(NativeTokensRequirement(tokenID))
	}

	for _, output := range t.outputs {
		if addressUnlockCondition := output.UnlockConditions().Address(); addressUnlockCondition != nil {
			if addressUnlockCondition.Address().Type() == ledgerstate.ImplicitAccountCreationAddressType {
				t.stack.Push(Ed25519SignatureRequirement(addressUnlockCondition.Address()))
			}
		}
	}

	for _, output := range t.outputs {
		if senderFeature := output.Features().Sender(); senderFeature != nil {
			t.stack.Push(SenderRequirement(senderFeature.Address()))
		}
		if issuerFeature := output.Features().Issuer(); issuerFeature != nil {
			t.stack.Push(IssuerRequirement(issuerFeature.Address()))
		}
	}

	if t.sender != nil {
		t.stack.Push(SenderRequirement(t.sender))
	}
}

// fulfill dispatches the given Requirement to its fulfiller. The switch is exhaustive over the RequirementKinds.
func (t *TransactionBuilder) fulfill(requirement Requirement) (err error) {
	switch requirement.Kind() {
	case AmountRequirementKind:
		return t.fulfillAmount()
	case NativeTokensRequirementKind:
		return t.fulfillNativeTokens(requirement.TokenID())
	case SenderRequirementKind:
		return t.fulfillSender(requirement.Address())
	case IssuerRequirementKind:
		return t.fulfillIssuer(requirement.Address())
	case Ed25519SignatureRequirementKind:
		return t.fulfillEd25519Signature(requirement.Address())
	case ManaRequirementKind:
		return t.fulfillMana()
	default:
		panic(fmt.Sprintf("unknown RequirementKind (%d)", requirement.Kind()))
	}
}

// selectInput moves the given candidate into the selected set. The unlock obligation of the freshly selected input is
// pushed as a Sender Requirement so that the resolution loop re-checks it (the check is idempotent).
func (t *TransactionBuilder) selectInput(candidate *InputSigningData) {
	t.selected = append(t.selected, candidate)
	t.selectedByID[candidate.Output.ID()] = candidate

	t.stack.Push(SenderRequirement(candidate.OwningAddress))
}

// selectedInputUnlockableBy returns true if one of the selected inputs can be unlocked by the given address at the
// build slot.
func (t *TransactionBuilder) selectedInputUnlockableBy(address ledgerstate.Address) bool {
	for _, candidate := range t.selected {
		if candidate.Output.UnlockConditions().UnlockableBy(address, t.buildSlot) {
			return true
		}
	}

	return false
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
