package ledgerstate

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
)

// region Constraints for syntactical validation ///////////////////////////////////////////////////////////////////////

const (
	// MinInputCount defines the minimum amount of Inputs in a Transaction.
	MinInputCount = 1

	// MaxInputCount defines the maximum amount of Inputs in a Transaction.
	MaxInputCount = 128
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region InputType ////////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// UTXOInputType represents the type of an Input that references an unspent Output.
	UTXOInputType InputType = iota
)

// InputType represents the type of an Input.
type InputType uint8

// String returns a human readable representation of the InputType.
func (i InputType) String() string {
	return [...]string{
		"UTXOInputType",
	}[i]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Input ////////////////////////////////////////////////////////////////////////////////////////////////////////

// Input is a generic interface for different kinds of Inputs.
type Input interface {
	// Type returns the InputType of this Input.
	Type() InputType

	// Bytes returns a marshaled version of this Input.
	Bytes() []byte

	// String returns a human readable version of this Input.
	String() string

	// Compare offers a comparator for Inputs which returns -1 if the other Input is bigger, 1 if it is smaller and 0 if
	// they are the same.
	Compare(other Input) int
}

// InputFromBytes unmarshals an Input from a sequence of bytes.
func InputFromBytes(data []byte) (input Input, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if input, err = InputFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Input from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// InputFromMarshalUtil unmarshals an Input using a MarshalUtil (for easier unmarshaling).
func InputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (input Input, err error) {
	inputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse InputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch InputType(inputType) {
	case UTXOInputType:
		if input, err = UTXOInputFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse UTXOInput from MarshalUtil: %w", err)
			return
		}
	default:
		err = errors.Errorf("unsupported InputType (%X): %w", inputType, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Inputs ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Inputs represents a collection of Inputs that is sorted in a deterministic order and that contains no duplicates.
type Inputs []Input

// NewInputs returns a deterministically ordered collection of Inputs. It removes duplicates in the parameters and
// sorts the Inputs to ensure syntactical correctness.
func NewInputs(optionalInputs ...Input) (inputs Inputs) {
	seenInputs := make(map[string]bool)
	inputs = make(Inputs, 0, len(optionalInputs))
	for _, input := range optionalInputs {
		marshaledInputAsString := string(input.Bytes())
		if seenInputs[marshaledInputAsString] {
			continue
		}
		seenInputs[marshaledInputAsString] = true

		inputs = append(inputs, input)
	}

	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].Compare(inputs[j]) < 0
	})

	if len(inputs) < MinInputCount {
		panic(fmt.Sprintf("amount of Inputs (%d) failed to reach MinInputCount (%d)", len(inputs), MinInputCount))
	}
	if len(inputs) > MaxInputCount {
		panic(fmt.Sprintf("amount of Inputs (%d) exceeds MaxInputCount (%d)", len(inputs), MaxInputCount))
	}

	return
}

// InputsFromMarshalUtil unmarshals a collection of Inputs using a MarshalUtil (for easier unmarshaling).
func InputsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (inputs Inputs, err error) {
	inputsCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = errors.Errorf("failed to parse inputs count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if inputsCount < MinInputCount {
		err = errors.Errorf("amount of Inputs (%d) failed to reach MinInputCount (%d): %w", inputsCount, MinInputCount, cerrors.ErrParseBytesFailed)
		return
	}
	if inputsCount > MaxInputCount {
		err = errors.Errorf("amount of Inputs (%d) exceeds MaxInputCount (%d): %w", inputsCount, MaxInputCount, cerrors.ErrParseBytesFailed)
		return
	}

	var previousInput Input
	inputs = make(Inputs, inputsCount)
	for i := uint16(0); i < inputsCount; i++ {
		if inputs[i], err = InputFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse Input from MarshalUtil: %w", err)
			return
		}

		if previousInput != nil && previousInput.Compare(inputs[i]) != -1 {
			err = errors.Errorf("order of Inputs is invalid: %w", cerrors.ErrParseBytesFailed)
			return
		}
		previousInput = inputs[i]
	}

	return
}

// Clone creates a copy of the Inputs.
func (i Inputs) Clone() (clonedInputs Inputs) {
	clonedInputs = make(Inputs, len(i))
	copy(clonedInputs, i)

	return
}

// Bytes returns a marshaled version of the Inputs.
func (i Inputs) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(i)))
	for _, input := range i {
		marshalUtil.WriteBytes(input.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the Inputs.
func (i Inputs) String() string {
	structBuilder := stringify.StructBuilder("Inputs")
	for index, input := range i {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(index), input))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UTXOInput ////////////////////////////////////////////////////////////////////////////////////////////////////

// UTXOInput represents a reference to an unspent Output.
type UTXOInput struct {
	referencedOutputID OutputID
}

// NewUTXOInput is the constructor for UTXOInputs.
func NewUTXOInput(referencedOutputID OutputID) *UTXOInput {
	return &UTXOInput{
		referencedOutputID: referencedOutputID,
	}
}

// UTXOInputFromMarshalUtil unmarshals a UTXOInput using a MarshalUtil (for easier unmarshaling).
func UTXOInputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (input *UTXOInput, err error) {
	inputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse InputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if InputType(inputType) != UTXOInputType {
		err = errors.Errorf("invalid InputType (%X): %w", inputType, cerrors.ErrParseBytesFailed)
		return
	}

	input = &UTXOInput{}
	if input.referencedOutputID, err = OutputIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse referenced OutputID from MarshalUtil: %w", err)
		return
	}

	return
}

// ReferencedOutputID returns the OutputID that this Input references.
func (u *UTXOInput) ReferencedOutputID() OutputID {
	return u.referencedOutputID
}

// Type returns the InputType of this Input.
func (u *UTXOInput) Type() InputType {
	return UTXOInputType
}

// Bytes returns a marshaled version of this Input.
func (u *UTXOInput) Bytes() []byte {
	return marshalutil.New(1 + OutputIDLength).
		WriteByte(byte(UTXOInputType)).
		WriteBytes(u.referencedOutputID.Bytes()).
		Bytes()
}

// Compare offers a comparator for Inputs which returns -1 if the other Input is bigger, 1 if it is smaller and 0 if
// they are the same.
func (u *UTXOInput) Compare(other Input) int {
	return bytes.Compare(u.Bytes(), other.Bytes())
}

// String returns a human readable version of this Input.
func (u *UTXOInput) String() string {
	return stringify.Struct("UTXOInput",
		stringify.StructField("referencedOutputID", u.referencedOutputID),
	)
}

// code contract (make sure the type implements all required methods)
var _ Input = &UTXOInput{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
