package ledgerstate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
)

// region Constraints for syntactical validation ///////////////////////////////////////////////////////////////////////

const (
	// MinOutputCount defines the minimum amount of Outputs in a Transaction.
	MinOutputCount = 1

	// MaxOutputCount defines the maximum amount of Outputs in a Transaction.
	MaxOutputCount = 128

	// MinOutputBalance defines the minimum balance per Output.
	MinOutputBalance = 1

	// MaxOutputBalance defines the maximum balance on an Output (the supply).
	MaxOutputBalance = 1813620509061365
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputType ///////////////////////////////////////////////////////////////////////////////////////////////////

// OutputType represents the type of an Output. Outputs of different types can have different unlock rules and carry
// different features.
type OutputType uint8

const (
	// BasicOutputType represents an Output holding an amount of base tokens, mana and optional native tokens whose
	// spendability is restricted by its UnlockConditions.
	BasicOutputType OutputType = iota
)

// String returns a human readable representation of the OutputType.
func (o OutputType) String() string {
	return [...]string{
		"BasicOutputType",
	}[o]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputID /////////////////////////////////////////////////////////////////////////////////////////////////////

// OutputIDLength contains the amount of bytes that a marshaled version of the OutputID contains.
const OutputIDLength = TransactionIDLength + marshalutil.Uint16Size

// OutputID is the data type that represents the identifier of an Output (which consists of a TransactionID and the
// index of the Output in the Transaction that created it).
type OutputID [OutputIDLength]byte

// EmptyOutputID represents the zero-value of an OutputID.
var EmptyOutputID OutputID

// NewOutputID is the constructor for the OutputID.
func NewOutputID(transactionID TransactionID, outputIndex uint16) (outputID OutputID) {
	if outputIndex >= MaxOutputCount {
		panic(fmt.Sprintf("output index exceeds threshold defined by MaxOutputCount (%d)", MaxOutputCount))
	}

	copy(outputID[:TransactionIDLength], transactionID.Bytes())
	binary.LittleEndian.PutUint16(outputID[TransactionIDLength:], outputIndex)

	return
}

// OutputIDFromBytes unmarshals an OutputID from a sequence of bytes.
func OutputIDFromBytes(data []byte) (outputID OutputID, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if outputID, err = OutputIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse OutputID from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// OutputIDFromBase58 creates an OutputID from a base58 encoded string.
func OutputIDFromBase58(base58String string) (outputID OutputID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = errors.Errorf("error while decoding base58 encoded OutputID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if outputID, _, err = OutputIDFromBytes(decodedBytes); err != nil {
		err = errors.Errorf("failed to parse OutputID from bytes: %w", err)
		return
	}

	return
}

// OutputIDFromMarshalUtil unmarshals an OutputID using a MarshalUtil (for easier unmarshaling).
func OutputIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (outputID OutputID, err error) {
	outputIDBytes, err := marshalUtil.ReadBytes(OutputIDLength)
	if err != nil {
		err = errors.Errorf("failed to parse OutputID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(outputID[:], outputIDBytes)

	if outputID.OutputIndex() >= MaxOutputCount {
		err = errors.Errorf("output index exceeds threshold defined by MaxOutputCount (%d): %w", MaxOutputCount, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// TransactionID returns the TransactionID part of an OutputID.
func (o OutputID) TransactionID() (transactionID TransactionID) {
	copy(transactionID[:], o[:TransactionIDLength])

	return
}

// OutputIndex returns the Output index part of an OutputID.
func (o OutputID) OutputIndex() uint16 {
	return binary.LittleEndian.Uint16(o[TransactionIDLength:])
}

// Compare offers a comparator for OutputIDs which returns -1 if the other OutputID is bigger, 1 if it is smaller and 0
// if they are the same.
func (o OutputID) Compare(other OutputID) int {
	return bytes.Compare(o[:], other[:])
}

// Bytes marshals the OutputID into a sequence of bytes.
func (o OutputID) Bytes() []byte {
	return o[:]
}

// Base58 returns a base58 encoded version of the OutputID.
func (o OutputID) Base58() string {
	return base58.Encode(o[:])
}

// String creates a human readable version of the OutputID.
func (o OutputID) String() string {
	return stringify.Struct("OutputID",
		stringify.StructField("transactionID", o.TransactionID()),
		stringify.StructField("outputIndex", o.OutputIndex()),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Output ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Output is a generic interface for the different types of Outputs (with different unlock behaviors).
type Output interface {
	// ID returns the identifier of the Output that is used to address the Output in the ledger.
	ID() OutputID

	// SetID allows to set the identifier of the Output. We offer a setter for the property since Outputs that are
	// created to become part of a transaction usually do not have an identifier, yet as their identifier depends on
	// the TransactionID that is only determinable after the Transaction has been fully constructed.
	SetID(outputID OutputID) Output

	// Type returns the OutputType which allows us to generically handle Outputs of different types.
	Type() OutputType

	// Amount returns the amount of base tokens that are associated with the Output.
	Amount() uint64

	// Mana returns the amount of stored mana that is associated with the Output.
	Mana() uint64

	// NativeTokens returns the user defined token balances that are associated with the Output.
	NativeTokens() *NativeTokenBalances

	// UnlockConditions returns the conditions that restrict the spendability of the Output.
	UnlockConditions() UnlockConditions

	// Features returns the metadata obligations that the transaction creating the Output has to honor.
	Features() Features

	// Input returns an Input that references the Output.
	Input() Input

	// Clone creates a copy of the Output.
	Clone() Output

	// Bytes returns a marshaled version of the Output.
	Bytes() []byte

	// String returns a human readable version of the Output for debug purposes.
	String() string

	// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0
	// if they are the same.
	Compare(other Output) int
}

// OutputFromBytes unmarshals an Output from a sequence of bytes.
func OutputFromBytes(data []byte) (output Output, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = OutputFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Output from MarshalUtil: %w", err)
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// OutputFromMarshalUtil unmarshals an Output using a MarshalUtil (for easier unmarshaling).
func OutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (output Output, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch OutputType(outputType) {
	case BasicOutputType:
		if output, err = BasicOutputFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse BasicOutput: %w", err)
			return
		}
	default:
		err = errors.Errorf("unsupported OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Outputs //////////////////////////////////////////////////////////////////////////////////////////////////////

// Outputs represents a list of Outputs that can be used in a Transaction. The order of the Outputs is preserved since
// it defines the output index that newly created Outputs are addressed by.
type Outputs []Output

// NewOutputs returns a collection of Outputs in the given order.
func NewOutputs(optionalOutputs ...Output) (outputs Outputs) {
	if len(optionalOutputs) < MinOutputCount {
		panic(fmt.Sprintf("amount of Outputs (%d) failed to reach MinOutputCount (%d)", len(optionalOutputs), MinOutputCount))
	}
	if len(optionalOutputs) > MaxOutputCount {
		panic(fmt.Sprintf("amount of Outputs (%d) exceeds MaxOutputCount (%d)", len(optionalOutputs), MaxOutputCount))
	}

	outputs = make(Outputs, len(optionalOutputs))
	copy(outputs, optionalOutputs)

	return
}

// OutputsFromMarshalUtil unmarshals a collection of Outputs using a MarshalUtil (for easier unmarshaling).
func OutputsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (outputs Outputs, err error) {
	outputsCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = errors.Errorf("failed to parse outputs count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if outputsCount < MinOutputCount {
		err = errors.Errorf("amount of Outputs (%d) failed to reach MinOutputCount (%d): %w", outputsCount, MinOutputCount, cerrors.ErrParseBytesFailed)
		return
	}
	if outputsCount > MaxOutputCount {
		err = errors.Errorf("amount of Outputs (%d) exceeds MaxOutputCount (%d): %w", outputsCount, MaxOutputCount, cerrors.ErrParseBytesFailed)
		return
	}

	outputs = make(Outputs, outputsCount)
	for i := uint16(0); i < outputsCount; i++ {
		if outputs[i], err = OutputFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse Output from MarshalUtil: %w", err)
			return
		}
	}

	return
}

// Inputs returns the Inputs that reference the Outputs.
func (o Outputs) Inputs() Inputs {
	inputs := make([]Input, len(o))
	for i, output := range o {
		inputs[i] = output.Input()
	}

	return NewInputs(inputs...)
}

// ByID returns a map of Outputs where the key is the OutputID.
func (o Outputs) ByID() (outputsByID OutputsByID) {
	outputsByID = make(OutputsByID)
	for _, output := range o {
		outputsByID[output.ID()] = output
	}

	return
}

// TotalAmount returns the sum of the base token amounts of all Outputs in the collection.
func (o Outputs) TotalAmount() (totalAmount uint64) {
	for _, output := range o {
		totalAmount += output.Amount()
	}

	return
}

// Clone creates a copy of the Outputs.
func (o Outputs) Clone() (clonedOutputs Outputs) {
	clonedOutputs = make(Outputs, len(o))
	for i, output := range o {
		clonedOutputs[i] = output.Clone()
	}

	return
}

// Bytes returns a marshaled version of the Outputs.
func (o Outputs) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(o)))
	for _, output := range o {
		marshalUtil.WriteBytes(output.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the Outputs.
func (o Outputs) String() string {
	structBuilder := stringify.StructBuilder("Outputs")
	for i, output := range o {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), output))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputsByID //////////////////////////////////////////////////////////////////////////////////////////////////

// OutputsByID represents a map of Outputs where every Output is stored with its corresponding OutputID as the key.
type OutputsByID map[OutputID]Output

// Outputs returns a list of Outputs from the OutputsByID.
func (o OutputsByID) Outputs() Outputs {
	outputs := make(Outputs, 0, len(o))
	for _, output := range o {
		outputs = append(outputs, output)
	}

	return outputs
}

// Clone creates a copy of the OutputsByID.
func (o OutputsByID) Clone() (clonedOutputs OutputsByID) {
	clonedOutputs = make(OutputsByID)
	for id, output := range o {
		clonedOutputs[id] = output.Clone()
	}

	return
}

// String returns a human readable version of the OutputsByID.
func (o OutputsByID) String() string {
	structBuilder := stringify.StructBuilder("OutputsByID")
	for id, output := range o {
		structBuilder.AddField(stringify.StructField(id.String(), output))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region BasicOutput //////////////////////////////////////////////////////////////////////////////////////////////////

// BasicOutput is an Output that holds an amount of base tokens, an amount of stored mana and optional native token
// balances. Its spendability is restricted by its UnlockConditions.
type BasicOutput struct {
	id               OutputID
	idMutex          sync.RWMutex
	amount           uint64
	mana             uint64
	nativeTokens     *NativeTokenBalances
	unlockConditions UnlockConditions
	features         Features
}

// NewBasicOutput is the constructor for a BasicOutput.
func NewBasicOutput(amount uint64, mana uint64, nativeTokens *NativeTokenBalances, unlockConditions UnlockConditions) *BasicOutput {
	if nativeTokens == nil {
		nativeTokens = NewNativeTokenBalances()
	}

	return &BasicOutput{
		amount:           amount,
		mana:             mana,
		nativeTokens:     nativeTokens,
		unlockConditions: unlockConditions,
	}
}

// NewAddressOutput creates a BasicOutput that is only restricted by an AddressUnlockCondition for the given Address.
func NewAddressOutput(amount uint64, address Address) *BasicOutput {
	return NewBasicOutput(amount, 0, nil, UnlockConditions{NewAddressUnlockCondition(address)})
}

// WithFeatures attaches the given Features to the BasicOutput and returns it for call chaining.
func (b *BasicOutput) WithFeatures(features Features) *BasicOutput {
	b.features = features

	return b
}

// BasicOutputFromBytes unmarshals a BasicOutput from a sequence of bytes.
func BasicOutputFromBytes(data []byte) (output *BasicOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = BasicOutputFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse BasicOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// BasicOutputFromMarshalUtil unmarshals a BasicOutput using a MarshalUtil (for easier unmarshaling).
func BasicOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (output *BasicOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != BasicOutputType {
		err = errors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &BasicOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = errors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.mana, err = marshalUtil.ReadUint64(); err != nil {
		err = errors.Errorf("failed to parse mana (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.nativeTokens, err = NativeTokenBalancesFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse NativeTokenBalances from MarshalUtil: %w", err)
		return
	}
	if output.unlockConditions, err = UnlockConditionsFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse UnlockConditions from MarshalUtil: %w", err)
		return
	}
	if output.features, err = FeaturesFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Features from MarshalUtil: %w", err)
		return
	}

	if output.amount < MinOutputBalance {
		err = errors.Errorf("amount (%d) is smaller than MinOutputBalance (%d): %w", output.amount, MinOutputBalance, cerrors.ErrParseBytesFailed)
		return
	}
	if output.amount > MaxOutputBalance {
		err = errors.Errorf("amount (%d) is bigger than MaxOutputBalance (%d): %w", output.amount, MaxOutputBalance, cerrors.ErrParseBytesFailed)
		return
	}
	if output.unlockConditions.Address() == nil {
		err = errors.Errorf("BasicOutput is missing an AddressUnlockCondition: %w", cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the ledger.
func (b *BasicOutput) ID() OutputID {
	b.idMutex.RLock()
	defer b.idMutex.RUnlock()

	return b.id
}

// SetID allows to set the identifier of the Output. We offer a setter for the property since Outputs that are
// created to become part of a transaction usually do not have an identifier, yet as their identifier depends on
// the TransactionID that is only determinable after the Transaction has been fully constructed.
func (b *BasicOutput) SetID(outputID OutputID) Output {
	b.idMutex.Lock()
	defer b.idMutex.Unlock()

	b.id = outputID

	return b
}

// Type returns the type of the Output which allows us to generically handle Outputs of different types.
func (b *BasicOutput) Type() OutputType {
	return BasicOutputType
}

// Amount returns the amount of base tokens that are associated with the Output.
func (b *BasicOutput) Amount() uint64 {
	return b.amount
}

// Mana returns the amount of stored mana that is associated with the Output.
func (b *BasicOutput) Mana() uint64 {
	return b.mana
}

// NativeTokens returns the user defined token balances that are associated with the Output.
func (b *BasicOutput) NativeTokens() *NativeTokenBalances {
	return b.nativeTokens
}

// UnlockConditions returns the conditions that restrict the spendability of the Output.
func (b *BasicOutput) UnlockConditions() UnlockConditions {
	return b.unlockConditions
}

// Features returns the metadata obligations that the transaction creating the Output has to honor.
func (b *BasicOutput) Features() Features {
	return b.features
}

// Input returns an Input that references the Output.
func (b *BasicOutput) Input() Input {
	if b.ID() == EmptyOutputID {
		panic("Outputs that haven't been assigned an ID yet cannot be converted to an Input")
	}

	return NewUTXOInput(b.ID())
}

// Clone creates a copy of the Output.
func (b *BasicOutput) Clone() Output {
	return &BasicOutput{
		id:               b.id,
		amount:           b.amount,
		mana:             b.mana,
		nativeTokens:     b.nativeTokens.Clone(),
		unlockConditions: b.unlockConditions.Clone(),
		features:         b.features.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (b *BasicOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(BasicOutputType)).
		WriteUint64(b.amount).
		WriteUint64(b.mana).
		WriteBytes(b.nativeTokens.Bytes()).
		WriteBytes(b.unlockConditions.Bytes()).
		WriteBytes(b.features.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (b *BasicOutput) Compare(other Output) int {
	return bytes.Compare(b.Bytes(), other.Bytes())
}

// String returns a human readable version of the Output.
func (b *BasicOutput) String() string {
	return stringify.Struct("BasicOutput",
		stringify.StructField("id", b.ID()),
		stringify.StructField("amount", b.amount),
		stringify.StructField("mana", b.mana),
		stringify.StructField("nativeTokens", b.nativeTokens),
		stringify.StructField("unlockConditions", b.unlockConditions),
		stringify.StructField("features", b.features),
	)
}

// code contract (make sure the type implements all required methods)
var _ Output = &BasicOutput{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
