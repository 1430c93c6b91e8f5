package ledgerstate

import (
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
)

// region UnlockConditionType //////////////////////////////////////////////////////////////////////////////////////////

const (
	// AddressUnlockConditionType represents the type of an AddressUnlockCondition.
	AddressUnlockConditionType UnlockConditionType = iota

	// StorageDepositReturnUnlockConditionType represents the type of a StorageDepositReturnUnlockCondition.
	StorageDepositReturnUnlockConditionType

	// TimelockUnlockConditionType represents the type of a TimelockUnlockCondition.
	TimelockUnlockConditionType

	// ExpirationUnlockConditionType represents the type of an ExpirationUnlockCondition.
	ExpirationUnlockConditionType
)

// UnlockConditionType represents the type of an UnlockCondition. Different types of UnlockConditions impose different
// spending restrictions on the Output that carries them.
type UnlockConditionType uint8

// String returns a human readable representation of the UnlockConditionType.
func (u UnlockConditionType) String() string {
	return [...]string{
		"AddressUnlockConditionType",
		"StorageDepositReturnUnlockConditionType",
		"TimelockUnlockConditionType",
		"ExpirationUnlockConditionType",
	}[u]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnlockCondition //////////////////////////////////////////////////////////////////////////////////////////////

// UnlockCondition is the interface to generically address different kinds of UnlockConditions that restrict the
// spendability of an Output.
type UnlockCondition interface {
	// Type returns the UnlockConditionType of this UnlockCondition.
	Type() UnlockConditionType

	// Bytes returns a marshaled version of this UnlockCondition.
	Bytes() []byte

	// String returns a human readable version of this UnlockCondition.
	String() string
}

// UnlockConditionFromBytes unmarshals an UnlockCondition from a sequence of bytes.
func UnlockConditionFromBytes(data []byte) (unlockCondition UnlockCondition, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if unlockCondition, err = UnlockConditionFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse UnlockCondition from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// UnlockConditionFromMarshalUtil unmarshals an UnlockCondition using a MarshalUtil (for easier unmarshaling).
func UnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition UnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch UnlockConditionType(unlockConditionType) {
	case AddressUnlockConditionType:
		if unlockCondition, err = AddressUnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse AddressUnlockCondition from MarshalUtil: %w", err)
			return
		}
	case StorageDepositReturnUnlockConditionType:
		if unlockCondition, err = StorageDepositReturnUnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse StorageDepositReturnUnlockCondition from MarshalUtil: %w", err)
			return
		}
	case TimelockUnlockConditionType:
		if unlockCondition, err = TimelockUnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse TimelockUnlockCondition from MarshalUtil: %w", err)
			return
		}
	case ExpirationUnlockConditionType:
		if unlockCondition, err = ExpirationUnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse ExpirationUnlockCondition from MarshalUtil: %w", err)
			return
		}
	default:
		err = errors.Errorf("unsupported UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnlockConditions /////////////////////////////////////////////////////////////////////////////////////////////

// UnlockConditions is a collection of UnlockConditions that is sorted by UnlockConditionType and that contains at most
// one UnlockCondition per type.
type UnlockConditions []UnlockCondition

// NewUnlockConditions creates a new collection of UnlockConditions from the given optional conditions. It sorts the
// conditions by type and returns an error if a type occurs more than once.
func NewUnlockConditions(optionalUnlockConditions ...UnlockCondition) (unlockConditions UnlockConditions, err error) {
	seenTypes := make(map[UnlockConditionType]bool)
	for _, unlockCondition := range optionalUnlockConditions {
		if seenTypes[unlockCondition.Type()] {
			err = errors.Errorf("duplicate UnlockCondition of type %s: %w", unlockCondition.Type(), ErrInvalidUnlockConditions)
			return
		}
		seenTypes[unlockCondition.Type()] = true
	}

	unlockConditions = make(UnlockConditions, len(optionalUnlockConditions))
	copy(unlockConditions, optionalUnlockConditions)
	sort.Slice(unlockConditions, func(i, j int) bool {
		return unlockConditions[i].Type() < unlockConditions[j].Type()
	})

	return
}

// UnlockConditionsFromMarshalUtil unmarshals a collection of UnlockConditions using a MarshalUtil (for easier
// unmarshaling).
func UnlockConditionsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockConditions UnlockConditions, err error) {
	unlockConditionsCount, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditions count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	unlockConditions = make(UnlockConditions, unlockConditionsCount)
	for i := uint8(0); i < unlockConditionsCount; i++ {
		if unlockConditions[i], err = UnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse UnlockCondition from MarshalUtil: %w", err)
			return
		}
		if i != 0 && unlockConditions[i].Type() <= unlockConditions[i-1].Type() {
			err = errors.Errorf("UnlockConditions not sorted by unique type: %w", cerrors.ErrParseBytesFailed)
			return
		}
	}

	return
}

// Address returns the AddressUnlockCondition of the collection (or nil if it does not contain one).
func (u UnlockConditions) Address() *AddressUnlockCondition {
	for _, unlockCondition := range u {
		if unlockCondition.Type() == AddressUnlockConditionType {
			return unlockCondition.(*AddressUnlockCondition)
		}
	}

	return nil
}

// StorageDepositReturn returns the StorageDepositReturnUnlockCondition of the collection (or nil if it does not
// contain one).
func (u UnlockConditions) StorageDepositReturn() *StorageDepositReturnUnlockCondition {
	for _, unlockCondition := range u {
		if unlockCondition.Type() == StorageDepositReturnUnlockConditionType {
			return unlockCondition.(*StorageDepositReturnUnlockCondition)
		}
	}

	return nil
}

// Timelock returns the TimelockUnlockCondition of the collection (or nil if it does not contain one).
func (u UnlockConditions) Timelock() *TimelockUnlockCondition {
	for _, unlockCondition := range u {
		if unlockCondition.Type() == TimelockUnlockConditionType {
			return unlockCondition.(*TimelockUnlockCondition)
		}
	}

	return nil
}

// Expiration returns the ExpirationUnlockCondition of the collection (or nil if it does not contain one).
func (u UnlockConditions) Expiration() *ExpirationUnlockCondition {
	for _, unlockCondition := range u {
		if unlockCondition.Type() == ExpirationUnlockConditionType {
			return unlockCondition.(*ExpirationUnlockCondition)
		}
	}

	return nil
}

// TimelockedAt returns true if the Output carrying these conditions can not be consumed at the given SlotIndex because
// of an active TimelockUnlockCondition.
func (u UnlockConditions) TimelockedAt(slotIndex SlotIndex) bool {
	timelock := u.Timelock()

	return timelock != nil && slotIndex < timelock.SlotIndex()
}

// ExpiredAt returns true if the ExpirationUnlockCondition of the Output carrying these conditions has kicked in at the
// given SlotIndex, which hands the Output back to the return Address.
func (u UnlockConditions) ExpiredAt(slotIndex SlotIndex) bool {
	expiration := u.Expiration()

	return expiration != nil && slotIndex >= expiration.SlotIndex()
}

// UnlockAddress returns the Address that is allowed to unlock the Output carrying these conditions at the given
// SlotIndex.
func (u UnlockConditions) UnlockAddress(slotIndex SlotIndex) Address {
	if u.ExpiredAt(slotIndex) {
		return u.Expiration().ReturnAddress()
	}
	if addressUnlockCondition := u.Address(); addressUnlockCondition != nil {
		return addressUnlockCondition.Address()
	}

	return nil
}

// UnlockableBy returns true if the given Address is allowed to unlock the Output carrying these conditions at the
// given SlotIndex.
func (u UnlockConditions) UnlockableBy(address Address, slotIndex SlotIndex) bool {
	if u.TimelockedAt(slotIndex) {
		return false
	}
	unlockAddress := u.UnlockAddress(slotIndex)

	return unlockAddress != nil && unlockAddress.Equals(address)
}

// Clone returns a copy of the UnlockConditions.
func (u UnlockConditions) Clone() (clonedUnlockConditions UnlockConditions) {
	clonedUnlockConditions = make(UnlockConditions, len(u))
	copy(clonedUnlockConditions, u)

	return
}

// Bytes returns a marshaled version of the UnlockConditions.
func (u UnlockConditions) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(uint8(len(u)))
	for _, unlockCondition := range u {
		marshalUtil.WriteBytes(unlockCondition.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the UnlockConditions.
func (u UnlockConditions) String() string {
	structBuilder := stringify.StructBuilder("UnlockConditions")
	for i, unlockCondition := range u {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), unlockCondition))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AddressUnlockCondition ///////////////////////////////////////////////////////////////////////////////////////

// AddressUnlockCondition makes an Output unlockable by the owner of the contained Address.
type AddressUnlockCondition struct {
	address Address
}

// NewAddressUnlockCondition is the constructor for AddressUnlockConditions.
func NewAddressUnlockCondition(address Address) *AddressUnlockCondition {
	return &AddressUnlockCondition{
		address: address,
	}
}

// AddressUnlockConditionFromMarshalUtil unmarshals an AddressUnlockCondition using a MarshalUtil (for easier
// unmarshaling).
func AddressUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *AddressUnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if UnlockConditionType(unlockConditionType) != AddressUnlockConditionType {
		err = errors.Errorf("invalid UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}

	unlockCondition = &AddressUnlockCondition{}
	if unlockCondition.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
		return
	}

	return
}

// Address returns the Address whose owner is allowed to unlock the Output.
func (a *AddressUnlockCondition) Address() Address {
	return a.address
}

// Type returns the UnlockConditionType of this UnlockCondition.
func (a *AddressUnlockCondition) Type() UnlockConditionType {
	return AddressUnlockConditionType
}

// Bytes returns a marshaled version of this UnlockCondition.
func (a *AddressUnlockCondition) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(AddressUnlockConditionType)}, a.address.Bytes())
}

// String returns a human readable version of this UnlockCondition.
func (a *AddressUnlockCondition) String() string {
	return stringify.Struct("AddressUnlockCondition",
		stringify.StructField("address", a.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &AddressUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region StorageDepositReturnUnlockCondition //////////////////////////////////////////////////////////////////////////

// StorageDepositReturnUnlockCondition obliges the consumer of the Output to send back the contained amount of funds to
// the contained return Address in the consuming transaction.
type StorageDepositReturnUnlockCondition struct {
	returnAddress Address
	amount        uint64
}

// NewStorageDepositReturnUnlockCondition is the constructor for StorageDepositReturnUnlockConditions.
func NewStorageDepositReturnUnlockCondition(returnAddress Address, amount uint64) *StorageDepositReturnUnlockCondition {
	return &StorageDepositReturnUnlockCondition{
		returnAddress: returnAddress,
		amount:        amount,
	}
}

// StorageDepositReturnUnlockConditionFromMarshalUtil unmarshals a StorageDepositReturnUnlockCondition using a
// MarshalUtil (for easier unmarshaling).
func StorageDepositReturnUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *StorageDepositReturnUnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if UnlockConditionType(unlockConditionType) != StorageDepositReturnUnlockConditionType {
		err = errors.Errorf("invalid UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}

	unlockCondition = &StorageDepositReturnUnlockCondition{}
	if unlockCondition.returnAddress, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse return Address from MarshalUtil: %w", err)
		return
	}
	if unlockCondition.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = errors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// ReturnAddress returns the Address that the funds have to be sent back to.
func (s *StorageDepositReturnUnlockCondition) ReturnAddress() Address {
	return s.returnAddress
}

// Amount returns the amount of funds that have to be sent back.
func (s *StorageDepositReturnUnlockCondition) Amount() uint64 {
	return s.amount
}

// Type returns the UnlockConditionType of this UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) Type() UnlockConditionType {
	return StorageDepositReturnUnlockConditionType
}

// Bytes returns a marshaled version of this UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(StorageDepositReturnUnlockConditionType)).
		WriteBytes(s.returnAddress.Bytes()).
		WriteUint64(s.amount).
		Bytes()
}

// String returns a human readable version of this UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) String() string {
	return stringify.Struct("StorageDepositReturnUnlockCondition",
		stringify.StructField("returnAddress", s.returnAddress),
		stringify.StructField("amount", s.amount),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &StorageDepositReturnUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TimelockUnlockCondition //////////////////////////////////////////////////////////////////////////////////////

// TimelockUnlockCondition makes an Output unspendable until the contained SlotIndex is reached.
type TimelockUnlockCondition struct {
	slotIndex SlotIndex
}

// NewTimelockUnlockCondition is the constructor for TimelockUnlockConditions.
func NewTimelockUnlockCondition(slotIndex SlotIndex) *TimelockUnlockCondition {
	return &TimelockUnlockCondition{
		slotIndex: slotIndex,
	}
}

// TimelockUnlockConditionFromMarshalUtil unmarshals a TimelockUnlockCondition using a MarshalUtil (for easier
// unmarshaling).
func TimelockUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *TimelockUnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if UnlockConditionType(unlockConditionType) != TimelockUnlockConditionType {
		err = errors.Errorf("invalid UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}

	unlockCondition = &TimelockUnlockCondition{}
	if unlockCondition.slotIndex, err = SlotIndexFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse SlotIndex from MarshalUtil: %w", err)
		return
	}

	return
}

// SlotIndex returns the SlotIndex before which the Output can not be consumed.
func (t *TimelockUnlockCondition) SlotIndex() SlotIndex {
	return t.slotIndex
}

// Type returns the UnlockConditionType of this UnlockCondition.
func (t *TimelockUnlockCondition) Type() UnlockConditionType {
	return TimelockUnlockConditionType
}

// Bytes returns a marshaled version of this UnlockCondition.
func (t *TimelockUnlockCondition) Bytes() []byte {
	return marshalutil.New(1 + marshalutil.Uint32Size).
		WriteByte(byte(TimelockUnlockConditionType)).
		WriteBytes(t.slotIndex.Bytes()).
		Bytes()
}

// String returns a human readable version of this UnlockCondition.
func (t *TimelockUnlockCondition) String() string {
	return stringify.Struct("TimelockUnlockCondition",
		stringify.StructField("slotIndex", t.slotIndex),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &TimelockUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ExpirationUnlockCondition ////////////////////////////////////////////////////////////////////////////////////

// ExpirationUnlockCondition hands an unconsumed Output back to the contained return Address once the contained
// SlotIndex is reached.
type ExpirationUnlockCondition struct {
	returnAddress Address
	slotIndex     SlotIndex
}

// NewExpirationUnlockCondition is the constructor for ExpirationUnlockConditions.
func NewExpirationUnlockCondition(returnAddress Address, slotIndex SlotIndex) *ExpirationUnlockCondition {
	return &ExpirationUnlockCondition{
		returnAddress: returnAddress,
		slotIndex:     slotIndex,
	}
}

// ExpirationUnlockConditionFromMarshalUtil unmarshals an ExpirationUnlockCondition using a MarshalUtil (for easier
// unmarshaling).
func ExpirationUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *ExpirationUnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if UnlockConditionType(unlockConditionType) != ExpirationUnlockConditionType {
		err = errors.Errorf("invalid UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}

	unlockCondition = &ExpirationUnlockCondition{}
	if unlockCondition.returnAddress, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse return Address from MarshalUtil: %w", err)
		return
	}
	if unlockCondition.slotIndex, err = SlotIndexFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse SlotIndex from MarshalUtil: %w", err)
		return
	}

	return
}

// ReturnAddress returns the Address that the Output is handed back to once the expiration SlotIndex is reached.
func (e *ExpirationUnlockCondition) ReturnAddress() Address {
	return e.returnAddress
}

// SlotIndex returns the SlotIndex at which the Output is handed back to the return Address.
func (e *ExpirationUnlockCondition) SlotIndex() SlotIndex {
	return e.slotIndex
}

// Type returns the UnlockConditionType of this UnlockCondition.
func (e *ExpirationUnlockCondition) Type() UnlockConditionType {
	return ExpirationUnlockConditionType
}

// Bytes returns a marshaled version of this UnlockCondition.
func (e *ExpirationUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(ExpirationUnlockConditionType)).
		WriteBytes(e.returnAddress.Bytes()).
		WriteBytes(e.slotIndex.Bytes()).
		Bytes()
}

// String returns a human readable version of this UnlockCondition.
func (e *ExpirationUnlockCondition) String() string {
	return stringify.Struct("ExpirationUnlockCondition",
		stringify.StructField("returnAddress", e.returnAddress),
		stringify.StructField("slotIndex", e.slotIndex),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &ExpirationUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
