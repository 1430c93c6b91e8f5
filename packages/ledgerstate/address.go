package ledgerstate

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// region AddressType //////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// ED25519AddressType represents an Address secured by the ED25519 signature scheme.
	ED25519AddressType AddressType = iota

	// ImplicitAccountCreationAddressType represents an Address whose outputs are implicit-account-capable. It is backed
	// by the same ED25519 digest as a regular address but marks the held funds as convertible into an account.
	ImplicitAccountCreationAddressType
)

// AddressLength contains the length of an address (type length = 1, digest length = 32).
const AddressLength = 33

// AddressType represents the type of the Address (different types encode different unlock semantics).
type AddressType byte

// String returns a human readable representation of the AddressType.
func (a AddressType) String() string {
	return [...]string{
		"AddressTypeED25519",
		"AddressTypeImplicitAccountCreation",
	}[a]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Address //////////////////////////////////////////////////////////////////////////////////////////////////////

// Address is an interface for the different kind of Addresses that are supported by the ledger state.
type Address interface {
	// Type returns the AddressType of the Address.
	Type() AddressType

	// Digest returns the hashed version of the Addresses public key.
	Digest() []byte

	// Clone creates a copy of the Address.
	Clone() Address

	// Equals returns true if the two Addresses are equal.
	Equals(other Address) bool

	// Bytes returns a marshaled version of the Address.
	Bytes() []byte

	// Array returns an array of bytes that contains the marshaled version of the Address.
	Array() (array [AddressLength]byte)

	// Base58 returns a base58 encoded version of the Address.
	Base58() string

	// String returns a human readable version of the Address for debug purposes.
	String() string
}

// AddressFromBytes unmarshals an Address from a sequence of bytes.
func AddressFromBytes(bytes []byte) (address Address, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// AddressFromBase58EncodedString creates an Address from a base58 encoded string.
func AddressFromBase58EncodedString(base58String string) (address Address, err error) {
	bytes, err := base58.Decode(base58String)
	if err != nil {
		err = errors.Errorf("error while decoding base58 encoded Address (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if address, _, err = AddressFromBytes(bytes); err != nil {
		err = errors.Errorf("failed to parse Address from bytes: %w", err)
		return
	}

	return
}

// AddressFromMarshalUtil unmarshals an Address using a MarshalUtil (for easier unmarshaling).
func AddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address Address, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch AddressType(addressType) {
	case ED25519AddressType:
		if address, err = ED25519AddressFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse ED25519Address from MarshalUtil: %w", err)
			return
		}
	case ImplicitAccountCreationAddressType:
		if address, err = ImplicitAccountCreationAddressFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse ImplicitAccountCreationAddress from MarshalUtil: %w", err)
			return
		}
	default:
		err = errors.Errorf("unsupported AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// IsEd25519Backed returns true if the given Address is unlockable by a plain ED25519 signature.
func IsEd25519Backed(address Address) bool {
	if address == nil {
		return false
	}

	switch address.Type() {
	case ED25519AddressType, ImplicitAccountCreationAddressType:
		return true
	default:
		return false
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ED25519Address ///////////////////////////////////////////////////////////////////////////////////////////////

// ED25519Address represents an Address that is secured by the ED25519 signature scheme.
type ED25519Address struct {
	digest []byte
}

// NewED25519Address creates a new ED25519Address from the given public key.
func NewED25519Address(publicKey ed25519.PublicKey) *ED25519Address {
	digest := blake2b.Sum256(publicKey[:])

	return &ED25519Address{
		digest: digest[:],
	}
}

// ED25519AddressFromBytes unmarshals an ED25519Address from a sequence of bytes.
func ED25519AddressFromBytes(bytes []byte) (address *ED25519Address, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if address, err = ED25519AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse ED25519Address from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// ED25519AddressFromMarshalUtil is a method that parses an ED25519Address from the given MarshalUtil.
func ED25519AddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address *ED25519Address, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if AddressType(addressType) != ED25519AddressType {
		err = errors.Errorf("invalid AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	address = &ED25519Address{}
	if address.digest, err = marshalUtil.ReadBytes(32); err != nil {
		err = errors.Errorf("error parsing digest (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the AddressType of the Address.
func (e *ED25519Address) Type() AddressType {
	return ED25519AddressType
}

// Digest returns the hashed version of the Addresses public key.
func (e *ED25519Address) Digest() []byte {
	return e.digest
}

// Clone creates a copy of the Address.
func (e *ED25519Address) Clone() Address {
	clonedDigest := make([]byte, len(e.digest))
	copy(clonedDigest, e.digest)

	return &ED25519Address{
		digest: clonedDigest,
	}
}

// Equals returns true if the two Addresses are equal.
func (e *ED25519Address) Equals(other Address) bool {
	return e.Type() == other.Type() && bytes.Equal(e.digest, other.Digest())
}

// Bytes returns a marshaled version of the Address.
func (e *ED25519Address) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(ED25519AddressType)}, e.digest)
}

// Array returns an array of bytes that contains the marshaled version of the Address.
func (e *ED25519Address) Array() (array [AddressLength]byte) {
	copy(array[:], e.Bytes())

	return
}

// Base58 returns a base58 encoded version of the address.
func (e *ED25519Address) Base58() string {
	return base58.Encode(e.Bytes())
}

// String returns a human readable version of the addresses for debug purposes.
func (e *ED25519Address) String() string {
	return stringify.Struct("ED25519Address",
		stringify.StructField("Digest", e.Digest()),
		stringify.StructField("Base58", e.Base58()),
	)
}

// code contract (make sure the struct implements all required methods)
var _ Address = &ED25519Address{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ImplicitAccountCreationAddress ///////////////////////////////////////////////////////////////////////////////

// ImplicitAccountCreationAddress represents an Address whose outputs can later be turned into an account. It unlocks
// with a plain ED25519 signature just like an ED25519Address.
type ImplicitAccountCreationAddress struct {
	digest []byte
}

// NewImplicitAccountCreationAddress creates a new ImplicitAccountCreationAddress from the given public key.
func NewImplicitAccountCreationAddress(publicKey ed25519.PublicKey) *ImplicitAccountCreationAddress {
	digest := blake2b.Sum256(publicKey[:])

	return &ImplicitAccountCreationAddress{
		digest: digest[:],
	}
}

// ImplicitAccountCreationAddressFromMarshalUtil parses an ImplicitAccountCreationAddress from the given MarshalUtil.
func ImplicitAccountCreationAddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address *ImplicitAccountCreationAddress, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if AddressType(addressType) != ImplicitAccountCreationAddressType {
		err = errors.Errorf("invalid AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	address = &ImplicitAccountCreationAddress{}
	if address.digest, err = marshalUtil.ReadBytes(32); err != nil {
		err = errors.Errorf("error parsing digest (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the AddressType of the Address.
func (i *ImplicitAccountCreationAddress) Type() AddressType {
	return ImplicitAccountCreationAddressType
}

// Digest returns the hashed version of the Addresses public key.
func (i *ImplicitAccountCreationAddress) Digest() []byte {
	return i.digest
}

// Clone creates a copy of the Address.
func (i *ImplicitAccountCreationAddress) Clone() Address {
	clonedDigest := make([]byte, len(i.digest))
	copy(clonedDigest, i.digest)

	return &ImplicitAccountCreationAddress{
		digest: clonedDigest,
	}
}

// Equals returns true if the two Addresses are equal.
func (i *ImplicitAccountCreationAddress) Equals(other Address) bool {
	return i.Type() == other.Type() && bytes.Equal(i.digest, other.Digest())
}

// Bytes returns a marshaled version of the Address.
func (i *ImplicitAccountCreationAddress) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(ImplicitAccountCreationAddressType)}, i.digest)
}

// Array returns an array of bytes that contains the marshaled version of the Address.
func (i *ImplicitAccountCreationAddress) Array() (array [AddressLength]byte) {
	copy(array[:], i.Bytes())

	return
}

// Base58 returns a base58 encoded version of the address.
func (i *ImplicitAccountCreationAddress) Base58() string {
	return base58.Encode(i.Bytes())
}

// String returns a human readable version of the addresses for debug purposes.
func (i *ImplicitAccountCreationAddress) String() string {
	return stringify.Struct("ImplicitAccountCreationAddress",
		stringify.StructField("Digest", i.Digest()),
		stringify.StructField("Base58", i.Base58()),
	)
}

// code contract (make sure the struct implements all required methods)
var _ Address = &ImplicitAccountCreationAddress{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
