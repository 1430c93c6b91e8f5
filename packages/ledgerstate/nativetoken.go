package ledgerstate

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
)

// region TokenID //////////////////////////////////////////////////////////////////////////////////////////////////////

// TokenIDLength represents the length of a TokenID (amount of bytes).
const TokenIDLength = 38

// TokenID identifies a class of user defined tokens that can travel alongside the base token in an Output.
type TokenID [TokenIDLength]byte

// TokenIDFromBytes unmarshals a TokenID from a sequence of bytes.
func TokenIDFromBytes(data []byte) (tokenID TokenID, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if tokenID, err = TokenIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse TokenID from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TokenIDFromBase58EncodedString creates a TokenID from a base58 encoded string.
func TokenIDFromBase58EncodedString(base58String string) (tokenID TokenID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = errors.Errorf("error while decoding base58 encoded TokenID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if tokenID, _, err = TokenIDFromBytes(decodedBytes); err != nil {
		err = errors.Errorf("failed to parse TokenID from bytes: %w", err)
		return
	}

	return
}

// TokenIDFromMarshalUtil unmarshals a TokenID using a MarshalUtil (for easier unmarshaling).
func TokenIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (tokenID TokenID, err error) {
	tokenIDBytes, err := marshalUtil.ReadBytes(TokenIDLength)
	if err != nil {
		err = errors.Errorf("failed to parse TokenID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(tokenID[:], tokenIDBytes)

	return
}

// Compare offers a comparator for TokenIDs which returns -1 if otherTokenID is bigger, 1 if it is smaller and 0 if they
// are the same.
func (t TokenID) Compare(otherTokenID TokenID) int {
	return bytes.Compare(t[:], otherTokenID[:])
}

// Bytes marshals the TokenID into a sequence of bytes.
func (t TokenID) Bytes() []byte {
	return t[:]
}

// Base58 returns a base58 encoded version of the TokenID.
func (t TokenID) Base58() string {
	return base58.Encode(t[:])
}

// String creates a human readable version of the TokenID.
func (t TokenID) String() string {
	return "TokenID(" + t.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NativeTokenBalances //////////////////////////////////////////////////////////////////////////////////////////

// nativeTokenBalance is an entry of NativeTokenBalances that ties an amount to a TokenID.
type nativeTokenBalance struct {
	tokenID TokenID
	amount  *big.Int
}

// NativeTokenBalances represents a collection of user defined token balances that is kept sorted by TokenID and that
// contains at most one entry per TokenID.
type NativeTokenBalances struct {
	balances []nativeTokenBalance
}

// NewNativeTokenBalances returns an empty collection of NativeTokenBalances.
func NewNativeTokenBalances() *NativeTokenBalances {
	return &NativeTokenBalances{}
}

// NativeTokenBalancesFromMarshalUtil unmarshals NativeTokenBalances using a MarshalUtil (for easier unmarshaling).
func NativeTokenBalancesFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (balances *NativeTokenBalances, err error) {
	balances = NewNativeTokenBalances()

	balancesCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = errors.Errorf("failed to parse native token balances count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	var previousTokenID TokenID
	for i := uint16(0); i < balancesCount; i++ {
		tokenID, tokenIDErr := TokenIDFromMarshalUtil(marshalUtil)
		if tokenIDErr != nil {
			err = errors.Errorf("failed to parse TokenID from MarshalUtil: %w", tokenIDErr)
			return
		}
		if i != 0 && tokenID.Compare(previousTokenID) <= 0 {
			err = errors.Errorf("native token balances not sorted by unique TokenID: %w", cerrors.ErrParseBytesFailed)
			return
		}
		previousTokenID = tokenID

		amountBytes, amountErr := marshalUtil.ReadBytes(NativeTokenAmountLength)
		if amountErr != nil {
			err = errors.Errorf("failed to parse native token amount (%v): %w", amountErr, cerrors.ErrParseBytesFailed)
			return
		}
		amount := new(big.Int).SetBytes(amountBytes)
		if amount.Sign() == 0 {
			err = errors.Errorf("native token balance must not be zero: %w", cerrors.ErrParseBytesFailed)
			return
		}

		balances.balances = append(balances.balances, nativeTokenBalance{tokenID: tokenID, amount: amount})
	}

	return
}

// NativeTokenAmountLength represents the serialized length of a single native token amount (a big endian unsigned
// 256 bit integer).
const NativeTokenAmountLength = 32

// Set sets the balance of the given TokenID. Setting a zero amount removes the TokenID from the collection.
func (n *NativeTokenBalances) Set(tokenID TokenID, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		n.Delete(tokenID)
		return
	}

	i := sort.Search(len(n.balances), func(i int) bool {
		return n.balances[i].tokenID.Compare(tokenID) >= 0
	})
	if i < len(n.balances) && n.balances[i].tokenID == tokenID {
		n.balances[i].amount = new(big.Int).Set(amount)
		return
	}

	n.balances = append(n.balances, nativeTokenBalance{})
	copy(n.balances[i+1:], n.balances[i:])
	n.balances[i] = nativeTokenBalance{tokenID: tokenID, amount: new(big.Int).Set(amount)}
}

// Add adds the given amount to the balance of the given TokenID.
func (n *NativeTokenBalances) Add(tokenID TokenID, amount *big.Int) {
	currentAmount, exists := n.Get(tokenID)
	if !exists {
		n.Set(tokenID, amount)
		return
	}

	n.Set(tokenID, new(big.Int).Add(currentAmount, amount))
}

// Sub subtracts the given amount from the balance of the given TokenID. It returns false if the resulting balance
// would be negative, in which case the collection stays unchanged.
func (n *NativeTokenBalances) Sub(tokenID TokenID, amount *big.Int) (success bool) {
	currentAmount, exists := n.Get(tokenID)
	if !exists {
		return amount.Sign() == 0
	}

	newAmount := new(big.Int).Sub(currentAmount, amount)
	if newAmount.Sign() < 0 {
		return false
	}
	n.Set(tokenID, newAmount)

	return true
}

// Get returns the balance of the given TokenID and a boolean value indicating if the requested TokenID existed.
func (n *NativeTokenBalances) Get(tokenID TokenID) (amount *big.Int, exists bool) {
	i := sort.Search(len(n.balances), func(i int) bool {
		return n.balances[i].tokenID.Compare(tokenID) >= 0
	})
	if i < len(n.balances) && n.balances[i].tokenID == tokenID {
		return new(big.Int).Set(n.balances[i].amount), true
	}

	return nil, false
}

// Delete removes the given TokenID from the collection and returns true if it was removed.
func (n *NativeTokenBalances) Delete(tokenID TokenID) (deleted bool) {
	i := sort.Search(len(n.balances), func(i int) bool {
		return n.balances[i].tokenID.Compare(tokenID) >= 0
	})
	if i < len(n.balances) && n.balances[i].tokenID == tokenID {
		n.balances = append(n.balances[:i], n.balances[i+1:]...)
		return true
	}

	return false
}

// ForEach calls the consumer for each element in the collection (in ascending TokenID order) and aborts the iteration
// if the consumer returns false.
func (n *NativeTokenBalances) ForEach(consumer func(tokenID TokenID, amount *big.Int) bool) {
	for _, balance := range n.balances {
		if !consumer(balance.tokenID, new(big.Int).Set(balance.amount)) {
			return
		}
	}
}

// Size returns the amount of individual balances in the NativeTokenBalances.
func (n *NativeTokenBalances) Size() int {
	return len(n.balances)
}

// Clone returns a deep copy of the NativeTokenBalances.
func (n *NativeTokenBalances) Clone() (clonedBalances *NativeTokenBalances) {
	clonedBalances = NewNativeTokenBalances()
	clonedBalances.balances = make([]nativeTokenBalance, len(n.balances))
	for i, balance := range n.balances {
		clonedBalances.balances[i] = nativeTokenBalance{tokenID: balance.tokenID, amount: new(big.Int).Set(balance.amount)}
	}

	return
}

// Equals returns true if the two collections contain the same balances.
func (n *NativeTokenBalances) Equals(other *NativeTokenBalances) bool {
	if n.Size() != other.Size() {
		return false
	}
	for i, balance := range n.balances {
		if balance.tokenID != other.balances[i].tokenID || balance.amount.Cmp(other.balances[i].amount) != 0 {
			return false
		}
	}

	return true
}

// Bytes returns a marshaled version of the NativeTokenBalances.
func (n *NativeTokenBalances) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(n.balances)))
	for _, balance := range n.balances {
		marshalUtil.WriteBytes(balance.tokenID.Bytes())
		amountBytes := make([]byte, NativeTokenAmountLength)
		balance.amount.FillBytes(amountBytes)
		marshalUtil.WriteBytes(amountBytes)
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the NativeTokenBalances.
func (n *NativeTokenBalances) String() string {
	structBuilder := stringify.StructBuilder("NativeTokenBalances")
	for _, balance := range n.balances {
		structBuilder.AddField(stringify.StructField(balance.tokenID.Base58(), balance.amount.String()))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
