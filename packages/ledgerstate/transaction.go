package ledgerstate

import (
	"crypto/rand"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// region TransactionID ////////////////////////////////////////////////////////////////////////////////////////////////

// TransactionIDLength contains the amount of bytes that a marshaled version of the ID contains.
const TransactionIDLength = 32

// TransactionID is the type that represents the identifier of a Transaction.
type TransactionID [TransactionIDLength]byte

// GenesisTransactionID represents the identifier of the genesis Transaction.
var GenesisTransactionID TransactionID

// TransactionIDFromBytes unmarshals a TransactionID from a sequence of bytes.
func TransactionIDFromBytes(data []byte) (transactionID TransactionID, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if transactionID, err = TransactionIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse TransactionID from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TransactionIDFromBase58 creates a TransactionID from a base58 encoded string.
func TransactionIDFromBase58(base58String string) (transactionID TransactionID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = errors.Errorf("error while decoding base58 encoded TransactionID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if transactionID, _, err = TransactionIDFromBytes(decodedBytes); err != nil {
		err = errors.Errorf("failed to parse TransactionID from bytes: %w", err)
		return
	}

	return
}

// TransactionIDFromMarshalUtil unmarshals a TransactionID using a MarshalUtil (for easier unmarshaling).
func TransactionIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (transactionID TransactionID, err error) {
	transactionIDBytes, err := marshalUtil.ReadBytes(TransactionIDLength)
	if err != nil {
		err = errors.Errorf("failed to parse TransactionID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(transactionID[:], transactionIDBytes)

	return
}

// TransactionIDFromRandomness returns a random TransactionID which can for example be used in unit tests.
func TransactionIDFromRandomness() (transactionID TransactionID, err error) {
	_, err = rand.Read(transactionID[:])

	return
}

// Bytes returns a marshaled version of the TransactionID.
func (i TransactionID) Bytes() []byte {
	return i[:]
}

// Base58 returns a base58 encoded version of the TransactionID.
func (i TransactionID) Base58() string {
	return base58.Encode(i[:])
}

// String creates a human readable version of the TransactionID.
func (i TransactionID) String() string {
	return "TransactionID(" + i.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AccountID ////////////////////////////////////////////////////////////////////////////////////////////////////

// AccountIDLength contains the amount of bytes that a marshaled version of the AccountID contains.
const AccountIDLength = 32

// AccountID identifies an account that mana can be allotted to in a Transaction.
type AccountID [AccountIDLength]byte

// AccountIDFromMarshalUtil unmarshals an AccountID using a MarshalUtil (for easier unmarshaling).
func AccountIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (accountID AccountID, err error) {
	accountIDBytes, err := marshalUtil.ReadBytes(AccountIDLength)
	if err != nil {
		err = errors.Errorf("failed to parse AccountID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(accountID[:], accountIDBytes)

	return
}

// Bytes returns a marshaled version of the AccountID.
func (a AccountID) Bytes() []byte {
	return a[:]
}

// Base58 returns a base58 encoded version of the AccountID.
func (a AccountID) Base58() string {
	return base58.Encode(a[:])
}

// String creates a human readable version of the AccountID.
func (a AccountID) String() string {
	return "AccountID(" + a.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ManaAllotments ///////////////////////////////////////////////////////////////////////////////////////////////

// ManaAllotments maps AccountIDs to the amount of mana that a Transaction allots to them. It is serialized in
// ascending AccountID order.
type ManaAllotments map[AccountID]uint64

// ManaAllotmentsFromMarshalUtil unmarshals ManaAllotments using a MarshalUtil (for easier unmarshaling).
func ManaAllotmentsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (allotments ManaAllotments, err error) {
	allotmentsCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = errors.Errorf("failed to parse allotments count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	allotments = make(ManaAllotments)
	for i := uint16(0); i < allotmentsCount; i++ {
		accountID, accountIDErr := AccountIDFromMarshalUtil(marshalUtil)
		if accountIDErr != nil {
			err = errors.Errorf("failed to parse AccountID from MarshalUtil: %w", accountIDErr)
			return
		}
		if _, exists := allotments[accountID]; exists {
			err = errors.Errorf("duplicate allotment for AccountID %s: %w", accountID, cerrors.ErrParseBytesFailed)
			return
		}

		if allotments[accountID], err = marshalUtil.ReadUint64(); err != nil {
			err = errors.Errorf("failed to parse allotted mana (%v): %w", err, cerrors.ErrParseBytesFailed)
			return
		}
	}

	return
}

// Total returns the sum of all allotted mana.
func (m ManaAllotments) Total() (total uint64) {
	for _, mana := range m {
		total += mana
	}

	return
}

// Clone creates a copy of the ManaAllotments.
func (m ManaAllotments) Clone() (clonedAllotments ManaAllotments) {
	clonedAllotments = make(ManaAllotments)
	for accountID, mana := range m {
		clonedAllotments[accountID] = mana
	}

	return
}

// sortedAccountIDs returns the AccountIDs of the ManaAllotments in ascending order.
func (m ManaAllotments) sortedAccountIDs() (accountIDs []AccountID) {
	accountIDs = make([]AccountID, 0, len(m))
	for accountID := range m {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Slice(accountIDs, func(i, j int) bool {
		return string(accountIDs[i][:]) < string(accountIDs[j][:])
	})

	return
}

// Bytes returns a marshaled version of the ManaAllotments.
func (m ManaAllotments) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(m)))
	for _, accountID := range m.sortedAccountIDs() {
		marshalUtil.WriteBytes(accountID.Bytes())
		marshalUtil.WriteUint64(m[accountID])
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the ManaAllotments.
func (m ManaAllotments) String() string {
	structBuilder := stringify.StructBuilder("ManaAllotments")
	for _, accountID := range m.sortedAccountIDs() {
		structBuilder.AddField(stringify.StructField(accountID.Base58(), m[accountID]))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TransactionEssence ///////////////////////////////////////////////////////////////////////////////////////////

// TransactionEssence contains the transfer related information of the Transaction (without the unlocking details).
type TransactionEssence struct {
	version      TransactionEssenceVersion
	creationSlot SlotIndex
	inputs       Inputs
	outputs      Outputs
	allotments   ManaAllotments
}

// NewTransactionEssence creates a new TransactionEssence from the given details.
func NewTransactionEssence(version TransactionEssenceVersion, creationSlot SlotIndex, inputs Inputs, outputs Outputs, allotments ManaAllotments) *TransactionEssence {
	if allotments == nil {
		allotments = make(ManaAllotments)
	}

	return &TransactionEssence{
		version:      version,
		creationSlot: creationSlot,
		inputs:       inputs,
		outputs:      outputs,
		allotments:   allotments,
	}
}

// TransactionEssenceFromBytes unmarshals a TransactionEssence from a sequence of bytes.
func TransactionEssenceFromBytes(data []byte) (transactionEssence *TransactionEssence, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if transactionEssence, err = TransactionEssenceFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse TransactionEssence from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TransactionEssenceFromMarshalUtil unmarshals a TransactionEssence using a MarshalUtil (for easier unmarshaling).
func TransactionEssenceFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (transactionEssence *TransactionEssence, err error) {
	transactionEssence = &TransactionEssence{}
	if transactionEssence.version, err = TransactionEssenceVersionFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse TransactionEssenceVersion from MarshalUtil: %w", err)
		return
	}
	if transactionEssence.creationSlot, err = SlotIndexFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse creation SlotIndex from MarshalUtil: %w", err)
		return
	}
	if transactionEssence.inputs, err = InputsFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Inputs from MarshalUtil: %w", err)
		return
	}
	if transactionEssence.outputs, err = OutputsFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Outputs from MarshalUtil: %w", err)
		return
	}
	if transactionEssence.allotments, err = ManaAllotmentsFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse ManaAllotments from MarshalUtil: %w", err)
		return
	}

	return
}

// Version returns the TransactionEssenceVersion of the TransactionEssence.
func (t *TransactionEssence) Version() TransactionEssenceVersion {
	return t.version
}

// CreationSlot returns the SlotIndex at which the TransactionEssence was created.
func (t *TransactionEssence) CreationSlot() SlotIndex {
	return t.creationSlot
}

// Inputs returns the Inputs of the TransactionEssence.
func (t *TransactionEssence) Inputs() Inputs {
	return t.inputs
}

// Outputs returns the Outputs of the TransactionEssence.
func (t *TransactionEssence) Outputs() Outputs {
	return t.outputs
}

// Allotments returns the ManaAllotments of the TransactionEssence.
func (t *TransactionEssence) Allotments() ManaAllotments {
	return t.allotments
}

// Bytes returns a marshaled version of the TransactionEssence.
func (t *TransactionEssence) Bytes() []byte {
	return marshalutil.New().
		WriteBytes(t.version.Bytes()).
		WriteBytes(t.creationSlot.Bytes()).
		WriteBytes(t.inputs.Bytes()).
		WriteBytes(t.outputs.Bytes()).
		WriteBytes(t.allotments.Bytes()).
		Bytes()
}

// String returns a human readable version of the TransactionEssence.
func (t *TransactionEssence) String() string {
	return stringify.Struct("TransactionEssence",
		stringify.StructField("version", t.version),
		stringify.StructField("creationSlot", t.creationSlot),
		stringify.StructField("inputs", t.inputs),
		stringify.StructField("outputs", t.outputs),
		stringify.StructField("allotments", t.allotments),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TransactionEssenceVersion ////////////////////////////////////////////////////////////////////////////////////

// TransactionEssenceVersion represents a version number for the TransactionEssence which can be used to ensure backward
// compatibility if the structure ever needs to get changed.
type TransactionEssenceVersion uint8

// TransactionEssenceVersionFromMarshalUtil unmarshals a TransactionEssenceVersion using a MarshalUtil (for easier
// unmarshaling).
func TransactionEssenceVersionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (version TransactionEssenceVersion, err error) {
	readByte, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse TransactionEssenceVersion (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if readByte != 0 {
		err = errors.Errorf("invalid TransactionEssenceVersion (%d): %w", readByte, cerrors.ErrParseBytesFailed)
		return
	}
	version = TransactionEssenceVersion(readByte)

	return
}

// Bytes returns a marshaled version of the TransactionEssenceVersion.
func (t TransactionEssenceVersion) Bytes() []byte {
	return []byte{byte(t)}
}

// Compare offers a comparator for TransactionEssenceVersions which returns -1 if the other TransactionEssenceVersion
// is bigger, 1 if it is smaller and 0 if they are the same.
func (t TransactionEssenceVersion) Compare(other TransactionEssenceVersion) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	default:
		return 0
	}
}

// String returns a human readable version of the TransactionEssenceVersion.
func (t TransactionEssenceVersion) String() string {
	return "TransactionEssenceVersion(" + strconv.Itoa(int(t)) + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Transaction //////////////////////////////////////////////////////////////////////////////////////////////////

// Transaction represents a signed value transfer in the ledger.
type Transaction struct {
	id           *TransactionID
	idMutex      sync.RWMutex
	essence      *TransactionEssence
	unlockBlocks UnlockBlocks
}

// NewTransaction creates a new Transaction from the given details.
func NewTransaction(essence *TransactionEssence, unlockBlocks UnlockBlocks) *Transaction {
	if len(unlockBlocks) != len(essence.Inputs()) {
		panic(fmt.Sprintf("amount of UnlockBlocks (%d) does not match amount of Inputs (%d)", len(unlockBlocks), len(essence.inputs)))
	}

	return &Transaction{
		essence:      essence,
		unlockBlocks: unlockBlocks,
	}
}

// TransactionFromBytes unmarshals a Transaction from a sequence of bytes.
func TransactionFromBytes(data []byte) (transaction *Transaction, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if transaction, err = TransactionFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Transaction from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TransactionFromMarshalUtil unmarshals a Transaction using a MarshalUtil (for easier unmarshaling).
func TransactionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (transaction *Transaction, err error) {
	transaction = &Transaction{}
	if transaction.essence, err = TransactionEssenceFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse TransactionEssence from MarshalUtil: %w", err)
		return
	}
	if transaction.unlockBlocks, err = UnlockBlocksFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse UnlockBlocks from MarshalUtil: %w", err)
		return
	}

	if len(transaction.unlockBlocks) != len(transaction.essence.Inputs()) {
		err = errors.Errorf("amount of UnlockBlocks (%d) does not match amount of Inputs (%d): %w", len(transaction.unlockBlocks), len(transaction.essence.inputs), cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// ID returns the identifier of the Transaction. Since calculating the TransactionID is a resource intensive operation
// we calculate this value lazy and use double checked locking.
func (t *Transaction) ID() TransactionID {
	t.idMutex.RLock()
	if t.id != nil {
		defer t.idMutex.RUnlock()

		return *t.id
	}

	t.idMutex.RUnlock()
	t.idMutex.Lock()
	defer t.idMutex.Unlock()

	if t.id != nil {
		return *t.id
	}

	idBytes := blake2b.Sum256(t.Bytes())
	id, _, err := TransactionIDFromBytes(idBytes[:])
	if err != nil {
		panic(err)
	}
	t.id = &id

	return id
}

// Essence returns the TransactionEssence of the Transaction.
func (t *Transaction) Essence() *TransactionEssence {
	return t.essence
}

// UnlockBlocks returns the UnlockBlocks of the Transaction.
func (t *Transaction) UnlockBlocks() UnlockBlocks {
	return t.unlockBlocks
}

// Bytes returns a marshaled version of the Transaction.
func (t *Transaction) Bytes() []byte {
	return byteutils.ConcatBytes(t.essence.Bytes(), t.unlockBlocks.Bytes())
}

// String returns a human readable version of the Transaction.
func (t *Transaction) String() string {
	return stringify.Struct("Transaction",
		stringify.StructField("id", t.ID()),
		stringify.StructField("essence", t.Essence()),
		stringify.StructField("unlockBlocks", t.UnlockBlocks()),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
