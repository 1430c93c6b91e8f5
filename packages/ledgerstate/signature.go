package ledgerstate

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/crypto/blake2b"
)

// region ED25519Signature /////////////////////////////////////////////////////////////////////////////////////////////

// ED25519Signature represents a Signature created with the ED25519 signature scheme.
type ED25519Signature struct {
	publicKey ed25519.PublicKey
	signature ed25519.Signature
}

// NewED25519Signature is the constructor of an ED25519Signature.
func NewED25519Signature(publicKey ed25519.PublicKey, signature ed25519.Signature) *ED25519Signature {
	return &ED25519Signature{
		publicKey: publicKey,
		signature: signature,
	}
}

// ED25519SignatureFromBytes unmarshals an ED25519Signature from a sequence of bytes.
func ED25519SignatureFromBytes(bytes []byte) (signature *ED25519Signature, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if signature, err = ED25519SignatureFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse ED25519Signature from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// ED25519SignatureFromMarshalUtil unmarshals an ED25519Signature using a MarshalUtil (for easier unmarshaling).
func ED25519SignatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (signature *ED25519Signature, err error) {
	signature = &ED25519Signature{}

	publicKeyBytes, err := marshalUtil.ReadBytes(ed25519.PublicKeySize)
	if err != nil {
		err = errors.Errorf("failed to parse public key (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(signature.publicKey[:], publicKeyBytes)

	signatureBytes, err := marshalUtil.ReadBytes(ed25519.SignatureSize)
	if err != nil {
		err = errors.Errorf("failed to parse signature (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(signature.signature[:], signatureBytes)

	return
}

// PublicKey returns the public key that the signature was created with.
func (e *ED25519Signature) PublicKey() ed25519.PublicKey {
	return e.publicKey
}

// SignsAddress returns true if the signature was created by the key pair behind the given Address and correctly signs
// the given data.
func (e *ED25519Signature) SignsAddress(address Address, signedData []byte) bool {
	if !IsEd25519Backed(address) {
		return false
	}

	digest := blake2b.Sum256(e.publicKey[:])
	if !bytes.Equal(digest[:], address.Digest()) {
		return false
	}

	return e.publicKey.VerifySignature(signedData, e.signature)
}

// Bytes returns a marshaled version of the Signature.
func (e *ED25519Signature) Bytes() []byte {
	return byteutils.ConcatBytes(e.publicKey[:], e.signature[:])
}

// String returns a human readable version of the Signature for debug purposes.
func (e *ED25519Signature) String() string {
	return stringify.Struct("ED25519Signature",
		stringify.StructField("publicKey", e.publicKey),
		stringify.StructField("signature", e.signature),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
