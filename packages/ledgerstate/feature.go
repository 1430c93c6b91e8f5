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

// region FeatureType //////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// SenderFeatureType represents the type of a SenderFeature.
	SenderFeatureType FeatureType = iota

	// IssuerFeatureType represents the type of an IssuerFeature.
	IssuerFeatureType
)

// FeatureType represents the type of a Feature. Features attach additional metadata obligations to an Output that the
// transaction creating it has to honor.
type FeatureType uint8

// String returns a human readable representation of the FeatureType.
func (f FeatureType) String() string {
	return [...]string{
		"SenderFeatureType",
		"IssuerFeatureType",
	}[f]
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Feature //////////////////////////////////////////////////////////////////////////////////////////////////////

// Feature is the interface to generically address different kinds of Features of an Output.
type Feature interface {
	// Type returns the FeatureType of this Feature.
	Type() FeatureType

	// Address returns the Address that this Feature obliges the creating transaction to prove control over.
	Address() Address

	// Bytes returns a marshaled version of this Feature.
	Bytes() []byte

	// String returns a human readable version of this Feature.
	String() string
}

// FeatureFromMarshalUtil unmarshals a Feature using a MarshalUtil (for easier unmarshaling).
func FeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature Feature, err error) {
	featureType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse FeatureType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch FeatureType(featureType) {
	case SenderFeatureType:
		if feature, err = SenderFeatureFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse SenderFeature from MarshalUtil: %w", err)
			return
		}
	case IssuerFeatureType:
		if feature, err = IssuerFeatureFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse IssuerFeature from MarshalUtil: %w", err)
			return
		}
	default:
		err = errors.Errorf("unsupported FeatureType (%X): %w", featureType, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Features /////////////////////////////////////////////////////////////////////////////////////////////////////

// Features is a collection of Features that is sorted by FeatureType and that contains at most one Feature per type.
type Features []Feature

// NewFeatures creates a new collection of Features from the given optional features. It sorts the features by type and
// returns an error if a type occurs more than once.
func NewFeatures(optionalFeatures ...Feature) (features Features, err error) {
	seenTypes := make(map[FeatureType]bool)
	for _, feature := range optionalFeatures {
		if seenTypes[feature.Type()] {
			err = errors.Errorf("duplicate Feature of type %s: %w", feature.Type(), ErrOutputInvalid)
			return
		}
		seenTypes[feature.Type()] = true
	}

	features = make(Features, len(optionalFeatures))
	copy(features, optionalFeatures)
	sort.Slice(features, func(i, j int) bool {
		return features[i].Type() < features[j].Type()
	})

	return
}

// FeaturesFromMarshalUtil unmarshals a collection of Features using a MarshalUtil (for easier unmarshaling).
func FeaturesFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (features Features, err error) {
	featuresCount, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse Features count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	features = make(Features, featuresCount)
	for i := uint8(0); i < featuresCount; i++ {
		if features[i], err = FeatureFromMarshalUtil(marshalUtil); err != nil {
			err = errors.Errorf("failed to parse Feature from MarshalUtil: %w", err)
			return
		}
		if i != 0 && features[i].Type() <= features[i-1].Type() {
			err = errors.Errorf("Features not sorted by unique type: %w", cerrors.ErrParseBytesFailed)
			return
		}
	}

	return
}

// Sender returns the SenderFeature of the collection (or nil if it does not contain one).
func (f Features) Sender() *SenderFeature {
	for _, feature := range f {
		if feature.Type() == SenderFeatureType {
			return feature.(*SenderFeature)
		}
	}

	return nil
}

// Issuer returns the IssuerFeature of the collection (or nil if it does not contain one).
func (f Features) Issuer() *IssuerFeature {
	for _, feature := range f {
		if feature.Type() == IssuerFeatureType {
			return feature.(*IssuerFeature)
		}
	}

	return nil
}

// Clone returns a copy of the Features.
func (f Features) Clone() (clonedFeatures Features) {
	clonedFeatures = make(Features, len(f))
	copy(clonedFeatures, f)

	return
}

// Bytes returns a marshaled version of the Features.
func (f Features) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(uint8(len(f)))
	for _, feature := range f {
		marshalUtil.WriteBytes(feature.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the Features.
func (f Features) String() string {
	structBuilder := stringify.StructBuilder("Features")
	for i, feature := range f {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), feature))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SenderFeature ////////////////////////////////////////////////////////////////////////////////////////////////

// SenderFeature obliges the transaction that creates the Output to prove control over the contained Address.
type SenderFeature struct {
	address Address
}

// NewSenderFeature is the constructor for SenderFeatures.
func NewSenderFeature(address Address) *SenderFeature {
	return &SenderFeature{
		address: address,
	}
}

// SenderFeatureFromMarshalUtil unmarshals a SenderFeature using a MarshalUtil (for easier unmarshaling).
func SenderFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *SenderFeature, err error) {
	featureType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse FeatureType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if FeatureType(featureType) != SenderFeatureType {
		err = errors.Errorf("invalid FeatureType (%X): %w", featureType, cerrors.ErrParseBytesFailed)
		return
	}

	feature = &SenderFeature{}
	if feature.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
		return
	}

	return
}

// Address returns the Address that the creating transaction has to prove control over.
func (s *SenderFeature) Address() Address {
	return s.address
}

// Type returns the FeatureType of this Feature.
func (s *SenderFeature) Type() FeatureType {
	return SenderFeatureType
}

// Bytes returns a marshaled version of this Feature.
func (s *SenderFeature) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(SenderFeatureType)}, s.address.Bytes())
}

// String returns a human readable version of this Feature.
func (s *SenderFeature) String() string {
	return stringify.Struct("SenderFeature",
		stringify.StructField("address", s.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &SenderFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region IssuerFeature ////////////////////////////////////////////////////////////////////////////////////////////////

// IssuerFeature obliges the transaction that creates the Output to prove control over the contained issuer Address.
type IssuerFeature struct {
	address Address
}

// NewIssuerFeature is the constructor for IssuerFeatures.
func NewIssuerFeature(address Address) *IssuerFeature {
	return &IssuerFeature{
		address: address,
	}
}

// IssuerFeatureFromMarshalUtil unmarshals an IssuerFeature using a MarshalUtil (for easier unmarshaling).
func IssuerFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *IssuerFeature, err error) {
	featureType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse FeatureType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if FeatureType(featureType) != IssuerFeatureType {
		err = errors.Errorf("invalid FeatureType (%X): %w", featureType, cerrors.ErrParseBytesFailed)
		return
	}

	feature = &IssuerFeature{}
	if feature.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
		return
	}

	return
}

// Address returns the issuer Address that the creating transaction has to prove control over.
func (i *IssuerFeature) Address() Address {
	return i.address
}

// Type returns the FeatureType of this Feature.
func (i *IssuerFeature) Type() FeatureType {
	return IssuerFeatureType
}

// Bytes returns a marshaled version of this Feature.
func (i *IssuerFeature) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(IssuerFeatureType)}, i.address.Bytes())
}

// String returns a human readable version of this Feature.
func (i *IssuerFeature) String() string {
	return stringify.Struct("IssuerFeature",
		stringify.StructField("address", i.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &IssuerFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
