package wallet

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"

	"github.com/iotaledger/hive.go/marshalutil"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// RegistryHostURL is the host url of the central asset registry.
const RegistryHostURL = "http://asset-registry.iota.cafe"

// region AssetRegistry ////////////////////////////////////////////////////////////////////////////////////////////////

// AssetRegistry represents a registry for native tokens, that stores the relevant metadata in a dictionary. Metadata
// that is not known locally is looked up in a central registry over its web API.
type AssetRegistry struct {
	network string
	assets  map[ledgerstate.TokenID]*Asset
	client  *resty.Client
	mutex   sync.RWMutex
}

// NewAssetRegistry is the constructor for the AssetRegistry.
func NewAssetRegistry(network string, registryURL ...string) *AssetRegistry {
	hostURL := RegistryHostURL
	if len(registryURL) > 0 {
		hostURL = registryURL[0]
	}

	return &AssetRegistry{
		network: network,
		assets:  make(map[ledgerstate.TokenID]*Asset),
		client:  resty.New().SetHostURL(hostURL),
	}
}

// ParseAssetRegistry is a utility function that can be used to parse a marshaled version of the registry.
func ParseAssetRegistry(marshalUtil *marshalutil.MarshalUtil) (assetRegistry *AssetRegistry, err error) {
	networkLength, err := marshalUtil.ReadUint32()
	if err != nil {
		return
	}
	networkBytes, err := marshalUtil.ReadBytes(int(networkLength))
	if err != nil {
		return
	}

	assetRegistry = NewAssetRegistry(string(networkBytes))

	assetCount, err := marshalUtil.ReadUint32()
	if err != nil {
		return
	}
	for i := uint32(0); i < assetCount; i++ {
		asset, assetErr := AssetFromMarshalUtil(marshalUtil)
		if assetErr != nil {
			return nil, errors.Errorf("failed to parse Asset: %w", assetErr)
		}

		assetRegistry.assets[asset.TokenID] = asset
	}

	return
}

// Network returns the network the registry connects to.
func (assetRegistry *AssetRegistry) Network() string {
	return assetRegistry.network
}

// RegisterAsset registers the metadata of a native token in the registry, so we can look up names and symbols of
// assets held by the wallet.
func (assetRegistry *AssetRegistry) RegisterAsset(tokenID ledgerstate.TokenID, asset Asset) (err error) {
	asset.TokenID = tokenID

	assetRegistry.mutex.Lock()
	assetRegistry.assets[tokenID] = &asset
	assetRegistry.mutex.Unlock()

	restyResponse, err := assetRegistry.client.R().
		SetBody(&assetModel{
			ID:        tokenID.Base58(),
			Name:      asset.Name,
			Symbol:    asset.Symbol,
			Precision: asset.Precision,
		}).
		Post("registries/" + assetRegistry.network + "/assets")
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		return errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())
	}

	return nil
}

// LoadAsset returns the metadata of the native token with the given id, looking it up in the central registry if it is
// not known locally.
func (assetRegistry *AssetRegistry) LoadAsset(tokenID ledgerstate.TokenID) (asset *Asset, err error) {
	assetRegistry.mutex.RLock()
	asset, exists := assetRegistry.assets[tokenID]
	assetRegistry.mutex.RUnlock()
	if exists {
		return
	}

	response := &assetModel{}
	restyResponse, err := assetRegistry.client.R().
		SetResult(response).
		Get("registries/" + assetRegistry.network + "/assets/" + tokenID.Base58())
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		return nil, errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())
	}

	parsedTokenID, err := ledgerstate.TokenIDFromBase58EncodedString(response.ID)
	if err != nil {
		return nil, errors.Errorf("failed to parse TokenID of asset from registry response: %w", err)
	}
	if parsedTokenID != tokenID {
		return nil, errors.Errorf("registry returned metadata for %s instead of %s", response.ID, tokenID.Base58())
	}

	asset = &Asset{
		TokenID:   tokenID,
		Name:      response.Name,
		Symbol:    response.Symbol,
		Precision: response.Precision,
	}

	assetRegistry.mutex.Lock()
	assetRegistry.assets[tokenID] = asset
	assetRegistry.mutex.Unlock()

	return
}

// Name returns the name of the given asset. The base58 encoded id is used as a fallback if no metadata is known.
func (assetRegistry *AssetRegistry) Name(tokenID ledgerstate.TokenID) string {
	if asset, err := assetRegistry.LoadAsset(tokenID); err == nil && asset.Name != "" {
		return asset.Name
	}

	return tokenID.Base58()
}

// Symbol returns the symbol of the given asset. The base58 encoded id is used as a fallback if no metadata is known.
func (assetRegistry *AssetRegistry) Symbol(tokenID ledgerstate.TokenID) string {
	if asset, err := assetRegistry.LoadAsset(tokenID); err == nil && asset.Symbol != "" {
		return asset.Symbol
	}

	return tokenID.Base58()
}

// Precision returns the decimal places that are used when displaying amounts of the given asset.
func (assetRegistry *AssetRegistry) Precision(tokenID ledgerstate.TokenID) uint32 {
	if asset, err := assetRegistry.LoadAsset(tokenID); err == nil {
		return asset.Precision
	}

	return 0
}

// Bytes marshals the locally known assets into a sequence of bytes.
func (assetRegistry *AssetRegistry) Bytes() []byte {
	assetRegistry.mutex.RLock()
	defer assetRegistry.mutex.RUnlock()

	marshalUtil := marshalutil.New().
		WriteUint32(uint32(len(assetRegistry.network))).
		WriteBytes([]byte(assetRegistry.network)).
		WriteUint32(uint32(len(assetRegistry.assets)))

	// serialize in deterministic order
	tokenIDs := make([]ledgerstate.TokenID, 0, len(assetRegistry.assets))
	for tokenID := range assetRegistry.assets {
		tokenIDs = append(tokenIDs, tokenID)
	}
	sort.Slice(tokenIDs, func(i, j int) bool {
		return tokenIDs[i].Compare(tokenIDs[j]) < 0
	})

	for _, tokenID := range tokenIDs {
		marshalUtil.WriteBytes(assetRegistry.assets[tokenID].Bytes())
	}

	return marshalUtil.Bytes()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region api models ///////////////////////////////////////////////////////////////////////////////////////////////////

type assetModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Precision uint32 `json:"precision"`
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
