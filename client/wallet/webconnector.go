package wallet

import (
	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/mr-tron/base58"

	"github.com/iotaledger/txbuilder/client/wallet/packages/address"
	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// region WebConnector /////////////////////////////////////////////////////////////////////////////////////////////////

// WebConnector implements a connector that uses the web API of a node to implement the required functions for the
// wallet.
type WebConnector struct {
	client *resty.Client
}

// NewWebConnector is the constructor for the WebConnector.
func NewWebConnector(baseURL string, setters ...func(*resty.Client)) *WebConnector {
	client := resty.New().SetHostURL(baseURL)
	for _, setter := range setters {
		setter(client)
	}

	return &WebConnector{
		client: client,
	}
}

// ServerStatus retrieves the connected server status with the info api.
func (webConnector *WebConnector) ServerStatus() (status ServerStatus, err error) {
	response := &infoResponse{}
	restyResponse, err := webConnector.client.R().SetResult(response).Get("api/info")
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		err = errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())

		return
	}

	status.ID = response.IdentityID
	status.Synced = response.Synced
	status.Version = response.Version
	status.CurrentSlot = response.CurrentSlot

	return
}

// CurrentSlot returns the slot index at which the node currently operates.
func (webConnector *WebConnector) CurrentSlot() (slotIndex ledgerstate.SlotIndex, err error) {
	status, err := webConnector.ServerStatus()
	if err != nil {
		return
	}
	slotIndex = ledgerstate.SlotIndex(status.CurrentSlot)

	return
}

// ProtocolParameters retrieves the protocol parameters that the node operates with.
func (webConnector *WebConnector) ProtocolParameters() (protocolParameters ledgerstate.ProtocolParameters, err error) {
	response := &protocolParametersResponse{}
	restyResponse, err := webConnector.client.R().SetResult(response).Get("api/protocolparameters")
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		err = errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())

		return
	}

	protocolParameters = ledgerstate.ProtocolParameters{
		TokenSupply:            response.TokenSupply,
		MaxInputCount:          response.MaxInputCount,
		MaxOutputCount:         response.MaxOutputCount,
		MaxNativeTokenCount:    response.MaxNativeTokenCount,
		MaxTransactionByteSize: response.MaxTransactionByteSize,
		RentStructure: ledgerstate.RentStructure{
			VByteCost:       response.VByteCost,
			VByteFactorData: response.VByteFactorData,
			VByteFactorKey:  response.VByteFactorKey,
		},
	}

	return
}

// UnspentOutputs returns the outputs on the given addresses that have not been spent yet.
func (webConnector *WebConnector) UnspentOutputs(addresses ...address.Address) (unspentOutputs OutputsByAddressAndOutputID, err error) {
	// build reverse lookup table + arguments for the web api call
	addressReverseLookupTable := make(map[string]address.Address)
	base58EncodedAddresses := make([]string, len(addresses))
	for i, addr := range addresses {
		base58EncodedAddresses[i] = addr.Base58()
		addressReverseLookupTable[addr.Base58()] = addr
	}

	// request unspent outputs
	response := &unspentOutputsResponse{}
	restyResponse, err := webConnector.client.R().
		SetBody(&unspentOutputsRequest{Addresses: base58EncodedAddresses}).
		SetResult(response).
		Post("api/addresses/unspentoutputs")
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		err = errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())

		return
	}

	// build result
	unspentOutputs = NewAddressToOutputs()
	for _, unspentOutputsOnAddress := range response.UnspentOutputs {
		// lookup wallet address from the raw address
		addr, addressRequested := addressReverseLookupTable[unspentOutputsOnAddress.Address]
		if !addressRequested {
			err = errors.Errorf("the server returned an unrequested address: %s", unspentOutputsOnAddress.Address)

			return
		}

		for _, outputOnAddress := range unspentOutputsOnAddress.Outputs {
			var output ledgerstate.Output
			if output, err = parseOutput(outputOnAddress); err != nil {
				return
			}

			if _, addressExists := unspentOutputs[addr]; !addressExists {
				unspentOutputs[addr] = make(map[ledgerstate.OutputID]*Output)
			}
			unspentOutputs[addr][output.ID()] = &Output{
				Address: addr,
				Object:  output,
				InclusionState: InclusionState{
					Pending:   outputOnAddress.InclusionState.Pending,
					Confirmed: outputOnAddress.InclusionState.Confirmed,
					Rejected:  outputOnAddress.InclusionState.Rejected,
					Spent:     false,
				},
			}
		}
	}

	return
}

// SendTransaction sends a new transaction to the network.
func (webConnector *WebConnector) SendTransaction(transaction *ledgerstate.Transaction) (err error) {
	response := &sendTransactionResponse{}
	restyResponse, err := webConnector.client.R().
		SetBody(&sendTransactionRequest{TransactionBytes: base58.Encode(transaction.Bytes())}).
		SetResult(response).
		Post("api/transactions")
	if err != nil {
		return
	}
	if restyResponse.IsError() {
		err = errors.Errorf("request to %s failed: %s", restyResponse.Request.URL, restyResponse.Status())

		return
	}
	if response.Error != "" {
		err = errors.Errorf("failed to send transaction: %s", response.Error)
	}

	return
}

// parseOutput is an internal utility method that parses the web api representation of an unspent output.
func parseOutput(response outputResponse) (output ledgerstate.Output, err error) {
	outputID, err := ledgerstate.OutputIDFromBase58(response.OutputID)
	if err != nil {
		err = errors.Errorf("failed to parse output id %s: %w", response.OutputID, err)

		return
	}
	outputBytes, err := base58.Decode(response.OutputBytes)
	if err != nil {
		err = errors.Errorf("failed to decode output bytes of %s: %w", response.OutputID, err)

		return
	}
	if output, _, err = ledgerstate.OutputFromBytes(outputBytes); err != nil {
		err = errors.Errorf("failed to parse output %s: %w", response.OutputID, err)

		return
	}
	output.SetID(outputID)

	return
}

// Interface contract: make compiler warn if the interface is not implemented correctly.
var _ Connector = &WebConnector{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region web api models ///////////////////////////////////////////////////////////////////////////////////////////////

type infoResponse struct {
	IdentityID  string `json:"identityID"`
	Version     string `json:"version"`
	Synced      bool   `json:"synced"`
	CurrentSlot uint32 `json:"currentSlot"`
	Error       string `json:"error,omitempty"`
}

type protocolParametersResponse struct {
	TokenSupply            uint64 `json:"tokenSupply"`
	MaxInputCount          uint16 `json:"maxInputCount"`
	MaxOutputCount         uint16 `json:"maxOutputCount"`
	MaxNativeTokenCount    uint16 `json:"maxNativeTokenCount"`
	MaxTransactionByteSize uint32 `json:"maxTransactionByteSize"`
	VByteCost              uint32 `json:"vByteCost"`
	VByteFactorData        uint8  `json:"vByteFactorData"`
	VByteFactorKey         uint8  `json:"vByteFactorKey"`
	Error                  string `json:"error,omitempty"`
}

type unspentOutputsRequest struct {
	Addresses []string `json:"addresses"`
}

type unspentOutputsResponse struct {
	UnspentOutputs []unspentOutputsOnAddress `json:"unspentOutputs"`
	Error          string                    `json:"error,omitempty"`
}

type unspentOutputsOnAddress struct {
	Address string           `json:"address"`
	Outputs []outputResponse `json:"outputs"`
}

type outputResponse struct {
	OutputID       string                 `json:"outputID"`
	OutputBytes    string                 `json:"outputBytes"`
	InclusionState inclusionStateResponse `json:"inclusionState"`
}

type inclusionStateResponse struct {
	Pending   bool `json:"pending"`
	Confirmed bool `json:"confirmed"`
	Rejected  bool `json:"rejected"`
}

type sendTransactionRequest struct {
	TransactionBytes string `json:"transactionBytes"`
}

type sendTransactionResponse struct {
	TransactionID string `json:"transactionID"`
	Error         string `json:"error,omitempty"`
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
