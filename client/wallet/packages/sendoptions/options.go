package sendoptions

import (
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/iotaledger/txbuilder/packages/ledgerstate"
)

// SendFundsOption is a function that provides an option for the SendFunds call.
type SendFundsOption func(options *SendFundsOptions) error

// Destination adds a receiver and the base token amount it is supposed to receive to the transfer.
func Destination(addr ledgerstate.Address, amount uint64) SendFundsOption {
	return func(options *SendFundsOptions) error {
		if addr == nil {
			return errors.New("destination address must not be nil")
		}
		if amount < ledgerstate.MinOutputBalance {
			return errors.Errorf("the amount provided in the destination needs to be larger than %d", ledgerstate.MinOutputBalance-1)
		}

		options.Destinations = append(options.Destinations, &DestinationEntry{
			Address: addr,
			Amount:  amount,
		})

		return nil
	}
}

// NativeTokenDestination adds a receiver of native tokens to the transfer. The base token amount carries the storage
// deposit of the created output.
func NativeTokenDestination(addr ledgerstate.Address, amount uint64, tokenID ledgerstate.TokenID, tokenAmount *big.Int) SendFundsOption {
	return func(options *SendFundsOptions) error {
		if addr == nil {
			return errors.New("destination address must not be nil")
		}
		if tokenAmount == nil || tokenAmount.Sign() <= 0 {
			return errors.Errorf("the native token amount sent to %s needs to be strictly positive", addr.Base58())
		}

		nativeTokens := ledgerstate.NewNativeTokenBalances()
		nativeTokens.Set(tokenID, tokenAmount)
		options.Destinations = append(options.Destinations, &DestinationEntry{
			Address:      addr,
			Amount:       amount,
			NativeTokens: nativeTokens,
		})

		return nil
	}
}

// Mana attaches stored mana to the destination that was added last.
func Mana(mana uint64) SendFundsOption {
	return func(options *SendFundsOptions) error {
		if len(options.Destinations) == 0 {
			return errors.New("mana can only be attached after a destination was provided")
		}
		options.Destinations[len(options.Destinations)-1].Mana = mana

		return nil
	}
}

// Remainder forces the transfer to send the remainder to the given address instead of one derived from the wallet.
func Remainder(addr ledgerstate.Address) SendFundsOption {
	return func(options *SendFundsOptions) error {
		options.RemainderAddress = addr

		return nil
	}
}

// RequiredInput forces the transfer to consume the output with the given ID.
func RequiredInput(outputID ledgerstate.OutputID) SendFundsOption {
	return func(options *SendFundsOptions) error {
		options.RequiredInputs = append(options.RequiredInputs, outputID)

		return nil
	}
}

// BurnNativeTokens requests the given native token amount to be destroyed instead of ending up in the remainder.
func BurnNativeTokens(tokenID ledgerstate.TokenID, amount *big.Int) SendFundsOption {
	return func(options *SendFundsOptions) error {
		if amount == nil || amount.Sign() <= 0 {
			return errors.Errorf("the burned amount of token %s needs to be strictly positive", tokenID.Base58())
		}
		if options.BurnedNativeTokens == nil {
			options.BurnedNativeTokens = ledgerstate.NewNativeTokenBalances()
		}
		options.BurnedNativeTokens.Add(tokenID, amount)

		return nil
	}
}

// BurnMana requests the mana surplus of the transfer to be dropped instead of ending up in the remainder.
func BurnMana() SendFundsOption {
	return func(options *SendFundsOptions) error {
		options.BurnMana = true

		return nil
	}
}

// ManaAllotment makes the transfer allot the given amount of mana to the given account.
func ManaAllotment(accountID ledgerstate.AccountID, amount uint64) SendFundsOption {
	return func(options *SendFundsOptions) error {
		if amount == 0 {
			return errors.Errorf("the mana allotted to account %s needs to be strictly positive", accountID.Base58())
		}
		if options.ManaAllotments == nil {
			options.ManaAllotments = make(ledgerstate.ManaAllotments)
		}
		options.ManaAllotments[accountID] += amount

		return nil
	}
}

// UsePendingOutputs defines if we can collect outputs that are still pending confirmation.
func UsePendingOutputs(usePendingOutputs bool) SendFundsOption {
	return func(options *SendFundsOptions) error {
		options.UsePendingOutputs = usePendingOutputs

		return nil
	}
}

// DestinationEntry is a receiver of the transfer together with the funds it is supposed to receive.
type DestinationEntry struct {
	Address      ledgerstate.Address
	Amount       uint64
	Mana         uint64
	NativeTokens *ledgerstate.NativeTokenBalances
}

// SendFundsOptions is a struct that is used to aggregate the optional parameters provided in the SendFunds call.
type SendFundsOptions struct {
	Destinations       []*DestinationEntry
	RemainderAddress   ledgerstate.Address
	RequiredInputs     []ledgerstate.OutputID
	BurnedNativeTokens *ledgerstate.NativeTokenBalances
	BurnMana           bool
	ManaAllotments     ledgerstate.ManaAllotments
	UsePendingOutputs  bool
}

// RequiredFunds derives how much funds are needed to fund the transfer from the options.
func (s *SendFundsOptions) RequiredFunds() (amount uint64) {
	for _, destination := range s.Destinations {
		amount += destination.Amount
	}

	return
}

// Build is a utility function that constructs the SendFundsOptions.
func Build(options ...SendFundsOption) (result *SendFundsOptions, err error) {
	// create options to collect the arguments provided
	result = &SendFundsOptions{
		UsePendingOutputs: true,
	}

	// apply arguments to our options
	for _, option := range options {
		if err = option(result); err != nil {
			return
		}
	}

	// sanitize parameters
	if len(result.Destinations) == 0 {
		err = errors.New("you need to provide at least one destination for a transfer")

		return
	}

	return
}
