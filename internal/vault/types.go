package vault

import (
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	ModuleName = "vault"
	StoreKey   = ModuleName
)

var BalancesKeyPrefix = collections.NewPrefix(0x01)

var (
	ErrInsufficientFunds = errorsmod.Register(ModuleName, 2, "insufficient funds")
	ErrInvalidCoins      = errorsmod.Register(ModuleName, 3, "invalid coins")
	ErrInvalidAddress    = errorsmod.Register(ModuleName, 4, "invalid address")
)

const (
	EventTypeTransfer = "transfer"

	AttributeKeySender    = "sender"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
)

// Balance is one account's holdings in genesis.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

type GenesisState struct {
	Balances []Balance `json:"balances,omitempty"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{}
}

func ValidateGenesis(gs *GenesisState) error {
	if gs == nil {
		return fmt.Errorf("vault genesis is nil")
	}
	seen := make(map[string]bool, len(gs.Balances))
	for _, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return fmt.Errorf("invalid vault address %q: %w", b.Address, err)
		}
		if seen[b.Address] {
			return fmt.Errorf("duplicate vault balance for %s", b.Address)
		}
		seen[b.Address] = true
		if err := b.Coins.Validate(); err != nil {
			return fmt.Errorf("vault balance for %s: %w", b.Address, err)
		}
	}
	return nil
}
