package vault

import (
	"context"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InitGenesis funds the listed accounts. It is the only way value enters the
// chain.
func (k Keeper) InitGenesis(ctx context.Context, gs *GenesisState) error {
	if err := ValidateGenesis(gs); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		addr := sdk.MustAccAddressFromBech32(b.Address)
		for _, c := range b.Coins {
			if err := k.addCoin(ctx, addr, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (k Keeper) ExportGenesis(ctx context.Context) (*GenesisState, error) {
	gs := DefaultGenesisState()
	err := k.Balances.Walk(ctx, nil, func(key collections.Pair[sdk.AccAddress, string], amt sdkmath.Int) (bool, error) {
		addr := key.K1().String()
		coin := sdk.NewCoin(key.K2(), amt)
		// Keys are ordered by address first, so one account's denoms are adjacent.
		if n := len(gs.Balances); n > 0 && gs.Balances[n-1].Address == addr {
			gs.Balances[n-1].Coins = append(gs.Balances[n-1].Coins, coin)
			return false, nil
		}
		gs.Balances = append(gs.Balances, Balance{Address: addr, Coins: sdk.Coins{coin}})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
