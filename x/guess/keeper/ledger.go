package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// GetBalance returns the player's withdrawable reward balance.
func (k Keeper) GetBalance(ctx context.Context, player sdk.AccAddress) (sdkmath.Int, error) {
	bal, err := k.Balances.Get(ctx, player)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return bal, nil
}

// credit adds amount to the player's balance. Balances are capped at the
// 256-bit range of sdkmath.Int; exceeding it is rejected rather than wrapped.
func (k Keeper) credit(ctx context.Context, player sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	bal, err := k.GetBalance(ctx, player)
	if err != nil {
		return err
	}
	next, err := bal.SafeAdd(amount)
	if err != nil {
		return types.ErrValidation.Wrapf("balance overflow for %s", player)
	}
	return k.Balances.Set(ctx, player, next)
}

// Withdraw pays out the player's whole balance. The ledger entry is removed
// before the transfer is issued.
func (k Keeper) Withdraw(ctx context.Context, player sdk.AccAddress) (sdkmath.Int, error) {
	bal, err := k.GetBalance(ctx, player)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !bal.IsPositive() {
		return sdkmath.Int{}, types.ErrValidation.Wrap("nothing to withdraw")
	}
	if err := k.Balances.Remove(ctx, player); err != nil {
		return sdkmath.Int{}, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, player, stakeCoins(params.Denom, bal)); err != nil {
		return sdkmath.Int{}, err
	}
	return bal, nil
}

// IterateBalances walks the reward ledger in key order.
func (k Keeper) IterateBalances(ctx context.Context, cb func(player sdk.AccAddress, bal sdkmath.Int) (stop bool, err error)) error {
	return k.Balances.Walk(ctx, nil, cb)
}
