package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// SetMinStake overwrites the commit threshold. There is no upper bound; a zero
// threshold admits zero-stake commits.
func (k Keeper) SetMinStake(ctx context.Context, caller sdk.AccAddress, value sdkmath.Int) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}
	if value.IsNil() || value.IsNegative() {
		return types.ErrInvalidRequest.Wrap("min_stake must be >= 0")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.MinStake = value
	return k.Params.Set(ctx, params)
}
