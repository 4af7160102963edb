package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// requireOwner rejects any caller other than the genesis owner. No state is
// touched.
func (k Keeper) requireOwner(ctx context.Context, caller sdk.AccAddress) error {
	owner, err := k.GetOwner(ctx)
	if err != nil {
		return err
	}
	if !owner.Equals(caller) {
		return types.ErrUnauthorized.Wrap("not owner")
	}
	return nil
}
