package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// InitGenesis installs the owner and any carried-over state. The owner can be
// written once; a second InitGenesis naming a different owner fails.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if err := types.ValidateGenesis(gs); err != nil {
		return err
	}
	owner := sdk.MustAccAddressFromBech32(gs.Owner)

	existing, err := k.Owner.Get(ctx)
	switch {
	case err == nil:
		if !owner.Equals(sdk.AccAddress(existing)) {
			return fmt.Errorf("owner already set to %s", sdk.AccAddress(existing))
		}
	case errors.Is(err, collections.ErrNotFound):
		if err := k.Owner.Set(ctx, owner); err != nil {
			return err
		}
	default:
		return err
	}

	if err := k.Params.Set(ctx, gs.Params); err != nil {
		return err
	}
	game := gs.Game
	if game.SecretCommitment != "" {
		c, err := types.NormalizeCommitment(game.SecretCommitment)
		if err != nil {
			return err
		}
		game.SecretCommitment = c
	}
	if err := k.Game.Set(ctx, game); err != nil {
		return err
	}
	for _, g := range gs.Guesses {
		rec := g.Record
		c, err := types.NormalizeCommitment(rec.Commitment)
		if err != nil {
			return fmt.Errorf("guess for %s: %w", g.Player, err)
		}
		rec.Commitment = c
		if err := k.Guesses.Set(ctx, sdk.MustAccAddressFromBech32(g.Player), rec); err != nil {
			return err
		}
	}
	for _, b := range gs.Balances {
		if err := k.Balances.Set(ctx, sdk.MustAccAddressFromBech32(b.Player), b.Balance); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	owner, err := k.GetOwner(ctx)
	if err != nil {
		return nil, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	game, err := k.GetGame(ctx)
	if err != nil {
		return nil, err
	}

	gs := &types.GenesisState{
		Owner:  owner.String(),
		Params: params,
		Game:   game,
	}
	if err := k.IterateGuesses(ctx, func(player sdk.AccAddress, rec types.GuessRecord) (bool, error) {
		gs.Guesses = append(gs.Guesses, types.PlayerGuess{Player: player.String(), Record: rec})
		return false, nil
	}); err != nil {
		return nil, err
	}
	if err := k.IterateBalances(ctx, func(player sdk.AccAddress, bal sdkmath.Int) (bool, error) {
		gs.Balances = append(gs.Balances, types.PlayerBalance{Player: player.String(), Balance: bal})
		return false, nil
	}); err != nil {
		return nil, err
	}
	return gs, nil
}
