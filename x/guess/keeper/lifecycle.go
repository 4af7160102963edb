package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// StartGame opens a new round: records the owner's secret commitment, sets the
// reveal deadline to block time + revealWindow and wipes the previous round's
// guesses. Reward balances are untouched.
func (k Keeper) StartGame(ctx context.Context, caller sdk.AccAddress, secretCommitment string, revealWindow int64) (types.GameState, error) {
	if err := k.requireOwner(ctx, caller); err != nil {
		return types.GameState{}, err
	}
	game, err := k.GetGame(ctx)
	if err != nil {
		return types.GameState{}, err
	}
	if game.Active {
		return types.GameState{}, types.ErrInvalidState.Wrap("game already active")
	}
	commitment, err := types.NormalizeCommitment(secretCommitment)
	if err != nil {
		return types.GameState{}, types.ErrValidation.Wrapf("secret_commitment: %v", err)
	}

	deadline, err := addInt64Checked(blockTimeUnix(ctx), revealWindow, "reveal deadline")
	if err != nil {
		return types.GameState{}, types.ErrValidation.Wrap(err.Error())
	}

	if err := k.Guesses.Clear(ctx, nil); err != nil {
		return types.GameState{}, err
	}

	game = types.GameState{
		Round:            game.Round + 1,
		SecretCommitment: commitment,
		RevealDeadline:   deadline,
		Active:           true,
	}
	if err := k.Game.Set(ctx, game); err != nil {
		return types.GameState{}, err
	}
	return game, nil
}

func (k Keeper) IsActive(ctx context.Context) (bool, error) {
	game, err := k.GetGame(ctx)
	if err != nil {
		return false, err
	}
	return game.Active, nil
}

func (k Keeper) Deadline(ctx context.Context) (int64, error) {
	game, err := k.GetGame(ctx)
	if err != nil {
		return 0, err
	}
	return game.RevealDeadline, nil
}

func (k Keeper) requireActive(ctx context.Context) (types.GameState, error) {
	game, err := k.GetGame(ctx)
	if err != nil {
		return types.GameState{}, err
	}
	if !game.Active {
		return types.GameState{}, types.ErrInvalidState.Wrap("no active game")
	}
	return game, nil
}
