package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// CommitGuess stores (or silently replaces) the player's guess commitment and
// escrows the stake in the module account. A replaced record loses any claim to
// winnings; its escrowed stake stays in the module account.
func (k Keeper) CommitGuess(ctx context.Context, player sdk.AccAddress, guessCommitment string, stake sdkmath.Int) (replaced bool, err error) {
	if _, err := k.requireActive(ctx); err != nil {
		return false, err
	}
	if stake.IsNil() || stake.IsNegative() {
		return false, types.ErrInvalidRequest.Wrap("stake must be >= 0")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return false, err
	}
	if stake.LT(params.MinStake) {
		return false, types.ErrValidation.Wrapf("stake too small: %s < %s", stake, params.MinStake)
	}
	commitment, err := types.NormalizeCommitment(guessCommitment)
	if err != nil {
		return false, types.ErrValidation.Wrapf("guess_commitment: %v", err)
	}

	if stake.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, player, types.ModuleName, stakeCoins(params.Denom, stake)); err != nil {
			return false, err
		}
	}

	replaced, err = k.Guesses.Has(ctx, player)
	if err != nil {
		return false, err
	}
	rec := types.GuessRecord{
		Commitment: commitment,
		Stake:      stake,
		Revealed:   false,
		Guess:      "",
	}
	if err := k.Guesses.Set(ctx, player, rec); err != nil {
		return false, err
	}
	return replaced, nil
}

// RevealGuess opens the player's commitment. It succeeds only if
// Keccak256(guess || nonce) equals the stored commitment.
func (k Keeper) RevealGuess(ctx context.Context, player sdk.AccAddress, guess string, nonce string) error {
	if _, err := k.requireActive(ctx); err != nil {
		return err
	}
	if err := types.ValidatePreimage("guess", guess, nonce); err != nil {
		return err
	}
	rec, err := k.Guesses.Get(ctx, player)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.ErrValidation.Wrap("no guess committed")
		}
		return err
	}
	if rec.Revealed {
		return types.ErrValidation.Wrap("already revealed")
	}
	if !types.VerifyCommitment(rec.Commitment, guess, nonce) {
		return types.ErrValidation.Wrap("commit mismatch")
	}

	rec.Revealed = true
	rec.Guess = guess
	return k.Guesses.Set(ctx, player, rec)
}

// GetGuess returns the player's record for the current round.
func (k Keeper) GetGuess(ctx context.Context, player sdk.AccAddress) (types.GuessRecord, bool, error) {
	rec, err := k.Guesses.Get(ctx, player)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.GuessRecord{}, false, nil
		}
		return types.GuessRecord{}, false, err
	}
	return rec, true, nil
}

// IterateGuesses walks the registry in key order.
func (k Keeper) IterateGuesses(ctx context.Context, cb func(player sdk.AccAddress, rec types.GuessRecord) (stop bool, err error)) error {
	return k.Guesses.Walk(ctx, nil, cb)
}

// CurrentPool sums every stake in the registry, revealed or not.
func (k Keeper) CurrentPool(ctx context.Context) (sdkmath.Int, error) {
	pool := sdkmath.ZeroInt()
	err := k.IterateGuesses(ctx, func(_ sdk.AccAddress, rec types.GuessRecord) (bool, error) {
		next, err := pool.SafeAdd(rec.Stake)
		if err != nil {
			return true, types.ErrValidation.Wrap("stake pool overflow")
		}
		pool = next
		return false, nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return pool, nil
}
