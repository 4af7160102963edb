package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// Resolution summarizes a settled round.
type Resolution struct {
	Round   uint64
	Pool    sdkmath.Int
	Winners []sdk.AccAddress
	// Reward is credited to each winner; zero when nobody won.
	Reward sdkmath.Int
	// Unclaimed is the part of the pool left in escrow: the whole pool when
	// nobody won, otherwise pool mod len(Winners).
	Unclaimed sdkmath.Int
}

// ResolveGame checks the owner's secret against the round commitment, pays the
// stake pool out to the players who revealed the secret, and closes the round.
//
// Every record contributes its stake to the pool; only revealed records whose
// guess equals the secret win. Winners split the pool by floor division.
func (k Keeper) ResolveGame(ctx context.Context, caller sdk.AccAddress, secret string, nonce string) (Resolution, error) {
	if err := k.requireOwner(ctx, caller); err != nil {
		return Resolution{}, err
	}
	game, err := k.requireActive(ctx)
	if err != nil {
		return Resolution{}, err
	}
	if now := blockTimeUnix(ctx); now < game.RevealDeadline {
		return Resolution{}, types.ErrValidation.Wrapf("reveal too early: now=%d deadline=%d", now, game.RevealDeadline)
	}
	if !types.VerifyCommitment(game.SecretCommitment, secret, nonce) {
		return Resolution{}, types.ErrValidation.Wrap("invalid secret")
	}

	pool := sdkmath.ZeroInt()
	var winners []sdk.AccAddress
	err = k.IterateGuesses(ctx, func(player sdk.AccAddress, rec types.GuessRecord) (bool, error) {
		next, err := pool.SafeAdd(rec.Stake)
		if err != nil {
			return true, types.ErrValidation.Wrap("stake pool overflow")
		}
		pool = next
		if rec.Revealed && rec.Guess == secret {
			winners = append(winners, player)
		}
		return false, nil
	})
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Round:     game.Round,
		Pool:      pool,
		Winners:   winners,
		Reward:    sdkmath.ZeroInt(),
		Unclaimed: pool,
	}
	if len(winners) > 0 {
		n := sdkmath.NewInt(int64(len(winners)))
		res.Reward = pool.Quo(n)
		res.Unclaimed = pool.Mod(n)
		for _, w := range winners {
			if err := k.credit(ctx, w, res.Reward); err != nil {
				return Resolution{}, err
			}
		}
	}

	game.Active = false
	if err := k.Game.Set(ctx, game); err != nil {
		return Resolution{}, err
	}
	return res, nil
}
