package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

type queryServer struct {
	Keeper
}

var _ types.QueryServer = queryServer{}

func NewQueryServerImpl(k Keeper) types.QueryServer {
	return &queryServer{Keeper: k}
}

func (q queryServer) Game(ctx context.Context) (*types.QueryGameResponse, error) {
	game, err := q.GetGame(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := q.GetOwner(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := q.CurrentPool(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryGameResponse{Game: game, Owner: owner.String(), Pool: pool}, nil
}

func (q queryServer) Guesses(ctx context.Context) (*types.QueryGuessesResponse, error) {
	out := make([]types.PlayerGuess, 0)
	if err := q.IterateGuesses(ctx, func(player sdk.AccAddress, rec types.GuessRecord) (bool, error) {
		out = append(out, types.PlayerGuess{Player: player.String(), Record: rec})
		return false, nil
	}); err != nil {
		return nil, err
	}
	return &types.QueryGuessesResponse{Guesses: out}, nil
}

func (q queryServer) Guess(ctx context.Context, player string) (*types.QueryGuessResponse, error) {
	addr, err := sdk.AccAddressFromBech32(player)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid player address: %v", err)
	}
	rec, ok, err := q.GetGuess(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.ErrValidation.Wrapf("no guess committed by %s", player)
	}
	return &types.QueryGuessResponse{Player: player, Guess: rec}, nil
}

func (q queryServer) Balance(ctx context.Context, player string) (*types.QueryBalanceResponse, error) {
	addr, err := sdk.AccAddressFromBech32(player)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid player address: %v", err)
	}
	bal, err := q.GetBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &types.QueryBalanceResponse{Player: player, Balance: bal}, nil
}

func (q queryServer) Params(ctx context.Context) (*types.QueryParamsResponse, error) {
	p, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: p}, nil
}
