package keeper

import (
	"context"
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

type msgServer struct {
	Keeper
}

var _ types.MsgServer = msgServer{}

func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

// atomically runs fn on a branched store and commits only if fn succeeds, so a
// rejected call never leaves partial writes behind.
func atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func (m msgServer) StartGame(ctx context.Context, req *types.MsgStartGame) (*types.MsgStartGameResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	caller := sdk.MustAccAddressFromBech32(req.Owner)

	var game types.GameState
	if err := atomically(ctx, func(ctx context.Context) error {
		var err error
		game, err = m.Keeper.StartGame(ctx, caller, req.SecretCommitment, req.RevealWindow)
		return err
	}); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGameStarted,
		sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", game.Round)),
		sdk.NewAttribute(types.AttributeKeyOwner, req.Owner),
		sdk.NewAttribute(types.AttributeKeyCommitment, game.SecretCommitment),
		sdk.NewAttribute(types.AttributeKeyRevealDeadline, fmt.Sprintf("%d", game.RevealDeadline)),
	))
	m.Logger(ctx).Info("game started", "round", game.Round, "reveal_deadline", game.RevealDeadline)

	return &types.MsgStartGameResponse{Round: game.Round, RevealDeadline: game.RevealDeadline}, nil
}

func (m msgServer) CommitGuess(ctx context.Context, req *types.MsgCommitGuess) (*types.MsgCommitGuessResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	player := sdk.MustAccAddressFromBech32(req.Player)

	var replaced bool
	if err := atomically(ctx, func(ctx context.Context) error {
		var err error
		replaced, err = m.Keeper.CommitGuess(ctx, player, req.GuessCommitment, req.Stake)
		return err
	}); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGuessCommitted,
		sdk.NewAttribute(types.AttributeKeyPlayer, req.Player),
		sdk.NewAttribute(types.AttributeKeyStake, req.Stake.String()),
		sdk.NewAttribute(types.AttributeKeyReplacedExisting, fmt.Sprintf("%t", replaced)),
	))
	if replaced {
		m.Logger(ctx).Debug("guess commitment replaced", "player", req.Player)
	}

	return &types.MsgCommitGuessResponse{ReplacedExisting: replaced}, nil
}

func (m msgServer) RevealGuess(ctx context.Context, req *types.MsgRevealGuess) (*types.MsgRevealGuessResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	player := sdk.MustAccAddressFromBech32(req.Player)

	if err := atomically(ctx, func(ctx context.Context) error {
		return m.Keeper.RevealGuess(ctx, player, req.Guess, req.Nonce)
	}); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGuessRevealed,
		sdk.NewAttribute(types.AttributeKeyPlayer, req.Player),
		sdk.NewAttribute(types.AttributeKeyGuess, req.Guess),
	))

	return &types.MsgRevealGuessResponse{}, nil
}

func (m msgServer) ResolveGame(ctx context.Context, req *types.MsgResolveGame) (*types.MsgResolveGameResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	caller := sdk.MustAccAddressFromBech32(req.Owner)

	var res Resolution
	if err := atomically(ctx, func(ctx context.Context) error {
		var err error
		res, err = m.Keeper.ResolveGame(ctx, caller, req.Secret, req.Nonce)
		return err
	}); err != nil {
		return nil, err
	}

	winners := make([]string, 0, len(res.Winners))
	for _, w := range res.Winners {
		winners = append(winners, w.String())
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	events := sdk.Events{sdk.NewEvent(
		types.EventTypeGameResolved,
		sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", res.Round)),
		sdk.NewAttribute(types.AttributeKeySecret, req.Secret),
		sdk.NewAttribute(types.AttributeKeyPool, res.Pool.String()),
		sdk.NewAttribute(types.AttributeKeyWinners, strings.Join(winners, ",")),
		sdk.NewAttribute(types.AttributeKeyReward, res.Reward.String()),
		sdk.NewAttribute(types.AttributeKeyUnclaimed, res.Unclaimed.String()),
	)}
	for _, w := range winners {
		events = append(events, sdk.NewEvent(
			types.EventTypeRewardCredited,
			sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", res.Round)),
			sdk.NewAttribute(types.AttributeKeyPlayer, w),
			sdk.NewAttribute(types.AttributeKeyAmount, res.Reward.String()),
		))
	}
	sdkCtx.EventManager().EmitEvents(events)
	m.Logger(ctx).Info("game resolved",
		"round", res.Round,
		"pool", res.Pool.String(),
		"winners", len(winners),
		"unclaimed", res.Unclaimed.String(),
	)

	return &types.MsgResolveGameResponse{
		Round:     res.Round,
		Pool:      res.Pool,
		Winners:   winners,
		Reward:    res.Reward,
		Unclaimed: res.Unclaimed,
	}, nil
}

func (m msgServer) Withdraw(ctx context.Context, req *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	player := sdk.MustAccAddressFromBech32(req.Player)

	var amount sdkmath.Int
	if err := atomically(ctx, func(ctx context.Context) error {
		var err error
		amount, err = m.Keeper.Withdraw(ctx, player)
		return err
	}); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRewardWithdrawn,
		sdk.NewAttribute(types.AttributeKeyPlayer, req.Player),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return &types.MsgWithdrawResponse{Amount: amount}, nil
}

func (m msgServer) SetMinStake(ctx context.Context, req *types.MsgSetMinStake) (*types.MsgSetMinStakeResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	caller := sdk.MustAccAddressFromBech32(req.Owner)

	if err := atomically(ctx, func(ctx context.Context) error {
		return m.Keeper.SetMinStake(ctx, caller, req.MinStake)
	}); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeMinStakeUpdated,
		sdk.NewAttribute(types.AttributeKeyMinStake, req.MinStake.String()),
	))

	return &types.MsgSetMinStakeResponse{}, nil
}
