package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/x/guess/types"
)

// Keeper owns all x/guess state.
//
// Guesses and Balances are collections Maps keyed by sdk.AccAddressKey. Keys are
// length-prefixed address bytes, so Walk visits entries in the same byte order
// on every executor regardless of insertion history.
type Keeper struct {
	storeService corestore.KVStoreService
	bankKeeper   types.BankKeeper

	Schema   collections.Schema
	Owner    collections.Item[[]byte]
	Params   collections.Item[types.Params]
	Game     collections.Item[types.GameState]
	Guesses  collections.Map[sdk.AccAddress, types.GuessRecord]
	Balances collections.Map[sdk.AccAddress, sdkmath.Int]
}

func NewKeeper(storeService corestore.KVStoreService, bankKeeper types.BankKeeper) Keeper {
	if storeService == nil {
		panic("guess keeper: store service is nil")
	}
	if bankKeeper == nil {
		panic("guess keeper: bank keeper is nil")
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService: storeService,
		bankKeeper:   bankKeeper,

		Owner:    collections.NewItem(sb, types.OwnerKey, "owner", collections.BytesValue),
		Params:   collections.NewItem(sb, types.ParamsKey, "params", types.ParamsValue),
		Game:     collections.NewItem(sb, types.GameKey, "game", types.GameStateValue),
		Guesses:  collections.NewMap(sb, types.GuessesKeyPrefix, "guesses", sdk.AccAddressKey, types.GuessRecordValue),
		Balances: collections.NewMap(sb, types.BalancesKeyPrefix, "balances", sdk.AccAddressKey, sdk.IntValue),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(fmt.Sprintf("guess keeper: build schema: %v", err))
	}
	k.Schema = schema
	return k
}

func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// GetOwner returns the address fixed at genesis.
func (k Keeper) GetOwner(ctx context.Context) (sdk.AccAddress, error) {
	bz, err := k.Owner.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil, fmt.Errorf("owner not initialized")
		}
		return nil, err
	}
	return sdk.AccAddress(bz), nil
}

// GetParams returns stored params, or defaults when unset.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	p, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, err
	}
	return p, nil
}

func (k Keeper) SetParams(ctx context.Context, p types.Params) error {
	if err := p.Validate(); err != nil {
		return types.ErrInvalidRequest.Wrap(err.Error())
	}
	return k.Params.Set(ctx, p)
}

// GetGame returns the lifecycle record; a chain that never started a game
// reports the zero (inactive) state.
func (k Keeper) GetGame(ctx context.Context) (types.GameState, error) {
	g, err := k.Game.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.GameState{}, nil
		}
		return types.GameState{}, err
	}
	return g, nil
}

func blockTimeUnix(ctx context.Context) int64 {
	return sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
}

func stakeCoins(denom string, amt sdkmath.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, amt))
}
