// Package vault holds the chain's native value: per-account coin balances and
// the module accounts that escrow stakes.
package vault

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

type Keeper struct {
	storeService corestore.KVStoreService

	Schema collections.Schema
	// Balances is keyed by (address, denom); zero balances are never stored.
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]
}

func NewKeeper(storeService corestore.KVStoreService) Keeper {
	if storeService == nil {
		panic("vault: storeService is nil")
	}
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService: storeService,
		Balances: collections.NewMap(sb, BalancesKeyPrefix, "balances",
			collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey), sdk.IntValue),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// ModuleAddress returns the account address backing a module's escrow.
func ModuleAddress(module string) sdk.AccAddress {
	return authtypes.NewModuleAddress(module)
}

func (k Keeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) (sdk.Coin, error) {
	amt, err := k.Balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdk.NewCoin(denom, sdkmath.ZeroInt()), nil
		}
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(denom, amt), nil
}

// GetAllBalances returns every denom the address holds, sorted by denom.
func (k Keeper) GetAllBalances(ctx context.Context, addr sdk.AccAddress) (sdk.Coins, error) {
	out := sdk.NewCoins()
	rng := collections.NewPrefixedPairRange[sdk.AccAddress, string](addr)
	err := k.Balances.Walk(ctx, rng, func(key collections.Pair[sdk.AccAddress, string], amt sdkmath.Int) (bool, error) {
		out = append(out, sdk.NewCoin(key.K2(), amt))
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SendCoins moves amt from one account to another. Either every coin moves or
// the call fails; the caller's store branch is expected to discard partial
// writes on error.
func (k Keeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if err := validateTransfer(from, to, amt); err != nil {
		return err
	}
	for _, c := range amt {
		if err := k.subCoin(ctx, from, c); err != nil {
			return err
		}
		if err := k.addCoin(ctx, to, c); err != nil {
			return err
		}
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		EventTypeTransfer,
		sdk.NewAttribute(AttributeKeySender, from.String()),
		sdk.NewAttribute(AttributeKeyRecipient, to.String()),
		sdk.NewAttribute(AttributeKeyAmount, amt.String()),
	))
	return nil
}

func (k Keeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return k.SendCoins(ctx, senderAddr, ModuleAddress(recipientModule), amt)
}

func (k Keeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return k.SendCoins(ctx, ModuleAddress(senderModule), recipientAddr, amt)
}

func validateTransfer(from, to sdk.AccAddress, amt sdk.Coins) error {
	if from.Empty() {
		return ErrInvalidAddress.Wrap("empty sender")
	}
	if to.Empty() {
		return ErrInvalidAddress.Wrap("empty recipient")
	}
	if amt.Empty() || !amt.IsValid() {
		return ErrInvalidCoins.Wrapf("%s", amt)
	}
	return nil
}

func (k Keeper) subCoin(ctx context.Context, addr sdk.AccAddress, c sdk.Coin) error {
	bal, err := k.GetBalance(ctx, addr, c.Denom)
	if err != nil {
		return err
	}
	if bal.Amount.LT(c.Amount) {
		return ErrInsufficientFunds.Wrapf("%s has %s, needs %s", addr, bal, c)
	}
	return k.setBalance(ctx, addr, c.Denom, bal.Amount.Sub(c.Amount))
}

func (k Keeper) addCoin(ctx context.Context, addr sdk.AccAddress, c sdk.Coin) error {
	bal, err := k.GetBalance(ctx, addr, c.Denom)
	if err != nil {
		return err
	}
	next, err := bal.Amount.SafeAdd(c.Amount)
	if err != nil {
		return ErrInvalidCoins.Wrapf("balance overflow for %s", addr)
	}
	return k.setBalance(ctx, addr, c.Denom, next)
}

func (k Keeper) setBalance(ctx context.Context, addr sdk.AccAddress, denom string, amt sdkmath.Int) error {
	key := collections.Join(addr, denom)
	if amt.IsZero() {
		return k.Balances.Remove(ctx, key)
	}
	return k.Balances.Set(ctx, key, amt)
}
