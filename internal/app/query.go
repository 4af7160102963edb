package app

import (
	"context"
	"encoding/json"
	"strings"

	abci "github.com/cometbft/cometbft/v2/abci/types"
	cmtproto "github.com/cometbft/cometbft/api/cometbft/types/v2"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/vault"
)

// Query serves JSON reads of committed state:
//   - /game, /owner, /params, /guesses
//   - /guess/<addr>, /balance/<addr>
//   - /vault/<addr>, /nonce/<addr>
//
// A positive req.Height pins the read to that committed version.
func (a *GuessApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	height := a.cms.LastCommitID().Version
	var ms storetypes.MultiStore = a.cms.CacheMultiStore()
	if req.Height > 0 && req.Height != height {
		cms, err := a.storeAtHeight(req.Height)
		if err != nil {
			return queryError(err, height), nil
		}
		ms = cms
		height = req.Height
	}
	ctx := a.newContext(ms, cmtproto.Header{ChainID: a.chainID, Height: height}, true)

	out, err := a.query(ctx, strings.TrimSpace(req.Path))
	if err != nil {
		return queryError(err, height), nil
	}
	bz, err := json.Marshal(out)
	if err != nil {
		return queryError(err, height), nil
	}
	return &abci.QueryResponse{Code: 0, Value: bz, Height: height}, nil
}

func (a *GuessApp) query(ctx sdk.Context, path string) (any, error) {
	qs := a.guessQueryServer
	switch {
	case path == "/game":
		return qs.Game(ctx)
	case path == "/owner":
		owner, err := a.GuessKeeper.GetOwner(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"owner": owner.String()}, nil
	case path == "/params":
		return qs.Params(ctx)
	case path == "/guesses":
		return qs.Guesses(ctx)
	case strings.HasPrefix(path, "/guess/"):
		return qs.Guess(ctx, strings.TrimPrefix(path, "/guess/"))
	case strings.HasPrefix(path, "/balance/"):
		return qs.Balance(ctx, strings.TrimPrefix(path, "/balance/"))
	case strings.HasPrefix(path, "/vault/"):
		addr, err := sdk.AccAddressFromBech32(strings.TrimPrefix(path, "/vault/"))
		if err != nil {
			return nil, vault.ErrInvalidAddress.Wrap(err.Error())
		}
		coins, err := a.VaultKeeper.GetAllBalances(ctx, addr)
		if err != nil {
			return nil, err
		}
		return vault.Balance{Address: addr.String(), Coins: coins}, nil
	case strings.HasPrefix(path, "/nonce/"):
		addr, err := sdk.AccAddressFromBech32(strings.TrimPrefix(path, "/nonce/"))
		if err != nil {
			return nil, ErrTxDecode.Wrap(err.Error())
		}
		last, err := a.nonces.last(ctx, addr)
		if err != nil {
			return nil, err
		}
		return map[string]any{"address": addr.String(), "lastNonce": last}, nil
	default:
		return nil, ErrUnknownQuery.Wrap(path)
	}
}

func queryError(err error, height int64) *abci.QueryResponse {
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.QueryResponse{Codespace: codespace, Code: code, Log: log, Height: height}
}
