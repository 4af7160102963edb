package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	abci "github.com/cometbft/cometbft/v2/abci/types"
	cmtproto "github.com/cometbft/cometbft/api/cometbft/types/v2"
	dbm "github.com/cosmos/cosmos-db"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	appparams "onchainguess/app/params"
	"onchainguess/internal/vault"
	guesskeeper "onchainguess/x/guess/keeper"
	guesstypes "onchainguess/x/guess/types"
)

const (
	AppVersion uint64 = 1
)

// GuessApp is the ABCI application hosting x/guess on a committed IAVL
// multistore.
type GuessApp struct {
	*abci.BaseApplication

	logger  log.Logger
	db      dbm.DB
	chainID string

	mu  sync.Mutex
	cms *rootmulti.Store
	// pending holds InitChain writes until the first Commit.
	pending  storetypes.CacheMultiStore
	lastHash []byte

	keys map[string]*storetypes.KVStoreKey

	GuessKeeper guesskeeper.Keeper
	VaultKeeper vault.Keeper
	nonces      nonceKeeper

	guessMsgServer   guesstypes.MsgServer
	guessQueryServer guesstypes.QueryServer
	router           map[string]handler
}

func New(logger log.Logger, db dbm.DB, chainID string) (*GuessApp, error) {
	if chainID == "" {
		return nil, fmt.Errorf("chain id is required")
	}
	keys := storetypes.NewKVStoreKeys(guesstypes.StoreKey, vault.StoreKey, AuthStoreKey)

	cms := rootmulti.NewStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}

	vaultKeeper := vault.NewKeeper(runtime.NewKVStoreService(keys[vault.StoreKey]))
	guessKeeper := guesskeeper.NewKeeper(runtime.NewKVStoreService(keys[guesstypes.StoreKey]), vaultKeeper)

	a := &GuessApp{
		BaseApplication:  abci.NewBaseApplication(),
		logger:           logger.With("module", "app"),
		db:               db,
		chainID:          chainID,
		cms:              cms,
		lastHash:         cms.LastCommitID().Hash,
		keys:             keys,
		GuessKeeper:      guessKeeper,
		VaultKeeper:      vaultKeeper,
		nonces:           newNonceKeeper(runtime.NewKVStoreService(keys[AuthStoreKey])),
		guessMsgServer:   guesskeeper.NewMsgServerImpl(guessKeeper),
		guessQueryServer: guesskeeper.NewQueryServerImpl(guessKeeper),
	}
	a.registerRoutes()
	return a, nil
}

// Close releases the underlying database.
func (a *GuessApp) Close() error {
	return a.db.Close()
}

// LastBlockHeight is the height of the last committed block.
func (a *GuessApp) LastBlockHeight() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cms.LastCommitID().Version
}

func (a *GuessApp) newContext(ms storetypes.MultiStore, header cmtproto.Header, isCheckTx bool) sdk.Context {
	return sdk.NewContext(ms, header, isCheckTx, a.logger).WithEventManager(sdk.NewEventManager())
}

func (a *GuessApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	last := a.cms.LastCommitID()
	return &abci.InfoResponse{
		Data:             appparams.AppName,
		Version:          "v0",
		AppVersion:       AppVersion,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}, nil
}

func (a *GuessApp) InitChain(_ context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if req.ChainId != a.chainID {
		return nil, fmt.Errorf("chain id mismatch: genesis=%q configured=%q", req.ChainId, a.chainID)
	}
	gs, err := DecodeGenesis(req.AppStateBytes)
	if err != nil {
		return nil, err
	}

	ms := a.cms.CacheMultiStore()
	ctx := a.newContext(ms, cmtproto.Header{ChainID: a.chainID, Height: req.InitialHeight, Time: req.Time}, false)
	if err := a.VaultKeeper.InitGenesis(ctx, gs.Vault); err != nil {
		return nil, fmt.Errorf("vault genesis: %w", err)
	}
	if err := a.GuessKeeper.InitGenesis(ctx, gs.Guess); err != nil {
		return nil, fmt.Errorf("guess genesis: %w", err)
	}
	a.pending = ms

	a.logger.Info("initialized chain", "chain_id", req.ChainId, "owner", gs.Guess.Owner, "funded_accounts", len(gs.Vault.Balances))
	return &abci.InitChainResponse{AppHash: a.cms.LastCommitID().Hash}, nil
}

func (a *GuessApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	env, signer, nonce, err := authenticate(a.chainID, req.Tx)
	if err != nil {
		return checkTxError(err), nil
	}
	h, ok := a.router[env.Type]
	if !ok {
		return checkTxError(ErrUnknownRoute.Wrap(env.Type)), nil
	}

	ctx := a.newContext(a.cms.CacheMultiStore(), cmtproto.Header{ChainID: a.chainID, Height: a.cms.LastCommitID().Version}, true)
	if err := a.nonces.check(ctx, signer, nonce); err != nil {
		return checkTxError(err), nil
	}
	if _, err := h(ctx, env.Value, signer, true); err != nil {
		return checkTxError(err), nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *GuessApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	header := cmtproto.Header{ChainID: a.chainID, Height: req.Height, Time: req.Time}
	blockStore := a.cms.CacheMultiStore()
	if a.pending != nil {
		blockStore = a.pending
		a.pending = nil
	}

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(blockStore, header, txBytes))
	}
	blockStore.Write()

	a.lastHash = a.cms.WorkingHash()
	a.logger.Info("finalized block", "height", req.Height, "txs", len(req.Txs), "app_hash", hex.EncodeToString(a.lastHash))

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *GuessApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending != nil {
		a.pending.Write()
		a.pending = nil
	}
	id := a.cms.Commit()
	a.lastHash = id.Hash
	a.logger.Debug("committed", "height", id.Version, "app_hash", hex.EncodeToString(id.Hash))
	return &abci.CommitResponse{}, nil
}

// deliverTx runs one tx against the block store. The signer's nonce is
// consumed even if the message fails; message writes are kept only on success.
func (a *GuessApp) deliverTx(blockStore storetypes.CacheMultiStore, header cmtproto.Header, txBytes []byte) *abci.ExecTxResult {
	env, signer, nonce, err := authenticate(a.chainID, txBytes)
	if err != nil {
		return txError(err)
	}
	h, ok := a.router[env.Type]
	if !ok {
		return txError(ErrUnknownRoute.Wrap(env.Type))
	}
	if err := a.nonces.consume(a.newContext(blockStore, header, false), signer, nonce); err != nil {
		return txError(err)
	}

	txStore := blockStore.CacheMultiStore()
	ctx := a.newContext(txStore, header, false)
	resp, err := h(ctx, env.Value, signer, false)
	if err != nil {
		a.logger.Debug("tx rejected", "type", env.Type, "signer", signer.String(), "err", err)
		return txError(err)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return txError(fmt.Errorf("encode response: %w", err))
	}
	txStore.Write()

	return &abci.ExecTxResult{
		Code:   0,
		Data:   data,
		Events: toABCIEvents(ctx.EventManager().Events()),
	}
}

func txError(err error) *abci.ExecTxResult {
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Codespace: codespace, Code: code, Log: log}
}

func checkTxError(err error) *abci.CheckTxResponse {
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.CheckTxResponse{Codespace: codespace, Code: code, Log: log}
}

func toABCIEvents(events sdk.Events) []abci.Event {
	out := make([]abci.Event, 0, len(events))
	for _, ev := range events {
		attrs := make([]abci.EventAttribute, 0, len(ev.Attributes))
		for _, at := range ev.Attributes {
			attrs = append(attrs, abci.EventAttribute{Key: at.Key, Value: at.Value, Index: true})
		}
		out = append(out, abci.Event{Type: ev.Type, Attributes: attrs})
	}
	return out
}
