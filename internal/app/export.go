package app

import (
	cmtproto "github.com/cometbft/cometbft/api/cometbft/types/v2"
)

// ExportedApp is app state at a committed height, ready to seed a new chain.
type ExportedApp struct {
	AppState *GenesisState `json:"app_state"`
	// Height is the height CometBFT will call InitChain at when the export is
	// used as genesis.
	Height int64 `json:"height"`
}

// ExportGenesis reads module state at the last committed height.
func (a *GuessApp) ExportGenesis() (*ExportedApp, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	last := a.cms.LastCommitID().Version
	ctx := a.newContext(a.cms.CacheMultiStore(), cmtproto.Header{ChainID: a.chainID, Height: last}, true)

	guessState, err := a.GuessKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	vaultState, err := a.VaultKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportedApp{
		AppState: &GenesisState{Guess: guessState, Vault: vaultState},
		Height:   last + 1,
	}, nil
}
