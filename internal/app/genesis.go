package app

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"onchainguess/internal/vault"
	guesstypes "onchainguess/x/guess/types"
)

// GenesisState is the app_state document CometBFT hands to InitChain.
type GenesisState struct {
	Guess *guesstypes.GenesisState `json:"guess"`
	Vault *vault.GenesisState      `json:"vault"`
}

// DefaultGenesis returns an app state with the given owner and no funded accounts.
func DefaultGenesis(owner string) *GenesisState {
	g := guesstypes.DefaultGenesisState()
	g.Owner = owner
	return &GenesisState{
		Guess: g,
		Vault: vault.DefaultGenesisState(),
	}
}

func (gs *GenesisState) Validate() error {
	if gs.Guess == nil {
		return fmt.Errorf("app_state.guess is required")
	}
	if err := guesstypes.ValidateGenesis(gs.Guess); err != nil {
		return fmt.Errorf("app_state.guess: %w", err)
	}
	if gs.Vault == nil {
		gs.Vault = vault.DefaultGenesisState()
	}
	if err := vault.ValidateGenesis(gs.Vault); err != nil {
		return fmt.Errorf("app_state.vault: %w", err)
	}
	return gs.validateEscrow()
}

// validateEscrow checks that the guess module account holds enough coins to
// cover every registry stake and every withdrawable balance. It may hold more:
// stranded pools and replaced stakes stay in escrow.
func (gs *GenesisState) validateEscrow() error {
	owed := sdkmath.ZeroInt()
	for _, g := range gs.Guess.Guesses {
		owed = owed.Add(g.Record.Stake)
	}
	for _, b := range gs.Guess.Balances {
		owed = owed.Add(b.Balance)
	}
	if owed.IsZero() {
		return nil
	}

	escrow := vault.ModuleAddress(guesstypes.ModuleName).String()
	held := sdkmath.ZeroInt()
	for _, b := range gs.Vault.Balances {
		if b.Address == escrow {
			held = b.Coins.AmountOf(gs.Guess.Params.Denom)
			break
		}
	}
	if held.LT(owed) {
		return fmt.Errorf("app_state.vault: %s module account holds %s%s, guess state owes %s%s",
			guesstypes.ModuleName, held, gs.Guess.Params.Denom, owed, gs.Guess.Params.Denom)
	}
	return nil
}

func DecodeGenesis(bz []byte) (*GenesisState, error) {
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("invalid app_state json: %w", err)
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return &gs, nil
}
