package types

import (
	"fmt"
	"unicode/utf8"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the x/guess section of the app genesis document.
type GenesisState struct {
	// Owner is fixed for the lifetime of the chain.
	Owner    string          `json:"owner"`
	Params   Params          `json:"params"`
	Game     GameState       `json:"game"`
	Guesses  []PlayerGuess   `json:"guesses,omitempty"`
	Balances []PlayerBalance `json:"balances,omitempty"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

func ValidateGenesis(gs *GenesisState) error {
	if gs == nil {
		return fmt.Errorf("genesis state is nil")
	}
	if gs.Owner == "" {
		return fmt.Errorf("owner must be set")
	}
	if _, err := sdk.AccAddressFromBech32(gs.Owner); err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.Game.Active {
		if _, err := NormalizeCommitment(gs.Game.SecretCommitment); err != nil {
			return fmt.Errorf("active game: %w", err)
		}
	} else if len(gs.Guesses) != 0 && gs.Game.Round == 0 {
		return fmt.Errorf("guesses present but no game was ever started")
	}

	seen := make(map[string]bool, len(gs.Guesses))
	for _, g := range gs.Guesses {
		if _, err := sdk.AccAddressFromBech32(g.Player); err != nil {
			return fmt.Errorf("invalid guess player %q: %w", g.Player, err)
		}
		if seen[g.Player] {
			return fmt.Errorf("duplicate guess for player %s", g.Player)
		}
		seen[g.Player] = true
		if g.Record.Stake.IsNil() || g.Record.Stake.IsNegative() {
			return fmt.Errorf("guess for %s has invalid stake", g.Player)
		}
		if !g.Record.Revealed && g.Record.Guess != "" {
			return fmt.Errorf("unrevealed guess for %s carries plaintext", g.Player)
		}
		if !utf8.ValidString(g.Record.Guess) {
			return fmt.Errorf("guess for %s is not valid UTF-8", g.Player)
		}
	}

	seen = make(map[string]bool, len(gs.Balances))
	for _, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Player); err != nil {
			return fmt.Errorf("invalid balance player %q: %w", b.Player, err)
		}
		if seen[b.Player] {
			return fmt.Errorf("duplicate balance for player %s", b.Player)
		}
		seen[b.Player] = true
		if b.Balance.IsNil() || !b.Balance.IsPositive() {
			return fmt.Errorf("balance for %s must be > 0", b.Player)
		}
	}
	return nil
}
