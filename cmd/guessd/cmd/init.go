package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/app"
	"onchainguess/internal/config"
	"onchainguess/internal/vault"
)

const (
	flagOwner     = "owner"
	flagFund      = "fund"
	flagMinStake  = "min-stake"
	flagOverwrite = "overwrite"
)

// AppStatePath is where init writes the app_state document to be embedded
// in the CometBFT genesis file.
func AppStatePath(home string) string {
	return filepath.Join(home, "config", "app_state.json")
}

func initCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and a genesis app_state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			owner, _ := cmd.Flags().GetString(flagOwner)
			funds, _ := cmd.Flags().GetStringArray(flagFund)
			minStake, _ := cmd.Flags().GetString(flagMinStake)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			gs := app.DefaultGenesis(owner)
			if minStake != "" {
				amt, ok := sdkmath.NewIntFromString(minStake)
				if !ok {
					return fmt.Errorf("invalid --%s %q", flagMinStake, minStake)
				}
				gs.Guess.Params.MinStake = amt
			}
			for _, f := range funds {
				bal, err := parseFund(f)
				if err != nil {
					return err
				}
				gs.Vault.Balances = append(gs.Vault.Balances, bal)
			}
			if err := gs.Validate(); err != nil {
				return err
			}

			path := AppStatePath(cfg.Home)
			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("%s already exists (use --%s)", path, flagOverwrite)
			}
			if err := config.WriteFile(cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, bz, 0o644); err != nil {
				return err
			}
			cmd.Printf("wrote %s and %s\n", config.FilePath(cfg.Home), path)
			return nil
		},
	}
	cmd.Flags().String(flagOwner, "", "game owner address (fixed for the chain's lifetime)")
	cmd.Flags().StringArray(flagFund, nil, "fund an account at genesis: <address>=<coins>, repeatable")
	cmd.Flags().String(flagMinStake, "", "initial minimum stake (default 1)")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite an existing app_state.json")
	_ = cmd.MarkFlagRequired(flagOwner)
	return cmd
}

func parseFund(s string) (vault.Balance, error) {
	addr, coins, ok := strings.Cut(s, "=")
	if !ok {
		return vault.Balance{}, fmt.Errorf("invalid --%s %q: want <address>=<coins>", flagFund, s)
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return vault.Balance{}, fmt.Errorf("invalid --%s address: %w", flagFund, err)
	}
	parsed, err := sdk.ParseCoinsNormalized(coins)
	if err != nil {
		return vault.Balance{}, fmt.Errorf("invalid --%s coins: %w", flagFund, err)
	}
	return vault.Balance{Address: addr, Coins: parsed}, nil
}
