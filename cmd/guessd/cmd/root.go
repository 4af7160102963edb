package cmd

import (
	clienthelpers "cosmossdk.io/client/v2/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdk "github.com/cosmos/cosmos-sdk/types"

	appparams "onchainguess/app/params"
	"onchainguess/internal/config"
)

// DefaultNodeHome is the default home directory for guessd.
var DefaultNodeHome string

func init() {
	var err error
	// Align default home dir detection with CLI env vars (e.g. GUESSD_HOME).
	clienthelpers.EnvPrefix = appparams.EnvPrefix
	DefaultNodeHome, err = clienthelpers.GetNodeHomeDirectory("." + appparams.BinaryName)
	if err != nil {
		panic(err)
	}
}

func initSDKConfig() {
	cfg := sdk.GetConfig()
	cfg.SetBech32PrefixForAccount(appparams.Bech32Prefix, appparams.Bech32Prefix+"pub")
	cfg.SetBech32PrefixForValidator(appparams.Bech32Prefix+"valoper", appparams.Bech32Prefix+"valoperpub")
	cfg.SetBech32PrefixForConsensusNode(appparams.Bech32Prefix+"valcons", appparams.Bech32Prefix+"valconspub")
	cfg.Seal()
}

// NewRootCmd creates the guessd root command. It is called once in main.
func NewRootCmd() *cobra.Command {
	initSDKConfig()
	return newRootCmd(viper.New())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appparams.BinaryName,
		Short:         "OnChainGuess commit-reveal game daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return v.BindPFlags(cmd.Flags())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(config.FlagHome, DefaultNodeHome, "node home directory")
	pf.String(config.FlagChainID, appparams.DefaultChainID, "chain id")
	pf.String(config.FlagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	pf.String(config.FlagLogFormat, config.LogFormatPlain, "log format (plain|json)")
	config.SetDefaults(v, DefaultNodeHome)

	rootCmd.AddCommand(
		startCmd(v),
		initCmd(v),
		exportCmd(v),
		commitmentCmd(),
		keysCmd(v),
		txCmd(v),
	)
	return rootCmd
}
