package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/app"
	"onchainguess/internal/codec"
	"onchainguess/internal/config"
	guesstypes "onchainguess/x/guess/types"
)

const (
	flagFrom   = "from"
	flagNonce  = "nonce"
	flagOutput = "output"
)

// txBuilder turns positional args and the signer address into a tx body.
type txBuilder func(signer string, args []string) (any, error)

func txCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build and sign transactions for broadcast via CometBFT RPC",
		Long: `Build and sign a transaction. The output is the raw tx, suitable for
CometBFT's broadcast_tx_* endpoints. Use --nonce one above the signer's last
accepted nonce (see the /nonce/<address> query).`,
	}
	pf := cmd.PersistentFlags()
	pf.String(flagFrom, "", "name of the local key that signs the tx")
	pf.Uint64(flagNonce, 0, "envelope nonce; must exceed the signer's last nonce")
	pf.String(flagOutput, "json", "output encoding (json|hex|base64)")
	_ = cmd.MarkPersistentFlagRequired(flagFrom)
	_ = cmd.MarkPersistentFlagRequired(flagNonce)

	add := func(use, short, typ string, nargs int, build txBuilder) {
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return signAndPrint(cmd, v, typ, args, build)
			},
		})
	}

	add("start-game <secret-commitment> <reveal-window-secs>", "Open a round (owner only)", guesstypes.TypeMsgStartGame, 2,
		func(signer string, args []string) (any, error) {
			commitment, err := guesstypes.NormalizeCommitment(args[0])
			if err != nil {
				return nil, err
			}
			window, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid reveal window: %w", err)
			}
			return guesstypes.MsgStartGame{Owner: signer, SecretCommitment: commitment, RevealWindow: window}, nil
		})
	add("commit-guess <guess-commitment> <stake>", "Commit a hashed guess with a stake", guesstypes.TypeMsgCommitGuess, 2,
		func(signer string, args []string) (any, error) {
			commitment, err := guesstypes.NormalizeCommitment(args[0])
			if err != nil {
				return nil, err
			}
			stake, ok := sdkmath.NewIntFromString(args[1])
			if !ok {
				return nil, fmt.Errorf("invalid stake %q", args[1])
			}
			return guesstypes.MsgCommitGuess{Player: signer, GuessCommitment: commitment, Stake: stake}, nil
		})
	add("reveal-guess <guess> <nonce>", "Reveal a committed guess", guesstypes.TypeMsgRevealGuess, 2,
		func(signer string, args []string) (any, error) {
			return guesstypes.MsgRevealGuess{Player: signer, Guess: args[0], Nonce: args[1]}, nil
		})
	add("resolve-game <secret> <nonce>", "Reveal the secret and pay winners (owner only)", guesstypes.TypeMsgResolveGame, 2,
		func(signer string, args []string) (any, error) {
			return guesstypes.MsgResolveGame{Owner: signer, Secret: args[0], Nonce: args[1]}, nil
		})
	add("withdraw", "Withdraw the signer's reward balance", guesstypes.TypeMsgWithdraw, 0,
		func(signer string, _ []string) (any, error) {
			return guesstypes.MsgWithdraw{Player: signer}, nil
		})
	add("set-min-stake <amount>", "Set the minimum stake (owner only)", guesstypes.TypeMsgSetMinStake, 1,
		func(signer string, args []string) (any, error) {
			amt, ok := sdkmath.NewIntFromString(args[0])
			if !ok {
				return nil, fmt.Errorf("invalid amount %q", args[0])
			}
			return guesstypes.MsgSetMinStake{Owner: signer, MinStake: amt}, nil
		})
	add("send <to> <coins>", "Transfer native coins", app.TypeVaultSend, 2,
		func(signer string, args []string) (any, error) {
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return nil, err
			}
			return codec.VaultSendTx{From: signer, To: args[0], Amount: coins}, nil
		})

	return cmd
}

func signAndPrint(cmd *cobra.Command, v *viper.Viper, typ string, args []string, build txBuilder) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString(flagFrom)
	nonce, _ := cmd.Flags().GetUint64(flagNonce)
	output, _ := cmd.Flags().GetString(flagOutput)

	priv, kf, err := loadKey(cfg.Home, from)
	if err != nil {
		return err
	}
	value, err := build(kf.Address, args)
	if err != nil {
		return err
	}
	if msg, ok := value.(guesstypes.Msg); ok {
		if err := msg.ValidateBasic(); err != nil {
			return err
		}
	}
	bz, err := codec.SignTx(priv, cfg.ChainID, typ, value, nonce)
	if err != nil {
		return err
	}

	switch output {
	case "json":
		cmd.Println(string(bz))
	case "hex":
		cmd.Println(hex.EncodeToString(bz))
	case "base64":
		cmd.Println(base64.StdEncoding.EncodeToString(bz))
	default:
		return fmt.Errorf("unsupported --%s %q (json|hex|base64)", flagOutput, output)
	}
	return nil
}
