package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"onchainguess/internal/app"
	"onchainguess/internal/codec"
	guesstypes "onchainguess/x/guess/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestCommitmentCmd(t *testing.T) {
	out, err := run(t, "commitment", "42", "salt")
	require.NoError(t, err)
	require.Equal(t, guesstypes.Commitment("42", "salt"), out)

	out, err = run(t, "commitment", "42", "salt", "--verify", strings.ToUpper(guesstypes.Commitment("42", "salt")))
	require.NoError(t, err)
	require.Equal(t, "ok", out)

	_, err = run(t, "commitment", "42", "pepper", "--verify", guesstypes.Commitment("42", "salt"))
	require.ErrorContains(t, err, "commitment mismatch")
}

func TestKeysAndSignedTx(t *testing.T) {
	home := t.TempDir()

	addr, err := run(t, "keys", "add", "alice", "--home", home, "--recover-secret", "alice")
	require.NoError(t, err)

	shown, err := run(t, "keys", "show", "alice", "--home", home)
	require.NoError(t, err)
	require.Equal(t, addr, shown)

	_, err = run(t, "keys", "add", "alice", "--home", home)
	require.ErrorContains(t, err, "already exists")

	listed, err := run(t, "keys", "list", "--home", home)
	require.NoError(t, err)
	require.Equal(t, "alice\t"+addr, listed)

	commitment := guesstypes.Commitment("42", "n1")
	out, err := run(t, "tx", "commit-guess", commitment, "5",
		"--home", home, "--from", "alice", "--nonce", "3", "--chain-id", "guess-cli-1")
	require.NoError(t, err)

	env, err := codec.DecodeTxEnvelope([]byte(out))
	require.NoError(t, err)
	require.Equal(t, guesstypes.TypeMsgCommitGuess, env.Type)
	require.Equal(t, "3", env.Nonce)

	signer, err := env.Verify("guess-cli-1")
	require.NoError(t, err)
	require.Equal(t, addr, signer.String())

	var msg guesstypes.MsgCommitGuess
	require.NoError(t, json.Unmarshal(env.Value, &msg))
	require.Equal(t, addr, msg.Player)
	require.Equal(t, commitment, msg.GuessCommitment)
	require.Equal(t, int64(5), msg.Stake.Int64())

	_, err = run(t, "tx", "commit-guess", "nothex", "5", "--home", home, "--from", "alice", "--nonce", "4")
	require.ErrorContains(t, err, "64 hex chars")

	_, err = run(t, "tx", "withdraw", "--home", home, "--from", "bob", "--nonce", "1")
	require.ErrorContains(t, err, `load key "bob"`)
}

func TestInitCmd_WritesAppState(t *testing.T) {
	home := t.TempDir()
	owner, err := run(t, "keys", "add", "owner", "--home", home)
	require.NoError(t, err)
	player, err := run(t, "keys", "add", "player", "--home", home)
	require.NoError(t, err)

	_, err = run(t, "init", "--home", home, "--owner", owner, "--fund", player+"=100uguess", "--min-stake", "5")
	require.NoError(t, err)

	bz, err := os.ReadFile(AppStatePath(home))
	require.NoError(t, err)
	gs, err := app.DecodeGenesis(bz)
	require.NoError(t, err)
	require.Equal(t, owner, gs.Guess.Owner)
	require.Equal(t, int64(5), gs.Guess.Params.MinStake.Int64())
	require.Len(t, gs.Vault.Balances, 1)
	require.Equal(t, "100uguess", gs.Vault.Balances[0].Coins.String())

	_, err = run(t, "init", "--home", home, "--owner", owner)
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, "init", "--home", home, "--owner", owner, "--fund", "garbage", "--overwrite")
	require.ErrorContains(t, err, "want <address>=<coins>")
}
