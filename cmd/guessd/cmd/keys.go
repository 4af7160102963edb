package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cometbft/cometbft/v2/crypto/ed25519"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/config"
)

const flagRecover = "recover-secret"

// keyFile is the on-disk form of a local signing key.
type keyFile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	PubKey  []byte `json:"pubKey"`
	PrivKey []byte `json:"privKey"`
}

func keysDir(home string) string {
	return filepath.Join(home, "keys")
}

func keyPath(home, name string) string {
	return filepath.Join(keysDir(home), name+".json")
}

func validKeyName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("invalid key name %q", name)
	}
	return nil
}

func saveKey(home, name string, priv ed25519.PrivKey) (keyFile, error) {
	if err := validKeyName(name); err != nil {
		return keyFile{}, err
	}
	path := keyPath(home, name)
	if _, err := os.Stat(path); err == nil {
		return keyFile{}, fmt.Errorf("key %q already exists", name)
	}
	pub := priv.PubKey()
	kf := keyFile{
		Name:    name,
		Address: sdk.AccAddress(pub.Address()).String(),
		PubKey:  pub.Bytes(),
		PrivKey: priv.Bytes(),
	}
	bz, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return keyFile{}, err
	}
	if err := os.MkdirAll(keysDir(home), 0o700); err != nil {
		return keyFile{}, err
	}
	if err := os.WriteFile(path, bz, 0o600); err != nil {
		return keyFile{}, err
	}
	return kf, nil
}

func loadKey(home, name string) (ed25519.PrivKey, keyFile, error) {
	if err := validKeyName(name); err != nil {
		return nil, keyFile{}, err
	}
	bz, err := os.ReadFile(keyPath(home, name))
	if err != nil {
		return nil, keyFile{}, fmt.Errorf("load key %q: %w", name, err)
	}
	var kf keyFile
	if err := json.Unmarshal(bz, &kf); err != nil {
		return nil, keyFile{}, fmt.Errorf("decode key %q: %w", name, err)
	}
	if len(kf.PrivKey) != ed25519.PrivateKeySize {
		return nil, keyFile{}, fmt.Errorf("key %q: bad private key length %d", name, len(kf.PrivKey))
	}
	return ed25519.PrivKey(kf.PrivKey), kf, nil
}

func keysCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local ed25519 signing keys",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a key (random, or derived from --recover-secret)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			priv := ed25519.GenPrivKey()
			if secret, _ := cmd.Flags().GetString(flagRecover); secret != "" {
				priv = ed25519.GenPrivKeyFromSecret([]byte(secret))
			}
			kf, err := saveKey(cfg.Home, args[0], priv)
			if err != nil {
				return err
			}
			cmd.Println(kf.Address)
			return nil
		},
	}
	add.Flags().String(flagRecover, "", "derive the key deterministically from this secret")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a key's address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			_, kf, err := loadKey(cfg.Home, args[0])
			if err != nil {
				return err
			}
			cmd.Println(kf.Address)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(keysDir(cfg.Home))
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
					names = append(names, name)
				}
			}
			sort.Strings(names)
			for _, name := range names {
				_, kf, err := loadKey(cfg.Home, name)
				if err != nil {
					return err
				}
				cmd.Printf("%s\t%s\n", kf.Name, kf.Address)
			}
			return nil
		},
	}

	cmd.AddCommand(add, show, list)
	return cmd
}
