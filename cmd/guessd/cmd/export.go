package cmd

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainguess/internal/app"
	"onchainguess/internal/config"
)

func exportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print app state at the last committed height as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			a, err := app.New(log.NewNopLogger(), db, cfg.ChainID)
			if err != nil {
				_ = db.Close()
				return fmt.Errorf("init app: %w", err)
			}
			defer func() { _ = a.Close() }()

			exported, err := a.ExportGenesis()
			if err != nil {
				return err
			}
			bz, err := json.MarshalIndent(exported, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}
	cmd.Flags().String(config.FlagDBBackend, config.DBBackendGoLevelDB, "database backend (goleveldb|memdb)")
	return cmd
}
