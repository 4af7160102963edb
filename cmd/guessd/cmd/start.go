package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/v2/abci/server"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainguess/internal/app"
	"onchainguess/internal/config"
)

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI application server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			a, err := app.New(logger, db, cfg.ChainID)
			if err != nil {
				_ = db.Close()
				return fmt.Errorf("init app: %w", err)
			}
			defer func() { _ = a.Close() }()

			srv, err := server.NewServer(cfg.Addr, cfg.Transport, a)
			if err != nil {
				return fmt.Errorf("create abci server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("abci server start: %w", err)
			}
			defer func() { _ = srv.Stop() }()

			logger.Info("abci server listening",
				"addr", cfg.Addr,
				"transport", cfg.Transport,
				"chain_id", cfg.ChainID,
				"height", a.LastBlockHeight(),
			)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				logger.Info("shutting down", "signal", sig.String())
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().String(config.FlagAddr, "tcp://127.0.0.1:26658", "ABCI listen address")
	cmd.Flags().String(config.FlagTransport, "socket", "ABCI transport (socket|grpc)")
	cmd.Flags().String(config.FlagDBBackend, config.DBBackendGoLevelDB, "database backend (goleveldb|memdb)")
	return cmd
}

func openDB(cfg config.Config) (dbm.DB, error) {
	backend := dbm.GoLevelDBBackend
	if cfg.DBBackend == config.DBBackendMemDB {
		backend = dbm.MemDBBackend
	}
	if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
		return nil, err
	}
	db, err := dbm.NewDB("application", backend, cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", cfg.DBBackend, err)
	}
	return db, nil
}
