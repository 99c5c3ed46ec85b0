package main

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/ft-ledger/common"
	"github.com/nspcc-dev/ft-ledger/config"
	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	rpcft "github.com/nspcc-dev/ft-ledger/rpc/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

const configFlag = "config"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ftctl",
		Short:         "Fungible token ledger with deposit-backed storage accounting",
		Version:       common.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP(configFlag, "c", "", "Path to the YAML configuration file")

	root.AddCommand(
		newInitCommand(),
		newCallCommand(),
		newViewCommand(),
		newMethodsCommand(),
		newBalanceCommand(),
		newDumpCommand(),
		newRestoreCommand(),
		newConfigCommand(),
	)

	return root
}

// app is a ledger opened by a command.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	host     *runtime.Host
	contract *ft.Contract
	rpc      *rpcft.Dispatcher
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// openApp opens the ledger store according to the configuration.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := cfg.Logger.Build()
	if err != nil {
		return nil, err
	}

	byteCost, err := cfg.Contract.ByteCost()
	if err != nil {
		return nil, err
	}

	st, err := storage.NewStore(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DB.Type, err)
	}

	h, err := runtime.New(runtime.Prm{
		Logger: log,
		Store:  st,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init host: %w", err)
	}

	c := ft.New(ft.Prm{StorageByteCost: byteCost})

	err = h.View(func(ic *runtime.Context) error {
		stored, err := c.StorageByteCost(ic)
		if err != nil {
			return err
		}
		if stored != byteCost {
			log.Warn("configured storage byte cost is ignored, ledger keeps its own",
				zap.Stringer("configured", byteCost), zap.Stringer("ledger", stored))
		}
		return nil
	})
	if err != nil && !errors.Is(err, ft.ErrNotInitialized) {
		_ = h.Close()
		return nil, fmt.Errorf("read storage byte cost: %w", err)
	}

	log.Debug("ledger opened",
		zap.String("db", cfg.DB.Type), zap.Uint64("height", h.Height()), zap.Uint64("storage_usage", h.StorageUsage()))

	return &app{
		cfg:      cfg,
		log:      log,
		host:     h,
		contract: c,
		rpc:      rpcft.New(h, c),
	}, nil
}

func (a *app) close() error {
	// stderr sync fails on some platforms
	_ = a.log.Sync()
	return a.host.Close()
}

// withApp wraps command action with opening and closing the ledger.
func withApp(f func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}

		defer func() {
			err = multierr.Append(err, a.close())
		}()

		return f(cmd, a, args)
	}
}

func parseAmount(s string) (uint128.Uint128, error) {
	v, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, fmt.Errorf("invalid amount '%s': %w", s, err)
	}
	return v, nil
}
