package main

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/ft-ledger/dump"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump committed ledger state into the configured directory",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			id, err := dump.Dump(a.host, a.contract, a.cfg.Dump.Directory, a.cfg.Dump.Label)
			if err != nil {
				return err
			}

			a.log.Info("ledger dumped", zap.String("dir", a.cfg.Dump.Directory), zap.Stringer("id", id))
			fmt.Fprintln(cmd.OutOrStdout(), id)

			return nil
		}),
	}
}

func newRestoreCommand() *cobra.Command {
	var height uint64

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore ledger state from the dump with the configured label",
		Long: "Restore ledger state from the dump with the configured label into an empty store.\n" +
			"The dump with the greatest height is used unless --height is set.",
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			var (
				found  bool
				latest uint64
			)

			err := dump.IterateDumps(a.cfg.Dump.Directory, func(id dump.ID, _ *dump.Reader) error {
				if id.Label != a.cfg.Dump.Label {
					return nil
				}
				if height != 0 && id.Height != height {
					return nil
				}
				if !found || id.Height > latest {
					found, latest = true, id.Height
				}
				return nil
			})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no dump '%s' found in '%s'", a.cfg.Dump.Label, a.cfg.Dump.Directory)
			}

			target := dump.ID{Label: a.cfg.Dump.Label, Height: latest}
			errDone := errors.New("done")

			err = dump.IterateDumps(a.cfg.Dump.Directory, func(id dump.ID, r *dump.Reader) error {
				if id != target {
					return nil
				}
				if err := dump.Restore(r, a.host, a.contract); err != nil {
					return err
				}
				return errDone
			})
			if !errors.Is(err, errDone) {
				if err == nil {
					err = fmt.Errorf("dump %s disappeared", target)
				}
				return err
			}

			a.log.Info("ledger restored", zap.Stringer("id", target))
			fmt.Fprintln(cmd.OutOrStdout(), target)

			return nil
		}),
	}

	cmd.Flags().Uint64Var(&height, "height", 0, "Height of the dump to restore")

	return cmd
}
