package main

import (
	"fmt"

	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/spf13/cobra"
)

func newBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Print token balance of the account with decimals",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return a.host.View(func(ic *runtime.Context) error {
				meta, err := a.contract.Metadata(ic)
				if err != nil {
					return err
				}

				bal, err := a.contract.BalanceOf(ic, args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", fixedn.ToString(bal.Big(), int(meta.Decimals)), meta.Symbol)

				return nil
			})
		}),
	}
}
