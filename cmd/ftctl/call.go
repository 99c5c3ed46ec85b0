package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	rpcft "github.com/nspcc-dev/ft-ledger/rpc/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/spf13/cobra"
	"lukechampine.com/uint128"
)

const (
	callerFlag  = "caller"
	depositFlag = "deposit"
)

func addCallFlags(cmd *cobra.Command) {
	cmd.Flags().String(callerFlag, "", "Account invoking the contract")
	cmd.Flags().String(depositFlag, "0", "Payment attached to the call, base-10 smallest units")
	_ = cmd.MarkFlagRequired(callerFlag)
}

func callFlags(cmd *cobra.Command) (string, uint128.Uint128, error) {
	caller, err := cmd.Flags().GetString(callerFlag)
	if err != nil {
		return "", uint128.Zero, err
	}

	s, err := cmd.Flags().GetString(depositFlag)
	if err != nil {
		return "", uint128.Zero, err
	}

	deposit, err := parseAmount(s)
	if err != nil {
		return "", uint128.Zero, err
	}

	return caller, deposit, nil
}

func newCallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <method> [json-args]",
		Short: "Invoke state-changing contract method",
		Long: "Invoke state-changing contract method with JSON arguments, e.g.\n\n" +
			`  ftctl call ft_transfer '{"receiver_id": "bob.near", "amount": "100"}' --caller alice.near --deposit 1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			caller, deposit, err := callFlags(cmd)
			if err != nil {
				return err
			}

			res, r, err := a.rpc.Call(caller, deposit, args[0], jsonArgs(args))
			if err != nil {
				return err
			}

			printReceipt(cmd.OutOrStdout(), r)
			fmt.Fprintf(cmd.OutOrStdout(), "Result: %s\n", res)

			return nil
		}),
	}

	addCallFlags(cmd)

	return cmd
}

func newViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <method> [json-args]",
		Short: "Invoke read-only contract method",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			res, err := a.rpc.View(args[0], jsonArgs(args))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(res))

			return nil
		}),
	}
}

func newMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List contract methods",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, m := range rpcft.Methods() {
				kind := "call"
				if rpcft.IsView(m) {
					kind = "view"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", kind, m)
			}
		},
	}
}

func newInitCommand() *cobra.Command {
	var (
		owner, supply, name, symbol, icon string
		decimals                          uint8
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ledger minting the whole supply to the owner",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			meta := ft.DefaultMetadata(name, symbol, decimals)
			if icon != "" {
				meta.Icon = &icon
			}

			total, err := parseAmount(supply)
			if err != nil {
				return err
			}

			args, err := json.Marshal(rpcft.NewArgs{
				OwnerID:     owner,
				TotalSupply: (*ft.U128)(&total),
				Metadata:    &meta,
			})
			if err != nil {
				return err
			}

			_, r, err := a.rpc.Call(owner, uint128.Zero, rpcft.MethodNew, args)
			if err != nil {
				return err
			}

			printReceipt(cmd.OutOrStdout(), r)

			return nil
		}),
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner account receiving the total supply")
	cmd.Flags().StringVar(&supply, "supply", "", "Total supply, base-10 smallest units")
	cmd.Flags().StringVar(&name, "name", "", "Token name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Token symbol")
	cmd.Flags().StringVar(&icon, "icon", "", "Token icon, data URI")
	cmd.Flags().Uint8Var(&decimals, "decimals", 24, "Token decimals")

	for _, f := range []string{"owner", "supply", "name", "symbol"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func jsonArgs(args []string) []byte {
	if len(args) < 2 {
		return nil
	}
	return []byte(args[1])
}

func printReceipt(w io.Writer, r *runtime.Receipt) {
	fmt.Fprintf(w, "Call: %s (%s)\n", r.ID, r.Hash())

	for _, ev := range r.Events {
		fmt.Fprintln(w, ev.String())
	}
	for _, l := range r.Logs {
		fmt.Fprintln(w, l)
	}

	if r.StorageUsageAfter != r.StorageUsageBefore {
		fmt.Fprintf(w, "Storage: %d -> %d bytes\n", r.StorageUsageBefore, r.StorageUsageAfter)
	}

	for _, p := range r.Payouts {
		var status string
		if p.Err != nil {
			status = " FAILED: " + p.Err.Error()
		}
		fmt.Fprintf(w, "Payout: %s to %s%s\n", p.Amount, p.Receiver, status)
	}
}
