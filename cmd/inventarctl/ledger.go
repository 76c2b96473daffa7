package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Inventar/internal/ledger"
)

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Milk purchase ledger",
	}

	open := func(cmd *cobra.Command) *ledger.Store {
		s := ledger.NewStore(a.kv, a.log)
		s.Load(cmd.Context())
		return s
	}

	var p ledger.Purchase
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			saved, err := open(cmd).Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
	add.Flags().StringVar(&p.Name, "name", "", "buyer name")
	add.Flags().StringVar(&p.Datetime, "datetime", "", "purchase time as "+ledger.DatetimeLayout+" (default now)")
	add.Flags().Float64Var(&p.Liters, "liters", 0, "liters bought")
	add.Flags().Float64Var(&p.Price, "price", 0, "price paid")

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := open(cmd)

			if out == "" || out == "-" {
				return s.ExportCSV(cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := s.ExportCSV(f); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				if errors.Is(err, ledger.ErrNothingToExport) {
					return fmt.Errorf("%w: nothing written to %s", err, out)
				}
				return err
			}
			return f.Close()
		},
	}
	export.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print purchases in time order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd.OutOrStdout(), open(cmd).List())
			},
		},
		&cobra.Command{
			Use:   "names",
			Short: "Print known buyer names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd.OutOrStdout(), open(cmd).Names())
			},
		},
		add,
		export,
	)
	return cmd
}
