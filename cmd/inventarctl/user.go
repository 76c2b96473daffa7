package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Inventar/internal/profile"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show or set the operator's display name",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored username",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), profile.NewStore(a.kv, a.log).Username(cmd.Context()))
				return err
			},
		},
		&cobra.Command{
			Use:   "set NAME",
			Short: "Store the username",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := profile.NewStore(a.kv, a.log).SetUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
				return err
			},
		},
	)
	return cmd
}
