package main

import (
	"strings"

	"github.com/spf13/cobra"

	"Inventar/internal/search"
)

func newSearchCmd(a *app) *cobra.Command {
	var last bool

	cmd := &cobra.Command{
		Use:   "search [QUERY...]",
		Short: "Query the remote search endpoint and keep the result as the last search",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := search.NewGateway(a.cfg.Search.BaseURL, a.cfg.Search.Timeout, a.log)
			sess := search.NewSession(gw, a.kv, a.log, nil)
			snap := sess.Restore(cmd.Context())

			if last || len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), snap)
			}

			q := strings.Join(args, " ")
			out := sess.Search(cmd.Context(), q)
			return printJSON(cmd.OutOrStdout(), search.Snapshot{Query: q, Result: out.Result})
		},
	}
	cmd.Flags().BoolVar(&last, "last", false, "print the last stored search instead of querying")
	return cmd
}
