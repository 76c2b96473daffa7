package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Inventar/internal/config"
	"Inventar/internal/storage"
	"Inventar/pkg/kit"
)

type app struct {
	cfg config.Config
	log *zap.Logger
	kv  storage.KV

	driver   string
	dsn      string
	logLevel string
}

// newRootCmd builds the command tree around a. The caller closes a once
// Execute returns, whether or not the command failed.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "inventarctl",
		Short:             "Inspect and edit the Inventar catalogue, ledger and search session",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.driver, "storage-driver", "", "storage backend: memory, sqlite or postgres (default from config)")
	pf.StringVar(&a.dsn, "storage-dsn", "", "sqlite file or postgres connection string (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newItemsCmd(a), newLedgerCmd(a), newSearchCmd(a), newUserCmd(a))
	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load("inventarctl")
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Storage.Driver = a.driver
	}
	if a.dsn != "" {
		cfg.Storage.DSN = a.dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = kit.NewLogger("inventarctl", a.logLevel)

	a.kv, err = storage.Open(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN)
	return err
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
