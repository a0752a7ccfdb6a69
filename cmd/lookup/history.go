package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"snapshop_backend/internal/feature/lookup/adapters"
	"snapshop_backend/internal/platform/db"
)

var errDatabaseDisabled = errors.New("database is disabled (database.driver is 'none')")

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent lookups recorded in the search log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			gdb, err := db.OpenDB(cfg.Database, zl)
			if err != nil {
				return err
			}
			if gdb == nil {
				return errDatabaseDisabled
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer func() { _ = sqlDB.Close() }()
			}

			logs, err := adapters.NewSearchLogRepository(gdb).ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing search logs: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TIME\tOUTCOME\tMATCHES\tDURATION\tQUERY")
			for _, l := range logs {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					l.CreatedAt.Format(time.RFC3339), l.Outcome, l.MatchCount, l.Duration, l.Query)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")

	return cmd
}
