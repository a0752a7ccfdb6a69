package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapshop_backend/internal/app/di"
	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/transport/http/dto"
)

func newImageCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "image <path>",
		Short: "Extract attributes from a local screenshot, build the query and search for matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			cfg, zl, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()
			if dryRun {
				cfg.Search.DryRun = true
			}

			ctx := cmd.Context()
			c, err := di.NewContainer(ctx, cfg, zl)
			if err != nil {
				return fmt.Errorf("building dependencies: %w", err)
			}
			defer func() {
				if err := c.Close(); err != nil {
					zl.Warn("closing dependencies", zap.Error(err))
				}
			}()

			res, err := c.Lookup.Lookup(ctx, entity.LookupInput{
				Image:     data,
				Debug:     true,
				RequestID: uuid.NewString(),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.FromResult(res))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "stop after building the query; do not call the search service")

	return cmd
}
