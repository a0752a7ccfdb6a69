package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"snapshop_backend/internal/platform/cache"
	infraredis "snapshop_backend/internal/platform/redis"
)

var errCacheDisabled = errors.New("redis is not configured (set REDIS_ADDR)")

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shopping search cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached shopping search result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			rdb, err := infraredis.NewRedisClient(cmd.Context(), cfg.Cache, zl)
			if err != nil {
				return err
			}
			if rdb == nil {
				return errCacheDisabled
			}
			defer func() { _ = rdb.Close() }()

			n, err := cache.NewCachingProductSearcher(rdb, cfg.Cache.TTL, nil, cache.DefaultNamespace).Purge(cmd.Context())
			if err != nil {
				return fmt.Errorf("purging cache: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d cached searches\n", n)
			return err
		},
	})

	return cmd
}
