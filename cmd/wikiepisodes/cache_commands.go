package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the MediaWiki response cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()

			rows := [][]string{
				{"Path", store.Path()},
				{"Enabled", yesNo(cfg.Cache.Enabled)},
				{"TTL", cfg.CacheTTL().String()},
				{"Entries", humanize.Comma(int64(stats.Entries))},
				{"Pages", humanize.Comma(int64(stats.Pages))},
				{"Expired", humanize.Comma(int64(stats.Expired))},
				{"Size", humanize.Bytes(uint64(stats.SizeBytes))},
			}
			if !stats.Oldest.IsZero() {
				rows = append(rows,
					[]string{"Oldest", humanize.Time(stats.Oldest)},
					[]string{"Newest", humanize.Time(stats.Newest)},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("Response cache", []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", removed)
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cached responses older than cache.ttl_hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired responses\n", removed)
			return nil
		},
	}
}
