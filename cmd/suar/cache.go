package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	suar "github.com/suarindonesia/website"
	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local content cache",
}

var cacheCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of records in every collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, _ suar.SiteConfig, st *store.Store) error {
			stats, err := suar.CollectStats(ctx, st)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "schema version\t%d\n", stats.Version)
			for _, c := range stats.Collections {
				fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
			}
			if !stats.LastSync.IsZero() {
				fmt.Fprintf(w, "last sync\t%s\n", stats.LastSync.Format("2006-01-02 15:04:05 MST"))
			}
			return w.Flush()
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <collection>",
	Short: "Remove every record from a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, _ suar.SiteConfig, st *store.Store) error {
			if err := st.Clear(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
			return nil
		})
	},
}

var cacheSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the cached articles and pages with the remote store's",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, cfg suar.SiteConfig, st *store.Store) error {
			if cfg.RemoteURL == "" {
				return fmt.Errorf("remote.url is not configured")
			}
			log := logging.New(logging.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
			repo := content.NewRepository(content.NewRESTRemote(cfg.RemoteURL, cfg.RemoteKey), st, log)
			res, err := repo.Sync(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d articles and %d pages (%d skipped)\n",
				res.Articles, res.Pages, res.Skipped)
			return nil
		})
	},
}

func withStore(ctx context.Context, fn func(context.Context, suar.SiteConfig, *store.Store) error) error {
	cfg, err := suar.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.Config{Dir: cfg.StoreDir, Name: cfg.StoreName})
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, cfg, st)
}

func init() {
	cacheCmd.AddCommand(cacheCountCmd, cacheClearCmd, cacheSyncCmd)
	rootCmd.AddCommand(cacheCmd)
}
