package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the coordinate cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show coordinate cache contents by source",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		stats := e.repo.Stats()

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Entries\t%d\n", stats.TotalEntries)

		sources := make([]string, 0, len(stats.Sources))
		for src := range stats.Sources {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		for _, src := range sources {
			fmt.Fprintf(tw, "  %s\t%d\n", src, stats.Sources[src])
		}
		return tw.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached coordinates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		stats := e.repo.Stats()
		if err := e.repo.Clear(); err != nil {
			return err
		}

		fmt.Printf("cleared %d cached coordinates\n", stats.TotalEntries)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
