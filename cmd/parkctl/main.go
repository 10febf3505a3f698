package main

import (
	"fmt"
	"os"

	"github.com/akozadaev/cbd_parking_dashboard/internal/config"
	"github.com/akozadaev/cbd_parking_dashboard/internal/gateway"
	"github.com/akozadaev/cbd_parking_dashboard/internal/storage"
	"github.com/akozadaev/cbd_parking_dashboard/internal/viewstate"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "parkctl",
		Short: "Command line client for the CBD parking API",
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.APIBaseURL, "parking API base URL")

	client := func() *gateway.Client {
		return gateway.New(apiURL, cfg.HTTPTimeout)
	}

	rootCmd.AddCommand(spotsCmd(client))
	rootCmd.AddCommand(statsCmd(client))
	rootCmd.AddCommand(trendsCmd(client))
	rootCmd.AddCommand(insightsCmd(client))
	rootCmd.AddCommand(snapshotsCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func spotsCmd(client func() *gateway.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "spots [query]",
		Short: "List parking spots, optionally filtered by name or address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spots, err := client().ListParking(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				spots = filterSpots(spots, args[0])
			}
			printSpots(cmd.OutOrStdout(), spots)
			return nil
		},
	}
}

func statsCmd(client func() *gateway.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the parking overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := client().StatsOverview(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func trendsCmd(client func() *gateway.Client) *cobra.Command {
	var timeFrame string

	cmd := &cobra.Command{
		Use:   "trends [area]",
		Short: "Show availability trends for a CBD area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			area, ok := viewstate.LookupArea(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", viewstate.ErrUnknownArea, args[0])
			}
			if _, ok := viewstate.LookupTimeFrame(timeFrame); !ok {
				return fmt.Errorf("%w: %s", viewstate.ErrUnknownTimeFrame, timeFrame)
			}
			data, err := client().Trends(cmd.Context(), area.ID, timeFrame)
			if err != nil {
				return err
			}
			printTrends(cmd.OutOrStdout(), area, data)
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeFrame, "time-frame", "t", viewstate.DefaultTimeFrame, "day, week or month")
	return cmd
}

func insightsCmd(client func() *gateway.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show the insights summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := client().InsightsSummary(cmd.Context())
			if err != nil {
				return err
			}
			printInsights(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func snapshotsCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List recorded polling snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := storage.NewSnapshotStore(ctx, cfg.SnapshotDriver, cfg.SnapshotDSN())
			if err != nil {
				return err
			}
			defer store.Close()

			snaps, err := store.Latest(ctx, limit)
			if err != nil {
				return err
			}
			printSnapshots(cmd.OutOrStdout(), snaps)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", storage.DefaultSnapshotLimit, "number of snapshots")
	return cmd
}
