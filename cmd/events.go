package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/accessible-outings/outings/internal/aggregator"
)

var (
	eventsLocation string
	eventsDays     int
	eventsTypes    []string
	eventsLimit    int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Search and sync events near a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if eventsLocation == "" {
			return eris.New("--location is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		limit := eventsLimit
		if limit == 0 {
			limit = cfg.Events.MaxResults
		}

		start := time.Now().Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, eventsDays)

		found, err := env.Aggregator.SearchAndSync(ctx, aggregator.Request{
			Location:    eventsLocation,
			Start:       start,
			End:         end,
			RadiusMiles: cfg.Events.RadiusMiles,
			Types:       eventsTypes,
			MaxResults:  limit,
		})
		if err != nil {
			return err
		}

		if len(found) == 0 {
			fmt.Println("No events found.")
			return nil
		}
		for _, e := range found {
			when := e.StartDate.Format("Mon Jan 2")
			if e.StartTime != "" {
				when += " " + e.StartTime
			}
			fmt.Printf("%-44s  %-16s  %s\n", e.Title, when, e.Cost)
		}
		return nil
	},
}

var eventsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show event provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		for _, s := range env.Aggregator.ProviderStatus(cmd.Context()) {
			state := "inactive"
			if s.Active {
				state = "active"
				if !s.CredentialsValid {
					state = "active (credentials invalid)"
				}
			}
			fmt.Printf("%-16s  %s\n", s.Name, state)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsLocation, "location", "l", "", "US ZIP code or address (required)")
	eventsCmd.Flags().IntVarP(&eventsDays, "days", "d", 30, "how many days ahead to search")
	eventsCmd.Flags().StringSliceVarP(&eventsTypes, "types", "t", nil, "event types: fun, interesting, off_beat")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "maximum results (default from config)")
	eventsCmd.AddCommand(eventsStatusCmd)
	rootCmd.AddCommand(eventsCmd)
}
