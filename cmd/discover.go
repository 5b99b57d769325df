package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/accessible-outings/outings/internal/discovery"
	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
	"github.com/accessible-outings/outings/pkg/geocode"
)

var (
	discoverLocation   string
	discoverRadius     float64
	discoverCategory   string
	discoverWheelchair bool
	discoverLimit      int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover accessible venues near a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		pt, err := resolveLocation(cmd, env)
		if err != nil {
			return err
		}

		category := model.CategoryUnknown
		if discoverCategory != "" {
			category = model.ParseCategory(discoverCategory)
			if category == model.CategoryUnknown {
				return eris.Errorf("unknown category: %s", discoverCategory)
			}
		}

		radius := discoverRadius
		if radius == 0 {
			radius = cfg.Discovery.RadiusMiles
		}
		limit := discoverLimit
		if limit == 0 {
			limit = cfg.Discovery.MaxResults
		}

		results, err := env.Engine.Discover(ctx, discovery.Request{
			Center:         pt,
			RadiusMiles:    radius,
			Category:       category,
			WheelchairOnly: discoverWheelchair,
			Limit:          limit,
		})
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No venues found.")
			return nil
		}
		for _, r := range results {
			v := r.Venue
			fmt.Printf("%-40s  %-16s  %.1f mi  interest %.1f  access %s\n",
				v.Name, v.Category, r.DistanceMiles, v.Interestingness, v.AccessibilityLevel())
		}
		return nil
	},
}

// resolveLocation turns the --location flag (US ZIP or free-form address)
// into coordinates.
func resolveLocation(cmd *cobra.Command, env *appEnv) (pt geo.Point, err error) {
	if discoverLocation == "" {
		return pt, eris.New("--location is required")
	}
	var ok bool
	if geocode.ValidZip(discoverLocation) {
		pt, ok = env.Geocoder.GeocodeZip(cmd.Context(), discoverLocation)
	} else {
		pt, ok = env.Geocoder.GeocodeAddress(cmd.Context(), discoverLocation)
	}
	if !ok {
		return pt, eris.Errorf("could not geocode location: %s", discoverLocation)
	}
	return pt, nil
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverLocation, "location", "l", "", "US ZIP code or address (required)")
	discoverCmd.Flags().Float64VarP(&discoverRadius, "radius", "r", 0, "search radius in miles (default from config)")
	discoverCmd.Flags().StringVarP(&discoverCategory, "category", "c", "", "venue category filter")
	discoverCmd.Flags().BoolVarP(&discoverWheelchair, "wheelchair", "w", false, "only wheelchair-accessible venues")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 0, "maximum results (default from config)")
	rootCmd.AddCommand(discoverCmd)
}
