package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var maintainRescore bool

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Purge expired cache entries and optionally rescore venues",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		purged, err := env.Store.DeleteExpiredCacheEntries(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d expired cache entries.\n", purged)

		if !maintainRescore {
			return nil
		}

		venues, err := env.Store.ListVenues(ctx)
		if err != nil {
			return err
		}
		rescored := 0
		for i := range venues {
			v := &venues[i]
			reviews, err := env.Store.ListReviews(ctx, v.ID)
			if err != nil {
				zap.L().Warn("skipping venue rescore", zap.String("id", v.ID), zap.Error(err))
				continue
			}
			env.Engine.Score(v, nil, reviews)
			if err := env.Store.UpsertVenue(ctx, v); err != nil {
				zap.L().Warn("rescore upsert failed", zap.String("id", v.ID), zap.Error(err))
				continue
			}
			rescored++
		}
		fmt.Printf("Rescored %d venues.\n", rescored)
		return nil
	},
}

func init() {
	maintainCmd.Flags().BoolVar(&maintainRescore, "rescore", false, "recompute scores for all stored venues")
	rootCmd.AddCommand(maintainCmd)
}
