package main

import (
	"context"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/squad"
)

var squadsPeriod string

// squadsReport is the squad leaderboard for one period, including the
// unassigned sentinel bucket so the figures reconcile against the
// company totals.
type squadsReport struct {
	Period     string               `json:"period"`
	Squads     []model.SquadMetrics `json:"squads"`
	Unassigned model.MetricSet      `json:"unassigned"`
}

var squadsCmd = &cobra.Command{
	Use:   "squads",
	Short: "Squad leaderboard with MVPs and head-to-head badges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		period, err := parsePeriod(squadsPeriod)
		if err != nil {
			return err
		}

		report, err := buildSquads(ctx, env, period)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func buildSquads(ctx context.Context, env *env, period model.Period) (squadsReport, error) {
	records, err := env.records(ctx, period)
	if err != nil {
		return squadsReport{}, err
	}

	squads := env.Agg.All(records, period)

	// Badges are a head-to-head contest, defined only for the two-squad
	// layout the sales floor runs.
	if len(squads) == 2 {
		squad.AssignBadges(&squads[0], &squads[1])
	}

	// Leaderboard order: gross revenue descending, squad ID as tiebreak.
	sort.SliceStable(squads, func(i, j int) bool {
		if squads[i].GrossRevenue != squads[j].GrossRevenue {
			return squads[i].GrossRevenue > squads[j].GrossRevenue
		}
		return squads[i].SquadID < squads[j].SquadID
	})

	return squadsReport{
		Period:     period.Key,
		Squads:     squads,
		Unassigned: env.Agg.Unassigned(records, period),
	}, nil
}

func init() {
	squadsCmd.Flags().StringVar(&squadsPeriod, "period", time.Now().UTC().Format("2006-01"), "period key (YYYY-MM)")
	rootCmd.AddCommand(squadsCmd)
}
