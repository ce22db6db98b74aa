package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/salesdash/internal/compare"
	"github.com/sells-group/salesdash/internal/goal"
	"github.com/sells-group/salesdash/internal/insight"
	"github.com/sells-group/salesdash/internal/model"
)

var (
	comparePeriod   string
	comparePrevious string
)

// compareReport is a temporal comparison between two periods with the
// derived insight feed.
type compareReport struct {
	Period      string             `json:"period"`
	Previous    string             `json:"previous"`
	Comparisons []model.Comparison `json:"comparisons"`
	Insights    []model.Insight    `json:"insights"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare company KPIs between two periods",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		period, err := parsePeriod(comparePeriod)
		if err != nil {
			return err
		}
		previous := period.Previous()
		if comparePrevious != "" {
			previous, err = parsePeriod(comparePrevious)
			if err != nil {
				return err
			}
		}

		report, err := buildCompare(ctx, env, period, previous)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func buildCompare(ctx context.Context, env *env, period, previous model.Period) (compareReport, error) {
	totals, err := periodTotals(ctx, env, period)
	if err != nil {
		return compareReport{}, err
	}
	prevTotals, err := periodTotals(ctx, env, previous)
	if err != nil {
		return compareReport{}, err
	}

	comparisons := compare.Sets(totals, prevTotals)

	return compareReport{
		Period:      period.Key,
		Previous:    previous.Key,
		Comparisons: comparisons,
		Insights:    insight.Generate(comparisons),
	}, nil
}

// periodTotals computes company totals for one period with goal progress
// filled in against that period's own target.
func periodTotals(ctx context.Context, env *env, period model.Period) (model.MetricSet, error) {
	records, err := env.records(ctx, period)
	if err != nil {
		return model.MetricSet{}, err
	}
	totals := env.Calc.Total(records, period)
	totals.GoalProgressPct = goal.ProgressPct(totals.GrossRevenue, env.Goals.Target(period.Key).MonthlyTarget)
	return totals, nil
}

func init() {
	compareCmd.Flags().StringVar(&comparePeriod, "period", time.Now().UTC().Format("2006-01"), "period key (YYYY-MM)")
	compareCmd.Flags().StringVar(&comparePrevious, "previous", "", "baseline period key (default: month before --period)")
	rootCmd.AddCommand(compareCmd)
}
