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

var dashboardPeriod string

// dashboardReport is the full company view for one period.
type dashboardReport struct {
	Period      string             `json:"period"`
	Totals      model.MetricSet    `json:"totals"`
	Target      goal.Target        `json:"target"`
	Comparisons []model.Comparison `json:"comparisons"`
	Insights    []model.Insight    `json:"insights"`
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Company-wide KPIs, goal progress, and period-over-period insights",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		period, err := parsePeriod(dashboardPeriod)
		if err != nil {
			return err
		}

		report, err := buildDashboard(ctx, env, period)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func buildDashboard(ctx context.Context, env *env, period model.Period) (dashboardReport, error) {
	records, err := env.records(ctx, period)
	if err != nil {
		return dashboardReport{}, err
	}

	totals := env.Calc.Total(records, period)
	target := env.Goals.Target(period.Key)
	totals.GoalProgressPct = goal.ProgressPct(totals.GrossRevenue, target.MonthlyTarget)

	prev := period.Previous()
	prevRecords, err := env.records(ctx, prev)
	if err != nil {
		return dashboardReport{}, err
	}
	prevTotals := env.Calc.Total(prevRecords, prev)
	prevTarget := env.Goals.Target(prev.Key)
	prevTotals.GoalProgressPct = goal.ProgressPct(prevTotals.GrossRevenue, prevTarget.MonthlyTarget)

	comparisons := compare.Sets(totals, prevTotals)

	return dashboardReport{
		Period:      period.Key,
		Totals:      totals,
		Target:      target,
		Comparisons: comparisons,
		Insights:    insight.Generate(comparisons),
	}, nil
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardPeriod, "period", time.Now().UTC().Format("2006-01"), "period key (YYYY-MM)")
	rootCmd.AddCommand(dashboardCmd)
}
