package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/salesdash/internal/forecast"
	"github.com/sells-group/salesdash/internal/model"
)

var (
	forecastPeriod string
	forecastSquad  string
)

// forecastReport carries the company projection plus one projection per
// squad that has a configured target.
type forecastReport struct {
	Period  string                              `json:"period"`
	Company model.ScenarioProjection            `json:"company"`
	Squads  map[string]model.ScenarioProjection `json:"squads,omitempty"`
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "End-of-period revenue projections under three run-rate scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		period, err := parsePeriod(forecastPeriod)
		if err != nil {
			return err
		}

		report, err := buildForecast(ctx, env, period, forecastSquad, time.Now().UTC())
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func buildForecast(ctx context.Context, env *env, period model.Period, onlySquad string, now time.Time) (forecastReport, error) {
	records, err := env.records(ctx, period)
	if err != nil {
		return forecastReport{}, err
	}

	target := env.Goals.Target(period.Key)
	report := forecastReport{
		Period:  period.Key,
		Company: forecast.ProjectPeriod(env.Calc.Total(records, period), period, target.MonthlyTarget, now),
		Squads:  make(map[string]model.ScenarioProjection),
	}

	found := onlySquad == ""
	for _, sm := range env.Agg.All(records, period) {
		if onlySquad != "" && sm.SquadID != onlySquad {
			continue
		}
		found = true

		squadTarget, ok := target.SquadTarget(sm.SquadID)
		if !ok {
			// Fall back to an even split of the monthly target.
			if n := len(env.Roster.Squads(period.Key)); n > 0 {
				squadTarget = target.MonthlyTarget / float64(n)
			}
		}
		report.Squads[sm.SquadID] = forecast.ProjectPeriod(sm.MetricSet, period, squadTarget, now)
	}
	if !found {
		return forecastReport{}, eris.Errorf("unknown squad %q in period %s", onlySquad, period.Key)
	}

	return report, nil
}

func init() {
	forecastCmd.Flags().StringVar(&forecastPeriod, "period", time.Now().UTC().Format("2006-01"), "period key (YYYY-MM)")
	forecastCmd.Flags().StringVar(&forecastSquad, "squad", "", "limit squad projections to one squad ID")
	rootCmd.AddCommand(forecastCmd)
}
