package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/salesdash/internal/goal"
	"github.com/sells-group/salesdash/internal/metrics"
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
	"github.com/sells-group/salesdash/internal/squad"
	"github.com/sells-group/salesdash/internal/store"
)

// env bundles the shared collaborators every command needs.
type env struct {
	Store  store.Store
	Roster *roster.Roster
	Goals  *goal.Book
	Calc   *metrics.Calculator
	Agg    *squad.Aggregator
}

// initEnv opens the store and loads roster and goal configuration.
func initEnv(ctx context.Context) (*env, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	r, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "load roster")
	}

	goals, err := goal.LoadBook(cfg.Goal.Path)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "load goal book")
	}

	return &env{
		Store:  st,
		Roster: r,
		Goals:  goals,
		Calc:   metrics.NewCalculator(r),
		Agg:    squad.NewAggregator(r),
	}, nil
}

func (e *env) Close() {
	_ = e.Store.Close()
}

// records loads the activity records for one period. The store applies the
// same fail-open date filter the calculators do, so undated records are
// included.
func (e *env) records(ctx context.Context, period model.Period) ([]model.ActivityRecord, error) {
	recs, err := e.Store.ListRecords(ctx, store.RecordFilter{From: &period.Start, To: &period.End})
	return recs, eris.Wrap(err, "list records")
}

// parsePeriod resolves a --period flag value, defaulting handled by caller.
func parsePeriod(key string) (model.Period, error) {
	p, ok := model.ParseMonthKey(key)
	if !ok {
		return model.Period{}, eris.Errorf("invalid period %q (expected YYYY-MM)", key)
	}
	return p, nil
}

// printJSON renders a command's result to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
