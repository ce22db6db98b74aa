package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/salesdash/internal/config"
	"github.com/sells-group/salesdash/internal/goal"
	"github.com/sells-group/salesdash/internal/metrics"
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
	"github.com/sells-group/salesdash/internal/squad"
	"github.com/sells-group/salesdash/internal/store"
)

const serveTestRoster = `
periods:
  "2026-08":
    squads:
      - id: alpha
        display_name: Squad Alpha
        monthly_target: 300000
        members:
          - display_name: Maria Souza
            canonical_name: maria-souza
            role: closer
      - id: bravo
        display_name: Squad Bravo
        monthly_target: 300000
        members:
          - display_name: João Álves
            canonical_name: joao-alves
            role: prospector
`

// newTestEnv wires an env over an in-memory store with one won deal in
// August 2026, and points the package-level config at test settings.
func newTestEnv(t *testing.T) *env {
	t.Helper()

	prior := cfg
	cfg = &config.Config{
		Server: config.ServerConfig{RequestsPerSec: 100, Burst: 100},
	}
	t.Cleanup(func() { cfg = prior })

	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	aug5 := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	aug6 := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRecords(context.Background(), []model.ActivityRecord{
		{
			ID:             "rec-1",
			ProspectorName: "João Álves",
			CloserName:     "Maria Souza",
			ScheduledAt:    &aug5,
			RealizedAt:     &aug6,
			Qualified:      model.QualifiedYes,
			DealStatus:     model.DealWon,
			ContractValue:  90000,
			Signed:         true,
			Source:         "test",
		},
	}))

	r, err := roster.Parse([]byte(serveTestRoster))
	require.NoError(t, err)

	goals, err := goal.NewBook(map[string]goal.Target{
		"2026-08": {MonthlyTarget: 600000},
	})
	require.NoError(t, err)

	return &env{
		Store:  st,
		Roster: r,
		Goals:  goals,
		Calc:   metrics.NewCalculator(r),
		Agg:    squad.NewAggregator(r),
	}
}

func TestRouter_Health(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Dashboard(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?period=2026-08", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report dashboardReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "2026-08", report.Period)
	assert.Equal(t, 1, report.Totals.Won)
	assert.InDelta(t, 90000, report.Totals.GrossRevenue, 0.001)
	assert.InDelta(t, 15, report.Totals.GoalProgressPct, 0.001) // 90k of 600k
}

func TestRouter_Squads(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/squads?period=2026-08", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report squadsReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report.Squads, 2)

	// Revenue follows the closer's squad, so alpha leads the board.
	assert.Equal(t, "alpha", report.Squads[0].SquadID)
	assert.InDelta(t, 90000, report.Squads[0].GrossRevenue, 0.001)
	assert.Equal(t, "maria-souza", report.Squads[0].MVP)
	assert.Contains(t, report.Squads[0].Badges, model.BadgeHighestRevenue)
}

func TestRouter_Forecast(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/forecast?period=2026-08", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report forecastReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "2026-08", report.Period)
	assert.Equal(t, model.ScenarioRealistic, report.Company.Realistic.Kind)
	assert.LessOrEqual(t, report.Company.Pessimistic.ProjectedTotal, report.Company.Optimistic.ProjectedTotal)
	assert.Contains(t, report.Squads, "alpha")
	assert.Contains(t, report.Squads, "bravo")
}

func TestRouter_Forecast_UnknownSquad(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/forecast?period=2026-08&squad=zulu", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRouter_Compare(t *testing.T) {
	router := newTestEnvRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/compare?period=2026-08", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report compareReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "2026-08", report.Period)
	assert.Equal(t, "2026-07", report.Previous)
	assert.NotEmpty(t, report.Comparisons)
}

func TestRouter_BadPeriod(t *testing.T) {
	router := newRouter(newTestEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?period=August", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestThrottle(t *testing.T) {
	router := newRouterWithLimit(t, 1, 1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func newTestEnvRouter(t *testing.T) http.Handler {
	t.Helper()
	return newRouter(newTestEnv(t))
}

func newRouterWithLimit(t *testing.T, rps float64, burst int) http.Handler {
	t.Helper()
	e := newTestEnv(t)
	cfg.Server.RequestsPerSec = rps
	cfg.Server.Burst = burst
	return newRouter(e)
}
