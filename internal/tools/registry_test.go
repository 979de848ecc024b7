package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/tools/sqldatabase"
	"github.com/tmc/langchaingo/tools/sqldatabase/sqlite3"

	"rentalytics.io/rental-agent/internal/forecast"
	"rentalytics.io/rental-agent/internal/store"
)

type stubChecker struct{}

func (stubChecker) CheckQuery(_ context.Context, query string) (string, error) {
	return query, nil
}

type stubForecaster struct {
	forecast *forecast.Forecast
	err      error
}

func (s *stubForecaster) Predict(_ context.Context, _ []float64, _ int) (*forecast.Forecast, error) {
	return s.forecast, s.err
}

func newTestRegistry(t *testing.T) (*Registry, *forecast.Gallery) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	adjusted := 2080.2
	require.NoError(t, s.InsertRental(&store.RentalRecord{
		Zip: "07302", City: "Jersey City", County: "Hudson", State: "NJ",
		HomeType: 1, Date: "2023-01-31", Rent: 2100.5, RentAdjusted: &adjusted,
	}))
	require.NoError(t, s.Close())

	db, err := sqldatabase.NewSQLDatabaseWithDSN(sqlite3.EngineName, dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gallery := forecast.NewGallery()
	fc := &stubForecaster{forecast: &forecast.Forecast{
		Median: []float64{2150, 2175},
		Low:    []float64{2100, 2120},
		High:   []float64{2200, 2230},
		Chart:  []byte("\x89PNGfake"),
	}}
	return NewRegistry(db, stubChecker{}, fc, gallery), gallery
}

func TestKindForName(t *testing.T) {
	known := map[string]Kind{
		NameQuerySQL:        KindQuerySQL,
		NameTableInfo:       KindTableInfo,
		NameListTables:      KindListTables,
		NameQueryChecker:    KindQueryChecker,
		NameCurrentDatetime: KindCurrentDatetime,
		NameForecast:        KindForecast,
	}
	for name, expected := range known {
		kind, ok := KindForName(name)
		require.True(t, ok, name)
		assert.Equal(t, expected, kind)
	}

	_, ok := KindForName("multi_tool_use.parallel")
	assert.False(t, ok)
}

func TestDefinitionsCoverEveryKind(t *testing.T) {
	r, _ := newTestRegistry(t)

	defs := r.Definitions()
	require.Len(t, defs, 6)
	for _, def := range defs {
		require.NotNil(t, def.Function)
		_, ok := KindForName(def.Function.Name)
		assert.True(t, ok, "advertised tool %q must have a handler", def.Function.Name)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Dispatch(context.Background(), "does_not_exist", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestDispatch_ListTables(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), NameListTables, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "rentals")
}

func TestDispatch_TableInfo(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), NameTableInfo, map[string]any{"tables": "rentals"})
	require.NoError(t, err)
	assert.Contains(t, out, "rentals")
	assert.Contains(t, out, "zip")

	_, err = r.Dispatch(context.Background(), NameTableInfo, map[string]any{})
	assert.ErrorContains(t, err, "'tables' argument is required")
}

func TestDispatch_QuerySQL(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), NameQuerySQL, map[string]any{
		"query": "SELECT zip, rent FROM rentals",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "07302")

	_, err = r.Dispatch(context.Background(), NameQuerySQL, map[string]any{})
	assert.ErrorContains(t, err, "'query' argument is required")
}

func TestDispatch_QueryChecker(t *testing.T) {
	r, _ := newTestRegistry(t)

	query := "SELECT AVG(rent) FROM rentals WHERE zip = '07302'"
	out, err := r.Dispatch(context.Background(), NameQueryChecker, map[string]any{"query": query})
	require.NoError(t, err)
	assert.Equal(t, query, out)
}

func TestDispatch_CurrentDatetime(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), NameCurrentDatetime, map[string]any{"current": true})
	require.NoError(t, err)

	_, err = time.Parse(time.RFC3339, out)
	assert.NoError(t, err, "datetime must be RFC 3339, got %q", out)
}

func TestDispatch_Forecast(t *testing.T) {
	r, gallery := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), NameForecast, map[string]any{
		"historical_values":           []any{2000.0, 2050.0, 2100.0},
		"number_of_values_to_predict": float64(2),
	})
	require.NoError(t, err)

	var median []float64
	require.NoError(t, json.Unmarshal([]byte(out), &median))
	assert.Equal(t, []float64{2150, 2175}, median)

	// The chart lands in the gallery as a side effect.
	chartID, ok := gallery.TakeLatest()
	require.True(t, ok)
	png, ok := gallery.Get(chartID)
	require.True(t, ok)
	assert.NotEmpty(t, png)
}

func TestDispatch_ForecastArgumentValidation(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{
			name:    "missing history",
			args:    map[string]any{"number_of_values_to_predict": float64(3)},
			wantErr: "'historical_values' argument is required",
		},
		{
			name:    "missing horizon",
			args:    map[string]any{"historical_values": []any{1.0}},
			wantErr: "'number_of_values_to_predict' argument is required",
		},
		{
			name: "non numeric history",
			args: map[string]any{
				"historical_values":           []any{"high"},
				"number_of_values_to_predict": float64(3),
			},
			wantErr: "must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Dispatch(context.Background(), NameForecast, tt.args)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDispatch_ForecasterErrorPropagates(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.forecaster = &stubForecaster{err: fmt.Errorf("forecast server returned 503")}

	_, err := r.Dispatch(context.Background(), NameForecast, map[string]any{
		"historical_values":           []any{1.0, 2.0},
		"number_of_values_to_predict": float64(2),
	})
	assert.ErrorContains(t, err, "503")
}
