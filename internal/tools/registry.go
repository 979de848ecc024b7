package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools/sqldatabase"

	"rentalytics.io/rental-agent/internal/forecast"
)

// QueryChecker validates SQL syntax; backed by the chat model.
type QueryChecker interface {
	CheckQuery(ctx context.Context, query string) (string, error)
}

// Forecaster produces quantile forecasts from a numeric history.
type Forecaster interface {
	Predict(ctx context.Context, history []float64, horizon int) (*forecast.Forecast, error)
}

// Registry maps the advertised tool set to its implementations. Tools
// are invoked with the model-supplied argument mapping and return a
// string result.
type Registry struct {
	db         *sqldatabase.SQLDatabase
	checker    QueryChecker
	forecaster Forecaster
	gallery    *forecast.Gallery
}

func NewRegistry(db *sqldatabase.SQLDatabase, checker QueryChecker, forecaster Forecaster, gallery *forecast.Gallery) *Registry {
	return &Registry{
		db:         db,
		checker:    checker,
		forecaster: forecaster,
		gallery:    gallery,
	}
}

// Definitions returns the tool declarations sent to the model. The
// SQL tool descriptions follow the SQLDatabaseToolkit wording.
func (r *Registry) Definitions() []llms.Tool {
	return []llms.Tool{
		functionTool(NameListTables,
			"Input is an empty string, output is a comma separated list of tables in the database.",
			map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			}),
		functionTool(NameTableInfo,
			"Input is a comma separated list of tables, output is the schema and sample rows for those tables. Be sure the tables exist by calling "+NameListTables+" first.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tables": map[string]any{
						"type":        "string",
						"description": "Comma separated list of table names",
					},
				},
				"required": []string{"tables"},
			}),
		functionTool(NameQuerySQL,
			"Input is a detailed and correct SQLite query, output is a result from the database. If the query is not correct, an error message will be returned.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "A detailed and correct SQLite query",
					},
				},
				"required": []string{"query"},
			}),
		functionTool(NameQueryChecker,
			"Use this tool to double check if your query is correct before executing it. Always use this tool before executing a query with "+NameQuerySQL+".",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "A detailed SQLite query to be checked",
					},
				},
				"required": []string{"query"},
			}),
		functionTool(NameCurrentDatetime,
			"Get current date and time in ISO format",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"current": map[string]any{
						"type": "boolean",
					},
				},
			}),
		functionTool(NameForecast,
			"Use this tool to generate possible future predictions based on past time series data. "+
				"Provide a list of numbers as 'historical_values', and specify how many future values to predict in 'number_of_values_to_predict'. "+
				"This tool returns the predicted list of numbers representing median trends/forecasts. It'll also output a visual graph.",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"historical_values": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "number"},
					},
					"number_of_values_to_predict": map[string]any{
						"type": "integer",
					},
				},
				"required": []string{"historical_values", "number_of_values_to_predict"},
			}),
	}
}

// Dispatch invokes the named tool with the given arguments. An
// unknown name is an error; the orchestrator surfaces it back to the
// model rather than dropping the call.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	kind, ok := KindForName(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	switch kind {
	case KindListTables:
		return strings.Join(r.db.TableNames(), ", "), nil

	case KindTableInfo:
		tables := splitTables(getString(args, "tables"))
		if len(tables) == 0 {
			return "", fmt.Errorf("%s: 'tables' argument is required", NameTableInfo)
		}
		return r.db.TableInfo(ctx, tables)

	case KindQuerySQL:
		query := getString(args, "query")
		if query == "" {
			return "", fmt.Errorf("%s: 'query' argument is required", NameQuerySQL)
		}
		return r.db.Query(ctx, query)

	case KindQueryChecker:
		query := getString(args, "query")
		if query == "" {
			return "", fmt.Errorf("%s: 'query' argument is required", NameQueryChecker)
		}
		return r.checker.CheckQuery(ctx, query)

	case KindCurrentDatetime:
		return time.Now().Format(time.RFC3339), nil

	case KindForecast:
		return r.dispatchForecast(ctx, args)

	default:
		return "", fmt.Errorf("tool kind %d has no handler", kind)
	}
}

func (r *Registry) dispatchForecast(ctx context.Context, args map[string]any) (string, error) {
	history, err := getFloatSlice(args, "historical_values")
	if err != nil {
		return "", fmt.Errorf("%s: %w", NameForecast, err)
	}
	horizon, err := getInt(args, "number_of_values_to_predict")
	if err != nil {
		return "", fmt.Errorf("%s: %w", NameForecast, err)
	}

	f, err := r.forecaster.Predict(ctx, history, horizon)
	if err != nil {
		return "", err
	}

	if len(f.Chart) > 0 {
		r.gallery.Add(f.Chart)
	}

	median, err := json.Marshal(f.Median)
	if err != nil {
		return "", fmt.Errorf("failed to encode median forecast: %w", err)
	}
	return string(median), nil
}

func functionTool(name, description string, parameters map[string]any) llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

func splitTables(s string) []string {
	var tables []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}

func getString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("'%s' argument is required", key)
	}
	switch n := v.(type) {
	case float64: // JSON numbers decode as float64
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("'%s' must be a number, got %T", key, v)
	}
}

func getFloatSlice(args map[string]any, key string) ([]float64, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("'%s' argument is required", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an array of numbers, got %T", key, v)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("'%s[%d]' must be a number, got %T", key, i, item)
		}
		out = append(out, n)
	}
	return out, nil
}
