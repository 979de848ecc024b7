package tools

// Kind is the closed enumeration of tools the agent advertises to the
// model. Every kind named in the system prompt has a case in the
// registry's dispatch switch.
type Kind int

const (
	KindQuerySQL Kind = iota
	KindTableInfo
	KindListTables
	KindQueryChecker
	KindCurrentDatetime
	KindForecast
)

// Tool names as advertised to the model.
const (
	NameQuerySQL        = "query_sql_database_tool"
	NameTableInfo       = "info_sql_database_tool"
	NameListTables      = "list_sql_database_tool"
	NameQueryChecker    = "query_sql_checker_tool"
	NameCurrentDatetime = "get_current_datetime"
	NameForecast        = "get_time_series_prediction"
)

// KindForName resolves a model-supplied tool name to its kind.
func KindForName(name string) (Kind, bool) {
	switch name {
	case NameQuerySQL:
		return KindQuerySQL, true
	case NameTableInfo:
		return KindTableInfo, true
	case NameListTables:
		return KindListTables, true
	case NameQueryChecker:
		return KindQueryChecker, true
	case NameCurrentDatetime:
		return KindCurrentDatetime, true
	case NameForecast:
		return KindForecast, true
	default:
		return 0, false
	}
}
