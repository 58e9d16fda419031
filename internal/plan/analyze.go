package plan

import "encoding/json"

// Database engines with a supported plan dialect. Any other engine
// value leaves the plan text unparsed.
const (
	EnginePostgres  = "postgres"
	EngineMySQL     = "mysql"
	EngineSQLite    = "sqlite"
	EngineSQLServer = "sqlserver"
)

// Thresholds used by plan analysis and scoring.
const (
	largeSortRowThreshold = 10000
	highCostThreshold     = 10000.0
)

// maxWalkDepth bounds recursion into nested plan nodes so a malformed
// or adversarial plan document cannot exhaust the stack.
const maxWalkDepth = 100

// Analyze parses raw EXPLAIN output into Metrics and scores the result.
// It never fails: unparseable or empty plan text, or an unrecognized
// engine, yields baseline metrics with only ExecutionTimeMs and the
// score populated.
//
// SQLite plans use the EXPLAIN QUERY PLAN line dialect. For the other
// supported engines the text is first tried as a JSON EXPLAIN document;
// text that is not valid JSON at all falls back to free-form operator
// detection, while valid JSON of an unexpected shape is left alone.
func Analyze(planText string, executionTimeMs, slowThresholdMs float64, engine string) Metrics {
	m := Metrics{ExecutionTimeMs: executionTimeMs}

	if planText != "" {
		switch engine {
		case EngineSQLite:
			parseSQLitePlan(planText, &m)
		case EnginePostgres, EngineMySQL, EngineSQLServer:
			if !parseJSONPlan(planText, &m) && !json.Valid([]byte(planText)) {
				parseTextPlan(planText, &m)
			}
		}
	}

	m.PerformanceScore = CalculateScore(&m, slowThresholdMs)
	return m
}
