package compare

import "encoding/json"

type Direction int

const (
	Unchanged Direction = 0
	Improved  Direction = 1
	Regressed Direction = 2

	// SignificanceThresholdPct is the minimum percent change in execution
	// time before a query counts as improved or regressed.
	SignificanceThresholdPct = 10.0
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// QueryDelta describes how one query changed between two runs. Queries are
// paired by position in the report, so both sides share the query number.
type QueryDelta struct {
	QueryNumber int    `json:"query_number"`
	QueryText   string `json:"query_text"`

	OldTimeMs   float64   `json:"old_time_ms"`
	NewTimeMs   float64   `json:"new_time_ms"`
	TimeDeltaMs float64   `json:"time_delta_ms"`
	TimePct     float64   `json:"time_pct"`
	TimeDir     Direction `json:"time_dir"`

	OldScore   int `json:"old_score"`
	NewScore   int `json:"new_score"`
	ScoreDelta int `json:"score_delta"`

	OldRows   int64 `json:"old_rows"`
	NewRows   int64 `json:"new_rows"`
	RowsDelta int64 `json:"rows_delta"`

	OldSuccess bool `json:"old_success"`
	NewSuccess bool `json:"new_success"`

	Significant bool `json:"significant"`
}

type Comparison struct {
	Summary Summary      `json:"summary"`
	Deltas  []QueryDelta `json:"queries"`
}

type Summary struct {
	QueriesCompared int `json:"queries_compared"`
	OldOnly         int `json:"old_only"`
	NewOnly         int `json:"new_only"`

	Improved  int `json:"improved"`
	Regressed int `json:"regressed"`
	Unchanged int `json:"unchanged"`

	OldTotalTimeMs float64   `json:"old_total_time_ms"`
	NewTotalTimeMs float64   `json:"new_total_time_ms"`
	TimeDeltaMs    float64   `json:"time_delta_ms"`
	TimePct        float64   `json:"time_pct"`
	TimeDir        Direction `json:"time_dir"`

	Verdict string `json:"verdict"`
}
