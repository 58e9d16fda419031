package runner

import (
	"context"
	"database/sql"
	"time"

	"github.com/colebramer/sqlpulse/internal/db"
	"github.com/colebramer/sqlpulse/internal/joins"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
)

// Result captures the execution of one statement plus the analysis the
// caller attaches afterwards.
type Result struct {
	QueryNumber      int               `json:"query_number"`
	LineNumber       int               `json:"line_number"`
	QueryText        string            `json:"query_text"`
	QueryType        string            `json:"query_type"`
	ExecutionTimeMs  float64           `json:"execution_time_ms"`
	RowsAffected     int64             `json:"rows_affected"`
	Success          bool              `json:"success"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	Warnings         []string          `json:"warnings"`
	Suggestions      []string          `json:"suggestions"`
	PerformanceScore int               `json:"performance_score"`
	IsSlow           bool              `json:"is_slow"`
	JoinDiagnostic   *joins.Diagnostic `json:"join_diagnostic,omitempty"`

	// Raw plan text feeds the analysis stage but stays out of reports.
	ExplainOutput string `json:"-"`
}

// Options controls statement execution.
type Options struct {
	Engine         string
	ExplainAnalyze bool
	StopOnError    bool
}

// Run executes a single statement in its own transaction and measures
// its wall-clock time. SELECT row counts come from draining the result
// set; other statements report the driver's affected-row count. For a
// successful SELECT the engine's execution plan is fetched in a second
// round trip; a failed plan fetch leaves ExplainOutput empty and never
// fails the statement.
func Run(ctx context.Context, dbh *sql.DB, stmt sqlfile.Statement, number int, opts Options) Result {
	queryType := sqlfile.QueryType(stmt.Text)
	res := Result{
		QueryNumber: number,
		LineNumber:  stmt.Line,
		QueryText:   stmt.Text,
		QueryType:   queryType,
		Success:     true,
		Warnings:    []string{},
		Suggestions: []string{},
	}

	execute(ctx, dbh, queryType, &res)

	if res.Success && queryType == "SELECT" {
		if planText, err := db.Explain(ctx, dbh, opts.Engine, stmt.Text, opts.ExplainAnalyze); err == nil {
			res.ExplainOutput = planText
		}
	}

	return res
}

func execute(ctx context.Context, dbh *sql.DB, queryType string, res *Result) {
	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		res.Success = false
		res.ErrorMessage = err.Error()
		return
	}

	start := time.Now()
	var rowCount int64
	var execErr error
	if queryType == "SELECT" {
		rowCount, execErr = drainQuery(ctx, tx, res.QueryText)
	} else {
		rowCount, execErr = execStatement(ctx, tx, res.QueryText)
	}
	res.ExecutionTimeMs = time.Since(start).Seconds() * 1000

	if execErr != nil {
		_ = tx.Rollback()
		res.Success = false
		res.ErrorMessage = execErr.Error()
		return
	}
	res.RowsAffected = rowCount

	if err := tx.Commit(); err != nil {
		res.Success = false
		res.ErrorMessage = err.Error()
	}
}

func drainQuery(ctx context.Context, tx *sql.Tx, query string) (int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}
	return count, rows.Err()
}

func execStatement(ctx context.Context, tx *sql.Tx, query string) (int64, error) {
	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows for DDL.
		return 0, nil
	}
	return n, nil
}

// RunAll executes statements sequentially, numbering them from 1.
// When StopOnError is set, execution halts after the first failure.
func RunAll(ctx context.Context, dbh *sql.DB, stmts []sqlfile.Statement, opts Options) []Result {
	var results []Result
	for i, stmt := range stmts {
		res := Run(ctx, dbh, stmt, i+1, opts)
		results = append(results, res)
		if !res.Success && opts.StopOnError {
			break
		}
	}
	return results
}

// BatchResult is the outcome of running an entire script in one call.
type BatchResult struct {
	TotalStatements int     `json:"total_statements"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	Success         bool    `json:"success"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	RowsAffected    int64   `json:"rows_affected"`
}

// RunScript sends the whole script to the database in one round trip,
// measuring total wall-clock time. totalStatements is informational.
func RunScript(ctx context.Context, dbh *sql.DB, content string, totalStatements int) BatchResult {
	res := BatchResult{TotalStatements: totalStatements, Success: true}

	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		res.Success = false
		res.ErrorMessage = err.Error()
		return res
	}

	start := time.Now()
	execRes, err := tx.ExecContext(ctx, content)
	res.ExecutionTimeMs = time.Since(start).Seconds() * 1000
	if err != nil {
		_ = tx.Rollback()
		res.Success = false
		res.ErrorMessage = err.Error()
		return res
	}
	if n, raErr := execRes.RowsAffected(); raErr == nil {
		res.RowsAffected = n
	}

	if err := tx.Commit(); err != nil {
		res.Success = false
		res.ErrorMessage = err.Error()
	}
	return res
}
