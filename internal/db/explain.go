package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/colebramer/sqlpulse/internal/plan"
)

// Explain captures the execution plan for a query. PostgreSQL and MySQL
// plans are taken inside a transaction that is always rolled back, so
// EXPLAIN ANALYZE on a DML statement leaves no trace. The analyze flag
// is ignored for engines whose EXPLAIN never executes the query.
func Explain(ctx context.Context, handle *sql.DB, engine, query string, analyze bool) (string, error) {
	switch engine {
	case plan.EnginePostgres:
		return explainPostgres(ctx, handle, query, analyze)
	case plan.EngineMySQL:
		return explainMySQL(ctx, handle, query, analyze)
	case plan.EngineSQLite:
		return explainSQLite(ctx, handle, query)
	case plan.EngineSQLServer:
		return explainSQLServer(ctx, handle, query)
	default:
		return "", fmt.Errorf("no EXPLAIN support for engine %q", engine)
	}
}

func explainPostgres(ctx context.Context, handle *sql.DB, query string, analyze bool) (string, error) {
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := "EXPLAIN (FORMAT JSON, BUFFERS ON"
	if analyze {
		stmt += ", ANALYZE ON"
	}
	stmt += ") " + query

	var planText string
	if err := tx.QueryRowContext(ctx, stmt).Scan(&planText); err != nil {
		return "", fmt.Errorf("executing EXPLAIN: %w", err)
	}
	return planText, nil
}

// explainMySQL uses the TREE format: the JSON format wraps the plan in
// a query_block object that carries no per-node costs worth walking,
// while TREE text names its operators the same way the text plans of
// other engines do.
func explainMySQL(ctx context.Context, handle *sql.DB, query string, analyze bool) (string, error) {
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := "EXPLAIN FORMAT=TREE "
	if analyze {
		stmt = "EXPLAIN ANALYZE "
	}

	var planText string
	if err := tx.QueryRowContext(ctx, stmt+query).Scan(&planText); err != nil {
		return "", fmt.Errorf("executing EXPLAIN: %w", err)
	}
	return planText, nil
}

// explainSQLite rebuilds the EXPLAIN QUERY PLAN row set into the
// indented tree text the sqlite3 shell prints.
func explainSQLite(ctx context.Context, handle *sql.DB, query string) (string, error) {
	rows, err := handle.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query)
	if err != nil {
		return "", fmt.Errorf("executing EXPLAIN QUERY PLAN: %w", err)
	}
	defer rows.Close()

	type planRow struct {
		id, parent int
		detail     string
	}
	var entries []planRow
	parents := make(map[int]int)

	for rows.Next() {
		var r planRow
		var notused int
		if err := rows.Scan(&r.id, &r.parent, &notused, &r.detail); err != nil {
			return "", fmt.Errorf("reading plan row: %w", err)
		}
		parents[r.id] = r.parent
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading plan rows: %w", err)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		depth := 0
		for p := e.parent; p != 0; {
			depth++
			next, ok := parents[p]
			if !ok {
				break
			}
			p = next
		}
		lines = append(lines, strings.Repeat("  ", depth)+"|--"+e.detail)
	}
	return strings.Join(lines, "\n"), nil
}

// explainSQLServer turns on SHOWPLAN_TEXT for a dedicated session, runs
// the query (which then returns plan rows instead of results), and
// restores the session setting. SHOWPLAN must stay on one connection,
// so the pool is bypassed.
func explainSQLServer(ctx context.Context, handle *sql.DB, query string) (string, error) {
	conn, err := handle.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET SHOWPLAN_TEXT ON"); err != nil {
		return "", fmt.Errorf("enabling SHOWPLAN: %w", err)
	}
	defer func() { _, _ = conn.ExecContext(ctx, "SET SHOWPLAN_TEXT OFF") }()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("capturing SHOWPLAN: %w", err)
	}
	defer rows.Close()

	var lines []string
	for {
		for rows.Next() {
			var line string
			if err := rows.Scan(&line); err != nil {
				return "", fmt.Errorf("reading plan row: %w", err)
			}
			lines = append(lines, line)
		}
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("reading plan rows: %w", err)
		}
		if !rows.NextResultSet() {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
