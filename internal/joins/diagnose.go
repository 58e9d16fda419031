package joins

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Diagnose explains why a multi-table JOIN query returned zero rows by
// probing the live database: it counts every table standalone, then
// rebuilds the JOIN chain one table at a time and counts each step.
// Probes run sequentially, each in its own transaction; a failed probe
// records its error and the diagnostic continues. Returns nil when the
// query references fewer than two tables.
func Diagnose(ctx context.Context, dbh *sql.DB, query string) *Diagnostic {
	tables := ExtractTables(query)
	if len(tables) < 2 {
		return nil
	}

	d := &Diagnostic{Query: query, Tables: tables}

	for _, t := range tables {
		count, err := countTable(ctx, dbh, t.Name)
		tc := TableCount{Table: t.Name, Alias: t.Alias, Rows: count}
		if err != nil {
			tc.Error = err.Error()
		}
		d.TableCounts = append(d.TableCounts, tc)
	}

	var empty []string
	for _, tc := range d.TableCounts {
		if tc.Rows == 0 && tc.Error == "" {
			empty = append(empty, tc.Table)
		}
	}
	if len(empty) > 0 {
		// An empty table decides the outcome on its own, so the join
		// steps are skipped entirely.
		d.CulpritTable = empty[0]
		d.CulpritReason = fmt.Sprintf(
			"Table(s) %s contain 0 rows - any JOIN involving an empty table will always produce 0 results.",
			strings.Join(empty, ", "))
		return d
	}

	whereClause := extractWhereClause(query)

	prevCount := int64(-1)
	for stepIdx := 1; stepIdx < len(tables); stepIdx++ {
		count, stepSQL, err := countJoinStep(ctx, dbh, tables, stepIdx, "")
		step := JoinStep{
			Step:   stepIdx,
			Tables: tableNames(tables[:stepIdx+1]),
			SQL:    stepSQL,
			Rows:   count,
		}
		if err != nil {
			step.Error = err.Error()
		}
		d.JoinSteps = append(d.JoinSteps, step)

		// The first drop to zero names the culprit; later steps still
		// run so the trace stays complete.
		if count == 0 && prevCount != 0 && d.CulpritTable == "" {
			culprit := tables[stepIdx]
			d.CulpritTable = culprit.Name
			d.CulpritReason = fmt.Sprintf(
				"JOIN with %s (%s ON %s) reduces the result to 0 rows. Check that matching records exist in '%s' for the join condition.",
				culprit.Name, culprit.JoinType, culprit.OnCondition, culprit.Name)
		}
		prevCount = count
	}

	if d.CulpritTable == "" && whereClause != "" {
		lastNoWhere := int64(0)
		if len(d.JoinSteps) > 0 {
			lastNoWhere = d.JoinSteps[len(d.JoinSteps)-1].Rows
		}
		withWhere, _, _ := countJoinStep(ctx, dbh, tables, len(tables)-1, whereClause)
		if lastNoWhere > 0 && withWhere == 0 {
			d.CulpritTable = "WHERE clause"
			d.CulpritReason = fmt.Sprintf(
				"The full JOIN produces %d rows, but the WHERE clause (%s) filters all of them out.",
				lastNoWhere, whereClause)
		}
	}

	if d.CulpritTable == "" && len(d.JoinSteps) > 0 && d.JoinSteps[len(d.JoinSteps)-1].Rows == 0 {
		d.CulpritReason = "The combination of all JOINs produces 0 rows. Check that join conditions have matching data across tables."
	}

	return d
}

func tableNames(tables []TableInfo) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

func countTable(ctx context.Context, dbh *sql.DB, table string) (int64, error) {
	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// countJoinStep counts the rows produced by joining tables[0] through
// tables[upTo], optionally filtered by a WHERE clause. The probe SQL is
// returned alongside the count so callers can record it.
func countJoinStep(ctx context.Context, dbh *sql.DB, tables []TableInfo, upTo int, whereClause string) (int64, string, error) {
	base := tables[0]
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s %s", base.Name, base.Alias)
	for i := 1; i <= upTo; i++ {
		t := tables[i]
		fmt.Fprintf(&b, " %s %s %s", t.JoinType, t.Name, t.Alias)
		if t.OnCondition != "" {
			b.WriteString(" ON " + t.OnCondition)
		}
	}
	if whereClause != "" {
		b.WriteString(" WHERE " + whereClause)
	}
	stepSQL := b.String()

	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		return 0, stepSQL, err
	}
	var count int64
	if err := tx.QueryRowContext(ctx, stepSQL).Scan(&count); err != nil {
		_ = tx.Rollback()
		return 0, stepSQL, err
	}
	if err := tx.Commit(); err != nil {
		return 0, stepSQL, err
	}
	return count, stepSQL, nil
}
