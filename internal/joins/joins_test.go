package joins

import (
	"strings"
	"testing"
)

func assertTable(t *testing.T, got, want TableInfo) {
	t.Helper()
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if got.Alias != want.Alias {
		t.Errorf("Alias = %q, want %q", got.Alias, want.Alias)
	}
	if got.JoinType != want.JoinType {
		t.Errorf("JoinType = %q, want %q", got.JoinType, want.JoinType)
	}
	if got.OnCondition != want.OnCondition {
		t.Errorf("OnCondition = %q, want %q", got.OnCondition, want.OnCondition)
	}
}

func TestExtractTables_FromWithJoins(t *testing.T) {
	query := "SELECT * FROM orders o JOIN users u ON u.id = o.user_id LEFT JOIN products p ON p.id = o.product_id WHERE o.status = 'open'"

	tables := ExtractTables(query)
	if len(tables) != 3 {
		t.Fatalf("len(tables) = %d, want 3", len(tables))
	}
	assertTable(t, tables[0], TableInfo{Name: "orders", Alias: "o", JoinType: "FROM"})
	assertTable(t, tables[1], TableInfo{Name: "users", Alias: "u", JoinType: "JOIN", OnCondition: "u.id = o.user_id"})
	assertTable(t, tables[2], TableInfo{Name: "products", Alias: "p", JoinType: "LEFT JOIN", OnCondition: "p.id = o.product_id"})
}

func TestExtractTables_AliasDefaultsToTableName(t *testing.T) {
	query := "SELECT * FROM orders JOIN users ON users.id = orders.user_id"

	tables := ExtractTables(query)
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	assertTable(t, tables[0], TableInfo{Name: "orders", Alias: "orders", JoinType: "FROM"})
	assertTable(t, tables[1], TableInfo{Name: "users", Alias: "users", JoinType: "JOIN", OnCondition: "users.id = orders.user_id"})
}

func TestExtractTables_AsKeywordAlias(t *testing.T) {
	query := "SELECT * FROM orders AS o INNER JOIN users AS u ON u.id = o.user_id"

	tables := ExtractTables(query)
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	if tables[0].Alias != "o" {
		t.Errorf("tables[0].Alias = %q, want %q", tables[0].Alias, "o")
	}
	if tables[1].Alias != "u" {
		t.Errorf("tables[1].Alias = %q, want %q", tables[1].Alias, "u")
	}
	if tables[1].JoinType != "INNER JOIN" {
		t.Errorf("tables[1].JoinType = %q, want %q", tables[1].JoinType, "INNER JOIN")
	}
}

func TestExtractTables_OnConditionStopsAtClauseKeyword(t *testing.T) {
	query := "SELECT a.x FROM a JOIN b ON b.a_id = a.id ORDER BY a.x"

	tables := ExtractTables(query)
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	if tables[1].OnCondition != "b.a_id = a.id" {
		t.Errorf("OnCondition = %q, want %q", tables[1].OnCondition, "b.a_id = a.id")
	}
}

func TestExtractTables_CrossJoinWithoutOn(t *testing.T) {
	query := "SELECT * FROM dates d CROSS JOIN regions r"

	tables := ExtractTables(query)
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	assertTable(t, tables[1], TableInfo{Name: "regions", Alias: "r", JoinType: "CROSS JOIN"})
}

func TestExtractTables_MultilineQuery(t *testing.T) {
	query := `SELECT o.id
FROM orders o
	LEFT JOIN users u
	ON u.id = o.user_id
WHERE o.total > 100`

	tables := ExtractTables(query)
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	assertTable(t, tables[1], TableInfo{Name: "users", Alias: "u", JoinType: "LEFT JOIN", OnCondition: "u.id = o.user_id"})
}

func TestExtractTables_NoFromClause(t *testing.T) {
	tables := ExtractTables("SELECT 1")
	if len(tables) != 0 {
		t.Errorf("len(tables) = %d, want 0", len(tables))
	}
}

func TestHasJoins(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM a JOIN b ON b.a_id = a.id", true},
		{"select * from a left join b on b.a_id = a.id", true},
		{"SELECT * FROM a", false},
		{"SELECT joined_at FROM audits", false},
	}
	for _, tc := range cases {
		if got := HasJoins(tc.query); got != tc.want {
			t.Errorf("HasJoins(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestExtractWhereClause(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"SELECT * FROM a WHERE a.status = 'open'", "a.status = 'open'"},
		{"SELECT * FROM a WHERE a.x > 1 ORDER BY a.x", "a.x > 1"},
		{"SELECT * FROM a WHERE a.x > 1 GROUP BY a.y", "a.x > 1"},
		{"SELECT * FROM a", ""},
	}
	for _, tc := range cases {
		if got := extractWhereClause(tc.query); got != tc.want {
			t.Errorf("extractWhereClause(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestTableNames(t *testing.T) {
	tables := ExtractTables("SELECT * FROM a JOIN b ON b.a_id = a.id JOIN c ON c.b_id = b.id")
	got := strings.Join(tableNames(tables), "|")
	if got != "a|b|c" {
		t.Errorf("tableNames = %q, want %q", got, "a|b|c")
	}
}
