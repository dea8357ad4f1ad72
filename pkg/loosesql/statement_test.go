package loosesql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementKeywords(t *testing.T) {
	statements := split(t, "SELECT /* c */ a, (SELECT b) FROM t1 WHERE x = 'y';", ";")
	require.Len(t, statements, 1)
	assert.Equal(t, []string{"SELECT", "a", "FROM", "WHERE", "x"}, statements[0].Keywords())
}

func TestStatementIsQuery(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"select * from users", true},
		{"SELECT * INTO backup FROM users", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"WITH x AS (SELECT 1) DELETE FROM t", false},
		{"INSERT INTO t VALUES (1) RETURNING id", true},
		{"UPDATE t SET a = 1", false},
		{"DELETE FROM t RETURNING *", true},
		{"SHOW search_path", true},
		{"EXPLAIN SELECT 1", true},
		{"DESCRIBE t", true},
		{"VALUES (1), (2)", true},
		{"PRAGMA table_info(t)", true},
		{"LIST @stage", true},
		{"CREATE TABLE t (id int)", false},
		{"-- only a comment", false},
		{"(SELECT 1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			statements := split(t, tt.sql, ";")
			require.Len(t, statements, 1)
			assert.Equal(t, tt.want, statements[0].IsQuery())
		})
	}
}

func TestStatementContent(t *testing.T) {
	statements := split(t, "SELECT 1 ;\nSELECT 2\n;\n;SELECT 3", ";")
	require.Len(t, statements, 4)
	assert.Equal(t, "SELECT 1", statements[0].Content())
	assert.Equal(t, "SELECT 2", statements[1].Content())
	assert.Equal(t, "", statements[2].Content())
	assert.Equal(t, "SELECT 3", statements[3].Content())
}

func TestStatementIsEmpty(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{";", true},
		{"/* comment */ ;", true},
		{"-- comment", true},
		{"SELECT 1;", false},
		{"'';", false},
		{"();", false},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			statements := split(t, tt.sql, ";")
			require.Len(t, statements, 1)
			assert.Equal(t, tt.want, statements[0].IsEmpty())
		})
	}
}
