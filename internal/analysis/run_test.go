package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkart/kvitt/internal/ledger"
	"github.com/nordkart/kvitt/internal/store"
)

func testLedger(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	storeID, err := s.CreateStore(ctx, "Rema 1000", "Oslo")
	require.NoError(t, err)
	_, err = s.CreateReceipt(ctx, storeID, "2024-01-05", []ledger.ItemInput{
		{Name: "Milk", Quantity: 2, Price: 150, Unit: "NOK"},
		{Name: "Bread", Quantity: 1, Price: 350, Unit: "NOK"},
	})
	require.NoError(t, err)
	return s
}

func TestRun_CollectsRows(t *testing.T) {
	s := testLedger(t)

	result, err := Run(context.Background(), s, Query{
		Name: "items",
		SQL:  "SELECT name, quantity * price FROM Item ORDER BY id ASC",
	})
	require.NoError(t, err)
	assert.Len(t, result.Columns, 2)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, []string{"Milk", "300"}, result.Rows[0])
	assert.Equal(t, []string{"Bread", "350"}, result.Rows[1])
}

func TestRun_EmptyResult(t *testing.T) {
	s := testLedger(t)

	result, err := Run(context.Background(), s, Query{
		Name: "none",
		SQL:  "SELECT name FROM Item WHERE price > 100000",
	})
	require.NoError(t, err)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestRun_WithClause(t *testing.T) {
	s := testLedger(t)

	_, err := Run(context.Background(), s, Query{
		Name: "cte",
		SQL:  "WITH t AS (SELECT price FROM Item) SELECT COUNT(*) FROM t",
	})
	assert.NoError(t, err)
}

func TestRun_RejectsWrites(t *testing.T) {
	s := testLedger(t)

	for _, stmt := range []string{
		"DELETE FROM Item",
		"UPDATE Item SET price = 0",
		"INSERT INTO Store (name) VALUES ('x')",
		"DROP TABLE Item",
		"  delete FROM Item",
		"WITH doomed AS (SELECT 1) DELETE FROM Item",
		"WITH t AS (SELECT id FROM Item) UPDATE Item SET price = 0",
		"WITH t AS (SELECT 1) INSERT INTO Store (name) SELECT 'x' FROM t",
		"WITH RECURSIVE t(n) AS (SELECT 1) DELETE FROM Item WHERE id IN (SELECT n FROM t)",
		"/* select */ DELETE FROM Item",
	} {
		_, err := Run(context.Background(), s, Query{Name: "bad", SQL: stmt})
		require.Error(t, err, "statement %q should be rejected", stmt)
		assert.True(t, ledger.IsValidation(err))
	}

	// The guard fires before execution: the table is intact.
	result, err := Run(context.Background(), s, Query{Name: "count", SQL: "SELECT COUNT(*) FROM Item"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2"}}, result.Rows)
}

func TestStatementVerb(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{"SELECT 1", "SELECT"},
		{"  select 1", "SELECT"},
		{"WITH t AS (SELECT 1) SELECT * FROM t", "SELECT"},
		{"WITH RECURSIVE t(n) AS (SELECT 1 UNION ALL SELECT n+1 FROM t) SELECT n FROM t", "SELECT"},
		{"WITH doomed AS (SELECT 1) DELETE FROM Item", "DELETE"},
		{"WITH t AS (SELECT 1) UPDATE Item SET price = 0", "UPDATE"},
		{"-- DELETE FROM Item\nSELECT 1", "SELECT"},
		{"/* DELETE */ SELECT 1", "SELECT"},
		{"SELECT 'DELETE FROM Item'", "SELECT"},
		{`WITH "select" AS (SELECT 1) DELETE FROM Item`, "DELETE"},
		{"VACUUM", "VACUUM"},
		{"PRAGMA user_version", "PRAGMA"},
		{"", ""},
		{"WITH t AS (SELECT 1)", ""},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			assert.Equal(t, tt.want, statementVerb(tt.stmt))
		})
	}
}

func TestRun_BadSQL(t *testing.T) {
	s := testLedger(t)

	_, err := Run(context.Background(), s, Query{Name: "broken", SQL: "SELECT FROM nowhere"})
	assert.Error(t, err)
}
