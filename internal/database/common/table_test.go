package common

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDialect = Dialect{
	Quote: func(s string) string { return `"` + s + `"` },
	TypeFor: func(t ColumnType) string {
		switch t {
		case TypeBigInt:
			return "BIGINT"
		case TypeDate:
			return "DATE"
		}
		return "TEXT"
	},
}

var accounts = Table{
	Name: "accounts",
	Columns: []Column{
		{Name: "AccountID", Type: TypeBigInt, IsPrimary: true},
		{Name: "CustomerID", Type: TypeBigInt},
		{Name: "OpenedDate", Type: TypeDate, Nullable: true},
	},
}

func Test_CreateTableSQL(t *testing.T) {
	want := strings.Join([]string{
		`CREATE TABLE IF NOT EXISTS "accounts" (`,
		`  "AccountID" BIGINT PRIMARY KEY,`,
		`  "CustomerID" BIGINT NOT NULL,`,
		`  "OpenedDate" DATE`,
		`)`,
	}, "\n")
	assert.Equal(t, want, testDialect.CreateTableSQL(accounts))
	assert.Equal(t, []string{"AccountID", "CustomerID", "OpenedDate"}, accounts.ColumnNames())
}

func Test_InsertSQL(t *testing.T) {
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := testDialect.InsertSQL(qb, accounts, [][]any{
		{int64(200000), int64(100000), "2024-01-01"},
		{int64(200001), int64(100001), nil},
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "accounts" ("AccountID","CustomerID","OpenedDate") VALUES ($1,$2,$3),($4,$5,$6)`, query)
	assert.Equal(t, []any{int64(200000), int64(100000), "2024-01-01", int64(200001), int64(100001), nil}, args)

	_, _, err = testDialect.InsertSQL(qb, accounts, nil)
	assert.Error(t, err)
	_, _, err = testDialect.InsertSQL(qb, accounts, [][]any{{int64(1)}})
	assert.Error(t, err)
}

func Test_CountSQL(t *testing.T) {
	query, args, err := testDialect.CountSQL(squirrel.StatementBuilder, "accounts")
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "accounts"`, query)
	assert.Empty(t, args)
}

func Test_RowsPerStatement(t *testing.T) {
	assert.Equal(t, 500, RowsPerStatement(500, 12))
	assert.Equal(t, MaxParams/12, RowsPerStatement(10_000, 12))
	assert.Equal(t, MaxParams/16, RowsPerStatement(0, 16))
	assert.Equal(t, 7, RowsPerStatement(7, 0))
}
