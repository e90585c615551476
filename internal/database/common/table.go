package common

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// ColumnType is the provider-neutral type of a warehouse column.
type ColumnType int

const (
	TypeBigInt ColumnType = iota
	TypeInteger
	TypeNumeric
	TypeBool
	TypeDate
	TypeTimestamp
	TypeText
)

type Column struct {
	Name      string
	Type      ColumnType
	IsPrimary bool
	Nullable  bool
}

type Table struct {
	Name    string
	Columns []Column
}

func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Dialect captures how a provider quotes identifiers and spells column types.
type Dialect struct {
	Quote   func(string) string
	TypeFor func(ColumnType) string
}

// CreateTableSQL renders an idempotent CREATE TABLE statement.
func (d Dialect) CreateTableSQL(table Table) string {
	lines := make([]string, 0, len(table.Columns)+2)
	lines = append(lines, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", d.Quote(table.Name)))
	for i, column := range table.Columns {
		comma := ","
		if i == len(table.Columns)-1 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("  %s %s%s", d.Quote(column.Name), d.FormatColumnType(column), comma))
	}
	lines = append(lines, ")")
	return strings.Join(lines, "\n")
}

func (d Dialect) FormatColumnType(column Column) string {
	parts := []string{d.TypeFor(column.Type)}
	if column.IsPrimary {
		parts = append(parts, "PRIMARY KEY")
	}
	if !column.Nullable && !column.IsPrimary {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

// InsertSQL builds one multi-row INSERT for rows, each in column order.
func (d Dialect) InsertSQL(qb squirrel.StatementBuilderType, table Table, rows [][]any) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("no rows to insert into %s", table.Name)
	}
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = d.Quote(c.Name)
	}
	ins := qb.Insert(d.Quote(table.Name)).Columns(cols...)
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, fmt.Errorf("row %d has %d values, table %s has %d columns", i, len(row), table.Name, len(cols))
		}
		ins = ins.Values(row...)
	}
	return ins.ToSql()
}

// CountSQL builds SELECT COUNT(*) for a table.
func (d Dialect) CountSQL(qb squirrel.StatementBuilderType, table string) (string, []any, error) {
	return qb.Select("COUNT(*)").From(d.Quote(table)).ToSql()
}

// MaxParams caps the bind parameters of one statement. It stays under the
// smallest limit of the supported providers.
const MaxParams = 30000

// RowsPerStatement returns how many rows of width columns fit into one
// statement without exceeding want or MaxParams.
func RowsPerStatement(want, columns int) int {
	if columns <= 0 {
		return want
	}
	limit := MaxParams / columns
	if limit < 1 {
		limit = 1
	}
	if want <= 0 || want > limit {
		return limit
	}
	return want
}
