package database

import (
	"context"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/common"
)

// DatabaseAdapter is the warehouse side of a SQL provider.
type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	CreateTable(ctx context.Context, table common.Table) error
	DropTable(ctx context.Context, tableName string) error
	InsertRows(ctx context.Context, table common.Table, rows [][]any) error
	CountRows(ctx context.Context, tableName string) (int64, error)

	GenerateCreateTableSQL(table common.Table) string
	MapColumnType(t common.ColumnType) string
}
