package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/common"
	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
)

type Adapter struct {
	db      *sql.DB
	qb      squirrel.StatementBuilderType
	dialect common.Dialect
}

var typeMap = map[common.ColumnType]string{
	common.TypeBigInt:    "BIGINT",
	common.TypeInteger:   "INT",
	common.TypeNumeric:   "DECIMAL(18,2)",
	common.TypeBool:      "BOOLEAN",
	common.TypeDate:      "DATE",
	common.TypeTimestamp: "DATETIME",
	common.TypeText:      "TEXT",
}

func New() *Adapter {
	a := &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
	a.dialect = common.Dialect{Quote: quoteIdentifier, TypeFor: a.MapColumnType}
	return a
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// DSN converts a mysql:// URL into the driver's DSN format. Other inputs
// are returned unchanged.
func DSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")

	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}
	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return dsn
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := remainder[slashIndex+1:]

	dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=REQUIRED", "tls=skip-verify")
	dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=DISABLED", "tls=false")
	dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=require", "tls=skip-verify")
	dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=disable", "tls=false")

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", DSN(url))
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) CreateTable(ctx context.Context, table common.Table) error {
	if _, err := m.db.ExecContext(ctx, m.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

func (m *Adapter) DropTable(ctx context.Context, tableName string) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName)))
	return err
}

func (m *Adapter) InsertRows(ctx context.Context, table common.Table, rows [][]any) error {
	query, args, err := m.dialect.InsertSQL(m.qb, table, rows)
	if err != nil {
		return err
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table.Name, err)
	}
	return tx.Commit()
}

func (m *Adapter) CountRows(ctx context.Context, tableName string) (int64, error) {
	query, args, err := m.dialect.CountSQL(m.qb, tableName)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", tableName, err)
	}
	return count, nil
}

func (m *Adapter) GenerateCreateTableSQL(table common.Table) string {
	return m.dialect.CreateTableSQL(table)
}

func (m *Adapter) MapColumnType(t common.ColumnType) string {
	if mapped, ok := typeMap[t]; ok {
		return mapped
	}
	return "TEXT"
}
