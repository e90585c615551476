package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db      *sql.DB
	qb      squirrel.StatementBuilderType
	dialect common.Dialect
}

var typeMap = map[common.ColumnType]string{
	common.TypeBigInt:    "INTEGER",
	common.TypeInteger:   "INTEGER",
	common.TypeNumeric:   "NUMERIC",
	common.TypeBool:      "INTEGER",
	common.TypeDate:      "TEXT",
	common.TypeTimestamp: "TEXT",
	common.TypeText:      "TEXT",
}

func New() *Adapter {
	a := &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
	// SQLite accepts the standard double-quoted identifier form.
	a.dialect = common.Dialect{Quote: pq.QuoteIdentifier, TypeFor: a.MapColumnType}
	return a
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?cache=shared&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) CreateTable(ctx context.Context, table common.Table) error {
	if _, err := s.db.ExecContext(ctx, s.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

func (s *Adapter) DropTable(ctx context.Context, tableName string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(tableName)))
	return err
}

func (s *Adapter) InsertRows(ctx context.Context, table common.Table, rows [][]any) error {
	query, args, err := s.dialect.InsertSQL(s.qb, table, rows)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table.Name, err)
	}
	return tx.Commit()
}

func (s *Adapter) CountRows(ctx context.Context, tableName string) (int64, error) {
	query, args, err := s.dialect.CountSQL(s.qb, tableName)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", tableName, err)
	}
	return count, nil
}

func (s *Adapter) GenerateCreateTableSQL(table common.Table) string {
	return s.dialect.CreateTableSQL(table)
}

func (s *Adapter) MapColumnType(t common.ColumnType) string {
	if mapped, ok := typeMap[t]; ok {
		return mapped
	}
	return "TEXT"
}
