package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Adapter struct {
	pool    *pgxpool.Pool
	qb      squirrel.StatementBuilderType
	dialect common.Dialect
}

var typeMap = map[common.ColumnType]string{
	common.TypeBigInt:    "BIGINT",
	common.TypeInteger:   "INTEGER",
	common.TypeNumeric:   "NUMERIC(18,2)",
	common.TypeBool:      "BOOLEAN",
	common.TypeDate:      "DATE",
	common.TypeTimestamp: "TIMESTAMP",
	common.TypeText:      "TEXT",
}

func New() *Adapter {
	a := &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	a.dialect = common.Dialect{Quote: pq.QuoteIdentifier, TypeFor: a.MapColumnType}
	return a
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) CreateTable(ctx context.Context, table common.Table) error {
	if _, err := p.pool.Exec(ctx, p.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

func (p *Adapter) DropTable(ctx context.Context, tableName string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pq.QuoteIdentifier(tableName)))
	return err
}

// InsertRows writes rows inside one transaction.
func (p *Adapter) InsertRows(ctx context.Context, table common.Table, rows [][]any) error {
	query, args, err := p.dialect.InsertSQL(p.qb, table, rows)
	if err != nil {
		return err
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table.Name, err)
	}
	return tx.Commit(ctx)
}

func (p *Adapter) CountRows(ctx context.Context, tableName string) (int64, error) {
	query, args, err := p.dialect.CountSQL(p.qb, tableName)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", tableName, err)
	}
	return count, nil
}

func (p *Adapter) GenerateCreateTableSQL(table common.Table) string {
	return p.dialect.CreateTableSQL(table)
}

func (p *Adapter) MapColumnType(t common.ColumnType) string {
	if mapped, ok := typeMap[t]; ok {
		return mapped
	}
	return "TEXT"
}
