// Package warehouse copies the CSV corpus into a SQL database, one table per
// entity, in dependency order.
package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/common"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var kindTypes = map[entity.FieldKind]common.ColumnType{
	entity.KindID:         common.TypeBigInt,
	entity.KindForeignKey: common.TypeBigInt,
	entity.KindEnum:       common.TypeText,
	entity.KindAmount:     common.TypeNumeric,
	entity.KindInteger:    common.TypeBigInt,
	entity.KindBool:       common.TypeBool,
	entity.KindDate:       common.TypeDate,
	entity.KindTimestamp:  common.TypeTimestamp,
	entity.KindText:       common.TypeText,
}

// TableFor derives the warehouse table of an entity from its schema.
func TableFor(d entity.Descriptor) common.Table {
	fields := d.Schema().Fields
	table := common.Table{Name: d.Type().Dataset(), Columns: make([]common.Column, len(fields))}
	for i, f := range fields {
		table.Columns[i] = common.Column{
			Name:      f.Name,
			Type:      kindTypes[f.Kind],
			IsPrimary: f.Kind == entity.KindID,
			Nullable:  f.Kind == entity.KindDate || f.Kind == entity.KindTimestamp,
		}
	}
	return table
}

// Convert parses one CSV value into the Go value bound for its column.
// Empty values become NULL.
func Convert(f entity.Field, v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	switch f.Kind {
	case entity.KindID, entity.KindForeignKey, entity.KindInteger:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		return n, nil
	case entity.KindAmount:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		return x, nil
	case entity.KindBool:
		b, err := synth.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		return b, nil
	case entity.KindDate:
		t, err := time.Parse(synth.DateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		return t, nil
	case entity.KindTimestamp:
		t, err := time.Parse(synth.TimestampLayout, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		return t, nil
	}
	return v, nil
}

type Options struct {
	// Entities restricts the load; empty means all.
	Entities []entity.Type
	// Drop recreates every selected table before loading.
	Drop bool
}

type TableReport struct {
	Entity entity.Type
	Table  string
	Rows   int
	Count  int64
}

type Loader struct {
	adapter   database.DatabaseAdapter
	catalog   *entity.Catalog
	store     *store.Store
	batchSize int
	logger    *slog.Logger
}

func NewLoader(adapter database.DatabaseAdapter, catalog *entity.Catalog, st *store.Store, batchSize int, logger *slog.Logger) *Loader {
	return &Loader{adapter: adapter, catalog: catalog, store: st, batchSize: batchSize, logger: logger}
}

// Load creates the tables and inserts every row. Tables are loaded in
// dependency order and dropped, when requested, in reverse order.
func (l *Loader) Load(ctx context.Context, opts Options) ([]TableReport, error) {
	var selected []entity.Descriptor
	for _, d := range l.catalog.All() {
		if len(opts.Entities) == 0 || slices.Contains(opts.Entities, d.Type()) {
			selected = append(selected, d)
		}
	}

	if opts.Drop {
		for i := len(selected) - 1; i >= 0; i-- {
			name := selected[i].Type().Dataset()
			if err := l.adapter.DropTable(ctx, name); err != nil {
				return nil, fmt.Errorf("failed to drop table %s: %w", name, err)
			}
		}
	}

	reports := make([]TableReport, 0, len(selected))
	for _, d := range selected {
		rep, err := l.loadOne(ctx, d)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (l *Loader) loadOne(ctx context.Context, d entity.Descriptor) (TableReport, error) {
	table := TableFor(d)
	rep := TableReport{Entity: d.Type(), Table: table.Name}
	if err := l.adapter.CreateTable(ctx, table); err != nil {
		return rep, err
	}

	fields := d.Schema().Fields
	perStmt := common.RowsPerStatement(l.batchSize, len(fields))
	batch := make([][]any, 0, perStmt)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.adapter.InsertRows(ctx, table, batch); err != nil {
			return err
		}
		rep.Rows += len(batch)
		batch = batch[:0]
		return nil
	}

	err := l.store.Dataset(d).Each(func(r entity.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := make([]any, len(fields))
		for i, f := range fields {
			v, err := Convert(f, r[i])
			if err != nil {
				return fmt.Errorf("%s row %s: %w", d.Type(), r[0], err)
			}
			row[i] = v
		}
		batch = append(batch, row)
		if len(batch) == perStmt {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		return rep, fmt.Errorf("load %s: %w", table.Name, err)
	}

	count, err := l.adapter.CountRows(ctx, table.Name)
	if err != nil {
		return rep, err
	}
	rep.Count = count
	l.logger.Info("table loaded", "table", table.Name, "rows", rep.Rows, "count", count)
	return rep, nil
}
