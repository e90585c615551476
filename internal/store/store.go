// Package store persists one CSV table per entity type. Tables are only ever
// rewritten in full through an atomic rename, so readers see either the old or
// the new content and never a partial file.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
)

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrWriterClaimed    = errors.New("dataset already has a writer")
)

const fileExt = ".csv"

// Store roots the canonical datasets and the bulk shard directory.
type Store struct {
	dir      string
	shardDir string

	mu     sync.Mutex
	claims map[entity.Type]*Writer
}

func New(dir, shardDir string) *Store {
	return &Store{
		dir:      dir,
		shardDir: shardDir,
		claims:   make(map[entity.Type]*Writer),
	}
}

func (s *Store) Dir() string      { return s.dir }
func (s *Store) ShardDir() string { return s.shardDir }

// Dataset returns a handle on the canonical table of d. Handles are cheap and
// hold no open files.
func (s *Store) Dataset(d entity.Descriptor) *Dataset {
	return &Dataset{
		typ:    d.Type(),
		schema: d.Schema(),
		path:   filepath.Join(s.dir, d.Type().Dataset()+fileExt),
	}
}

// Claim makes the caller the only writer of d's dataset within this store
// until the returned Writer is released.
func (s *Store) Claim(d entity.Descriptor) (*Writer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.claims[d.Type()]; taken {
		return nil, fmt.Errorf("%w: %s", ErrWriterClaimed, d.Type())
	}
	w := &Writer{store: s, ds: s.Dataset(d)}
	s.claims[d.Type()] = w
	return w, nil
}

func (s *Store) release(w *Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims[w.ds.typ] == w {
		delete(s.claims, w.ds.typ)
	}
}

// Dataset is the persisted table of one entity type.
type Dataset struct {
	typ    entity.Type
	schema entity.Schema
	path   string
}

func (d *Dataset) Type() entity.Type     { return d.typ }
func (d *Dataset) Path() string          { return d.path }
func (d *Dataset) Schema() entity.Schema { return d.schema }

func (d *Dataset) Exists() (bool, error) {
	_, err := os.Stat(d.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", d.path, err)
}

// HasData reports whether the dataset exists and holds at least one row.
// A header-only file counts as empty.
func (d *Dataset) HasData() (bool, error) {
	found := false
	err := d.scan(func(entity.Record) error {
		found = true
		return errStop
	})
	if errors.Is(err, ErrDatasetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return found, nil
}

// Read parses the full table.
func (d *Dataset) Read() ([]entity.Record, error) {
	var out []entity.Record
	err := d.scan(func(r entity.Record) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IDs returns every identifier in file order.
func (d *Dataset) IDs() ([]int64, error) {
	var ids []int64
	err := d.scan(func(r entity.Record) error {
		id, err := r.ID()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedDataset, d.path, err)
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Stats summarises a dataset without holding it in memory.
type Stats struct {
	Rows  int
	MinID int64
	MaxID int64
}

func (d *Dataset) Stats() (Stats, error) {
	var st Stats
	err := d.scan(func(r entity.Record) error {
		id, err := r.ID()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedDataset, d.path, err)
		}
		if st.Rows == 0 || id < st.MinID {
			st.MinID = id
		}
		if st.Rows == 0 || id > st.MaxID {
			st.MaxID = id
		}
		st.Rows++
		return nil
	})
	return st, err
}

// MaxID returns the largest identifier. ok is false when the dataset is
// missing or has no rows.
func (d *Dataset) MaxID() (max int64, ok bool, err error) {
	st, err := d.Stats()
	if errors.Is(err, ErrDatasetNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return st.MaxID, st.Rows > 0, nil
}

// Replace atomically rewrites the table with records.
func (d *Dataset) Replace(records []entity.Record) error {
	return writeAtomic(d.path, d.schema, func(w *csv.Writer) error {
		for _, r := range records {
			if len(r) != d.schema.Len() {
				return fmt.Errorf("%s record has %d fields, want %d", d.typ, len(r), d.schema.Len())
			}
			if err := w.Write(r); err != nil {
				return err
			}
		}
		return nil
	})
}

var errStop = errors.New("stop")

// Each streams the rows to fn, stopping at the first error fn returns.
func (d *Dataset) Each(fn func(entity.Record) error) error {
	return scanFile(d.path, d.schema, fn)
}

func (d *Dataset) scan(fn func(entity.Record) error) error {
	return scanFile(d.path, d.schema, fn)
}

func scanFile(path string, schema entity.Schema, fn func(entity.Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = schema.Len()

	header, err := r.Read()
	if err == io.EOF {
		// zero-byte file: treated like a header-only table
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedDataset, path, err)
	}
	if !slices.Equal(header, schema.Header()) {
		return fmt.Errorf("%w: %s: unexpected header %v", ErrMalformedDataset, path, header)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedDataset, path, err)
		}
		if err := fn(rec); err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
}

// writeAtomic writes header plus body into a temp file next to path and
// renames it into place.
func writeAtomic(path string, schema entity.Schema, body func(*csv.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(schema.Header()); err != nil {
		return fmt.Errorf("write header %s: %w", path, err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
