package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
)

var ErrNoShards = errors.New("no shards to merge")

// Shards is the set of intermediate bulk files of one entity, named
// <dataset>_part<index>.csv inside the shard directory.
type Shards struct {
	ds  *Dataset
	dir string
}

func (s *Store) Shards(d entity.Descriptor) *Shards {
	return &Shards{ds: s.Dataset(d), dir: s.shardDir}
}

func (sh *Shards) prefix() string {
	return sh.ds.typ.Dataset() + "_part"
}

func (sh *Shards) path(index int) string {
	return filepath.Join(sh.dir, sh.prefix()+strconv.Itoa(index)+fileExt)
}

// Write persists one shard.
func (sh *Shards) Write(index int, records []entity.Record) (string, error) {
	p := sh.path(index)
	err := writeAtomic(p, sh.ds.schema, func(w *csv.Writer) error {
		for _, r := range records {
			if err := w.Write(r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return p, nil
}

// Paths lists existing shard files ordered by index.
func (sh *Shards) Paths() ([]string, error) {
	entries, err := os.ReadDir(sh.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read shard directory: %w", err)
	}

	type shard struct {
		index int
		path  string
	}
	var found []shard
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, sh.prefix()) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, sh.prefix()), fileExt))
		if err != nil {
			continue
		}
		found = append(found, shard{idx, filepath.Join(sh.dir, name)})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	paths := make([]string, len(found))
	for i, s := range found {
		paths[i] = s.path
	}
	return paths, nil
}

// Merge concatenates every shard into the canonical dataset, replacing it
// atomically, then deletes the shards. It returns the merged row count.
func (sh *Shards) Merge() (int, error) {
	paths, err := sh.Paths()
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoShards, sh.ds.typ)
	}

	rows := 0
	err = writeAtomic(sh.ds.path, sh.ds.schema, func(w *csv.Writer) error {
		for _, p := range paths {
			err := scanFile(p, sh.ds.schema, func(r entity.Record) error {
				rows++
				return w.Write(r)
			})
			if err != nil {
				return fmt.Errorf("merge shard %s: %w", filepath.Base(p), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rows, sh.Clear()
}

// Clear removes every shard of the entity.
func (sh *Shards) Clear() error {
	paths, err := sh.Paths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove shard %s: %w", p, err)
		}
	}
	return nil
}
