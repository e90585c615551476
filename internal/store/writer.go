package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
)

// Writer is the exclusive append handle of one dataset, obtained from Store.Claim.
type Writer struct {
	store *Store
	ds    *Dataset

	mu       sync.Mutex
	released bool
}

func (w *Writer) Dataset() *Dataset { return w.ds }

// Append adds records to the end of the dataset by reading the whole table,
// concatenating the batch and rewriting the file. The cost grows with the
// table; it is only safe because the Writer is the table's sole writer.
func (w *Writer) Append(records []entity.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return fmt.Errorf("append to %s: writer released", w.ds.typ)
	}
	if len(records) == 0 {
		return nil
	}

	existing, err := w.ds.Read()
	if err != nil && !errors.Is(err, ErrDatasetNotFound) {
		return err
	}
	merged := make([]entity.Record, 0, len(existing)+len(records))
	merged = append(merged, existing...)
	merged = append(merged, records...)
	return w.ds.Replace(merged)
}

// Release gives up the claim. Further appends fail.
func (w *Writer) Release() {
	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		return
	}
	w.released = true
	w.mu.Unlock()
	w.store.release(w)
}
