package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"filebox/internal/logging"
	"filebox/internal/metrics"
)

// collection owns one canonical JSON file holding a full record slice.
// All reads and mutations go through the mutex, serializing read-modify-write
// cycles so concurrent writers cannot lose each other's updates.
type collection[T any] struct {
	name string
	path string
	mu   sync.Mutex
}

func newCollection[T any](dataDir, name string) (*collection[T], error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	c := &collection[T]{
		name: name,
		path: filepath.Join(dataDir, name+".json"),
	}

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		if err := c.writeLocked([]T{}); err != nil {
			return nil, fmt.Errorf("failed to initialize %s collection: %w", name, err)
		}
		logging.Debug("store: initialized empty %s collection at %s", name, c.path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s collection: %w", name, err)
	}

	return c, nil
}

// readLocked loads the full collection. The caller must hold the mutex.
// Unparsable content is treated as an empty collection: the corrupt payload
// is preserved in a .corrupt sibling and the canonical file is reset.
// All other I/O failures propagate.
func (c *collection[T]) readLocked() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s collection: %w", c.name, err)
	}

	var items []T
	if len(raw) > 0 {
		jsonErr := json.Unmarshal(raw, &items)
		if jsonErr == nil {
			if items == nil {
				items = []T{}
			}
			return items, nil
		}

		logging.Error("store: %s collection is corrupt, resetting to empty: %v", c.name, jsonErr)
		metrics.StoreCorruptionsTotal.WithLabelValues(c.name).Inc()
		c.preserveCorrupt(raw)
	}

	items = []T{}
	if err := c.writeLocked(items); err != nil {
		return nil, fmt.Errorf("failed to repair %s collection: %w", c.name, err)
	}
	return items, nil
}

// preserveCorrupt copies the unparsable payload aside before the reset.
// Best effort only; losing the copy must not block recovery.
func (c *collection[T]) preserveCorrupt(raw []byte) {
	corruptPath := c.path + ".corrupt"
	if err := os.WriteFile(corruptPath, raw, 0o644); err != nil {
		logging.Warn("store: failed to preserve corrupt %s payload: %v", c.name, err)
	} else {
		logging.Warn("store: corrupt %s payload preserved at %s", c.name, corruptPath)
	}
}

// writeLocked serializes the full collection to a temporary sibling and
// atomically renames it over the canonical file. The rename is the only
// observable state transition. The caller must hold the mutex.
func (c *collection[T]) writeLocked(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s collection: %w", c.name, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s collection: %w", c.name, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to commit %s collection: %w", c.name, err)
	}
	return nil
}

// read returns a snapshot of the collection.
func (c *collection[T]) read() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := metrics.StoreOperationTimer(c.name, "read")
	defer timer.ObserveDuration()
	return c.readLocked()
}

// mutate runs one serialized read-modify-write cycle. fn receives the
// current records and returns the records to persist; returning an error
// aborts the cycle without writing.
func (c *collection[T]) mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := metrics.StoreOperationTimer(c.name, "write")
	defer timer.ObserveDuration()

	items, err := c.readLocked()
	if err != nil {
		return err
	}

	next, err := fn(items)
	if err != nil {
		return err
	}

	return c.writeLocked(next)
}
