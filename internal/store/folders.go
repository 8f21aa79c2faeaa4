package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FolderStore persists the flat folder namespace.
type FolderStore struct {
	c *collection[FolderRecord]
}

// NewFolderStore opens (creating if necessary) the folders collection in
// dataDir.
func NewFolderStore(dataDir string) (*FolderStore, error) {
	c, err := newCollection[FolderRecord](dataDir, "folders")
	if err != nil {
		return nil, err
	}
	return &FolderStore{c: c}, nil
}

// List returns all folders sorted by name, ascending.
func (s *FolderStore) List() ([]FolderRecord, error) {
	items, err := s.c.read()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Get returns the folder with the given id, or ErrNotFound.
func (s *FolderStore) Get(id string) (FolderRecord, error) {
	items, err := s.c.read()
	if err != nil {
		return FolderRecord{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return FolderRecord{}, ErrNotFound
}

// Exists reports whether a folder with the given id exists.
func (s *FolderStore) Exists(id string) (bool, error) {
	_, err := s.Get(id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add creates a folder with the given name. The name is trimmed and must be
// non-empty afterwards.
func (s *FolderStore) Add(name string) (FolderRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FolderRecord{}, fmt.Errorf("%w: folder name is empty", ErrInvalid)
	}

	record := FolderRecord{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err := s.c.mutate(func(items []FolderRecord) ([]FolderRecord, error) {
		return append(items, record), nil
	})
	if err != nil {
		return FolderRecord{}, err
	}
	return record, nil
}

// Remove deletes the folder with the given id, returning the removed record
// or ErrNotFound. Unfiling the records that pointed at it is the caller's
// job (see FileStore.UnfileFolder).
func (s *FolderStore) Remove(id string) (FolderRecord, error) {
	var removed FolderRecord

	err := s.c.mutate(func(items []FolderRecord) ([]FolderRecord, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			removed = items[i]
			return append(items[:i], items[i+1:]...), nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return FolderRecord{}, err
	}
	return removed, nil
}
