package registry

import (
	"sort"
	"sync"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/types"
)

// memoryRegistry keeps records in a map; records are cloned on the way in
// and out so callers never share slices with the store.
type memoryRegistry struct {
	mu    sync.RWMutex
	items map[string]types.ApplicationRecord
}

// NewMemory creates an empty in-memory registry
func NewMemory() Registry {
	return &memoryRegistry{
		items: make(map[string]types.ApplicationRecord),
	}
}

func (r *memoryRegistry) Get(id string) (types.ApplicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.items[id]
	if !exists {
		return types.ApplicationRecord{}, notFound(id)
	}
	return rec.Clone(), nil
}

func (r *memoryRegistry) Put(rec types.ApplicationRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrInvalidIdentifier, "record id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rec.ID] = rec.Clone()
	return nil
}

func (r *memoryRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return notFound(id)
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRegistry) List() ([]types.ApplicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]types.ApplicationRecord, 0, len(r.items))
	for _, rec := range r.items {
		records = append(records, rec.Clone())
	}
	sortRecords(records)
	return records, nil
}

func (r *memoryRegistry) Close() error {
	return nil
}

func sortRecords(records []types.ApplicationRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
