package registry

import (
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/spf13/afero"
)

// Backend names
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Registry is the durable id -> record mapping
type Registry interface {
	// Get returns the record for id or NOT_FOUND.
	Get(id string) (types.ApplicationRecord, error)

	// Put inserts or replaces the record keyed by rec.ID.
	Put(rec types.ApplicationRecord) error

	// Delete removes the record for id or returns NOT_FOUND.
	Delete(id string) error

	// List returns every record sorted by id.
	List() ([]types.ApplicationRecord, error)

	// Close releases the store.
	Close() error
}

// Open opens the registry for backend at path. fs is used by the json
// backend only; sqlite always works on the OS filesystem.
func Open(fs afero.Fs, backend, path string) (Registry, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSON(fs, path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown registry backend %q", backend).
			WithDetail("backend", backend)
	}
}

// Snapshot lists the records of a store without taking the registry lock.
// Stores are only ever replaced by rename (json) or read through WAL
// (sqlite), so the snapshot is always a committed state.
func Snapshot(fs afero.Fs, backend, path string) ([]types.ApplicationRecord, error) {
	switch backend {
	case BackendSQLite:
		return snapshotSQLite(path)
	case BackendMemory:
		return nil, nil
	default:
		return NewJSON(fs, path).List()
	}
}

// Has reports whether id is present
func Has(reg Registry, id string) (bool, error) {
	_, err := reg.Get(id)
	if err == nil {
		return true, nil
	}
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func notFound(id string) error {
	return errors.Newf(errors.ErrNotFound, "application '%s' is not installed", id).
		WithDetail("id", id)
}
