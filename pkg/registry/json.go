package registry

import (
	"encoding/json"
	"os"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FormatVersion is the current registry.json layout
const FormatVersion = 1

type jsonDocument struct {
	Version      int                       `json:"version"`
	Applications []types.ApplicationRecord `json:"applications"`
}

// jsonRegistry re-reads the file on every call, so it always reflects the
// last committed state even if another process wrote it.
type jsonRegistry struct {
	fs     afero.Fs
	path   string
	writer *artifact.Writer
	logger zerolog.Logger
}

// NewJSON returns a registry backed by the JSON file at path. A missing
// file is an empty registry.
func NewJSON(fs afero.Fs, path string) Registry {
	return &jsonRegistry{
		fs:     fs,
		path:   path,
		writer: artifact.NewWriter(fs),
		logger: logging.GetLogger("registry").With().Str("path", path).Logger(),
	}
}

func (r *jsonRegistry) load() (map[string]types.ApplicationRecord, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if os.IsNotExist(err) {
		return map[string]types.ApplicationRecord{}, nil
	}
	if err != nil {
		return nil, corrupt(r.path, err, "cannot read registry")
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt(r.path, err, "cannot parse registry")
	}
	if doc.Version != FormatVersion {
		return nil, corrupt(r.path, nil, "unsupported registry version").WithDetail("version", doc.Version)
	}

	items := make(map[string]types.ApplicationRecord, len(doc.Applications))
	for _, rec := range doc.Applications {
		if rec.ID == "" {
			return nil, corrupt(r.path, nil, "registry contains a record without id")
		}
		if _, dup := items[rec.ID]; dup {
			return nil, corrupt(r.path, nil, "registry contains duplicate id").WithDetail("id", rec.ID)
		}
		items[rec.ID] = rec
	}
	return items, nil
}

func (r *jsonRegistry) save(items map[string]types.ApplicationRecord) error {
	doc := jsonDocument{
		Version:      FormatVersion,
		Applications: make([]types.ApplicationRecord, 0, len(items)),
	}
	for _, rec := range items {
		doc.Applications = append(doc.Applications, rec)
	}
	sortRecords(doc.Applications)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode registry")
	}
	data = append(data, '\n')

	if err := r.writer.WriteBytes(r.path, data, artifact.ModeRegular); err != nil {
		return err
	}
	r.logger.Trace().Int("records", len(items)).Msg("Registry saved")
	return nil
}

func (r *jsonRegistry) Get(id string) (types.ApplicationRecord, error) {
	items, err := r.load()
	if err != nil {
		return types.ApplicationRecord{}, err
	}
	rec, ok := items[id]
	if !ok {
		return types.ApplicationRecord{}, notFound(id)
	}
	return rec, nil
}

func (r *jsonRegistry) Put(rec types.ApplicationRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrInvalidIdentifier, "record id cannot be empty")
	}
	items, err := r.load()
	if err != nil {
		return err
	}
	items[rec.ID] = rec.Clone()
	return r.save(items)
}

func (r *jsonRegistry) Delete(id string) error {
	items, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := items[id]; !ok {
		return notFound(id)
	}
	delete(items, id)
	return r.save(items)
}

func (r *jsonRegistry) List() ([]types.ApplicationRecord, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	records := make([]types.ApplicationRecord, 0, len(items))
	for _, rec := range items {
		records = append(records, rec)
	}
	sortRecords(records)
	return records, nil
}

func (r *jsonRegistry) Close() error {
	return nil
}

func corrupt(path string, err error, message string) *errors.LbiError {
	var e *errors.LbiError
	if err != nil {
		e = errors.Wrap(err, errors.ErrRegistryCorrupt, message)
	} else {
		e = errors.New(errors.ErrRegistryCorrupt, message)
	}
	return e.WithDetail("path", path)
}
