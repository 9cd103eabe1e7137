package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS applications (
	id         TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

type sqliteRegistry struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

func sqliteDSN(path string) string {
	return path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(FULL)"
}

// OpenSQLite opens (creating if needed) the SQLite registry at path.
func OpenSQLite(path string) (Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot create %s", filepath.Dir(path))
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, sqliteError(path, err)
	}
	// one writer; the process-level lock already serializes mutations
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, sqliteError(path, err)
	}

	return &sqliteRegistry{
		db:     db,
		path:   path,
		logger: logging.GetLogger("registry").With().Str("path", path).Logger(),
	}, nil
}

func (r *sqliteRegistry) Get(id string) (types.ApplicationRecord, error) {
	var raw string
	err := r.db.QueryRow("SELECT record FROM applications WHERE id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return types.ApplicationRecord{}, notFound(id)
	}
	if err != nil {
		return types.ApplicationRecord{}, sqliteError(r.path, err)
	}
	return decodeRow(r.path, id, raw)
}

func (r *sqliteRegistry) Put(rec types.ApplicationRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrInvalidIdentifier, "record id cannot be empty")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode record")
	}
	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO applications (id, record, updated_at) VALUES (?, ?, ?)",
		rec.ID, string(raw), rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"),
	)
	if err != nil {
		return sqliteError(r.path, err)
	}
	r.logger.Trace().Str("id", rec.ID).Msg("Record stored")
	return nil
}

func (r *sqliteRegistry) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return sqliteError(r.path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sqliteError(r.path, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (r *sqliteRegistry) List() ([]types.ApplicationRecord, error) {
	return listRows(r.db, r.path)
}

func (r *sqliteRegistry) Close() error {
	return r.db.Close()
}

func listRows(db *sql.DB, path string) ([]types.ApplicationRecord, error) {
	rows, err := db.Query("SELECT id, record FROM applications ORDER BY id ASC")
	if err != nil {
		return nil, sqliteError(path, err)
	}
	defer func() { _ = rows.Close() }()

	var records []types.ApplicationRecord
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, sqliteError(path, err)
		}
		rec, err := decodeRow(path, id, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteError(path, err)
	}
	if records == nil {
		records = []types.ApplicationRecord{}
	}
	return records, nil
}

func snapshotSQLite(path string) ([]types.ApplicationRecord, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []types.ApplicationRecord{}, nil
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, sqliteError(path, err)
	}
	defer func() { _ = db.Close() }()
	return listRows(db, path)
}

func decodeRow(path, id, raw string) (types.ApplicationRecord, error) {
	var rec types.ApplicationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, corrupt(path, err, fmt.Sprintf("cannot decode record %q", id))
	}
	if rec.ID != id {
		return rec, corrupt(path, nil, fmt.Sprintf("record %q is stored under id %q", rec.ID, id))
	}
	return rec, nil
}

// sqliteError maps driver errors: damaged databases are REGISTRY_CORRUPT,
// everything else is a write failure.
func sqliteError(path string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not a database") || strings.Contains(msg, "malformed") ||
		strings.Contains(msg, "corrupt") {
		return corrupt(path, err, "registry database is damaged")
	}
	return errors.Wrapf(err, errors.ErrDestinationUnwritable, "registry database error").
		WithDetail("path", path)
}
