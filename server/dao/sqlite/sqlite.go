// Package sqlite is a modernc.org/sqlite-backed dao.Store: one *sql.DB
// shared by every repository, each repository owning its own
// CREATE TABLE IF NOT EXISTS, errors normalized through wrapDBError.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/halvardsen/numwb/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	presets *PresetsDB
	solves  *SolvesDB
}

// NewDatastore opens (creating if absent) a sqlite database under
// storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "numwb.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.presets = &PresetsDB{db: st.db}
	if err := st.presets.init(); err != nil {
		return nil, err
	}

	st.solves = &SolvesDB{db: st.db}
	if err := st.solves.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Presets() dao.PresetRepository { return s.presets }
func (s *store) Solves() dao.SolveRepository   { return s.solves }

func (s *store) Close() error {
	return s.db.Close()
}

// wrapDBError normalizes sqlite-specific errors (constraint violations, no
// rows) to the shared dao sentinels.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 { // SQLITE_CONSTRAINT
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("sqlite: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
