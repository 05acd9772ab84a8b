package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/halvardsen/numwb/server/dao"
	"github.com/google/uuid"
)

// SolvesDB is a sqlite-backed dao.SolveRepository. Created/kind/preset_id
// are real columns so GetAll's time window and the CLI's per-kind history
// listing can push their filters down to SQL; the heavier payload
// (parameters, result, error text) is rezi-encoded into one blob column,
// storing the whole solve outcome as one rezi-encoded blob rather than
// flattening it into columns.
type SolvesDB struct {
	db *sql.DB
}

// solvePayload is the rezi-encoded portion of a Solve row.
type solvePayload struct {
	ParamsRaw []byte
	ResultRaw []byte
	ErrorText string
}

func (repo *SolvesDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS solves (
		id TEXT NOT NULL PRIMARY KEY,
		preset_id TEXT,
		kind TEXT NOT NULL,
		created INTEGER NOT NULL,
		payload BLOB NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	return wrapDBError(err)
}

func encodePayload(s dao.Solve) ([]byte, error) {
	p := solvePayload{ParamsRaw: s.ParamsRaw, ResultRaw: s.ResultRaw, ErrorText: s.ErrorText}
	return rezi.EncBinary(p), nil
}

func decodePayload(data []byte) (solvePayload, error) {
	var p solvePayload
	n, err := rezi.DecBinary(data, &p)
	if err != nil {
		return solvePayload{}, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return solvePayload{}, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return p, nil
}

func (repo *SolvesDB) Create(ctx context.Context, s dao.Solve) (dao.Solve, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Solve{}, fmt.Errorf("could not generate ID: %w", err)
	}

	payload, err := encodePayload(s)
	if err != nil {
		return dao.Solve{}, err
	}

	var presetID any
	if s.PresetID != nil {
		presetID = s.PresetID.String()
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO solves (id, preset_id, kind, created, payload) VALUES (?, ?, ?, ?, ?)`,
		newUUID.String(), presetID, s.Kind, now.Unix(), payload,
	)
	if err != nil {
		return dao.Solve{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SolvesDB) scanRow(id, kind string, presetID sql.NullString, created int64, payload []byte) (dao.Solve, error) {
	var s dao.Solve
	var err error

	s.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Solve{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if presetID.Valid {
		pid, err := uuid.Parse(presetID.String)
		if err != nil {
			return dao.Solve{}, fmt.Errorf("stored preset ID %q is invalid: %w", presetID.String, err)
		}
		s.PresetID = &pid
	}
	s.Kind = kind
	s.Created = time.Unix(created, 0)

	p, err := decodePayload(payload)
	if err != nil {
		return dao.Solve{}, err
	}
	s.ParamsRaw = p.ParamsRaw
	s.ResultRaw = p.ResultRaw
	s.ErrorText = p.ErrorText

	return s, nil
}

func (repo *SolvesDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Solve, error) {
	var kind string
	var presetID sql.NullString
	var created int64
	var payload []byte

	row := repo.db.QueryRowContext(ctx,
		`SELECT preset_id, kind, created, payload FROM solves WHERE id = ?;`, id.String())
	if err := row.Scan(&presetID, &kind, &created, &payload); err != nil {
		return dao.Solve{}, wrapDBError(err)
	}
	return repo.scanRow(id.String(), kind, presetID, created, payload)
}

func (repo *SolvesDB) GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]dao.Solve, error) {
	query := `SELECT id, preset_id, kind, created, payload FROM solves WHERE 1=1`
	var args []any
	if notBefore != nil {
		query += ` AND created >= ?`
		args = append(args, notBefore.Unix())
	}
	if notAfter != nil {
		query += ` AND created <= ?`
		args = append(args, notAfter.Unix())
	}
	query += ` ORDER BY created;`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Solve
	for rows.Next() {
		var id, kind string
		var presetID sql.NullString
		var created int64
		var payload []byte
		if err := rows.Scan(&id, &presetID, &kind, &created, &payload); err != nil {
			return nil, wrapDBError(err)
		}
		s, err := repo.scanRow(id, kind, presetID, created, payload)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *SolvesDB) Delete(ctx context.Context, id uuid.UUID) (dao.Solve, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM solves WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}
	return curVal, nil
}

func (repo *SolvesDB) Close() error {
	return nil
}
