package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/halvardsen/numwb/server/dao"
	"github.com/google/uuid"
)

// PresetsDB is a sqlite-backed dao.PresetRepository.
type PresetsDB struct {
	db *sql.DB
}

func (repo *PresetsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS presets (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		params_raw BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	return wrapDBError(err)
}

func (repo *PresetsDB) Create(ctx context.Context, p dao.Preset) (dao.Preset, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Preset{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO presets (id, name, kind, params_raw, created, modified) VALUES (?, ?, ?, ?, ?, ?)`,
		newUUID.String(), p.Name, p.Kind, p.ParamsRaw, now.Unix(), now.Unix(),
	)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *PresetsDB) scanRow(row *sql.Row) (dao.Preset, error) {
	var p dao.Preset
	var id string
	var created, modified int64

	err := row.Scan(&id, &p.Name, &p.Kind, &p.ParamsRaw, &created, &modified)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}

	p.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Preset{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	p.Created = time.Unix(created, 0)
	p.Modified = time.Unix(modified, 0)
	return p, nil
}

func (repo *PresetsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, kind, params_raw, created, modified FROM presets WHERE id = ?;`, id.String())
	return repo.scanRow(row)
}

func (repo *PresetsDB) GetByName(ctx context.Context, name string) (dao.Preset, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, kind, params_raw, created, modified FROM presets WHERE name = ?;`, name)
	return repo.scanRow(row)
}

func (repo *PresetsDB) GetAll(ctx context.Context) ([]dao.Preset, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, name, kind, params_raw, created, modified FROM presets ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Preset
	for rows.Next() {
		var p dao.Preset
		var id string
		var created, modified int64
		if err := rows.Scan(&id, &p.Name, &p.Kind, &p.ParamsRaw, &created, &modified); err != nil {
			return nil, wrapDBError(err)
		}
		p.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
		}
		p.Created = time.Unix(created, 0)
		p.Modified = time.Unix(modified, 0)
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *PresetsDB) Update(ctx context.Context, id uuid.UUID, p dao.Preset) (dao.Preset, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE presets SET name=?, kind=?, params_raw=?, modified=? WHERE id=?;`,
		p.Name, p.Kind, p.ParamsRaw, time.Now().Unix(), id.String(),
	)
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Preset{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Preset{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *PresetsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id.String())
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

func (repo *PresetsDB) Close() error {
	return nil
}
