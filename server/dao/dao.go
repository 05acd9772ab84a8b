// Package dao provides data access objects for the workbench server:
// persisted named problem presets and the solve records they (or ad hoc
// requests) produce. A Store interface hands out one repository per
// entity, each with the same Create/GetByID/GetAll/Update/Delete/Close
// shape.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds every repository the server needs, plus lifecycle control.
type Store interface {
	Presets() PresetRepository
	Solves() SolveRepository
	Close() error
}

// Preset is a named, persisted problem-kind-plus-parameters bundle. Params
// is stored as its TOML/JSON source text rather than a decoded map so that
// round-tripping through the DAO never lossily re-types a parameter (an
// int entered as "3" does not silently become a float64 and back).
type Preset struct {
	ID        uuid.UUID
	Name      string
	Kind      string
	ParamsRaw []byte
	Created   time.Time
	Modified  time.Time
}

// PresetRepository persists named problem presets.
type PresetRepository interface {
	Create(ctx context.Context, p Preset) (Preset, error)
	GetByID(ctx context.Context, id uuid.UUID) (Preset, error)
	GetByName(ctx context.Context, name string) (Preset, error)
	GetAll(ctx context.Context) ([]Preset, error)
	Update(ctx context.Context, id uuid.UUID, p Preset) (Preset, error)
	Delete(ctx context.Context, id uuid.UUID) (Preset, error)
	Close() error
}

// Solve is the persisted outcome of dispatching a preset or an ad hoc
// request. Exactly one of ResultRaw and ErrorText is populated: a solve
// either produced a result payload or failed with a serialized error.
type Solve struct {
	ID         uuid.UUID
	PresetID   *uuid.UUID
	Kind       string
	ParamsRaw  []byte
	ResultRaw  []byte
	ErrorText  string
	Created    time.Time
}

// SolveRepository persists solve records.
type SolveRepository interface {
	Create(ctx context.Context, s Solve) (Solve, error)
	GetByID(ctx context.Context, id uuid.UUID) (Solve, error)

	// GetAll retrieves every solve record, optionally bounded to the
	// [notBefore, notAfter] window (either bound may be nil to leave that
	// side of the window open).
	GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]Solve, error)
	Delete(ctx context.Context, id uuid.UUID) (Solve, error)
	Close() error
}
