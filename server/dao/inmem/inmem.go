// Package inmem is a process-memory-backed dao.Store, used by the server's
// default (no --datadir) run mode and by handler tests: one struct per
// repository, each holding a map keyed by uuid.UUID plus whatever
// secondary index its lookups need.
package inmem

import (
	"github.com/halvardsen/numwb/server/dao"
)

type store struct {
	presets *PresetsRepository
	solves  *SolvesRepository
}

// NewDatastore returns a dao.Store with empty, process-memory-only
// repositories.
func NewDatastore() dao.Store {
	return &store{
		presets: NewPresetsRepository(),
		solves:  NewSolvesRepository(),
	}
}

func (s *store) Presets() dao.PresetRepository { return s.presets }
func (s *store) Solves() dao.SolveRepository   { return s.solves }

func (s *store) Close() error {
	return nil
}
