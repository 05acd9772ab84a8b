package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/halvardsen/numwb/server/dao"
	"github.com/google/uuid"
)

// SolvesRepository is a process-memory dao.SolveRepository.
type SolvesRepository struct {
	mu     sync.RWMutex
	solves map[uuid.UUID]dao.Solve
}

func NewSolvesRepository() *SolvesRepository {
	return &SolvesRepository{solves: make(map[uuid.UUID]dao.Solve)}
}

func (r *SolvesRepository) Create(ctx context.Context, s dao.Solve) (dao.Solve, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Solve{}, fmt.Errorf("could not generate ID: %w", err)
	}
	s.ID = newUUID
	s.Created = time.Now()

	r.solves[s.ID] = s
	return s, nil
}

func (r *SolvesRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Solve, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.solves[id]
	if !ok {
		return dao.Solve{}, dao.ErrNotFound
	}
	return s, nil
}

func (r *SolvesRepository) GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]dao.Solve, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]dao.Solve, 0, len(r.solves))
	for _, s := range r.solves {
		if notBefore != nil && s.Created.Before(*notBefore) {
			continue
		}
		if notAfter != nil && s.Created.After(*notAfter) {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Created.Before(all[j].Created) })
	return all, nil
}

func (r *SolvesRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Solve, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.solves[id]
	if !ok {
		return dao.Solve{}, dao.ErrNotFound
	}
	delete(r.solves, id)
	return s, nil
}

func (r *SolvesRepository) Close() error {
	return nil
}
