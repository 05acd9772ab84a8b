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

// PresetsRepository is a process-memory dao.PresetRepository, indexed by ID
// and by name (preset names are unique, matching the constraint the sqlite
// repository enforces with a UNIQUE column).
type PresetsRepository struct {
	mu          sync.RWMutex
	presets     map[uuid.UUID]dao.Preset
	byNameIndex map[string]uuid.UUID
}

func NewPresetsRepository() *PresetsRepository {
	return &PresetsRepository{
		presets:     make(map[uuid.UUID]dao.Preset),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

func (r *PresetsRepository) Create(ctx context.Context, p dao.Preset) (dao.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNameIndex[p.Name]; ok {
		return dao.Preset{}, dao.ErrConstraintViolation
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Preset{}, fmt.Errorf("could not generate ID: %w", err)
	}
	p.ID = newUUID
	p.Created = time.Now()
	p.Modified = p.Created

	r.presets[p.ID] = p
	r.byNameIndex[p.Name] = p.ID

	return p, nil
}

func (r *PresetsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}
	return p, nil
}

func (r *PresetsRepository) GetByName(ctx context.Context, name string) (dao.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNameIndex[name]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}
	return r.presets[id], nil
}

func (r *PresetsRepository) GetAll(ctx context.Context) ([]dao.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]dao.Preset, 0, len(r.presets))
	for _, p := range r.presets {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *PresetsRepository) Update(ctx context.Context, id uuid.UUID, p dao.Preset) (dao.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}

	if p.Name != existing.Name {
		if _, conflict := r.byNameIndex[p.Name]; conflict {
			return dao.Preset{}, dao.ErrConstraintViolation
		}
		delete(r.byNameIndex, existing.Name)
		r.byNameIndex[p.Name] = id
	}

	p.ID = id
	p.Created = existing.Created
	p.Modified = time.Now()
	r.presets[id] = p

	return p, nil
}

func (r *PresetsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}

	delete(r.presets, id)
	delete(r.byNameIndex, p.Name)

	return p, nil
}

func (r *PresetsRepository) Close() error {
	return nil
}
