package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/panaderia/registros/backend/internal/registro"
	"gorm.io/datatypes"
)

// MemoryRepo is an in-memory repository used in unit tests and when no
// database is configured. Records are copied in and out so callers never
// share maps with the store.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*registro.Registro
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*registro.Registro)}
}

func (m *MemoryRepo) Create(_ context.Context, r *registro.Registro) error {
	data, err := cloneData(r.Data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now().UTC()
	m.store[r.ID] = &registro.Registro{ID: r.ID, Fecha: r.Fecha, Data: data, CreatedAt: r.CreatedAt}
	return nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id int64) (*registro.Registro, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRegistro(r)
}

func (m *MemoryRepo) List(_ context.Context, opts ListOptions) ([]*registro.Registro, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := make([]*registro.Registro, 0, len(m.store))
	for _, r := range m.store {
		if opts.matches(r.Fecha) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if opts.Skip != nil {
		if *opts.Skip >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[*opts.Skip:]
		}
	}
	if opts.Take != nil && *opts.Take < len(matched) {
		matched = matched[:*opts.Take]
	}

	out := make([]*registro.Registro, 0, len(matched))
	for _, r := range matched {
		c, err := copyRegistro(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryRepo) Count(_ context.Context, opts ListOptions) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.store {
		if opts.matches(r.Fecha) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) UpdateData(_ context.Context, id int64, data datatypes.JSONMap) error {
	cp, err := cloneData(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	r.Data = cp
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.store))
	m.store = make(map[int64]*registro.Registro)
	return n, nil
}

func copyRegistro(r *registro.Registro) (*registro.Registro, error) {
	data, err := cloneData(r.Data)
	if err != nil {
		return nil, err
	}
	return &registro.Registro{ID: r.ID, Fecha: r.Fecha, Data: data, CreatedAt: r.CreatedAt}, nil
}

// cloneData deep-copies through JSON, which is also what a real store does.
func cloneData(d datatypes.JSONMap) (datatypes.JSONMap, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out datatypes.JSONMap
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
