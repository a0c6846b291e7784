// Package dataset keeps uploaded datasets in memory for the lifetime of the
// process. Reports are never persisted; every request recomputes from the
// stored rows.
package dataset

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/entity"
)

var ErrNotFound = errors.New("dataset not found")

// Dataset is one uploaded export plus its category map, immutable once
// stored.
type Dataset struct {
	ID         uuid.UUID
	Name       string
	Rows       []entity.TransactionRow
	Categories *category.Map
	UploadedAt time.Time
}

// Registry is an in-memory dataset store, safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	sets map[uuid.UUID]*Dataset
}

func NewRegistry() *Registry {
	return &Registry{sets: make(map[uuid.UUID]*Dataset)}
}

// Put stores a dataset under a fresh id and returns it.
func (r *Registry) Put(name string, rows []entity.TransactionRow, m *category.Map) *Dataset {
	ds := &Dataset{
		ID:         uuid.New(),
		Name:       name,
		Rows:       rows,
		Categories: m,
		UploadedAt: time.Now(),
	}
	r.mu.Lock()
	r.sets[ds.ID] = ds
	r.mu.Unlock()
	return ds
}

func (r *Registry) Get(id uuid.UUID) (*Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.sets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ds, nil
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[id]; !ok {
		return ErrNotFound
	}
	delete(r.sets, id)
	return nil
}
