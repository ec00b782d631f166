// Product record store boundary. The parsing/matching core never issues
// queries itself; reconcile flows go through this interface and persistence
// of a merged record is a single upsert by the calling layer.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"fitment-service/internal/fitment/model"
)

var ErrNotFound = errors.New("store: product not found")

type ProductStore interface {
	// Upsert inserts or replaces one product by ID.
	Upsert(ctx context.Context, p model.Product) error
	// BatchInsert inserts many products in one call.
	BatchInsert(ctx context.Context, ps []model.Product) error
	// Get returns one product by ID.
	Get(ctx context.Context, id string) (model.Product, error)
	// List returns all products ordered by ID, so matching runs are
	// deterministic across invocations.
	List(ctx context.Context) ([]model.Product, error)
	// UpdatePrice sets the cash and list prices of one product.
	UpdatePrice(ctx context.Context, id string, price, listPrice float64) error
}

// Memory is an in-process ProductStore used by tests and single-node runs.
type Memory struct {
	mu   sync.RWMutex
	rows map[string]model.Product
}

func NewMemory() *Memory {
	return &Memory{rows: make(map[string]model.Product)}
}

func (m *Memory) Upsert(_ context.Context, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = p
	return nil
}

func (m *Memory) BatchInsert(_ context.Context, ps []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.rows[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) List(_ context.Context) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Product, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdatePrice(_ context.Context, id string, price, listPrice float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return ErrNotFound
	}
	p.Price = price
	if listPrice > 0 {
		p.ListPrice = listPrice
	}
	m.rows[id] = p
	return nil
}
