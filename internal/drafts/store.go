// Package drafts persists in-progress customizations so an interrupted
// session can be resumed.
package drafts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

type Draft struct {
	ProductID int                  `json:"product_id"`
	Selection customizer.Selection `json:"selection"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store keeps at most one draft per product. Get returns nil, nil when the
// product has no draft. Putting an empty selection deletes the draft.
type Store interface {
	Get(ctx context.Context, productID int) (*Draft, error)
	Put(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, productID int) error
	List(ctx context.Context) ([]Draft, error)
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu     sync.Mutex
	drafts map[int]Draft
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[int]Draft{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, productID int) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[productID]
	if !ok {
		return nil, nil
	}
	d.Selection = d.Selection.Clone()
	return &d, nil
}

func (m *MemoryStore) Put(_ context.Context, d *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.Selection.IsEmpty() {
		delete(m.drafts, d.ProductID)
		return nil
	}
	d.UpdatedAt = m.now().UTC()
	m.drafts[d.ProductID] = Draft{ProductID: d.ProductID, Selection: d.Selection.Clone(), UpdatedAt: d.UpdatedAt}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, productID)
	return nil
}

// List returns drafts most recently updated first.
func (m *MemoryStore) List(_ context.Context) ([]Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		d.Selection = d.Selection.Clone()
		out = append(out, d)
	}
	sortDrafts(out)
	return out, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = map[int]Draft{}
	return nil
}

func sortDrafts(ds []Draft) {
	sort.Slice(ds, func(i, j int) bool {
		if !ds[i].UpdatedAt.Equal(ds[j].UpdatedAt) {
			return ds[i].UpdatedAt.After(ds[j].UpdatedAt)
		}
		return ds[i].ProductID < ds[j].ProductID
	})
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
