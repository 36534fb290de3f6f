package insights

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Insight
	seq   map[string]int
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Insight{}, seq: map[string]int{}}
}

func (m *MemoryRepository) Create(ctx context.Context, i *Insight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	cp := *i
	m.store[i.ID.Hex()] = &cp
	m.next++
	m.seq[i.ID.Hex()] = m.next
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Insight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *MemoryRepository) list(match func(*Insight) bool) []*Insight {
	out := []*Insight{}
	for _, i := range m.store {
		if match(i) {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return m.seq[out[a].ID.Hex()] > m.seq[out[b].ID.Hex()]
	})
	return out
}

func (m *MemoryRepository) ListAll(ctx context.Context) ([]*Insight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list(func(*Insight) bool { return true }), nil
}

func (m *MemoryRepository) ListByQuestion(ctx context.Context, questionID string) ([]*Insight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list(func(i *Insight) bool { return i.QuestionID == questionID }), nil
}

func (m *MemoryRepository) UpdateSummary(ctx context.Context, id, summary string) (*Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	i.Summary = summary
	i.UpdatedAt = time.Now().UTC()
	cp := *i
	return &cp, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}
