package questions

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Question
	seq   map[string]int // insertion order, tie-breaker for newest-first
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Question{}, seq: map[string]int{}}
}

func (m *MemoryRepository) Create(ctx context.Context, q *Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	cp := *q
	m.store[q.ID.Hex()] = &cp
	m.next++
	m.seq[q.ID.Hex()] = m.next
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *MemoryRepository) GetManyByID(ctx context.Context, ids []string) (map[string]*Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]*Question{}
	for _, id := range ids {
		if q, ok := m.store[id]; ok {
			cp := *q
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *MemoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[id]
	return ok, nil
}

func matches(q *Question, f Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(q.Title), strings.ToLower(f.Search)) {
		return false
	}
	if len(f.Tags) > 0 {
		hit := false
		for _, want := range f.Tags {
			for _, have := range q.Tags {
				if have == want {
					hit = true
				}
			}
		}
		if !hit {
			return false
		}
	}
	if f.CreatedBy != "" && q.CreatedBy != f.CreatedBy {
		return false
	}
	return true
}

func (m *MemoryRepository) List(ctx context.Context, f Filter) ([]*Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Question{}
	for _, q := range m.store {
		if matches(q, f) {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID.Hex()] > m.seq[out[j].ID.Hex()]
	})
	return out, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, p Patch) (*Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Tags != nil {
		q.Tags = *p.Tags
	}
	q.UpdatedAt = time.Now().UTC()
	cp := *q
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
