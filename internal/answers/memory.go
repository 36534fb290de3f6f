package answers

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
	store map[string]*Answer
	seq   map[string]int
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Answer{}, seq: map[string]int{}}
}

func (m *MemoryRepository) Create(ctx context.Context, a *Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	m.store[a.ID.Hex()] = &cp
	m.next++
	m.seq[a.ID.Hex()] = m.next
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) ListByQuestion(ctx context.Context, questionID string) ([]*Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Answer{}
	for _, a := range m.store {
		if a.QuestionID == questionID {
			cp := *a
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

func (m *MemoryRepository) UpdateBody(ctx context.Context, id, body string) (*Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Answer = body
	a.UpdatedAt = time.Now().UTC()
	cp := *a
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

func (m *MemoryRepository) DeleteByQuestion(ctx context.Context, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.store {
		if a.QuestionID == questionID {
			delete(m.store, id)
			delete(m.seq, id)
		}
	}
	return nil
}
