package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/summaryhub/summaryhub/internal/summary"
)

var (
	ErrNotFound = errors.New("summary not found")
)

// Repository defines persistence operations for summaries. List filters by
// owner when ownerID is non-empty.
type Repository interface {
	Create(ctx context.Context, s *summary.Summary) (*summary.Summary, error)
	Get(ctx context.Context, id string) (*summary.Summary, error)
	List(ctx context.Context, ownerID string) ([]*summary.Summary, error)
	Update(ctx context.Context, id, url, text string) (*summary.Summary, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepo is a simple in-memory repository used for unit tests and for
// running the service without a database.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*summary.Summary
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*summary.Summary)}
}

func (m *MemoryRepo) Create(ctx context.Context, s *summary.Summary) (*summary.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.store[s.ID.Hex()] = &cp
	return s, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*summary.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.store[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, ownerID string) ([]*summary.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*summary.Summary, 0, len(m.store))
	for _, s := range m.store {
		if ownerID != "" && s.UserID != ownerID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id, url, text string) (*summary.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.URL = url
	s.Summary = text
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
