// Package store holds project state between the fire-and-forget generate
// call and later status polling. The in-memory store is the default; Redis
// backs multi-instance deployments.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"clipcast/types"
)

// ErrNotFound is returned when no project exists under the requested ID.
var ErrNotFound = errors.New("project not found")

// Store persists project snapshots keyed by ID.
type Store interface {
	Put(ctx context.Context, p *types.Project) error
	Get(ctx context.Context, id string) (*types.Project, error)
	// Update applies fn to the stored project under the store's own locking
	// and persists the result. fn receives a copy it may mutate freely.
	Update(ctx context.Context, id string, fn func(*types.Project)) (*types.Project, error)
	List(ctx context.Context) ([]*types.Project, error)
}

// MemoryStore keeps projects in a map guarded by a RWMutex. Snapshots are
// deep-copied both ways so callers never share scene slices with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*types.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*types.Project)}
}

func (s *MemoryStore) Put(ctx context.Context, p *types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*types.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*types.Project)) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := p.Clone()
	fn(next)
	s.projects[id] = next
	return next.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*types.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	// Newest first so the projects endpoint reads like a feed.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
