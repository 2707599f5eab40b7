package list

import (
	"log/slog"
	"sync"
)

// Registry hands out one Manager per owner, created lazily on first use.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager

	store   Store
	history History
	logger  *slog.Logger
}

func NewRegistry(st Store, history History, logger *slog.Logger) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		store:    st,
		history:  history,
		logger:   logger,
	}
}

// ForOwner returns the owner's manager, creating it if needed. The manager
// itself loads state on demand.
func (r *Registry) ForOwner(ownerID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[ownerID]
	if !ok {
		m = NewManager(ownerID, r.store, r.history, r.logger)
		r.managers[ownerID] = m
	}
	return m
}
