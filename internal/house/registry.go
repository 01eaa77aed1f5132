package house

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// OwnerLookup resolves owner references against the user registry.
// A narrow interface keeps this package decoupled from the user package
// internals.
type OwnerLookup interface {
	Exists(ctx context.Context, id string) bool
}

// Registry provides house management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	owners  OwnerLookup
	cache   map[string]*House
	order   []string // cache keys in creation order, so listings stay stable
	cacheMu sync.RWMutex
	logger  Logger
}

// NewRegistry creates a new house registry.
// The owner lookup validates owner references on create and update.
func NewRegistry(repo Repository, owners OwnerLookup) *Registry {
	return &Registry{
		repo:   repo,
		owners: owners,
		cache:  make(map[string]*House),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all houses from the repository into the cache.
func (r *Registry) RefreshCache(ctx context.Context) error {
	houses, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading houses: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*House, len(houses))
	r.order = make([]string, 0, len(houses))
	for i := range houses {
		h := houses[i]
		r.cache[h.ID] = h.DeepCopy()
		r.order = append(r.order, h.ID)
	}

	r.logger.Info("house cache refreshed", "count", len(houses))
	return nil
}

// GetHouse retrieves a house by ID.
// Returns ErrNotFound if the house does not exist.
// The returned house is a deep copy; callers can safely modify it.
func (r *Registry) GetHouse(ctx context.Context, id string) (*House, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}

	h, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cachePut(h)
	return h, nil
}

// ListHouses retrieves all houses in creation order.
// The returned houses are deep copies; callers can safely modify them.
func (r *Registry) ListHouses(ctx context.Context) ([]House, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		houses := make([]House, 0, len(r.cache))
		for _, id := range r.order {
			if h, ok := r.cache[id]; ok {
				houses = append(houses, *h.DeepCopy())
			}
		}
		return houses, nil
	}

	return r.repo.List(ctx)
}

// GetHousesByOwner retrieves all houses owned by a specific user.
func (r *Registry) GetHousesByOwner(ctx context.Context, ownerID string) ([]House, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var houses []House
		for _, id := range r.order {
			if h, ok := r.cache[id]; ok && h.OwnerID == ownerID {
				houses = append(houses, *h.DeepCopy())
			}
		}
		return houses, nil
	}

	return r.repo.ListByOwner(ctx, ownerID)
}

// CreateHouse creates a new house.
// It validates the house and its owner reference, generates an ID if
// needed, and persists it.
func (r *Registry) CreateHouse(ctx context.Context, h *House) error {
	if h.ID == "" {
		h.ID = GenerateID()
	}
	if h.OccupantCount == 0 {
		h.OccupantCount = 1
	}

	if err := Validate(h); err != nil {
		return err
	}
	if !r.owners.Exists(ctx, h.OwnerID) {
		return fmt.Errorf("%w: %s", ErrOwnerNotFound, h.OwnerID)
	}

	if err := r.repo.Create(ctx, h); err != nil {
		return err
	}

	r.cachePut(h)

	r.logger.Info("house created", "id", h.ID, "name", h.Name, "owner", h.OwnerID)
	return nil
}

// UpdateHouse updates an existing house.
func (r *Registry) UpdateHouse(ctx context.Context, h *House) error {
	if err := Validate(h); err != nil {
		return err
	}
	if !r.owners.Exists(ctx, h.OwnerID) {
		return fmt.Errorf("%w: %s", ErrOwnerNotFound, h.OwnerID)
	}

	if err := r.repo.Update(ctx, h); err != nil {
		return err
	}

	r.cachePut(h)

	r.logger.Info("house updated", "id", h.ID, "name", h.Name)
	return nil
}

// DeleteHouse removes a house.
// Returns ErrHasRooms if the house still has rooms.
func (r *Registry) DeleteHouse(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheRemove(id)

	r.logger.Info("house deleted", "id", id)
	return nil
}

// cachePut stores a copy of h, tracking first-seen IDs in creation order.
func (r *Registry) cachePut(h *House) {
	r.cacheMu.Lock()
	if _, ok := r.cache[h.ID]; !ok {
		r.order = append(r.order, h.ID)
	}
	r.cache[h.ID] = h.DeepCopy()
	r.cacheMu.Unlock()
}

// cacheRemove drops a house from the cache and the order index.
func (r *Registry) cacheRemove(id string) {
	r.cacheMu.Lock()
	delete(r.cache, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.cacheMu.Unlock()
}

// Exists reports whether a house with the given ID is known.
// Used by the room registry to validate house references.
func (r *Registry) Exists(ctx context.Context, id string) bool {
	r.cacheMu.RLock()
	_, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return true
	}

	_, err := r.repo.Get(ctx, id)
	return err == nil
}

// Count returns the number of cached houses.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
