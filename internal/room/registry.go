package room

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

// HouseLookup resolves house references against the house registry.
type HouseLookup interface {
	Exists(ctx context.Context, id string) bool
}

// Registry provides room management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	houses  HouseLookup
	cache   map[string]*Room
	order   []string // cache keys in creation order, so listings stay stable
	cacheMu sync.RWMutex
	logger  Logger
}

// NewRegistry creates a new room registry.
// The house lookup validates house references on create and update.
func NewRegistry(repo Repository, houses HouseLookup) *Registry {
	return &Registry{
		repo:   repo,
		houses: houses,
		cache:  make(map[string]*Room),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all rooms from the repository into the cache.
func (r *Registry) RefreshCache(ctx context.Context) error {
	rooms, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Room, len(rooms))
	r.order = make([]string, 0, len(rooms))
	for i := range rooms {
		rm := rooms[i]
		r.cache[rm.ID] = rm.DeepCopy()
		r.order = append(r.order, rm.ID)
	}

	r.logger.Info("room cache refreshed", "count", len(rooms))
	return nil
}

// GetRoom retrieves a room by ID.
// Returns ErrNotFound if the room does not exist.
// The returned room is a deep copy; callers can safely modify it.
func (r *Registry) GetRoom(ctx context.Context, id string) (*Room, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}

	rm, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cachePut(rm)
	return rm, nil
}

// ListRooms retrieves all rooms in creation order.
// The returned rooms are deep copies; callers can safely modify them.
func (r *Registry) ListRooms(ctx context.Context) ([]Room, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		rooms := make([]Room, 0, len(r.cache))
		for _, id := range r.order {
			if rm, ok := r.cache[id]; ok {
				rooms = append(rooms, *rm.DeepCopy())
			}
		}
		return rooms, nil
	}

	return r.repo.List(ctx)
}

// GetRoomsByHouse retrieves all rooms in a specific house.
func (r *Registry) GetRoomsByHouse(ctx context.Context, houseID string) ([]Room, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var rooms []Room
		for _, id := range r.order {
			if rm, ok := r.cache[id]; ok && rm.HouseID == houseID {
				rooms = append(rooms, *rm.DeepCopy())
			}
		}
		return rooms, nil
	}

	return r.repo.ListByHouse(ctx, houseID)
}

// CreateRoom creates a new room.
// It validates the room and its house reference, generates an ID if
// needed, and persists it.
func (r *Registry) CreateRoom(ctx context.Context, rm *Room) error {
	if rm.ID == "" {
		rm.ID = GenerateID()
	}
	if rm.Type == "" {
		rm.Type = TypeOther
	}

	if err := Validate(rm); err != nil {
		return err
	}
	if !r.houses.Exists(ctx, rm.HouseID) {
		return fmt.Errorf("%w: %s", ErrHouseNotFound, rm.HouseID)
	}

	if err := r.repo.Create(ctx, rm); err != nil {
		return err
	}

	r.cachePut(rm)

	r.logger.Info("room created", "id", rm.ID, "name", rm.Name, "house", rm.HouseID)
	return nil
}

// UpdateRoom updates an existing room.
func (r *Registry) UpdateRoom(ctx context.Context, rm *Room) error {
	if err := Validate(rm); err != nil {
		return err
	}
	if !r.houses.Exists(ctx, rm.HouseID) {
		return fmt.Errorf("%w: %s", ErrHouseNotFound, rm.HouseID)
	}

	if err := r.repo.Update(ctx, rm); err != nil {
		return err
	}

	r.cachePut(rm)

	r.logger.Info("room updated", "id", rm.ID, "name", rm.Name)
	return nil
}

// DeleteRoom removes a room.
// Returns ErrHasDevices if the room still has devices.
func (r *Registry) DeleteRoom(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheRemove(id)

	r.logger.Info("room deleted", "id", id)
	return nil
}

// cachePut stores a copy of rm, tracking first-seen IDs in creation order.
func (r *Registry) cachePut(rm *Room) {
	r.cacheMu.Lock()
	if _, ok := r.cache[rm.ID]; !ok {
		r.order = append(r.order, rm.ID)
	}
	r.cache[rm.ID] = rm.DeepCopy()
	r.cacheMu.Unlock()
}

// cacheRemove drops a room from the cache and the order index.
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

// Exists reports whether a room with the given ID is known.
// Used by the device registry to validate room references.
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

// Count returns the number of cached rooms.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
