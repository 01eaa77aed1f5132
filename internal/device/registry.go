package device

import (
	"context"
	"fmt"
	"sync"
	"time"
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

// RoomLookup resolves room references against the room registry.
type RoomLookup interface {
	Exists(ctx context.Context, id string) bool
}

// Registry provides device management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	rooms   RoomLookup
	cache   map[string]*Device
	order   []string // cache keys in creation order, so listings stay stable
	cacheMu sync.RWMutex
	logger  Logger
}

// NewRegistry creates a new device registry.
// The room lookup validates room references on create and update.
func NewRegistry(repo Repository, rooms RoomLookup) *Registry {
	return &Registry{
		repo:   repo,
		rooms:  rooms,
		cache:  make(map[string]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all devices from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	devices, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Device, len(devices))
	r.order = make([]string, 0, len(devices))
	for i := range devices {
		d := devices[i]
		r.cache[d.ID] = d.DeepCopy()
		r.order = append(r.order, d.ID)
	}

	r.logger.Info("device cache refreshed", "count", len(devices))
	return nil
}

// GetDevice retrieves a device by ID.
// Returns ErrNotFound if the device does not exist.
// The returned device is a deep copy; callers can safely modify it.
func (r *Registry) GetDevice(ctx context.Context, id string) (*Device, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}

	d, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cachePut(d)
	return d, nil
}

// ListDevices retrieves all devices in creation order.
// The returned devices are deep copies; callers can safely modify them.
func (r *Registry) ListDevices(ctx context.Context) ([]Device, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		devices := make([]Device, 0, len(r.cache))
		for _, id := range r.order {
			if d, ok := r.cache[id]; ok {
				devices = append(devices, *d.DeepCopy())
			}
		}
		return devices, nil
	}

	return r.repo.List(ctx)
}

// GetDevicesByRoom retrieves all devices in a specific room.
func (r *Registry) GetDevicesByRoom(ctx context.Context, roomID string) ([]Device, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var devices []Device
		for _, id := range r.order {
			if d, ok := r.cache[id]; ok && d.RoomID == roomID {
				devices = append(devices, *d.DeepCopy())
			}
		}
		return devices, nil
	}

	return r.repo.ListByRoom(ctx, roomID)
}

// GetDevicesByType retrieves all devices of a specific type.
func (r *Registry) GetDevicesByType(ctx context.Context, deviceType Type) ([]Device, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var devices []Device
		for _, id := range r.order {
			if d, ok := r.cache[id]; ok && d.Type == deviceType {
				devices = append(devices, *d.DeepCopy())
			}
		}
		return devices, nil
	}

	return r.repo.ListByType(ctx, deviceType)
}

// GetDevicesByStatus retrieves all devices with a specific status.
func (r *Registry) GetDevicesByStatus(ctx context.Context, status Status) ([]Device, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var devices []Device
		for _, id := range r.order {
			if d, ok := r.cache[id]; ok && d.Status == status {
				devices = append(devices, *d.DeepCopy())
			}
		}
		return devices, nil
	}

	return r.repo.ListByStatus(ctx, status)
}

// CreateDevice creates a new device.
// It validates the device and its room reference, generates an ID if
// needed, and persists it.
func (r *Registry) CreateDevice(ctx context.Context, d *Device) error {
	if d.ID == "" {
		d.ID = GenerateID()
	}
	if d.Type == "" {
		d.Type = TypeOther
	}
	if d.Status == "" {
		d.Status = StatusUnknown
	}

	if err := Validate(d); err != nil {
		return err
	}
	if !r.rooms.Exists(ctx, d.RoomID) {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, d.RoomID)
	}

	if err := r.repo.Create(ctx, d); err != nil {
		return err
	}

	r.cachePut(d)

	r.logger.Info("device created", "id", d.ID, "name", d.Name, "room", d.RoomID)
	return nil
}

// UpdateDevice updates an existing device.
func (r *Registry) UpdateDevice(ctx context.Context, d *Device) error {
	if err := Validate(d); err != nil {
		return err
	}
	if !r.rooms.Exists(ctx, d.RoomID) {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, d.RoomID)
	}

	if err := r.repo.Update(ctx, d); err != nil {
		return err
	}

	r.cachePut(d)

	r.logger.Info("device updated", "id", d.ID, "name", d.Name)
	return nil
}

// DeleteDevice removes a device.
func (r *Registry) DeleteDevice(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheRemove(id)

	r.logger.Info("device deleted", "id", id)
	return nil
}

// cachePut stores a copy of d, tracking first-seen IDs in creation order.
func (r *Registry) cachePut(d *Device) {
	r.cacheMu.Lock()
	if _, ok := r.cache[d.ID]; !ok {
		r.order = append(r.order, d.ID)
	}
	r.cache[d.ID] = d.DeepCopy()
	r.cacheMu.Unlock()
}

// cacheRemove drops a device from the cache and the order index.
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

// SetDeviceStatus updates the status of a device.
// This is optimised for frequent updates from device reports.
// Returns the updated device so callers can publish the new state.
func (r *Registry) SetDeviceStatus(ctx context.Context, id string, status Status) (*Device, error) {
	if !ValidStatus(string(status)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := time.Now().UTC()
	if err := r.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}

	// Atomic cache replacement via deep copy
	r.cacheMu.Lock()
	cached, ok := r.cache[id]
	var updated *Device
	if ok {
		updated = cached.DeepCopy()
		updated.Status = status
		updated.StatusUpdatedAt = &now
		r.cache[id] = updated
	}
	r.cacheMu.Unlock()

	if !ok {
		d, err := r.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r.cachePut(d)
		updated = d
	}

	r.logger.Debug("device status updated", "id", id, "status", status)
	return updated.DeepCopy(), nil
}

// RecordDeviceData stores a fresh telemetry report for a device.
// Returns the updated device so callers can publish the new data.
func (r *Registry) RecordDeviceData(ctx context.Context, id string, data Data) (*Device, error) {
	if err := ValidateData(data); err != nil {
		return nil, err
	}

	if err := r.repo.UpdateData(ctx, id, data); err != nil {
		return nil, err
	}

	// Atomic cache replacement via deep copy
	r.cacheMu.Lock()
	cached, ok := r.cache[id]
	var updated *Device
	if ok {
		updated = cached.DeepCopy()
		updated.LastData = deepCopyMap(data)
		r.cache[id] = updated
	}
	r.cacheMu.Unlock()

	if !ok {
		d, err := r.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r.cachePut(d)
		updated = d
	}

	r.logger.Debug("device data recorded", "id", id)
	return updated.DeepCopy(), nil
}

// Count returns the number of cached devices.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// Stats holds registry statistics for monitoring.
type Stats struct {
	TotalDevices int
	ByType       map[Type]int
	ByStatus     map[Status]int
}

// GetStats returns current registry statistics.
func (r *Registry) GetStats() Stats {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	stats := Stats{
		TotalDevices: len(r.cache),
		ByType:       make(map[Type]int),
		ByStatus:     make(map[Status]int),
	}

	for _, d := range r.cache {
		stats.ByType[d.Type]++
		stats.ByStatus[d.Status]++
	}

	return stats
}
