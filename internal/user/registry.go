package user

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// Registry provides user management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*User
	order   []string // cache keys in creation order, so listings stay stable
	cacheMu sync.RWMutex
	logger  Logger
}

// NewRegistry creates a new user registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*User),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all users from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	users, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*User, len(users))
	r.order = make([]string, 0, len(users))
	for i := range users {
		u := users[i]
		r.cache[u.ID] = u.DeepCopy()
		r.order = append(r.order, u.ID)
	}

	r.logger.Info("user cache refreshed", "count", len(users))
	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user does not exist.
// The returned user is a deep copy; callers can safely modify it.
func (r *Registry) GetUser(ctx context.Context, id string) (*User, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}

	u, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cachePut(u)
	return u, nil
}

// GetUserByUsername retrieves a user by username.
// The returned user is a deep copy; callers can safely modify it.
func (r *Registry) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	r.cacheMu.RLock()
	for _, u := range r.cache {
		if u.Username == username {
			copied := u.DeepCopy()
			r.cacheMu.RUnlock()
			return copied, nil
		}
	}
	r.cacheMu.RUnlock()

	return r.repo.GetByUsername(ctx, username)
}

// ListUsers retrieves all users in creation order.
// The returned users are deep copies; callers can safely modify them.
func (r *Registry) ListUsers(ctx context.Context) ([]User, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		users := make([]User, 0, len(r.cache))
		for _, id := range r.order {
			if u, ok := r.cache[id]; ok {
				users = append(users, *u.DeepCopy())
			}
		}
		return users, nil
	}

	return r.repo.List(ctx)
}

// CreateUser creates a new user.
// It validates the user, generates an ID if needed, and persists it.
func (r *Registry) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = GenerateID()
	}
	if u.Privilege == "" {
		u.Privilege = PrivilegeRegular
	}

	if err := Validate(u); err != nil {
		return err
	}

	if err := r.repo.Create(ctx, u); err != nil {
		return err
	}

	r.cachePut(u)

	r.logger.Info("user created", "id", u.ID, "username", u.Username)
	return nil
}

// UpdateUser updates an existing user.
// It validates the user and persists the changes.
func (r *Registry) UpdateUser(ctx context.Context, u *User) error {
	if err := Validate(u); err != nil {
		return err
	}

	if err := r.repo.Update(ctx, u); err != nil {
		return err
	}

	r.cachePut(u)

	r.logger.Info("user updated", "id", u.ID, "username", u.Username)
	return nil
}

// DeleteUser removes a user.
// Returns ErrOwnsHouses if the user still owns houses.
func (r *Registry) DeleteUser(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheRemove(id)

	r.logger.Info("user deleted", "id", id)
	return nil
}

// cachePut stores a copy of u, tracking first-seen IDs in creation order.
func (r *Registry) cachePut(u *User) {
	r.cacheMu.Lock()
	if _, ok := r.cache[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.cache[u.ID] = u.DeepCopy()
	r.cacheMu.Unlock()
}

// cacheRemove drops a user from the cache and the order index.
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

// Exists reports whether a user with the given ID is known.
// Used by the house registry to validate owner references.
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

// Count returns the number of cached users.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
