package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/user"
)

// handleListUsers returns all users.
//
// Query parameters:
//   - username: look up a single user by username
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if username := r.URL.Query().Get("username"); username != "" {
		u, err := s.users.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// Filter semantics: an unmatched username is an empty
				// result, not an error.
				writeJSON(w, http.StatusOK, map[string]any{"users": []user.User{}, "count": 0})
				return
			}
			writeInternalError(w, "failed to look up user")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": []user.User{*u}, "count": 1})
		return
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		writeInternalError(w, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

// handleGetUser returns a single user by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		writeInternalError(w, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser creates a new user.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u user.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.users.CreateUser(r.Context(), &u); err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken), errors.Is(err, user.ErrEmailTaken):
			writeConflict(w, err.Error())
		case isUserValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to create user")
		}
		return
	}

	s.hub.Broadcast("user.changed", map[string]any{"action": "created", "user": u})
	writeJSON(w, http.StatusCreated, u)
}

// handleUpdateUser partially updates a user.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		writeInternalError(w, "failed to get user")
		return
	}

	// Decode partial update onto existing user
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.users.UpdateUser(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken), errors.Is(err, user.ErrEmailTaken):
			writeConflict(w, err.Error())
		case isUserValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to update user")
		}
		return
	}

	s.hub.Broadcast("user.changed", map[string]any{"action": "updated", "user": existing})
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteUser removes a user by ID.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			writeNotFound(w, "user not found")
		case errors.Is(err, user.ErrOwnsHouses):
			writeConflict(w, err.Error())
		default:
			writeInternalError(w, "failed to delete user")
		}
		return
	}

	s.hub.Broadcast("user.changed", map[string]any{"action": "deleted", "user_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// handleListUserHouses returns the houses owned by a user.
func (s *Server) handleListUserHouses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.users.GetUser(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		writeInternalError(w, "failed to get user")
		return
	}

	houses, err := s.houses.GetHousesByOwner(ctx, id)
	if err != nil {
		writeInternalError(w, "failed to list houses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"houses": houses, "count": len(houses)})
}

// isUserValidationError checks whether an error is a user validation error.
func isUserValidationError(err error) bool {
	return errors.Is(err, user.ErrInvalidName) ||
		errors.Is(err, user.ErrInvalidUsername) ||
		errors.Is(err, user.ErrInvalidEmail) ||
		errors.Is(err, user.ErrInvalidPhone) ||
		errors.Is(err, user.ErrInvalidPrivilege)
}
