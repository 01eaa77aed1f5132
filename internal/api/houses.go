package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/house"
)

// handleListHouses returns all houses.
//
// Query parameters:
//   - owner_id: filter by owner
func (s *Server) handleListHouses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		houses, err := s.houses.GetHousesByOwner(ctx, ownerID)
		if err != nil {
			writeInternalError(w, "failed to list houses")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"houses": houses, "count": len(houses)})
		return
	}

	houses, err := s.houses.ListHouses(ctx)
	if err != nil {
		writeInternalError(w, "failed to list houses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"houses": houses, "count": len(houses)})
}

// handleGetHouse returns a single house by ID.
func (s *Server) handleGetHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h, err := s.houses.GetHouse(r.Context(), id)
	if err != nil {
		if errors.Is(err, house.ErrNotFound) {
			writeNotFound(w, "house not found")
			return
		}
		writeInternalError(w, "failed to get house")
		return
	}

	writeJSON(w, http.StatusOK, h)
}

// handleCreateHouse creates a new house.
func (s *Server) handleCreateHouse(w http.ResponseWriter, r *http.Request) {
	var h house.House
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.houses.CreateHouse(r.Context(), &h); err != nil {
		switch {
		case errors.Is(err, house.ErrOwnerNotFound):
			writeBadRequest(w, err.Error())
		case isHouseValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to create house")
		}
		return
	}

	s.hub.Broadcast("house.changed", map[string]any{"action": "created", "house": h})
	writeJSON(w, http.StatusCreated, h)
}

// handleUpdateHouse partially updates a house.
func (s *Server) handleUpdateHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.houses.GetHouse(r.Context(), id)
	if err != nil {
		if errors.Is(err, house.ErrNotFound) {
			writeNotFound(w, "house not found")
			return
		}
		writeInternalError(w, "failed to get house")
		return
	}

	// Decode partial update onto existing house
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.houses.UpdateHouse(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, house.ErrOwnerNotFound):
			writeBadRequest(w, err.Error())
		case isHouseValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to update house")
		}
		return
	}

	s.hub.Broadcast("house.changed", map[string]any{"action": "updated", "house": existing})
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteHouse removes a house by ID.
func (s *Server) handleDeleteHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.houses.DeleteHouse(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, house.ErrNotFound):
			writeNotFound(w, "house not found")
		case errors.Is(err, house.ErrHasRooms):
			writeConflict(w, err.Error())
		default:
			writeInternalError(w, "failed to delete house")
		}
		return
	}

	s.hub.Broadcast("house.changed", map[string]any{"action": "deleted", "house_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// handleListHouseRooms returns the rooms in a house.
func (s *Server) handleListHouseRooms(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.houses.GetHouse(ctx, id); err != nil {
		if errors.Is(err, house.ErrNotFound) {
			writeNotFound(w, "house not found")
			return
		}
		writeInternalError(w, "failed to get house")
		return
	}

	rooms, err := s.rooms.GetRoomsByHouse(ctx, id)
	if err != nil {
		writeInternalError(w, "failed to list rooms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
}

// isHouseValidationError checks whether an error is a house validation error.
func isHouseValidationError(err error) bool {
	return errors.Is(err, house.ErrInvalidName) ||
		errors.Is(err, house.ErrInvalidAddress) ||
		errors.Is(err, house.ErrInvalidCoordinates) ||
		errors.Is(err, house.ErrInvalidOccupants)
}
