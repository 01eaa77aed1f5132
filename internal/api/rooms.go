package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/room"
)

// handleListRooms returns all rooms.
//
// Query parameters:
//   - house_id: filter by house
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if houseID := r.URL.Query().Get("house_id"); houseID != "" {
		rooms, err := s.rooms.GetRoomsByHouse(ctx, houseID)
		if err != nil {
			writeInternalError(w, "failed to list rooms")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
		return
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		writeInternalError(w, "failed to list rooms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
}

// handleGetRoom returns a single room by ID.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rm, err := s.rooms.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			writeNotFound(w, "room not found")
			return
		}
		writeInternalError(w, "failed to get room")
		return
	}

	writeJSON(w, http.StatusOK, rm)
}

// handleCreateRoom creates a new room.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var rm room.Room
	if err := json.NewDecoder(r.Body).Decode(&rm); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.rooms.CreateRoom(r.Context(), &rm); err != nil {
		switch {
		case errors.Is(err, room.ErrHouseNotFound):
			writeBadRequest(w, err.Error())
		case isRoomValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to create room")
		}
		return
	}

	s.hub.Broadcast("room.changed", map[string]any{"action": "created", "room": rm})
	writeJSON(w, http.StatusCreated, rm)
}

// handleUpdateRoom partially updates a room.
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.rooms.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			writeNotFound(w, "room not found")
			return
		}
		writeInternalError(w, "failed to get room")
		return
	}

	// Decode partial update onto existing room
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.rooms.UpdateRoom(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, room.ErrHouseNotFound):
			writeBadRequest(w, err.Error())
		case isRoomValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to update room")
		}
		return
	}

	s.hub.Broadcast("room.changed", map[string]any{"action": "updated", "room": existing})
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteRoom removes a room by ID.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.rooms.DeleteRoom(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			writeNotFound(w, "room not found")
		case errors.Is(err, room.ErrHasDevices):
			writeConflict(w, err.Error())
		default:
			writeInternalError(w, "failed to delete room")
		}
		return
	}

	s.hub.Broadcast("room.changed", map[string]any{"action": "deleted", "room_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// handleListRoomDevices returns the devices in a room.
func (s *Server) handleListRoomDevices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.rooms.GetRoom(ctx, id); err != nil {
		if errors.Is(err, room.ErrNotFound) {
			writeNotFound(w, "room not found")
			return
		}
		writeInternalError(w, "failed to get room")
		return
	}

	devices, err := s.devices.GetDevicesByRoom(ctx, id)
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// isRoomValidationError checks whether an error is a room validation error.
func isRoomValidationError(err error) bool {
	return errors.Is(err, room.ErrInvalidName) ||
		errors.Is(err, room.ErrInvalidType) ||
		errors.Is(err, room.ErrInvalidFloor) ||
		errors.Is(err, room.ErrInvalidSize)
}
