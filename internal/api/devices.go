package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/device"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/mqtt"
)

// handleListDevices returns all devices.
//
// Query parameters:
//   - room_id: filter by room
//   - type:    filter by device type
//   - status:  filter by status
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		devices []device.Device
		err     error
	)
	switch {
	case q.Get("room_id") != "":
		devices, err = s.devices.GetDevicesByRoom(ctx, q.Get("room_id"))
	case q.Get("type") != "":
		t := q.Get("type")
		if !device.ValidType(t) {
			writeBadRequest(w, "invalid device type filter")
			return
		}
		devices, err = s.devices.GetDevicesByType(ctx, device.Type(t))
	case q.Get("status") != "":
		st := q.Get("status")
		if !device.ValidStatus(st) {
			writeBadRequest(w, "invalid device status filter")
			return
		}
		devices, err = s.devices.GetDevicesByStatus(ctx, device.Status(st))
	default:
		devices, err = s.devices.ListDevices(ctx)
	}
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.devices.GetDevice(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleCreateDevice creates a new device.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.devices.CreateDevice(r.Context(), &d); err != nil {
		switch {
		case errors.Is(err, device.ErrRoomNotFound):
			writeBadRequest(w, err.Error())
		case isDeviceValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to create device")
		}
		return
	}

	s.hub.Broadcast("device.changed", map[string]any{"action": "created", "device": d})
	writeJSON(w, http.StatusCreated, d)
}

// handleUpdateDevice partially updates a device.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.devices.GetDevice(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	// Decode partial update onto existing device
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.devices.UpdateDevice(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, device.ErrRoomNotFound):
			writeBadRequest(w, err.Error())
		case isDeviceValidationError(err):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to update device")
		}
		return
	}

	s.hub.Broadcast("device.changed", map[string]any{"action": "updated", "device": existing})
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteDevice removes a device by ID.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.devices.DeleteDevice(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to delete device")
		return
	}

	s.hub.Broadcast("device.changed", map[string]any{"action": "deleted", "device_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// handleDeviceStats returns aggregate counts across the device fleet.
func (s *Server) handleDeviceStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.devices.GetStats())
}

// handleGetDeviceStatus returns the current status of a device.
func (s *Server) handleGetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.devices.GetDevice(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id":         d.ID,
		"status":            d.Status,
		"status_updated_at": d.StatusUpdatedAt,
		"last_data":         d.LastData,
	})
}

// handleSetDeviceStatus sets a device's status.
//
// Body: {"status": "on"}
func (s *Server) handleSetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.devices.SetDeviceStatus(r.Context(), id, device.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, device.ErrNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrInvalidStatus):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to set device status")
		}
		return
	}

	s.publishDeviceStatus(d)
	writeJSON(w, http.StatusOK, d)
}

// handleRecordDeviceData records a telemetry payload for a device.
func (s *Server) handleRecordDeviceData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var data device.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.devices.RecordDeviceData(r.Context(), id, data)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrInvalidData):
			writeValidationError(w, err.Error())
		default:
			writeInternalError(w, "failed to record device data")
		}
		return
	}

	s.hub.Broadcast("device.changed", map[string]any{"action": "updated", "device": d})
	if s.tsdb != nil && s.tsdb.IsConnected() {
		s.tsdb.WriteDeviceData(d.ID, d.LastData)
	}
	writeJSON(w, http.StatusOK, d)
}

// publishDeviceStatus fans a status change out to websocket subscribers,
// the retained MQTT state topic, and the time series store.
func (s *Server) publishDeviceStatus(d *device.Device) {
	s.hub.Broadcast("device.status_changed", map[string]any{
		"device_id":         d.ID,
		"status":            d.Status,
		"status_updated_at": d.StatusUpdatedAt,
	})

	if s.mqtt != nil && s.mqtt.IsConnected() {
		payload, err := json.Marshal(map[string]any{
			"device_id":  d.ID,
			"status":     d.Status,
			"updated_at": d.StatusUpdatedAt,
		})
		if err == nil {
			var topics mqtt.Topics
			if err := s.mqtt.PublishState(topics.DeviceState(d.ID), payload); err != nil {
				s.logger.Warn("failed to publish device state", "device_id", d.ID, "error", err)
			}
		}
	}

	if s.tsdb != nil && s.tsdb.IsConnected() {
		s.tsdb.WriteDeviceStatus(d.ID, string(d.Type), string(d.Status))
	}
}

// isDeviceValidationError checks whether an error is a device validation error.
func isDeviceValidationError(err error) bool {
	return errors.Is(err, device.ErrInvalidName) ||
		errors.Is(err, device.ErrInvalidType) ||
		errors.Is(err, device.ErrInvalidStatus) ||
		errors.Is(err, device.ErrInvalidSettings) ||
		errors.Is(err, device.ErrInvalidData)
}
