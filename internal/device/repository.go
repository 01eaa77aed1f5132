package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository defines the interface for device persistence operations.
type Repository interface {
	Create(ctx context.Context, d *Device) error
	Get(ctx context.Context, id string) (*Device, error)
	List(ctx context.Context) ([]Device, error)
	ListByRoom(ctx context.Context, roomID string) ([]Device, error)
	ListByType(ctx context.Context, deviceType Type) ([]Device, error)
	ListByStatus(ctx context.Context, status Status) ([]Device, error)
	Update(ctx context.Context, d *Device) error
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	UpdateData(ctx context.Context, id string, data Data) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new device into the database.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	const query = `INSERT INTO devices (id, room_id, name, type, status, settings, last_data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.RoomID, d.Name, d.Type, d.Status,
		marshalMap(map[string]any(d.Settings)), marshalMap(map[string]any(d.LastData)))
	if err != nil {
		return fmt.Errorf("inserting device %s: %w", d.ID, err)
	}
	return nil
}

// Get returns a single device by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Device, error) {
	const query = `SELECT id, room_id, name, type, status, settings, last_data,
		status_updated_at, created_at, updated_at
		FROM devices WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanDevice(row)
}

// List returns all devices in creation order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	const query = `SELECT id, room_id, name, type, status, settings, last_data,
		status_updated_at, created_at, updated_at
		FROM devices ORDER BY rowid`
	return r.queryDevices(ctx, query)
}

// ListByRoom returns devices in a specific room, in creation order.
func (r *SQLiteRepository) ListByRoom(ctx context.Context, roomID string) ([]Device, error) {
	const query = `SELECT id, room_id, name, type, status, settings, last_data,
		status_updated_at, created_at, updated_at
		FROM devices WHERE room_id = ? ORDER BY rowid`
	return r.queryDevices(ctx, query, roomID)
}

// ListByType returns devices of a specific type, in creation order.
func (r *SQLiteRepository) ListByType(ctx context.Context, deviceType Type) ([]Device, error) {
	const query = `SELECT id, room_id, name, type, status, settings, last_data,
		status_updated_at, created_at, updated_at
		FROM devices WHERE type = ? ORDER BY rowid`
	return r.queryDevices(ctx, query, deviceType)
}

// ListByStatus returns devices with a specific status, in creation order.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, status Status) ([]Device, error) {
	const query = `SELECT id, room_id, name, type, status, settings, last_data,
		status_updated_at, created_at, updated_at
		FROM devices WHERE status = ? ORDER BY rowid`
	return r.queryDevices(ctx, query, status)
}

// Update updates an existing device record.
func (r *SQLiteRepository) Update(ctx context.Context, d *Device) error {
	const query = `UPDATE devices SET room_id = ?, name = ?, type = ?,
		status = ?, settings = ?, last_data = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		d.RoomID, d.Name, d.Type, d.Status,
		marshalMap(map[string]any(d.Settings)), marshalMap(map[string]any(d.LastData)), d.ID)
	if err != nil {
		return fmt.Errorf("updating device %s: %w", d.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus updates only the status column.
// This is optimised for frequent updates from device reports.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error {
	const query = `UPDATE devices SET status = ?, status_updated_at = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		status, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating status for device %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateData replaces the last_data column with a fresh telemetry report.
func (r *SQLiteRepository) UpdateData(ctx context.Context, id string, data Data) error {
	const query = `UPDATE devices SET last_data = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, marshalMap(map[string]any(data)), id)
	if err != nil {
		return fmt.Errorf("updating data for device %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single device by ID.
// Returns ErrNotFound if the device does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryDevices executes a query and returns a slice of Device.
func (r *SQLiteRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDeviceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}
	return devices, nil
}

// scanDevice scans a single row into a Device (for QueryRow).
func scanDevice(row *sql.Row) (*Device, error) {
	var d Device
	var settingsJSON, dataJSON string
	var statusUpdatedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&d.ID, &d.RoomID, &d.Name, &d.Type, &d.Status,
		&settingsJSON, &dataJSON, &statusUpdatedAt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning device: %w", err)
	}
	populateDevice(&d, settingsJSON, dataJSON, statusUpdatedAt, createdAt, updatedAt)
	return &d, nil
}

// scanDeviceRow scans a device from a Rows cursor.
func scanDeviceRow(rows *sql.Rows) (*Device, error) {
	var d Device
	var settingsJSON, dataJSON string
	var statusUpdatedAt sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&d.ID, &d.RoomID, &d.Name, &d.Type, &d.Status,
		&settingsJSON, &dataJSON, &statusUpdatedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning device row: %w", err)
	}
	populateDevice(&d, settingsJSON, dataJSON, statusUpdatedAt, createdAt, updatedAt)
	return &d, nil
}

// populateDevice fills the JSON and timestamp fields after a scan.
func populateDevice(d *Device, settingsJSON, dataJSON string, statusUpdatedAt sql.NullString, createdAt, updatedAt string) {
	d.Settings = Settings(parseMap(settingsJSON))
	d.LastData = Data(parseMap(dataJSON))
	if statusUpdatedAt.Valid {
		ts := parseTime(statusUpdatedAt.String)
		d.StatusUpdatedAt = &ts
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
}

// marshalMap serializes a map to JSON, defaulting to "{}" on failure.
func marshalMap(m map[string]any) string {
	if m == nil {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// parseMap deserializes a JSON string into a map.
func parseMap(s string) map[string]any {
	if s == "" || s == "{}" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
