package room

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for room persistence operations.
type Repository interface {
	Create(ctx context.Context, rm *Room) error
	Get(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]Room, error)
	ListByHouse(ctx context.Context, houseID string) ([]Room, error)
	Update(ctx context.Context, rm *Room) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed room repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new room into the database.
func (r *SQLiteRepository) Create(ctx context.Context, rm *Room) error {
	const query = `INSERT INTO rooms (id, house_id, name, floor, size_m2, type)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rm.ID, rm.HouseID, rm.Name, rm.Floor, nullFloat(rm.SizeM2), rm.Type)
	if err != nil {
		return fmt.Errorf("inserting room %s: %w", rm.ID, err)
	}
	return nil
}

// Get returns a single room by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Room, error) {
	const query = `SELECT id, house_id, name, floor, size_m2, type, created_at, updated_at
		FROM rooms WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanRoom(row)
}

// List returns all rooms in creation order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Room, error) {
	const query = `SELECT id, house_id, name, floor, size_m2, type, created_at, updated_at
		FROM rooms ORDER BY rowid`
	return r.queryRooms(ctx, query)
}

// ListByHouse returns rooms for a specific house, in creation order.
func (r *SQLiteRepository) ListByHouse(ctx context.Context, houseID string) ([]Room, error) {
	const query = `SELECT id, house_id, name, floor, size_m2, type, created_at, updated_at
		FROM rooms WHERE house_id = ? ORDER BY rowid`
	return r.queryRooms(ctx, query, houseID)
}

// Update updates an existing room record.
func (r *SQLiteRepository) Update(ctx context.Context, rm *Room) error {
	const query = `UPDATE rooms SET house_id = ?, name = ?, floor = ?,
		size_m2 = ?, type = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		rm.HouseID, rm.Name, rm.Floor, nullFloat(rm.SizeM2), rm.Type, rm.ID)
	if err != nil {
		return fmt.Errorf("updating room %s: %w", rm.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single room by ID.
// Returns ErrNotFound if the room does not exist.
// Returns ErrHasDevices if devices still reference this room.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	// Check for child devices.
	var deviceCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM devices WHERE room_id = ?", id).Scan(&deviceCount); err != nil {
		return fmt.Errorf("counting devices for room %s: %w", id, err)
	}
	if deviceCount > 0 {
		return ErrHasDevices
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting room %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryRooms executes a query and returns a slice of Room.
func (r *SQLiteRepository) queryRooms(ctx context.Context, query string, args ...any) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		rm, err := scanRoomRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// scanRoom scans a single row into a Room (for QueryRow).
func scanRoom(row *sql.Row) (*Room, error) {
	var rm Room
	var size sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&rm.ID, &rm.HouseID, &rm.Name, &rm.Floor, &size, &rm.Type,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	if size.Valid {
		rm.SizeM2 = &size.Float64
	}
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// scanRoomRow scans a room from a Rows cursor.
func scanRoomRow(rows *sql.Rows) (*Room, error) {
	var rm Room
	var size sql.NullFloat64
	var createdAt, updatedAt string

	err := rows.Scan(&rm.ID, &rm.HouseID, &rm.Name, &rm.Floor, &size, &rm.Type,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning room row: %w", err)
	}
	if size.Valid {
		rm.SizeM2 = &size.Float64
	}
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// nullFloat converts a *float64 to sql.NullFloat64 for nullable columns.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
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
