package house

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for house persistence operations.
type Repository interface {
	Create(ctx context.Context, h *House) error
	Get(ctx context.Context, id string) (*House, error)
	List(ctx context.Context) ([]House, error)
	ListByOwner(ctx context.Context, ownerID string) ([]House, error)
	Update(ctx context.Context, h *House) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed house repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new house into the database.
func (r *SQLiteRepository) Create(ctx context.Context, h *House) error {
	const query = `INSERT INTO houses (id, owner_id, name, address, latitude, longitude, occupant_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.OwnerID, h.Name, h.Address,
		nullFloat(h.Latitude), nullFloat(h.Longitude), h.OccupantCount)
	if err != nil {
		return fmt.Errorf("inserting house %s: %w", h.ID, err)
	}
	return nil
}

// Get returns a single house by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*House, error) {
	const query = `SELECT id, owner_id, name, address, latitude, longitude,
		occupant_count, created_at, updated_at
		FROM houses WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanHouse(row)
}

// List returns all houses in creation order.
func (r *SQLiteRepository) List(ctx context.Context) ([]House, error) {
	const query = `SELECT id, owner_id, name, address, latitude, longitude,
		occupant_count, created_at, updated_at
		FROM houses ORDER BY rowid`
	return r.queryHouses(ctx, query)
}

// ListByOwner returns houses owned by a specific user, in creation order.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]House, error) {
	const query = `SELECT id, owner_id, name, address, latitude, longitude,
		occupant_count, created_at, updated_at
		FROM houses WHERE owner_id = ? ORDER BY rowid`
	return r.queryHouses(ctx, query, ownerID)
}

// Update updates an existing house record.
func (r *SQLiteRepository) Update(ctx context.Context, h *House) error {
	const query = `UPDATE houses SET owner_id = ?, name = ?, address = ?,
		latitude = ?, longitude = ?, occupant_count = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		h.OwnerID, h.Name, h.Address,
		nullFloat(h.Latitude), nullFloat(h.Longitude), h.OccupantCount, h.ID)
	if err != nil {
		return fmt.Errorf("updating house %s: %w", h.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single house by ID.
// Returns ErrNotFound if the house does not exist.
// Returns ErrHasRooms if rooms still reference this house.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	// Check for child rooms.
	var roomCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms WHERE house_id = ?", id).Scan(&roomCount); err != nil {
		return fmt.Errorf("counting rooms for house %s: %w", id, err)
	}
	if roomCount > 0 {
		return ErrHasRooms
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM houses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting house %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryHouses executes a query and returns a slice of House.
func (r *SQLiteRepository) queryHouses(ctx context.Context, query string, args ...any) ([]House, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying houses: %w", err)
	}
	defer rows.Close()

	var houses []House
	for rows.Next() {
		h, err := scanHouseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning house row: %w", err)
		}
		houses = append(houses, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating house rows: %w", err)
	}
	return houses, nil
}

// scanHouse scans a single row into a House (for QueryRow).
func scanHouse(row *sql.Row) (*House, error) {
	var h House
	var lat, lon sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &lat, &lon,
		&h.OccupantCount, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning house: %w", err)
	}
	if lat.Valid {
		h.Latitude = &lat.Float64
	}
	if lon.Valid {
		h.Longitude = &lon.Float64
	}
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)
	return &h, nil
}

// scanHouseRow scans a house from a Rows cursor.
func scanHouseRow(rows *sql.Rows) (*House, error) {
	var h House
	var lat, lon sql.NullFloat64
	var createdAt, updatedAt string

	err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &lat, &lon,
		&h.OccupantCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning house row: %w", err)
	}
	if lat.Valid {
		h.Latitude = &lat.Float64
	}
	if lon.Valid {
		h.Longitude = &lon.Float64
	}
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)
	return &h, nil
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
