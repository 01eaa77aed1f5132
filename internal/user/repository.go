package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for user persistence operations.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed user repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new user into the database.
// Returns ErrUsernameTaken or ErrEmailTaken if either unique column is
// already in use.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	const query = `INSERT INTO users (id, name, username, phone_number, email, privilege)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Username, u.PhoneNumber, u.Email, u.Privilege)
	if err != nil {
		if isUniqueViolation(err) {
			return uniqueViolationError(err)
		}
		return fmt.Errorf("inserting user %s: %w", u.ID, err)
	}
	return nil
}

// Get returns a single user by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*User, error) {
	const query = `SELECT id, name, username, phone_number, email, privilege, created_at, updated_at
		FROM users WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

// GetByUsername returns a single user by username.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	const query = `SELECT id, name, username, phone_number, email, privilege, created_at, updated_at
		FROM users WHERE username = ?`
	row := r.db.QueryRowContext(ctx, query, username)
	return scanUser(row)
}

// List returns all users in creation order.
func (r *SQLiteRepository) List(ctx context.Context) ([]User, error) {
	const query = `SELECT id, name, username, phone_number, email, privilege, created_at, updated_at
		FROM users ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// Update updates an existing user record.
// Returns ErrUsernameTaken or ErrEmailTaken if renaming to a value
// another user already holds.
func (r *SQLiteRepository) Update(ctx context.Context, u *User) error {
	const query = `UPDATE users SET name = ?, username = ?, phone_number = ?,
		email = ?, privilege = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		u.Name, u.Username, u.PhoneNumber, u.Email, u.Privilege, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return uniqueViolationError(err)
		}
		return fmt.Errorf("updating user %s: %w", u.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single user by ID.
// Returns ErrNotFound if the user does not exist.
// Returns ErrOwnsHouses if houses still reference this user as owner.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	// Check for owned houses.
	var houseCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM houses WHERE owner_id = ?", id).Scan(&houseCount); err != nil {
		return fmt.Errorf("counting houses for user %s: %w", id, err)
	}
	if houseCount > 0 {
		return ErrOwnsHouses
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanUser scans a single row into a User (for QueryRow).
func scanUser(row *sql.Row) (*User, error) {
	var u User
	var createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.PhoneNumber, &u.Email,
		&u.Privilege, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

// scanUserRow scans a user from a Rows cursor.
func scanUserRow(rows *sql.Rows) (*User, error) {
	var u User
	var createdAt, updatedAt string

	err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.PhoneNumber, &u.Email,
		&u.Privilege, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

// isUniqueViolation reports whether an error is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// uniqueViolationError maps a UNIQUE failure to the sentinel for the
// conflicting column. SQLite names the column in the error message.
func uniqueViolationError(err error) error {
	if strings.Contains(err.Error(), "users.email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
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
