package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the room schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE rooms (
		id TEXT PRIMARY KEY,
		house_id TEXT NOT NULL,
		name TEXT NOT NULL,
		floor INTEGER NOT NULL DEFAULT 0,
		size_m2 REAL,
		type TEXT NOT NULL DEFAULT 'other',
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);
	CREATE TABLE devices (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id),
		name TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

func testRoom() *Room {
	size := 14.5
	return &Room{
		ID:      "rom-test0001",
		HouseID: "hse-test0001",
		Name:    "Kitchen",
		Floor:   0,
		SizeM2:  &size,
		Type:    TypeKitchen,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	rm := testRoom()
	if err := repo.Create(ctx, rm); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, rm.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Kitchen" || got.Type != TypeKitchen {
		t.Errorf("got (%q, %q), want (Kitchen, kitchen)", got.Name, got.Type)
	}
	if got.SizeM2 == nil || *got.SizeM2 != 14.5 {
		t.Errorf("SizeM2 = %v, want 14.5", got.SizeM2)
	}
}

func TestRepository_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.Get(context.Background(), "rom-missing1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing room = %v, want ErrNotFound", err)
	}
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	rm := testRoom()
	if err := repo.Create(ctx, rm); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rm.Name = "Pantry"
	rm.Type = TypeOther
	rm.SizeM2 = nil
	if err := repo.Update(ctx, rm); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, rm.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Pantry" || got.Type != TypeOther {
		t.Errorf("got (%q, %q), want (Pantry, other)", got.Name, got.Type)
	}
	if got.SizeM2 != nil {
		t.Errorf("SizeM2 = %v, want nil", got.SizeM2)
	}
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	rm := testRoom()
	if err := repo.Create(ctx, rm); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, rm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, rm.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestRepository_DeleteWithDevices(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	rm := testRoom()
	if err := repo.Create(ctx, rm); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO devices (id, room_id, name) VALUES ('dev-test0001', ?, 'Ceiling Light')`, rm.ID); err != nil {
		t.Fatalf("inserting device: %v", err)
	}

	if err := repo.Delete(ctx, rm.ID); !errors.Is(err, ErrHasDevices) {
		t.Errorf("Delete with devices = %v, want ErrHasDevices", err)
	}
}

func TestRepository_ListByHouse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for i, houseID := range []string{"hse-a", "hse-a", "hse-b"} {
		rm := testRoom()
		rm.ID = fmt.Sprintf("rom-test%04d", i+1)
		rm.HouseID = houseID
		if err := repo.Create(ctx, rm); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rooms, err := repo.ListByHouse(ctx, "hse-a")
	if err != nil {
		t.Fatalf("ListByHouse: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("ListByHouse returned %d rooms, want 2", len(rooms))
	}
}
