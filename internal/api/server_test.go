package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/device"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/house"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/config"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/logging"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/room"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/user"
)

// registries bundles the four entity registries used by the test server.
type registries struct {
	users   *user.Registry
	houses  *house.Registry
	rooms   *room.Registry
	devices *device.Registry
}

// testServer creates a Server with real registries backed by in-memory SQLite.
func testServer(t *testing.T) (*Server, registries) {
	t.Helper()

	db := setupTestDB(t)

	users := user.NewRegistry(user.NewSQLiteRepository(db))
	houses := house.NewRegistry(house.NewSQLiteRepository(db), users)
	rooms := room.NewRegistry(room.NewSQLiteRepository(db), houses)
	devices := device.NewRegistry(device.NewSQLiteRepository(db), rooms)

	ctx := context.Background()
	for _, refresh := range []func(context.Context) error{
		users.RefreshCache, houses.RefreshCache, rooms.RefreshCache, devices.RefreshCache,
	} {
		if err := refresh(ctx); err != nil {
			t.Fatalf("RefreshCache: %v", err)
		}
	}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:  log,
		Users:   users,
		Houses:  houses,
		Rooms:   rooms,
		Devices: devices,
		MQTT:    nil,
		TSDB:    nil,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv, registries{users: users, houses: houses, rooms: rooms, devices: devices}
}

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			phone_number TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			privilege TEXT NOT NULL DEFAULT 'regular',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE houses (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL,
			latitude REAL,
			longitude REAL,
			occupant_count INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE rooms (
			id TEXT PRIMARY KEY,
			house_id TEXT NOT NULL,
			name TEXT NOT NULL,
			floor INTEGER NOT NULL DEFAULT 0,
			size_m2 REAL,
			type TEXT NOT NULL DEFAULT 'other',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'other',
			status TEXT NOT NULL DEFAULT 'unknown',
			settings TEXT NOT NULL DEFAULT '{}',
			last_data TEXT NOT NULL DEFAULT '{}',
			status_updated_at TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// seedHierarchy creates a user, house, and room for tests that need parents.
func seedHierarchy(t *testing.T, regs registries) (userID, houseID, roomID string) {
	t.Helper()
	ctx := context.Background()

	u := &user.User{Name: "Alice Smith", Username: "alice", Email: "alice@example.com"}
	if err := regs.users.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	h := &house.House{OwnerID: u.ID, Name: "Main House", Address: "12 Elm Street"}
	if err := regs.houses.CreateHouse(ctx, h); err != nil {
		t.Fatalf("CreateHouse: %v", err)
	}

	rm := &room.Room{HouseID: h.ID, Name: "Living Room", Type: room.TypeLivingRoom}
	if err := regs.rooms.CreateRoom(ctx, rm); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	return u.ID, h.ID, rm.ID
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

// ─── User CRUD Tests ───────────────────────────────────────────────

func TestCreateAndGetUser(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Alice Smith", "username": "alice", "email": "alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created user.User
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}

	if created.ID == "" {
		t.Error("expected user ID to be auto-generated")
	}
	if created.Privilege != user.PrivilegeRegular {
		t.Errorf("privilege = %q, want %q", created.Privilege, user.PrivilegeRegular)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/"+created.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}

	var got user.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if got.Name != "Alice Smith" {
		t.Errorf("name = %q, want %q", got.Name, "Alice Smith")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Alice Smith", "username": "alice", "email": "alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d", w.Code, http.StatusCreated)
	}

	body = `{"name": "Other Alice", "username": "alice", "email": "other@example.com"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Alice Smith", "username": "alice", "email": "alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d", w.Code, http.StatusCreated)
	}

	body = `{"name": "Other Alice", "username": "alice2", "email": "alice@example.com"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("duplicate email create status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestListUsers_CreationOrder(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	usernames := []string{"zoe", "ada", "mika", "finn"}
	for _, username := range usernames {
		body := fmt.Sprintf(`{"name": %q, "username": %q, "email": "%s@example.com"}`,
			username, username, username)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s status = %d, want %d", username, w.Code, http.StatusCreated)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Users []user.User `json:"users"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != len(usernames) {
		t.Fatalf("list returned %d users, want %d", resp.Count, len(usernames))
	}
	for i, u := range resp.Users {
		if u.Username != usernames[i] {
			t.Errorf("users[%d] = %q, want %q", i, u.Username, usernames[i])
		}
	}
}

func TestCreateUser_InvalidPrivilege(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Bob", "username": "bob", "email": "bob@example.com", "privilege": "superuser"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["code"] != "validation_error" {
		t.Errorf("code = %v, want validation_error", resp["code"])
	}
}

func TestListUsers_ByUsername(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	seedHierarchy(t, regs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?username=alice", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}

	// Unknown username yields empty list, not 404
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users?username=nobody", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 0 {
		t.Errorf("count for unknown = %v, want 0", resp["count"])
	}
}

func TestUpdateUser_Partial(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	userID, _, _ := seedHierarchy(t, regs)

	body := `{"name": "Alice Renamed"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+userID, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var updated user.User
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.Name != "Alice Renamed" {
		t.Errorf("name = %q, want %q", updated.Name, "Alice Renamed")
	}
	if updated.Username != "alice" {
		t.Errorf("username = %q, want untouched %q", updated.Username, "alice")
	}
}

func TestDeleteUser_OwnsHouses(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	userID, _, _ := seedHierarchy(t, regs)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+userID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("delete status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestListUserHouses(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	userID, _, _ := seedHierarchy(t, regs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/houses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}

	// Unknown user is a 404, not an empty list
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/usr-missing/houses", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── House CRUD Tests ──────────────────────────────────────────────

func TestCreateHouse_UnknownOwner(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"owner_id": "usr-missing", "name": "Ghost House", "address": "1 Nowhere Lane"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/houses", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestCreateHouse_InvalidCoordinates(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	userID, _, _ := seedHierarchy(t, regs)

	// Latitude without longitude
	body := `{"owner_id": "` + userID + `", "address": "2 Elm Street", "latitude": 42.35}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/houses", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestDeleteHouse_HasRooms(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, houseID, _ := seedHierarchy(t, regs)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/houses/"+houseID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("delete status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestListHouses_FilterByOwner(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	userID, _, _ := seedHierarchy(t, regs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/houses?owner_id="+userID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

// ─── Room CRUD Tests ───────────────────────────────────────────────

func TestCreateRoom_UnknownHouse(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"house_id": "hse-missing", "name": "Phantom Room"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestCreateRoom_InvalidFloor(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, houseID, _ := seedHierarchy(t, regs)

	body := `{"house_id": "` + houseID + `", "name": "Deep Cellar", "floor": -6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestDeleteRoom_HasDevices(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Ceiling Light", Type: device.TypeLight}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/"+roomID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("delete status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestListRoomDevices(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Thermostat", Type: device.TypeThermostat}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+roomID+"/devices", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

// ─── Device CRUD Tests ─────────────────────────────────────────────

func TestCreateDevice_UnknownRoom(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	body := `{"room_id": "rom-missing", "name": "Orphan Light", "type": "light"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/devices", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestCreateDevice_Defaults(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	body := `{"room_id": "` + roomID + `", "name": "Mystery Box"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/devices", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created device.Device
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Type != device.TypeOther {
		t.Errorf("type = %q, want %q", created.Type, device.TypeOther)
	}
	if created.Status != device.StatusUnknown {
		t.Errorf("status = %q, want %q", created.Status, device.StatusUnknown)
	}
}

func TestDeviceStatusFlow(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Desk Lamp", Type: device.TypeLight}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	// Set status via PUT
	body := `{"status": "on"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/devices/"+d.ID+"/status", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	// Read it back
	req = httptest.NewRequest(http.MethodGet, "/api/v1/devices/"+d.ID+"/status", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "on" {
		t.Errorf("status = %v, want on", resp["status"])
	}
	if resp["status_updated_at"] == nil {
		t.Error("expected status_updated_at to be set")
	}
}

func TestSetDeviceStatus_Invalid(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Desk Lamp", Type: device.TypeLight}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	body := `{"status": "blinking"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/devices/"+d.ID+"/status", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestRecordDeviceData(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Hall Thermostat", Type: device.TypeThermostat}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	body := `{"temperature": 21.5, "humidity": 46}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/devices/"+d.ID+"/data", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("record status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var updated device.Device
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.LastData["temperature"] != 21.5 {
		t.Errorf("last_data.temperature = %v, want 21.5", updated.LastData["temperature"])
	}
}

func TestListDevices_FilterByStatus(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Porch Light", Type: device.TypeLight}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if _, err := regs.devices.SetDeviceStatus(context.Background(), d.ID, device.StatusOn); err != nil {
		t.Fatalf("SetDeviceStatus: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices?status=on", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}

	// Invalid filter value is rejected outright
	req = httptest.NewRequest(http.MethodGet, "/api/v1/devices?status=flickering", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid filter status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeviceStats(t *testing.T) {
	srv, regs := testServer(t)
	router := srv.buildRouter()
	_, _, roomID := seedHierarchy(t, regs)

	d := &device.Device{RoomID: roomID, Name: "Front Door Lock", Type: device.TypeDoorLock}
	if err := regs.devices.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var stats device.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.TotalDevices != 1 {
		t.Errorf("total_devices = %d, want 1", stats.TotalDevices)
	}
}

func TestGetDevice_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/dev-missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── WebSocket Hub Tests ───────────────────────────────────────────

func TestHub_BroadcastToSubscribed(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{"device.status_changed": {}},
	}
	hub.Register(client)

	hub.Broadcast("device.status_changed", map[string]any{"device_id": "dev-1", "status": "on"})

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.EventType != "device.status_changed" {
			t.Errorf("event_type = %q, want %q", wsMsg.EventType, "device.status_changed")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{"house.changed": {}},
	}
	hub.Register(client)

	hub.Broadcast("device.status_changed", map[string]any{"device_id": "dev-1"})

	select {
	case <-client.send:
		t.Error("unsubscribed client should not receive message")
	case <-time.After(100 * time.Millisecond):
		// OK — no message received
	}
}

func TestHub_ClientCount(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}
}
