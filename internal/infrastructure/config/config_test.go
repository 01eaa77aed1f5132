package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}

	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	// A minimal file should leave defaults intact for unset sections.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: debug\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Database.Path != "./data/smarthome.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("database:\n  path: /tmp/file.db\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("SMARTHOME_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("SMARTHOME_API_PORT", "9090")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/env.db")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want env override 9090", cfg.API.Port)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/smarthome.db"},
				API:      APIConfig{Port: 8080},
				MQTT:     MQTTConfig{QoS: 1},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			config: &Config{
				API:  APIConfig{Port: 8080},
				MQTT: MQTTConfig{QoS: 1},
			},
			wantErr: true,
		},
		{
			name: "invalid api port",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/smarthome.db"},
				API:      APIConfig{Port: 99999},
				MQTT:     MQTTConfig{QoS: 1},
			},
			wantErr: true,
		},
		{
			name: "invalid qos",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/smarthome.db"},
				API:      APIConfig{Port: 8080},
				MQTT:     MQTTConfig{QoS: 3},
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled without token",
			config: &Config{
				Database: DatabaseConfig{Path: "/data/smarthome.db"},
				API:      APIConfig{Port: 8080},
				MQTT:     MQTTConfig{QoS: 1},
				InfluxDB: InfluxDBConfig{Enabled: true, URL: "http://localhost:8086"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutHelpers(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{Read: 15, Write: 20, Idle: 45},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 15 {
		t.Errorf("GetReadTimeout() = %vs, want 15s", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 20 {
		t.Errorf("GetWriteTimeout() = %vs, want 20s", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 45 {
		t.Errorf("GetIdleTimeout() = %vs, want 45s", got)
	}
}
