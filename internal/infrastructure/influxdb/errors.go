package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
var (
	// ErrDisabled indicates InfluxDB is disabled in configuration.
	ErrDisabled = errors.New("influxdb is disabled")

	// ErrConnectionFailed indicates the initial connection could not be established.
	ErrConnectionFailed = errors.New("influxdb connection failed")

	// ErrNotConnected indicates an operation was attempted while disconnected.
	ErrNotConnected = errors.New("influxdb client not connected")
)
