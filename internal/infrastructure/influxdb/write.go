package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceStatus records a device status transition.
//
// Each transition is stored in the device_status measurement with the
// device and its new status as tags, so Flux queries can reconstruct
// on/off history per device.
//
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteDeviceStatus(deviceID string, deviceType string, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id":   deviceID,
			"device_type": deviceType,
			"status":      status,
		},
		map[string]interface{}{
			"value": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceMetric writes a single device measurement.
//
// This records numeric telemetry reported by devices, such as a
// thermostat temperature or a camera frame rate.
//
// Example:
//
//	client.WriteDeviceMetric("dev-a1b2c3d4", "temperature_c", 21.5)
func (c *Client) WriteDeviceMetric(deviceID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_metrics",
		map[string]string{
			"device_id":   deviceID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceData records all numeric fields from a device data report.
//
// Non-numeric values in the report are skipped; devices report mixed
// payloads and only numbers belong in the time series store.
func (c *Client) WriteDeviceData(deviceID string, data map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	fields := make(map[string]interface{})
	for key, val := range data {
		switch v := val.(type) {
		case float64:
			fields[key] = v
		case int:
			fields[key] = float64(v)
		case int64:
			fields[key] = float64(v)
		}
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"device_data",
		map[string]string{
			"device_id": deviceID,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
