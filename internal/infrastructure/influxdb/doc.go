// Package influxdb stores device telemetry in InfluxDB v2.
//
// Device status transitions land in the device_status measurement,
// numeric telemetry in device_metrics and device_data. Writes are
// non-blocking and batched; async write failures are delivered via
// the SetOnError callback.
//
// The package is optional. When influxdb.enabled is false in the
// configuration, Connect returns ErrDisabled and the rest of the
// system runs without telemetry storage.
package influxdb
