// Package device manages the appliances and sensors placed in rooms.
//
// A device belongs to exactly one room and carries an on/off/unknown
// status plus free-form settings and the most recent telemetry report.
// Status changes flow through Registry.SetDeviceStatus so the API
// layer can broadcast them over WebSocket and MQTT and record them in
// InfluxDB.
package device
