// Package api implements the HTTP REST API and WebSocket server for the
// smart home system.
//
// This package provides:
//   - REST endpoints for user, house, room, and device CRUD
//   - Device status and telemetry endpoints bridged to MQTT and InfluxDB
//   - WebSocket hub for real-time change broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limits)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between clients (web dashboards, mobile apps) and the
// entity registries. Writes flow through the registries into SQLite, then fan
// out to WebSocket subscribers, retained MQTT state topics, and the time
// series store. Device commands may also arrive over MQTT command topics,
// which converge on the same registry operations as the HTTP handlers.
package api
