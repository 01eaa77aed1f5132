// Package mqtt provides the MQTT transport for the Smart Home System core.
//
// It wraps paho.mqtt.golang with connection management, Last Will and
// Testament for offline detection, automatic reconnection with tracked
// subscription restore, and topic builders for the smarthome/ hierarchy.
//
// Device state changes are published retained so subscribers always see
// the latest value. Inbound device commands arrive on
// smarthome/command/devices/{id} and are routed to the device registry
// by the API layer.
package mqtt
