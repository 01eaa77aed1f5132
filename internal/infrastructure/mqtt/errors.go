package mqtt

import "errors"

// Sentinel errors for MQTT operations.
var (
	// ErrConnectionFailed indicates the initial broker connection failed.
	ErrConnectionFailed = errors.New("mqtt connection failed")

	// ErrNotConnected indicates an operation was attempted while disconnected.
	ErrNotConnected = errors.New("mqtt client not connected")

	// ErrPublishFailed indicates a publish was not acknowledged by the broker.
	ErrPublishFailed = errors.New("mqtt publish failed")

	// ErrSubscribeFailed indicates a subscribe or unsubscribe failed.
	ErrSubscribeFailed = errors.New("mqtt subscribe failed")

	// ErrInvalidTopic indicates a malformed topic or topic filter.
	ErrInvalidTopic = errors.New("invalid mqtt topic")

	// ErrInvalidQoS indicates a QoS level outside 0-2.
	ErrInvalidQoS = errors.New("invalid mqtt qos level")

	// ErrPayloadTooLarge indicates a payload exceeding the size limit.
	ErrPayloadTooLarge = errors.New("mqtt payload too large")
)
