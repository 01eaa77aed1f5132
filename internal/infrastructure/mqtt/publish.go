package mqtt

import (
	"fmt"
	"strings"
)

// Maximum payload size for published messages (1 MB).
const maxPayloadSize = 1024 * 1024

// Publish sends a message to the specified topic.
//
// Parameters:
//   - topic: MQTT topic (must not contain wildcards + or #)
//   - payload: message payload (max 1 MB)
//   - qos: quality of service level (0, 1, or 2)
//   - retained: whether the broker should retain the message
//
// The call blocks until the broker acknowledges the publish or the
// publish timeout expires.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := validatePublishTopic(topic); err != nil {
		return err
	}
	if err := validateQoS(qos); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: %d bytes exceeds %d byte limit",
			ErrPayloadTooLarge, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishState publishes a retained state message at the configured QoS.
//
// State topics carry the current condition of a device and are retained
// so late subscribers immediately receive the latest value.
func (c *Client) PublishState(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// PublishEvent publishes a non-retained event message at the configured QoS.
//
// Event topics carry transient notifications that only matter to
// currently connected subscribers.
func (c *Client) PublishEvent(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), false)
}

// validatePublishTopic checks a topic is valid for publishing.
// Publish topics must not contain wildcards.
func validatePublishTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: wildcards not allowed in publish topic %q", ErrInvalidTopic, topic)
	}
	if strings.Contains(topic, "\x00") {
		return fmt.Errorf("%w: null character in topic", ErrInvalidTopic)
	}
	return nil
}

// validateQoS checks the QoS level is valid.
func validateQoS(qos byte) error {
	if qos > 2 {
		return fmt.Errorf("%w: %d (must be 0, 1, or 2)", ErrInvalidQoS, qos)
	}
	return nil
}
