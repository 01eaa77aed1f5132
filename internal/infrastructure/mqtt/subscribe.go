package mqtt

import (
	"fmt"
	"strings"
)

// Subscribe registers a handler for messages on the given topic.
//
// The topic may contain wildcards (+ for single level, # for multi
// level). Subscriptions are tracked and automatically restored after
// a reconnect.
//
// Subscribing twice to the same topic replaces the previous handler.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if err := validateSubscribeTopic(topic); err != nil {
		return err
	}
	if err := validateQoS(qos); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrSubscribeFailed)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout subscribing to %q", ErrSubscribeFailed, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	// Track for re-subscription on reconnect
	c.subMu.Lock()
	c.subscriptions[topic] = subscription{
		topic:   topic,
		qos:     qos,
		handler: handler,
	}
	c.subMu.Unlock()

	return nil
}

// Unsubscribe removes the subscription for the given topic.
func (c *Client) Unsubscribe(topic string) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Unsubscribe(topic)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout unsubscribing from %q", ErrSubscribeFailed, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()

	return nil
}

// SubscriptionCount returns the number of tracked subscriptions.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

// validateSubscribeTopic checks a topic filter is valid for subscribing.
// Wildcards are allowed but must be positioned correctly:
//   - "+" must occupy an entire level (a/+/b, not a/b+/c)
//   - "#" must be the final level (a/#, not a/#/b)
func validateSubscribeTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidTopic)
	}
	if strings.Contains(topic, "\x00") {
		return fmt.Errorf("%w: null character in topic", ErrInvalidTopic)
	}

	levels := strings.Split(topic, "/")
	for i, level := range levels {
		if strings.Contains(level, "#") {
			if level != "#" {
				return fmt.Errorf("%w: # must occupy an entire level in %q", ErrInvalidTopic, topic)
			}
			if i != len(levels)-1 {
				return fmt.Errorf("%w: # must be the final level in %q", ErrInvalidTopic, topic)
			}
		}
		if strings.Contains(level, "+") && level != "+" {
			return fmt.Errorf("%w: + must occupy an entire level in %q", ErrInvalidTopic, topic)
		}
	}

	return nil
}
