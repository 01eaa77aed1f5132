package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/config"
)

// Connection timeouts and limits.
const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds

	maxReconnectInterval = 2 * time.Minute
	keepAliveInterval    = 30 * time.Second
	pingTimeout          = 10 * time.Second
)

// buildClientOptions constructs paho client options from configuration.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)
	opts.AddBroker(brokerURL)

	// Client identity
	opts.SetClientID(cfg.Broker.ClientID)

	// Authentication
	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// TLS configuration
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	}

	// Reconnection behaviour
	opts.SetAutoReconnect(true)
	maxDelay := maxReconnectInterval
	if cfg.Reconnect.MaxDelay > 0 {
		maxDelay = time.Duration(cfg.Reconnect.MaxDelay) * time.Second
	}
	opts.SetMaxReconnectInterval(maxDelay)
	opts.SetConnectRetry(true)
	retryDelay := 5 * time.Second
	if cfg.Reconnect.InitialDelay > 0 {
		retryDelay = time.Duration(cfg.Reconnect.InitialDelay) * time.Second
	}
	opts.SetConnectRetryInterval(retryDelay)

	// Keep-alive
	opts.SetKeepAlive(keepAliveInterval)
	opts.SetPingTimeout(pingTimeout)

	// Session handling: clean session so stale subscriptions from a
	// previous run don't linger on the broker.
	opts.SetCleanSession(true)

	// Message ordering within a topic
	opts.SetOrderMatters(true)

	return opts
}

// configureLWT sets up the Last Will and Testament message.
//
// The LWT is published by the broker if the connection drops
// unexpectedly (crash, network failure). A graceful shutdown publishes
// its own offline status instead.
func configureLWT(opts *pahomqtt.ClientOptions, clientID string) {
	topic := Topics{}.SystemStatus()
	payload := buildLWTPayload(clientID)
	opts.SetWill(topic, string(payload), 1, true)
}

// statusPayload is the JSON structure published to the system status topic.
type statusPayload struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason,omitempty"`
}

func buildOnlinePayload(clientID string) []byte {
	p := statusPayload{
		Status:    "online",
		ClientID:  clientID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, _ := json.Marshal(p)
	return data
}

func buildOfflinePayload(clientID string) []byte {
	p := statusPayload{
		Status:    "offline",
		ClientID:  clientID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Reason:    "shutdown",
	}
	data, _ := json.Marshal(p)
	return data
}

func buildLWTPayload(clientID string) []byte {
	p := statusPayload{
		Status:   "offline",
		ClientID: clientID,
		Reason:   "connection_lost",
	}
	data, _ := json.Marshal(p)
	return data
}
