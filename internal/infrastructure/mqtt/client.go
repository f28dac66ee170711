package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/glossary-core/internal/infrastructure/config"
)

// Logger receives connection state changes. logging.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client publishes term events to one broker. paho reconnects on its own;
// every (re)connect republishes the retained online status.
//
// Safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	log    Logger
	up     atomic.Bool
}

// Connect dials the broker and waits for the first session. log may be nil.
// The will message marks the service offline if the process dies without
// calling Close.
func Connect(cfg config.MQTTConfig, log Logger) (*Client, error) {
	if cfg.QoS < 0 || cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	c := &Client{cfg: cfg, log: log}

	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.onSession() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.onLost(err) })
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		c.info("reconnecting to MQTT broker")
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler runs on its own goroutine and may lag behind.
	c.up.Store(true)
	return c, nil
}

func (c *Client) onSession() {
	c.up.Store(true)
	c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, buildOnlinePayload(c.cfg.Broker.ClientID))
	c.info("MQTT session established", "client_id", c.cfg.Broker.ClientID)
}

func (c *Client) onLost(err error) {
	c.up.Store(false)
	if c.log != nil {
		c.log.Warn("MQTT connection lost", "error", err)
	}
}

func (c *Client) info(msg string, args ...any) {
	if c.log != nil {
		c.log.Info(msg, args...)
	}
}

// Close announces a graceful offline status, then disconnects.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true,
			buildOfflinePayload(c.cfg.Broker.ClientID))
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)
	c.up.Store(false)
	return nil
}

// HealthCheck reports whether the broker connection is up.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.up.Load() && c.client.IsConnected()
}
