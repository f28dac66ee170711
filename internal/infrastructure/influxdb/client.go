package influxdb

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/glossary-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Logger receives asynchronous write failures. logging.Logger satisfies it.
type Logger interface {
	Error(msg string, args ...any)
}

// Client records request metrics through the non-blocking, batching write
// API. Every method is safe for concurrent use and a no-op after Close.
type Client struct {
	client influxdb2.Client
	writer api.WriteAPI
	open   atomic.Bool
}

// Connect pings the server and returns a client writing to cfg.Bucket.
// It returns ErrDisabled when cfg.Enabled is false. log may be nil, in which
// case write failures are dropped silently.
func Connect(ctx context.Context, cfg config.InfluxDBConfig, log Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	// #nosec G115 -- both values are positive
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(positiveOr(cfg.BatchSize, defaultBatchSize))).
		SetFlushInterval(uint(flushInterval(cfg).Milliseconds()))
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := ping(pingCtx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{client: client, writer: client.WriteAPI(cfg.Org, cfg.Bucket)}
	c.open.Store(true)

	// The channel closes when the client does.
	go func(errs <-chan error) {
		for err := range errs {
			if log != nil {
				log.Error("InfluxDB write failed", "error", err)
			}
		}
	}(c.writer.Errors())

	return c, nil
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

func flushInterval(cfg config.InfluxDBConfig) time.Duration {
	if cfg.FlushInterval > 0 {
		return time.Duration(cfg.FlushInterval) * time.Second
	}
	return defaultFlushInterval
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("server not healthy")
	}
	return nil
}

// Close flushes pending points and releases the client. Closing twice, or
// closing a zero Client, is a no-op.
func (c *Client) Close() error {
	if c.client == nil || !c.open.CompareAndSwap(true, false) {
		return nil
	}
	c.writer.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ping(ctx, c.client); err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	return nil
}

// IsConnected reports whether the client is open.
func (c *Client) IsConnected() bool {
	return c.open.Load()
}

// Flush sends buffered points now.
func (c *Client) Flush() {
	if c.IsConnected() {
		c.writer.Flush()
	}
}
