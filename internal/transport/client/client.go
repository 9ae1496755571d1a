// Package client owns the UDP session to the downstream consumer and
// exposes the domain operations of the emulated device. Delivery is
// fire-and-forget: a failed send is logged and reported as false,
// never retried.
package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/okian/pssemu/internal/domain/roster"
	"github.com/okian/pssemu/internal/protocol"
	"github.com/okian/pssemu/internal/transport/clock"
	"github.com/okian/pssemu/pkg/logger"
	"github.com/okian/pssemu/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBatchDelay  = 100 * time.Millisecond
	defaultDialTimeout = 2 * time.Second
	maxHitLevel        = 100
)

// Sentinel errors for session lifecycle failures.
var (
	ErrNotConnected = errors.New("udp session not connected")
	ErrDial         = errors.New("udp dial failed")
)

// Client wraps the UDP socket and the session's protocol encoder.
// The socket is never shared across goroutines; the clock driver goes
// through Send like everyone else.
type Client struct {
	enc *protocol.Encoder
	rng *rand.Rand

	batchDelay    time.Duration
	dialTimeout   time.Duration
	clockInterval time.Duration
	logger        logger.Logger

	mu        sync.RWMutex
	conn      net.Conn
	connected bool
	port      int

	clockDriver *clock.Driver
	// roundDuration is the regulation round length of the loaded match.
	roundDuration int
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBatchDelay sets the inter-message delay used by SendBatch.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.batchDelay = d
		}
	}
}

// WithDialTimeout sets the socket dial timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

// WithClockInterval sets the clock driver tick interval.
func WithClockInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.clockInterval = d
		}
	}
}

// WithRand injects the random source used for hit levels.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// New creates a disconnected Client around the given encoder.
func New(enc *protocol.Encoder, opts ...Option) *Client {
	c := &Client{
		enc:           enc,
		batchDelay:    defaultBatchDelay,
		dialTimeout:   defaultDialTimeout,
		clockInterval: time.Second,
		logger:        logger.Get().Named("transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(roster.NewSeed())) //nolint:gosec // emulation randomness
	}
	return c
}

// Connect opens the UDP socket and announces the session.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("udp", addr, c.dialTimeout)
	if err != nil {
		c.mu.Unlock()
		c.logger.Error(ctx, "udp dial failed", logger.String("addr", addr), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrDial, err)
	}
	// Short deadline so any stray reads never block the session.
	_ = conn.SetReadDeadline(time.Now().Add(c.dialTimeout))

	c.conn = conn
	c.connected = true
	c.port = port
	c.mu.Unlock()

	metrics.UpdateSessionConnected(true)
	c.logger.Info(ctx, "udp session connected", logger.String("addr", addr))
	c.Send(ctx, c.enc.Connected(port))
	return nil
}

// Disconnect stops the clock driver if running, announces the close,
// and releases the socket. Idempotent.
func (c *Client) Disconnect(ctx context.Context) {
	c.mu.Lock()
	driver := c.clockDriver
	c.mu.Unlock()
	if driver != nil {
		driver.Stop(ctx)
	}

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	conn, port := c.conn, c.port
	c.mu.Unlock()

	c.Send(ctx, c.enc.Disconnected(port))

	c.mu.Lock()
	c.connected = false
	c.conn = nil
	c.mu.Unlock()

	if err := conn.Close(); err != nil {
		c.logger.Warn(ctx, "closing udp socket", logger.Error(err))
	}
	metrics.UpdateSessionConnected(false)
	c.logger.Info(ctx, "udp session disconnected", logger.Int("port", port))
}

// Connected reports whether a session is open.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Encoder exposes the session encoder for state inspection.
func (c *Client) Encoder() *protocol.Encoder { return c.enc }

// Send writes one message as a single datagram. Fails fast with false
// when disconnected or when the write errors; never retries.
func (c *Client) Send(ctx context.Context, message string) bool {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()

	if !connected {
		c.logger.Error(ctx, "send while disconnected", logger.String("message", message))
		metrics.RecordSendError()
		return false
	}

	n, err := conn.Write([]byte(message))
	if err != nil {
		c.logger.Error(ctx, "udp write failed", logger.String("message", message), logger.Error(err))
		metrics.RecordSendError()
		return false
	}

	metrics.RecordDatagramSent(n)
	c.logger.Debug(ctx, "sent", logger.String("message", message))
	return true
}

// SendBatch sends messages sequentially with a fixed inter-message
// delay so the consumer is not overwhelmed. The batch aborts on the
// first failed send.
func (c *Client) SendBatch(ctx context.Context, messages []string) bool {
	for i, message := range messages {
		if !c.Send(ctx, message) {
			metrics.RecordBatchAbort()
			c.logger.Warn(ctx, "batch aborted", logger.Int("sent", i), logger.Int("total", len(messages)))
			return false
		}
		if i < len(messages)-1 && !sleepCtx(ctx, c.batchDelay) {
			metrics.RecordBatchAbort()
			return false
		}
	}
	return true
}

// sleepCtx blocks for d or until ctx is cancelled, reporting whether
// the full delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func validAthlete(athlete int) bool { return athlete == 1 || athlete == 2 }

func validPointType(pointType int) bool { return pointType >= 1 && pointType <= 5 }
