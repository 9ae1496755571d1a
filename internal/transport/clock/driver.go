// Package clock runs the background match-clock goroutine. It is the
// only genuinely concurrent piece of the emulator: once started it
// decrements the encoder's clock every tick, emits the resulting clk
// message, and stops itself when the clock reaches zero.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/okian/pssemu/pkg/logger"
	"github.com/okian/pssemu/pkg/metrics"
)

// Default driver configuration constants.
const (
	defaultTickInterval = time.Second
	defaultJoinTimeout  = time.Second
)

// Sender delivers an encoded message to the consumer.
type Sender interface {
	Send(ctx context.Context, message string) bool
}

// Timekeeper decrements the session clock and formats the tick message.
type Timekeeper interface {
	TickDown() (message string, remaining int)
}

// Driver is the clock state machine: Idle -> Running -> Idle. Only one
// driver may run per session.
type Driver struct {
	sender   Sender
	keeper   Timekeeper
	interval time.Duration
	join     time.Duration
	logger   logger.Logger

	mu       sync.Mutex
	running  bool
	shutdown chan struct{}
	done     chan struct{}
}

// Option applies a configuration option to the Driver.
type Option func(*Driver)

// WithTickInterval overrides the 1s tick interval. Tests shorten it.
func WithTickInterval(d time.Duration) Option {
	return func(c *Driver) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithJoinTimeout bounds how long Stop waits for the tick goroutine.
func WithJoinTimeout(d time.Duration) Option {
	return func(c *Driver) {
		if d > 0 {
			c.join = d
		}
	}
}

// New creates a Driver in the Idle state.
func New(sender Sender, keeper Timekeeper, opts ...Option) *Driver {
	c := &Driver{
		sender:   sender,
		keeper:   keeper,
		interval: defaultTickInterval,
		join:     defaultJoinTimeout,
		logger:   logger.Get().Named("clock"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start transitions Idle -> Running and spawns the tick goroutine.
// A no-op returning false when already running.
func (c *Driver) Start(ctx context.Context) bool {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.shutdown = make(chan struct{})
	c.done = make(chan struct{})
	shutdown, done := c.shutdown, c.done
	c.mu.Unlock()

	go c.run(ctx, shutdown, done)
	return true
}

// Stop cancels the tick goroutine and joins it with a bounded timeout.
// A timed-out join is treated as a leaked goroutine and logged, not
// escalated. Idempotent.
func (c *Driver) Stop(ctx context.Context) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.shutdown)
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
	case <-time.After(c.join):
		c.logger.Warn(ctx, "clock goroutine join timed out; treating as leaked")
	}
}

// Running reports whether the driver is in the Running state.
func (c *Driver) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Driver) run(ctx context.Context, shutdown, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.selfStop()
			return
		case <-shutdown:
			return
		case <-ticker.C:
			message, remaining := c.keeper.TickDown()
			if !c.sender.Send(ctx, message) {
				c.logger.Warn(ctx, "clock tick send failed")
			}
			metrics.RecordClockTick()
			if remaining <= 0 {
				c.logger.Info(ctx, "match clock expired")
				metrics.RecordClockExpiry()
				c.selfStop()
				return
			}
		}
	}
}

// selfStop flips the state back to Idle from inside the tick goroutine.
func (c *Driver) selfStop() {
	c.mu.Lock()
	if c.running {
		c.running = false
		close(c.shutdown)
	}
	c.mu.Unlock()
}
