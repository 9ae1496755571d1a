// Package app wires configuration, transport, and orchestration into a
// runnable emulator service.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/pssemu/internal/config"
	"github.com/okian/pssemu/internal/domain/roster"
	"github.com/okian/pssemu/internal/orchestrator"
	"github.com/okian/pssemu/internal/protocol"
	"github.com/okian/pssemu/internal/transport/client"
	"github.com/okian/pssemu/pkg/logger"
)

// Mode selects how the emulator drives the session.
type Mode string

// Run modes. Interactive is accepted for configuration round-trips but
// lives in the CLI layer; Run rejects it.
const (
	ModeInteractive Mode = "interactive"
	ModeDemo        Mode = "demo"
	ModeRandom      Mode = "random"
	ModeScenario    Mode = "scenario"
)

// Sentinel errors for run dispatch.
var (
	ErrUnknownMode     = errors.New("unknown run mode")
	ErrInteractiveMode = errors.New("interactive mode is handled by the CLI layer")
	ErrRunFailed       = errors.New("run failed")
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInteractive, ModeDemo, ModeRandom, ModeScenario:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Service owns one emulator session end to end.
type Service struct {
	cfg      *config.Config
	reporter orchestrator.Reporter
	sleep    orchestrator.SleepFunc
	rng      *rand.Rand
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithReporter sets the status/progress sink; defaults to logging.
func WithReporter(r orchestrator.Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithRand injects the random source for every generator in the run.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSleep injects the pacing sleep used by playback.
func WithSleep(fn orchestrator.SleepFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// New creates a Service from configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logger.Get().Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = roster.NewSeed()
		}
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // emulation randomness
	}
	if s.reporter == nil {
		s.reporter = &logReporter{logger: s.logger}
	}
	return s
}

// Run connects the UDP session and executes the configured mode,
// disconnecting on the way out.
func (s *Service) Run(ctx context.Context) error {
	mode, err := ParseMode(s.cfg.Mode)
	if err != nil {
		return err
	}
	if mode == ModeInteractive {
		return ErrInteractiveMode
	}

	enc := protocol.NewEncoder()
	c := client.New(enc,
		client.WithBatchDelay(time.Duration(s.cfg.BatchDelayMS)*time.Millisecond),
		client.WithClockInterval(time.Duration(s.cfg.ClockIntervalMS)*time.Millisecond),
		client.WithRand(s.rng),
	)
	if err := c.Connect(ctx, s.cfg.Host, s.cfg.Port); err != nil {
		return err
	}
	defer c.Disconnect(context.WithoutCancel(ctx))

	switch mode {
	case ModeDemo:
		return s.runDemo(ctx, c)
	case ModeRandom:
		return s.runRandom(ctx, c)
	case ModeScenario:
		return s.runScenario(ctx, c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (s *Service) runScenario(ctx context.Context, c *client.Client) error {
	opts := []orchestrator.Option{
		orchestrator.WithReporter(s.reporter),
		orchestrator.WithRand(s.rng),
	}
	if s.sleep != nil {
		opts = append(opts, orchestrator.WithSleep(s.sleep))
	}
	orch := orchestrator.New(c, opts...)

	if !orch.RunScenario(ctx, s.cfg.Scenario) {
		return fmt.Errorf("%w: scenario %q", ErrRunFailed, s.cfg.Scenario)
	}
	return nil
}

// logReporter forwards status/progress updates to the structured log.
type logReporter struct {
	logger logger.Logger
}

func (r *logReporter) OnStatus(message string) {
	r.logger.Info(context.Background(), message)
}

func (r *logReporter) OnProgress(current, total int) {
	r.logger.Info(context.Background(), "progress",
		logger.Int("current", current), logger.Int("total", total))
}
