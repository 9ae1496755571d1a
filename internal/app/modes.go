package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/domain/roster"
	"github.com/okian/pssemu/internal/transport/client"
)

// Demo and random mode pacing constants.
const (
	demoStepDelay      = 2 * time.Second
	randomMinStep      = 1
	randomStepSpread   = 3 // steps are 1..3s
	randomMaxPointType = 5
)

// runDemo plays one short, fixed match so a consumer can be eyeballed
// without waiting out a full scenario.
func (s *Service) runDemo(ctx context.Context, c *client.Client) error {
	gen := roster.New(roster.WithRand(s.rng))
	a1, a2 := gen.Athlete(), gen.Athlete()
	a1.Color, a2.Color = model.ColorBlue, model.ColorRed
	cfg := gen.MatchConfig()

	s.reporter.OnStatus(fmt.Sprintf("demo match: %s vs %s", a1.LongName, a2.LongName))

	steps := []func(context.Context) bool{
		func(ctx context.Context) bool { return c.LoadMatch(ctx, a1, a2, cfg) },
		func(ctx context.Context) bool { return c.SetRound(ctx, 1) },
		func(ctx context.Context) bool { return c.StartMatch(ctx) },
		func(ctx context.Context) bool { return c.AddPoint(ctx, 1, 2) },
		func(ctx context.Context) bool { return c.AddPoint(ctx, 2, 3) },
		func(ctx context.Context) bool { return c.AddWarning(ctx, 2) },
		func(ctx context.Context) bool { return c.AddPoint(ctx, 1, 1) },
		func(ctx context.Context) bool { return c.Challenge(ctx, 2, true, false) },
		func(ctx context.Context) bool { return c.StopMatch(ctx) },
		func(ctx context.Context) bool { return c.DeclareWinner(ctx, a1, [3]int{1, 0, 0}) },
	}

	for i, step := range steps {
		if !step(ctx) {
			return fmt.Errorf("%w: demo step %d", ErrRunFailed, i)
		}
		if !s.pause(ctx, demoStepDelay) {
			return fmt.Errorf("%w: demo cancelled", ErrRunFailed)
		}
	}
	s.reporter.OnStatus("demo match completed")
	return nil
}

// runRandom loads one match and fires uniformly random events until the
// configured duration elapses.
func (s *Service) runRandom(ctx context.Context, c *client.Client) error {
	gen := roster.New(roster.WithRand(s.rng))
	a1, a2 := gen.Athlete(), gen.Athlete()
	a1.Color, a2.Color = model.ColorBlue, model.ColorRed
	cfg := gen.MatchConfig()

	if !c.LoadMatch(ctx, a1, a2, cfg) || !c.StartMatch(ctx) {
		return fmt.Errorf("%w: random mode setup", ErrRunFailed)
	}

	s.reporter.OnStatus(fmt.Sprintf("random mode for %ds", s.cfg.DurationSeconds))
	deadline := time.Now().Add(time.Duration(s.cfg.DurationSeconds) * time.Second)

	for time.Now().Before(deadline) {
		athlete := 1 + s.rng.Intn(2)
		var ok bool
		switch s.rng.Intn(4) {
		case 0, 1: // points dominate, as on a real mat
			ok = c.AddPoint(ctx, athlete, 1+s.rng.Intn(randomMaxPointType))
		case 2:
			ok = c.AddWarning(ctx, athlete)
		default:
			ok = c.Challenge(ctx, athlete, s.rng.Intn(2) == 1, s.rng.Intn(2) == 1)
		}
		if !ok {
			return fmt.Errorf("%w: random event send", ErrRunFailed)
		}

		step := time.Duration(randomMinStep+s.rng.Intn(randomStepSpread)) * time.Second
		if !s.pause(ctx, step) {
			break
		}
	}

	if !c.StopMatch(ctx) {
		return fmt.Errorf("%w: random mode stop", ErrRunFailed)
	}
	s.reporter.OnStatus("random mode completed")
	return nil
}

// pause sleeps through the injected sleeper when one is set.
func (s *Service) pause(ctx context.Context, d time.Duration) bool {
	if s.sleep != nil {
		return s.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
