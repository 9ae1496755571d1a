package client

import (
	"context"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/protocol"
	"github.com/okian/pssemu/internal/transport/clock"
	"github.com/okian/pssemu/pkg/logger"
)

// Domain operations of the emulated device, built on Send/SendBatch.
// Each validates its own argument ranges and returns false without
// touching the network on violation.

// LoadMatch resets the session state and announces a new fight:
// fight-loaded, athletes, configuration, opening clock, fight-ready.
func (c *Client) LoadMatch(ctx context.Context, a1, a2 model.Athlete, cfg model.MatchConfig) bool {
	if cfg.TotalRounds < 1 || cfg.RoundDurationSeconds <= 0 {
		c.logger.Error(ctx, "invalid match config",
			logger.Int("totalRounds", cfg.TotalRounds),
			logger.Int("roundDuration", cfg.RoundDurationSeconds))
		return false
	}

	c.enc.Reset()
	c.mu.Lock()
	c.roundDuration = cfg.RoundDurationSeconds
	c.mu.Unlock()

	return c.SendBatch(ctx, []string{
		c.enc.FightLoaded(),
		c.enc.Athletes(a1, a2),
		c.enc.Match(cfg),
		c.enc.Clock(protocol.FormatClock(cfg.RoundDurationSeconds), ""),
		c.enc.FightReady(),
	})
}

// StartMatch starts the match clock and the background clock driver.
func (c *Client) StartMatch(ctx context.Context) bool {
	if !c.Send(ctx, c.enc.Clock(c.enc.ClockString(), model.ClockStart)) {
		return false
	}

	c.mu.Lock()
	if c.clockDriver == nil {
		c.clockDriver = clock.New(c, c.enc, clock.WithTickInterval(c.clockInterval))
	}
	driver := c.clockDriver
	c.mu.Unlock()

	if !driver.Start(ctx) {
		c.logger.Debug(ctx, "clock driver already running")
	}
	return true
}

// StopMatch stops the clock driver and freezes the match clock.
func (c *Client) StopMatch(ctx context.Context) bool {
	c.mu.Lock()
	driver := c.clockDriver
	c.mu.Unlock()
	if driver != nil {
		driver.Stop(ctx)
	}
	return c.Send(ctx, c.enc.Clock(c.enc.ClockString(), model.ClockStop))
}

// SetRound announces a new round and resets the clock to the round
// duration. Rounds outside 1..3 are rejected.
func (c *Client) SetRound(ctx context.Context, round int) bool {
	if round < 1 || round > 3 {
		c.logger.Error(ctx, "round out of range", logger.Int("round", round))
		return false
	}
	c.mu.RLock()
	duration := c.roundDuration
	c.mu.RUnlock()
	return c.SendBatch(ctx, []string{
		c.enc.Round(round),
		c.enc.Clock(protocol.FormatClock(duration), ""),
	})
}

// AddPoint scores pointType for an athlete, preceded by the point
// message and followed by a hit-level reading as the real sensor does.
func (c *Client) AddPoint(ctx context.Context, athlete, pointType int) bool {
	if !validAthlete(athlete) || !validPointType(pointType) {
		c.logger.Error(ctx, "invalid point arguments",
			logger.Int("athlete", athlete), logger.Int("pointType", pointType))
		return false
	}
	level := 1 + c.rng.Intn(maxHitLevel)
	return c.SendBatch(ctx, []string{
		c.enc.Points(athlete, pointType),
		c.enc.HitLevel(athlete, level),
	})
}

// AddWarning records a gam-jeom against an athlete and sends the
// combined warning counters.
func (c *Client) AddWarning(ctx context.Context, athlete int) bool {
	if !validAthlete(athlete) {
		c.logger.Error(ctx, "invalid warning athlete", logger.Int("athlete", athlete))
		return false
	}
	return c.Send(ctx, c.enc.Warning(athlete))
}

// StartInjury shows the injury timer for an athlete.
func (c *Client) StartInjury(ctx context.Context, athlete, durationSeconds int) bool {
	if !validAthlete(athlete) || durationSeconds <= 0 {
		c.logger.Error(ctx, "invalid injury arguments",
			logger.Int("athlete", athlete), logger.Int("duration", durationSeconds))
		return false
	}
	return c.Send(ctx, c.enc.Injury(athlete, durationSeconds, protocol.ActionShow))
}

// StopInjury hides the injury timer for an athlete.
func (c *Client) StopInjury(ctx context.Context, athlete int) bool {
	if !validAthlete(athlete) {
		c.logger.Error(ctx, "invalid injury athlete", logger.Int("athlete", athlete))
		return false
	}
	return c.Send(ctx, c.enc.Injury(athlete, 0, protocol.ActionHide))
}

// StartBreak starts a rest break of the given length.
func (c *Client) StartBreak(ctx context.Context, durationSeconds int) bool {
	if durationSeconds <= 0 {
		c.logger.Error(ctx, "invalid break duration", logger.Int("duration", durationSeconds))
		return false
	}
	return c.Send(ctx, c.enc.Break(durationSeconds, model.ClockStart))
}

// EndBreak ends the current rest break.
func (c *Client) EndBreak(ctx context.Context) bool {
	return c.Send(ctx, c.enc.Break(0, model.ClockStop))
}

// Challenge plays a full video-review exchange: request, acceptance
// decision, and (when accepted) the outcome.
func (c *Client) Challenge(ctx context.Context, source int, accepted, won bool) bool {
	if !validAthlete(source) {
		c.logger.Error(ctx, "invalid challenge source", logger.Int("source", source))
		return false
	}
	messages := []string{
		c.enc.Challenge(source),
		c.enc.ChallengeAccepted(source, accepted),
	}
	if accepted {
		messages = append(messages, c.enc.ChallengeResolved(source, accepted, won))
	}
	return c.SendBatch(ctx, messages)
}

// DeclareWinner announces per-round winners, the final winner, and the
// classification form.
func (c *Client) DeclareWinner(ctx context.Context, winner model.Athlete, roundWinners [3]int) bool {
	return c.SendBatch(ctx, []string{
		c.enc.RoundWinners(roundWinners[0], roundWinners[1], roundWinners[2]),
		c.enc.Winner(winner.LongName),
		c.enc.WinnerClassified(winner.LongName, string(winner.Color)),
	})
}
