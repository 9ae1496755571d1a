// Package orchestrator plays scenario-driven multi-match runs against
// a transport device, pacing each generated timeline in real time and
// reporting progress through a narrow callback interface.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/domain/roster"
	"github.com/okian/pssemu/internal/domain/timeline"
	"github.com/okian/pssemu/internal/scenario"
	"github.com/okian/pssemu/pkg/logger"
	"github.com/okian/pssemu/pkg/metrics"
)

// Pacing constants.
const (
	minInterMatchGapSeconds = 5
	interMatchGapSpread     = 11 // gap is 5..15s inclusive
	timerPauseSeconds       = 2  // pause between showing and hiding injury/break timers
)

// Reporter receives human-readable status and progress updates so the
// orchestrator stays free of direct console writes.
type Reporter interface {
	OnStatus(message string)
	OnProgress(current, total int)
}

// NopReporter discards all updates.
type NopReporter struct{}

func (NopReporter) OnStatus(string)     {}
func (NopReporter) OnProgress(int, int) {}

// Device is the transport surface the orchestrator drives.
type Device interface {
	LoadMatch(ctx context.Context, a1, a2 model.Athlete, cfg model.MatchConfig) bool
	StartMatch(ctx context.Context) bool
	StopMatch(ctx context.Context) bool
	SetRound(ctx context.Context, round int) bool
	AddPoint(ctx context.Context, athlete, pointType int) bool
	AddWarning(ctx context.Context, athlete int) bool
	StartInjury(ctx context.Context, athlete, durationSeconds int) bool
	StopInjury(ctx context.Context, athlete int) bool
	StartBreak(ctx context.Context, durationSeconds int) bool
	EndBreak(ctx context.Context) bool
	Challenge(ctx context.Context, source int, accepted, won bool) bool
	DeclareWinner(ctx context.Context, winner model.Athlete, roundWinners [3]int) bool
}

// SleepFunc blocks for the given duration, reporting false if the
// context was cancelled before it elapsed. Injected so tests run at
// full speed.
type SleepFunc func(ctx context.Context, d time.Duration) bool

// Orchestrator runs scenarios match by match.
type Orchestrator struct {
	device   Device
	roster   *roster.Generator
	timeline *timeline.Generator
	rng      *rand.Rand
	reporter Reporter
	sleep    SleepFunc
	logger   logger.Logger
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the status/progress callback sink.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithRand injects the random source used for durations and gaps.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithRoster injects the athlete/config generator.
func WithRoster(g *roster.Generator) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.roster = g
		}
	}
}

// WithTimeline injects the timeline generator.
func WithTimeline(g *timeline.Generator) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.timeline = g
		}
	}
}

// WithSleep injects the pacing sleep.
func WithSleep(s SleepFunc) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.sleep = s
		}
	}
}

// New creates an Orchestrator driving the given device.
func New(device Device, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		device:   device,
		reporter: NopReporter{},
		sleep:    sleepCtx,
		logger:   logger.Get().Named("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(roster.NewSeed())) //nolint:gosec // emulation randomness
	}
	if o.roster == nil {
		o.roster = roster.New(roster.WithRand(o.rng))
	}
	if o.timeline == nil {
		o.timeline = timeline.New(timeline.WithRand(o.rng))
	}
	return o
}

// RunScenario resolves name in the catalog and plays every match it
// describes. Unknown names fail without side effects; any per-match
// failure aborts the whole run.
func (o *Orchestrator) RunScenario(ctx context.Context, name string) bool {
	sc, ok := scenario.Lookup(name)
	if !ok {
		o.reporter.OnStatus(fmt.Sprintf("unknown scenario %q", name))
		o.logger.Error(ctx, "unknown scenario", logger.String("name", name))
		return false
	}

	metrics.RecordScenarioRun()
	o.reporter.OnStatus(fmt.Sprintf("starting scenario %q: %s", sc.Name, sc.Description))

	for i := 1; i <= sc.MatchCount; i++ {
		o.reporter.OnProgress(i, sc.MatchCount)
		if !o.runMatch(ctx, sc, i) {
			o.reporter.OnStatus(fmt.Sprintf("scenario %q aborted at match %d/%d", sc.Name, i, sc.MatchCount))
			metrics.RecordScenarioFailure()
			return false
		}

		if i < sc.MatchCount {
			gap := time.Duration(minInterMatchGapSeconds+o.rng.Intn(interMatchGapSpread)) * time.Second
			o.reporter.OnStatus(fmt.Sprintf("waiting %s before next match", gap))
			if !o.sleep(ctx, gap) {
				o.reporter.OnStatus("scenario cancelled during inter-match gap")
				metrics.RecordScenarioFailure()
				return false
			}
		}
	}

	o.reporter.OnStatus(fmt.Sprintf("scenario %q completed: %d matches", sc.Name, sc.MatchCount))
	return true
}

// runMatch generates data for one match, loads it, and plays its
// timeline to the end.
func (o *Orchestrator) runMatch(ctx context.Context, sc model.Scenario, index int) bool {
	a1, a2 := o.roster.Athlete(), o.roster.Athlete()
	// Corners must differ; flip the second athlete on a collision.
	if a2.Color == a1.Color {
		if a1.Color == model.ColorBlue {
			a2.Color = model.ColorRed
		} else {
			a2.Color = model.ColorBlue
		}
	}
	cfg := o.roster.MatchConfig()

	spread := sc.MaxDurationSeconds - sc.MinDurationSeconds
	duration := float64(sc.MinDurationSeconds)
	if spread > 0 {
		duration += o.rng.Float64() * float64(spread)
	}

	o.reporter.OnStatus(fmt.Sprintf("match %d: %s (%s) vs %s (%s), %.0fs",
		index, a1.LongName, a1.CountryCode, a2.LongName, a2.CountryCode, duration))

	if !o.device.LoadMatch(ctx, a1, a2, cfg) {
		o.reporter.OnStatus(fmt.Sprintf("match %d: load failed", index))
		return false
	}

	start := time.Now()
	events := o.timeline.Generate(sc, cfg, duration)
	if !o.playback(ctx, events, a1, a2) {
		o.reporter.OnStatus(fmt.Sprintf("match %d: playback failed", index))
		return false
	}

	metrics.RecordMatchCompleted(time.Since(start).Seconds())
	return true
}

// playback walks the timeline in order, sleeping up to each event's
// offset (never backward) and dispatching it to the device.
func (o *Orchestrator) playback(ctx context.Context, events []model.TimelineEvent, a1, a2 model.Athlete) bool {
	elapsed := 0.0
	for i := range events {
		ev := &events[i]
		if wait := ev.Offset - elapsed; wait > 0 {
			if !o.sleep(ctx, time.Duration(wait*float64(time.Second))) {
				return false
			}
			elapsed = ev.Offset
		}
		if !o.dispatch(ctx, ev, a1, a2) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) dispatch(ctx context.Context, ev *model.TimelineEvent, a1, a2 model.Athlete) bool {
	metrics.RecordTimelineEvent(string(ev.Type))

	switch ev.Type {
	case model.EventPoints:
		return o.device.AddPoint(ctx, ev.Athlete, ev.PointType)
	case model.EventWarning:
		return o.device.AddWarning(ctx, ev.Athlete)
	case model.EventInjury:
		if !o.device.StartInjury(ctx, ev.Athlete, ev.DurationSeconds) {
			return false
		}
		o.sleep(ctx, timerPauseSeconds*time.Second)
		return o.device.StopInjury(ctx, ev.Athlete)
	case model.EventBreak:
		if !o.device.StartBreak(ctx, ev.DurationSeconds) {
			return false
		}
		o.sleep(ctx, timerPauseSeconds*time.Second)
		return o.device.EndBreak(ctx)
	case model.EventChallenge:
		return o.device.Challenge(ctx, ev.Athlete, ev.Accepted, ev.Won)
	case model.EventRoundChange:
		metrics.UpdateCurrentRound(ev.Round)
		return o.device.SetRound(ctx, ev.Round)
	case model.EventClockTick:
		if ev.ClockAction == model.ClockStart {
			return o.device.StartMatch(ctx)
		}
		return o.device.StopMatch(ctx)
	case model.EventConclusion:
		winner := a1
		if ev.Winner == 2 {
			winner = a2
		}
		return o.device.DeclareWinner(ctx, winner, ev.RoundWinners)
	default:
		o.logger.Warn(ctx, "unhandled timeline event", logger.String("type", string(ev.Type)))
		return true
	}
}

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
