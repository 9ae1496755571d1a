// Package timeline turns a scenario's probability weights into an
// ordered, time-stamped list of semantic match events.
package timeline

import (
	"math"
	"math/rand"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/domain/roster"
)

// Timeline shape constants.
const (
	setupRoundOffset = 4.0
	setupClockOffset = 5.0

	// Ticks advance elapsed time by a uniform draw in [minTick, maxTick).
	minTickSeconds  = 1.0
	tickSpreadRange = 4.0

	minPointType = 1
	maxPointType = 5
	maxHitLevel  = 100

	minInjurySeconds = 30
	maxInjurySeconds = 120
	minBreakSeconds  = 30
	maxBreakSeconds  = 60

	// Round changes are injected only while the event count stays under
	// duration/eventBudgetDivisor, mirroring the original device pacing.
	eventBudgetDivisor = 10.0
)

// Generator produces match timelines from an injected random source.
type Generator struct {
	rng *rand.Rand
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRand injects the random source used for all draws.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// New creates a Generator, self-seeding from crypto/rand when no
// source is injected.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(roster.NewSeed())) //nolint:gosec // emulation randomness
	}
	return g
}

// Generate produces a chronologically ordered event list for one match
// of the given duration. Offsets are non-decreasing; the list always
// ends with a clock stop followed by a conclusion event.
func (g *Generator) Generate(sc model.Scenario, cfg model.MatchConfig, durationSeconds float64) []model.TimelineEvent {
	events := make([]model.TimelineEvent, 0, int(durationSeconds/2)+8)

	// Setup: round 1 and the opening clock start inside the first 5s.
	events = append(events,
		model.TimelineEvent{Type: model.EventRoundChange, Offset: setupRoundOffset, Round: 1},
		model.TimelineEvent{Type: model.EventClockTick, Offset: setupClockOffset, ClockAction: model.ClockStart},
	)

	eventBudget := int(math.Ceil(durationSeconds / eventBudgetDivisor))
	elapsed := setupClockOffset
	roundElapsed := 0.0
	round := 1
	bodyEvents := 0

	for elapsed < durationSeconds {
		if ev, ok := g.drawEvent(sc, elapsed); ok {
			events = append(events, ev)
			bodyEvents++
		}

		step := minTickSeconds + g.rng.Float64()*tickSpreadRange
		elapsed += step
		roundElapsed += step

		if roundElapsed >= float64(cfg.RoundDurationSeconds) && round < cfg.TotalRounds && bodyEvents < eventBudget {
			round++
			events = append(events,
				model.TimelineEvent{Type: model.EventClockTick, Offset: elapsed, ClockAction: model.ClockStop},
				model.TimelineEvent{Type: model.EventRoundChange, Offset: elapsed + 1, Round: round},
				model.TimelineEvent{Type: model.EventClockTick, Offset: elapsed + 2, ClockAction: model.ClockStart},
			)
			elapsed += 2
			roundElapsed = 0
		}
	}

	// Conclusion: stop the clock, then declare winners.
	winner := 1 + g.rng.Intn(2)
	events = append(events,
		model.TimelineEvent{Type: model.EventClockTick, Offset: elapsed + 1, ClockAction: model.ClockStop},
		model.TimelineEvent{
			Type:         model.EventConclusion,
			Offset:       elapsed + 2,
			Winner:       winner,
			RoundWinners: g.roundWinners(winner, cfg.TotalRounds),
		},
	)

	return events
}

// drawEvent compares a single uniform draw cumulatively against the
// scenario's probabilities in fixed order. The first bucket the draw
// falls into wins; a draw past the sum produces no event this tick.
func (g *Generator) drawEvent(sc model.Scenario, offset float64) (model.TimelineEvent, bool) {
	draw := g.rng.Float64()

	threshold := sc.PointProbability
	if draw < threshold {
		return model.TimelineEvent{
			Type:      model.EventPoints,
			Offset:    offset,
			Athlete:   g.athlete(),
			PointType: minPointType + g.rng.Intn(maxPointType-minPointType+1),
			HitLevel:  1 + g.rng.Intn(maxHitLevel),
		}, true
	}

	threshold += sc.WarningProbability
	if draw < threshold {
		return model.TimelineEvent{
			Type:    model.EventWarning,
			Offset:  offset,
			Athlete: g.athlete(),
		}, true
	}

	threshold += sc.InjuryProbability
	if draw < threshold {
		return model.TimelineEvent{
			Type:            model.EventInjury,
			Offset:          offset,
			Athlete:         g.athlete(),
			DurationSeconds: minInjurySeconds + g.rng.Intn(maxInjurySeconds-minInjurySeconds+1),
		}, true
	}

	threshold += sc.BreakProbability
	if draw < threshold {
		return model.TimelineEvent{
			Type:            model.EventBreak,
			Offset:          offset,
			DurationSeconds: minBreakSeconds + g.rng.Intn(maxBreakSeconds-minBreakSeconds+1),
		}, true
	}

	threshold += sc.ChallengeProbability
	if draw < threshold {
		return model.TimelineEvent{
			Type:     model.EventChallenge,
			Offset:   offset,
			Athlete:  g.athlete(),
			Accepted: g.rng.Intn(2) == 1,
			Won:      g.rng.Intn(2) == 1,
		}, true
	}

	return model.TimelineEvent{}, false
}

func (g *Generator) athlete() int {
	return 1 + g.rng.Intn(2)
}

// roundWinners fills per-round winner slots, biased toward the final
// winner and zeroed for rounds that were never played.
func (g *Generator) roundWinners(winner, totalRounds int) [3]int {
	var winners [3]int
	for i := 0; i < totalRounds && i < len(winners); i++ {
		if g.rng.Float64() < 0.7 {
			winners[i] = winner
		} else {
			winners[i] = 3 - winner
		}
	}
	return winners
}
