package timeline_test

import (
	"math/rand"
	"testing"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/domain/timeline"
	"github.com/okian/pssemu/internal/scenario"
	. "github.com/smartystreets/goconvey/convey"
)

func testMatchConfig(rounds, roundDuration int) model.MatchConfig {
	return model.MatchConfig{
		Number:               1,
		TotalRounds:          rounds,
		Rounds:               rounds,
		RoundDurationSeconds: roundDuration,
	}
}

func TestGenerator_Generate(t *testing.T) {
	Convey("Given a seeded timeline generator", t, func() {
		gen := timeline.New(timeline.WithRand(rand.New(rand.NewSource(3))))
		sc, _ := scenario.Lookup(scenario.TournamentDay)

		Convey("When generating a two-minute timeline", func() {
			events := gen.Generate(sc, testMatchConfig(3, 60), 120)

			Convey("Offsets never decrease", func() {
				for i := 1; i < len(events); i++ {
					So(events[i].Offset, ShouldBeGreaterThanOrEqualTo, events[i-1].Offset)
				}
			})

			Convey("It opens with round one and a clock start", func() {
				So(events[0].Type, ShouldEqual, model.EventRoundChange)
				So(events[0].Round, ShouldEqual, 1)
				So(events[1].Type, ShouldEqual, model.EventClockTick)
				So(events[1].ClockAction, ShouldEqual, model.ClockStart)
			})

			Convey("It concludes with a clock stop and a winner", func() {
				last := events[len(events)-1]
				So(last.Type, ShouldEqual, model.EventConclusion)
				So(last.Winner, ShouldBeIn, 1, 2)

				stop := events[len(events)-2]
				So(stop.Type, ShouldEqual, model.EventClockTick)
				So(stop.ClockAction, ShouldEqual, model.ClockStop)
			})

			Convey("Payloads stay inside protocol-valid ranges", func() {
				for _, ev := range events {
					switch ev.Type {
					case model.EventPoints:
						So(ev.Athlete, ShouldBeIn, 1, 2)
						So(ev.PointType, ShouldBeBetweenOrEqual, 1, 5)
						So(ev.HitLevel, ShouldBeBetweenOrEqual, 1, 100)
					case model.EventWarning, model.EventChallenge:
						So(ev.Athlete, ShouldBeIn, 1, 2)
					case model.EventInjury:
						So(ev.DurationSeconds, ShouldBeBetweenOrEqual, 30, 120)
					case model.EventBreak:
						So(ev.DurationSeconds, ShouldBeBetweenOrEqual, 30, 60)
					case model.EventRoundChange:
						So(ev.Round, ShouldBeBetweenOrEqual, 1, 3)
					}
				}
			})

			Convey("Round numbers only move forward", func() {
				prev := 0
				for _, ev := range events {
					if ev.Type != model.EventRoundChange {
						continue
					}
					So(ev.Round, ShouldBeGreaterThan, prev)
					prev = ev.Round
				}
			})
		})

		Convey("The same seed reproduces the same timeline", func() {
			g1 := timeline.New(timeline.WithRand(rand.New(rand.NewSource(99))))
			g2 := timeline.New(timeline.WithRand(rand.New(rand.NewSource(99))))
			cfg := testMatchConfig(2, 90)
			So(g1.Generate(sc, cfg, 100), ShouldResemble, g2.Generate(sc, cfg, 100))
		})

		Convey("Monotonicity holds across seeds and scenarios", func() {
			for seed := int64(0); seed < 20; seed++ {
				g := timeline.New(timeline.WithRand(rand.New(rand.NewSource(seed))))
				for _, name := range scenario.Names() {
					s, _ := scenario.Lookup(name)
					events := g.Generate(s, testMatchConfig(3, 120), 180)
					for i := 1; i < len(events); i++ {
						So(events[i].Offset, ShouldBeGreaterThanOrEqualTo, events[i-1].Offset)
					}
				}
			}
		})
	})
}

func TestGenerator_SelfSeeding(t *testing.T) {
	Convey("Given a generator without an injected source", t, func() {
		gen := timeline.New()
		sc, _ := scenario.Lookup(scenario.QuickTest)

		Convey("It still produces a well-formed timeline", func() {
			events := gen.Generate(sc, testMatchConfig(1, 60), 45)
			So(len(events), ShouldBeGreaterThanOrEqualTo, 4)
			So(events[len(events)-1].Type, ShouldEqual, model.EventConclusion)
		})
	})
}
