package roster_test

import (
	"math/rand"
	"testing"

	"github.com/okian/pssemu/internal/domain/model"
	"github.com/okian/pssemu/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator_Athlete(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		gen := roster.New(roster.WithRand(rand.New(rand.NewSource(7))))

		Convey("Generated athletes stay inside the pools", func() {
			for i := 0; i < 50; i++ {
				a := gen.Athlete()
				So(a.ShortName, ShouldNotBeEmpty)
				So(a.LongName, ShouldNotBeEmpty)
				So(a.CountryCode, ShouldHaveLength, 3)
				So(a.Color, ShouldBeIn, model.ColorBlue, model.ColorRed)
			}
		})

		Convey("The same seed yields the same sequence", func() {
			g1 := roster.New(roster.WithRand(rand.New(rand.NewSource(42))))
			g2 := roster.New(roster.WithRand(rand.New(rand.NewSource(42))))
			for i := 0; i < 10; i++ {
				So(g1.Athlete(), ShouldResemble, g2.Athlete())
			}
		})
	})
}

func TestGenerator_MatchConfig(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		gen := roster.New(roster.WithRand(rand.New(rand.NewSource(11))))

		Convey("Generated configs stay inside protocol-valid ranges", func() {
			seen := map[string]bool{}
			for i := 0; i < 50; i++ {
				cfg := gen.MatchConfig()
				So(cfg.Number, ShouldBeBetweenOrEqual, 1, 999)
				So(cfg.Rounds, ShouldBeBetweenOrEqual, 1, 3)
				So(cfg.TotalRounds, ShouldEqual, cfg.Rounds)
				So(cfg.RoundDurationSeconds, ShouldBeIn, 120, 180, 240)
				So(cfg.CountdownType, ShouldEqual, model.CountDown)
				So(cfg.MatchID, ShouldNotBeEmpty)
				seen[cfg.MatchID] = true
			}

			Convey("And match IDs are unique", func() {
				So(len(seen), ShouldEqual, 50)
			})
		})
	})
}

func TestNewSeed(t *testing.T) {
	Convey("Given the seed helper", t, func() {
		Convey("Consecutive seeds differ", func() {
			So(roster.NewSeed(), ShouldNotEqual, roster.NewSeed())
		})
	})
}
