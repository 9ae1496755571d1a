// Package scenario holds the static catalog of built-in test scenarios.
package scenario

import (
	"github.com/okian/pssemu/internal/domain/model"
)

// Built-in scenario names.
const (
	QuickTest       = "quick-test"
	TrainingSession = "training-session"
	TournamentDay   = "tournament-day"
	Championship    = "championship"
)

// Predefined scenario configurations.
var (
	quickTest = model.Scenario{
		Name:                 QuickTest,
		Description:          "Single short match with frequent events for smoke testing",
		MatchCount:           1,
		MinDurationSeconds:   30,
		MaxDurationSeconds:   60,
		PointProbability:     0.30,
		WarningProbability:   0.10,
		InjuryProbability:    0.02,
		BreakProbability:     0.02,
		ChallengeProbability: 0.05,
	}

	trainingSession = model.Scenario{
		Name:                 TrainingSession,
		Description:          "A handful of relaxed matches with moderate scoring",
		MatchCount:           3,
		MinDurationSeconds:   90,
		MaxDurationSeconds:   150,
		PointProbability:     0.20,
		WarningProbability:   0.08,
		InjuryProbability:    0.03,
		BreakProbability:     0.04,
		ChallengeProbability: 0.03,
	}

	tournamentDay = model.Scenario{
		Name:                 TournamentDay,
		Description:          "A full bracket day: many matches, realistic event mix",
		MatchCount:           8,
		MinDurationSeconds:   120,
		MaxDurationSeconds:   240,
		PointProbability:     0.18,
		WarningProbability:   0.07,
		InjuryProbability:    0.04,
		BreakProbability:     0.05,
		ChallengeProbability: 0.04,
	}

	championship = model.Scenario{
		Name:                 Championship,
		Description:          "Long, tense finals with cautious scoring and more reviews",
		MatchCount:           4,
		MinDurationSeconds:   180,
		MaxDurationSeconds:   300,
		PointProbability:     0.12,
		WarningProbability:   0.09,
		InjuryProbability:    0.05,
		BreakProbability:     0.06,
		ChallengeProbability: 0.08,
	}

	catalog = map[string]model.Scenario{
		QuickTest:       quickTest,
		TrainingSession: trainingSession,
		TournamentDay:   tournamentDay,
		Championship:    championship,
	}
)

// Lookup resolves a scenario by name. The boolean is false for names
// the catalog does not advertise.
func Lookup(name string) (model.Scenario, bool) {
	sc, ok := catalog[name]
	return sc, ok
}

// Names lists every advertised scenario name.
func Names() []string {
	return []string{QuickTest, TrainingSession, TournamentDay, Championship}
}
