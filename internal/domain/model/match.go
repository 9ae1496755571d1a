// Package model defines the value objects flowing through the emulator:
// athletes, match configuration, scenarios, and timeline events.
package model

// Color is the corner color assigned to an athlete.
type Color string

// Corner colors. A match always pairs one blue and one red athlete.
const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)

// CountdownType selects the direction of the match clock.
type CountdownType string

const (
	CountDown CountdownType = "count-down"
	CountUp   CountdownType = "count-up"
)

// Athlete describes one competitor. Immutable once generated.
type Athlete struct {
	ShortName   string
	LongName    string
	CountryCode string // 3-letter IOC code
	Color       Color
}

// MatchConfig carries everything the consumer needs to display a match.
// Created once per match and read-only afterward.
type MatchConfig struct {
	Number      int
	Category    string
	Weight      string
	Rounds      int
	Palette     Palette
	MatchID     string
	Division    string
	TotalRounds int
	// RoundDurationSeconds is the regulation length of one round.
	RoundDurationSeconds int
	CountdownType        CountdownType
	CountUpSeconds       int
	Format               string
}

// Palette holds the four display colors a match is rendered with.
type Palette struct {
	Background1 string
	Foreground1 string
	Background2 string
	Foreground2 string
}

// Scenario is a named recipe for procedurally generating a test run.
// The five probabilities are independent per-tick chances compared
// cumulatively in the order point, warning, injury, break, challenge.
type Scenario struct {
	Name        string
	Description string
	MatchCount  int

	// Match duration is drawn uniformly from [MinDuration, MaxDuration].
	MinDurationSeconds int
	MaxDurationSeconds int

	PointProbability     float64
	WarningProbability   float64
	InjuryProbability    float64
	BreakProbability     float64
	ChallengeProbability float64
}
