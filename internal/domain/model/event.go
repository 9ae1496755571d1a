package model

// EventType tags a TimelineEvent variant.
type EventType string

// Timeline event variants.
const (
	EventPoints      EventType = "points"
	EventWarning     EventType = "warning"
	EventInjury      EventType = "injury"
	EventBreak       EventType = "break"
	EventChallenge   EventType = "challenge"
	EventRoundChange EventType = "roundChange"
	EventClockTick   EventType = "clockTick"
	EventConclusion  EventType = "conclusion"
)

// Clock actions carried by clockTick events.
const (
	ClockStart = "start"
	ClockStop  = "stop"
)

// TimelineEvent is one scheduled semantic event inside a match timeline.
// Offset is seconds from match start and is non-decreasing across a
// generated timeline. Only the fields relevant to Type are populated.
type TimelineEvent struct {
	Type   EventType
	Offset float64

	// points / warning / injury / challenge
	Athlete int

	// points
	PointType int
	HitLevel  int

	// injury / break
	DurationSeconds int

	// roundChange
	Round int

	// clockTick
	ClockAction string

	// challenge
	Accepted bool
	Won      bool

	// conclusion
	Winner       int
	RoundWinners [3]int
}
