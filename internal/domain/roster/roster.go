// Package roster generates randomized athletes and match configurations
// from fixed pools. All randomness flows through an injected rand.Rand
// so tests can seed it for determinism.
package roster

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/pssemu/internal/domain/model"
)

// Generation range constants.
const (
	maxMatchNumber = 999
	minRounds      = 1
	maxRounds      = 3
)

var firstNames = []string{
	"Kim", "Lee", "Park", "Garcia", "Lopez", "Silva", "Ivanov",
	"Chen", "Yilmaz", "Nowak", "Haddad", "Jones", "Petrov", "Sato",
}

var lastNames = []string{
	"Minho", "Jihoon", "Carlos", "Miguel", "Rafael", "Dmitri",
	"Wei", "Emre", "Piotr", "Omar", "Taylor", "Nikolai", "Kenji", "Hassan",
}

var countryCodes = []string{
	"KOR", "ESP", "BRA", "RUS", "CHN", "TUR", "POL", "JOR",
	"GBR", "USA", "IRI", "MEX", "FRA", "GER", "JPN", "THA",
}

var categories = []string{"Senior", "Junior", "Cadet", "U21"}

var weights = []string{
	"-54kg", "-58kg", "-63kg", "-68kg", "-74kg", "-80kg", "-87kg", "+87kg",
}

var divisions = []string{"Male", "Female"}

var formats = []string{"Best of 3", "Single"}

var palettes = []model.Palette{
	{Background1: "0000FF", Foreground1: "FFFFFF", Background2: "FF0000", Foreground2: "FFFFFF"},
	{Background1: "000080", Foreground1: "FFFF00", Background2: "800000", Foreground2: "FFFF00"},
	{Background1: "1E90FF", Foreground1: "000000", Background2: "DC143C", Foreground2: "000000"},
}

var roundDurations = []int{120, 180, 240}

// Generator produces athletes and match configurations.
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

// New creates a Generator. Without WithRand it seeds itself from
// crypto/rand.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(NewSeed())) //nolint:gosec // emulation randomness, not security
	}
	return g
}

// Athlete samples a competitor from the name and country pools with a
// random corner color.
func (g *Generator) Athlete() model.Athlete {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	color := model.ColorBlue
	if g.rng.Intn(2) == 1 {
		color = model.ColorRed
	}
	return model.Athlete{
		ShortName:   fmt.Sprintf("%s.%s", strings.ToUpper(first[:1]), last),
		LongName:    first + " " + last,
		CountryCode: countryCodes[g.rng.Intn(len(countryCodes))],
		Color:       color,
	}
}

// MatchConfig samples a full match configuration.
func (g *Generator) MatchConfig() model.MatchConfig {
	rounds := minRounds + g.rng.Intn(maxRounds-minRounds+1)
	return model.MatchConfig{
		Number:               1 + g.rng.Intn(maxMatchNumber),
		Category:             categories[g.rng.Intn(len(categories))],
		Weight:               weights[g.rng.Intn(len(weights))],
		Rounds:               rounds,
		Palette:              palettes[g.rng.Intn(len(palettes))],
		MatchID:              uuid.New().String(),
		Division:             divisions[g.rng.Intn(len(divisions))],
		TotalRounds:          rounds,
		RoundDurationSeconds: roundDurations[g.rng.Intn(len(roundDurations))],
		CountdownType:        model.CountDown,
		CountUpSeconds:       0,
		Format:               formats[g.rng.Intn(len(formats))],
	}
}

// NewSeed derives a high-entropy seed from crypto/rand for default
// generator construction. Falls back to a fixed seed if the system
// source is unavailable.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:])) //nolint:gosec // entropy conversion, overflow is fine
}
