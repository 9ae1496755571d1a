// Package protocol implements the PSS wire format: semicolon-delimited
// ASCII messages, one per UDP datagram, each terminated by a trailing
// field separator.
//
// The Encoder is a stateful formatter. Most methods are pure string
// builders, but Points and Warning also advance the session's running
// score and warning counters, and Clock/Round/TickDown track the clock
// string and round so the background clock driver can count down from
// the last value the consumer saw. The encoder never rejects a call;
// argument validation is the transport client's job.
package protocol

import (
	"fmt"
	"strings"
	"sync"

	"github.com/okian/pssemu/internal/domain/model"
)

// Injury and break visibility actions.
const (
	ActionShow = "show"
	ActionHide = "hide"
)

// Encoder holds per-session counters and formats wire messages.
type Encoder struct {
	mu           sync.Mutex
	round        int
	clock        string
	clockRunning bool
	scores       [2]int
	warnings     [2]int
}

// NewEncoder creates an encoder with a fresh session state.
func NewEncoder() *Encoder {
	return &Encoder{
		round: 1,
		clock: "0:00",
	}
}

// Connected formats the session-open sentinel.
func (e *Encoder) Connected(port int) string {
	return fmt.Sprintf("Udp Port %d connected;", port)
}

// Disconnected formats the session-close sentinel.
func (e *Encoder) Disconnected(port int) string {
	return fmt.Sprintf("Udp Port %d disconnected;", port)
}

// FightLoaded formats the fight-loaded lifecycle message.
func (e *Encoder) FightLoaded() string { return "pre;FightLoaded;" }

// FightReady formats the fight-ready lifecycle message.
func (e *Encoder) FightReady() string { return "rdy;FightReady;" }

// Athletes formats both competitors into a single message.
func (e *Encoder) Athletes(a1, a2 model.Athlete) string {
	return fmt.Sprintf("at1;%s;%s;%s;at2;%s;%s;%s;",
		a1.ShortName, a1.LongName, a1.CountryCode,
		a2.ShortName, a2.LongName, a2.CountryCode)
}

// Match formats the full match configuration message.
func (e *Encoder) Match(cfg model.MatchConfig) string {
	return fmt.Sprintf("mch;%d;%s;%s;%d;%s;%s;%s;%s;%s;%s;%d;%d;%s;%d;%s;",
		cfg.Number, cfg.Category, cfg.Weight, cfg.Rounds,
		cfg.Palette.Background1, cfg.Palette.Foreground1,
		cfg.Palette.Background2, cfg.Palette.Foreground2,
		cfg.MatchID, cfg.Division, cfg.TotalRounds,
		cfg.RoundDurationSeconds, cfg.CountdownType,
		cfg.CountUpSeconds, cfg.Format)
}

// Points formats a scoring message and adds pointType to the athlete's
// running score.
func (e *Encoder) Points(athlete, pointType int) string {
	e.mu.Lock()
	if athlete == 1 || athlete == 2 {
		e.scores[athlete-1] += pointType
	}
	e.mu.Unlock()
	return fmt.Sprintf("pt%d;%d;", athlete, pointType)
}

// HitLevel formats an impact-level message. No score side effect.
func (e *Encoder) HitLevel(athlete, level int) string {
	return fmt.Sprintf("hl%d;%d;", athlete, level)
}

// Warning increments the addressed athlete's warning counter and
// formats the combined counters message.
func (e *Encoder) Warning(athlete int) string {
	e.mu.Lock()
	if athlete == 1 || athlete == 2 {
		e.warnings[athlete-1]++
	}
	n1, n2 := e.warnings[0], e.warnings[1]
	e.mu.Unlock()
	return e.Warnings(n1, n2)
}

// Warnings formats both warning counters. Pure formatter of its
// arguments regardless of tracked state.
func (e *Encoder) Warnings(n1, n2 int) string {
	return fmt.Sprintf("wg1;%d;wg2;%d;", n1, n2)
}

// Injury formats an injury-timer message. An empty action is omitted.
func (e *Encoder) Injury(athlete, seconds int, action string) string {
	if action == "" {
		return fmt.Sprintf("ij%d;%s;", athlete, FormatClock(seconds))
	}
	return fmt.Sprintf("ij%d;%s;%s;", athlete, FormatClock(seconds), action)
}

// Challenge formats a video-review request from the given source corner.
func (e *Encoder) Challenge(source int) string {
	return fmt.Sprintf("ch%d;", source)
}

// ChallengeAccepted formats the accepted/rejected stage of a challenge.
func (e *Encoder) ChallengeAccepted(source int, accepted bool) string {
	return fmt.Sprintf("ch%d;%d;", source, boolBit(accepted))
}

// ChallengeResolved formats the final stage of a challenge.
func (e *Encoder) ChallengeResolved(source int, accepted, won bool) string {
	return fmt.Sprintf("ch%d;%d;%d;", source, boolBit(accepted), boolBit(won))
}

// Clock formats a clock message and records the clock string as the
// session's current one. An empty action is omitted; "start" and
// "stop" toggle the running flag.
func (e *Encoder) Clock(clock, action string) string {
	e.mu.Lock()
	e.clock = clock
	switch action {
	case model.ClockStart:
		e.clockRunning = true
	case model.ClockStop:
		e.clockRunning = false
	}
	e.mu.Unlock()
	if action == "" {
		return fmt.Sprintf("clk;%s;", clock)
	}
	return fmt.Sprintf("clk;%s;%s;", clock, action)
}

// Round formats a round message and records the round number.
func (e *Encoder) Round(n int) string {
	e.mu.Lock()
	e.round = n
	e.mu.Unlock()
	return fmt.Sprintf("rnd;%d;", n)
}

// Break formats a rest-break message. An empty action is omitted.
func (e *Encoder) Break(seconds int, action string) string {
	if action == "" {
		return fmt.Sprintf("brk;%s;", FormatClock(seconds))
	}
	return fmt.Sprintf("brk;%s;%s;", FormatClock(seconds), action)
}

// RoundWinners formats the per-round winners message.
func (e *Encoder) RoundWinners(w1, w2, w3 int) string {
	return fmt.Sprintf("wrd;rd1;%d;rd2;%d;rd3;%d;", w1, w2, w3)
}

// Winner formats the final-winner message with the name uppercased.
func (e *Encoder) Winner(name string) string {
	return fmt.Sprintf("win;%s;", strings.ToUpper(name))
}

// WinnerClassified formats the classification form of the winner
// message. An empty classification is omitted.
func (e *Encoder) WinnerClassified(name, classification string) string {
	if classification == "" {
		return fmt.Sprintf("wmh;%s;", name)
	}
	return fmt.Sprintf("wmh;%s;%s;", name, classification)
}

// TickDown decrements the tracked clock by one second and formats the
// resulting tick message. It returns the message and the remaining
// seconds after the decrement. Called by the clock driver while the
// main flow may read the same clock state, hence the lock.
func (e *Encoder) TickDown() (string, int) {
	e.mu.Lock()
	remaining, err := ParseClock(e.clock)
	if err != nil || remaining <= 0 {
		remaining = 0
	} else {
		remaining--
	}
	e.clock = FormatClock(remaining)
	clock := e.clock
	e.mu.Unlock()
	return fmt.Sprintf("clk;%s;", clock), remaining
}

// ClockString returns the session's current clock value.
func (e *Encoder) ClockString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

// ClockRunning reports whether the last clock action was a start.
func (e *Encoder) ClockRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clockRunning
}

// CurrentRound returns the last round number encoded.
func (e *Encoder) CurrentRound() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// Score returns the running score for athlete 1 or 2, 0 otherwise.
func (e *Encoder) Score(athlete int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if athlete != 1 && athlete != 2 {
		return 0
	}
	return e.scores[athlete-1]
}

// WarningCount returns the running warning count for athlete 1 or 2.
func (e *Encoder) WarningCount(athlete int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if athlete != 1 && athlete != 2 {
		return 0
	}
	return e.warnings[athlete-1]
}

// Reset clears counters and clock state for a new match.
func (e *Encoder) Reset() {
	e.mu.Lock()
	e.round = 1
	e.clock = "0:00"
	e.clockRunning = false
	e.scores = [2]int{}
	e.warnings = [2]int{}
	e.mu.Unlock()
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
