package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const secondsPerMinute = 60

// FormatClock renders a seconds count as the m:ss clock form used by
// clk, ij, and brk messages. Negative values clamp to "0:00".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}

// ParseClock parses an m:ss clock string back into total seconds.
func ParseClock(clock string) (int, error) {
	minPart, secPart, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	minutes, err := strconv.Atoi(minPart)
	if err != nil {
		return 0, fmt.Errorf("malformed clock minutes %q: %w", clock, err)
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("malformed clock seconds %q: %w", clock, err)
	}
	if minutes < 0 || seconds < 0 || seconds >= secondsPerMinute {
		return 0, fmt.Errorf("clock %q out of range", clock)
	}
	return minutes*secondsPerMinute + seconds, nil
}
