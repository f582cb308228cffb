package scheduling

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Working window and slot granularity, in minutes since midnight. The
// window end is exclusive: 18:00 itself is never a bookable slot.
const (
	workDayStart = 8 * 60
	workDayEnd   = 18 * 60
	slotInterval = 30
)

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("unrecognized time format: %q", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hours < 0 || hours >= 24 || minutes < 0 || minutes >= 60 {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return hours*60 + minutes, nil
}

// NormalizeClock canonicalizes a time-of-day value to "HH:MM:SS" so it
// compares equal to what the store returns. Seconds are dropped.
func NormalizeClock(s string) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60), nil
}

// FreeSlots returns the ascending "HH:MM" slots of the working window
// not present in occupied. Malformed occupied entries are skipped with
// a logged warning; any unexpected failure yields an empty list rather
// than propagating, since availability is a best-effort view.
func FreeSlots(occupied []string) (slots []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("slot generation failed, returning no availability")
			slots = []string{}
		}
	}()

	occupiedSet := make(map[int]struct{}, len(occupied))
	for _, raw := range occupied {
		minutes, err := ParseClock(raw)
		if err != nil {
			log.Warn().Str("time", raw).Err(err).Msg("skipping unparseable occupied time")
			continue
		}
		occupiedSet[minutes] = struct{}{}
	}

	slots = []string{}
	for t := workDayStart; t < workDayEnd; t += slotInterval {
		// Never wrap past midnight even if the window is misconfigured.
		if t >= 24*60 {
			break
		}
		if _, taken := occupiedSet[t]; taken {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:%02d", t/60, t%60))
	}
	return slots
}
