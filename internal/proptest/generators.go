/*
Package proptest generates randomised but deterministic patterns,
engines, and requests and checks them against the testable properties
spec.md §8 names: round-trip, span-sum, commit/release inverse,
snapshot/restore identity, cross-layer consistency (find_slot's finish
agreeing with a direct calendar walk, spec.md's central correctness
property), monotonicity, and find_slot's read-only-ness.

Grounded on rewards/accrual.go's generate-events-over-a-range loop
shape, repurposed here from reward-accrual generation to random
schedule/operation generation, and on the teacher's general
testify-based assertion style used throughout rewards_test.go.
*/
package proptest

import (
	"math/rand"
	"time"

	"github.com/brightloom/schedcore/calendar"
	"github.com/brightloom/schedcore/capacity"
	"github.com/brightloom/schedcore/timeunit"
)

// GenerateWeeklyPattern builds a pattern with a random subset of weekdays
// working a random contiguous window, deterministic for a given seed.
func GenerateWeeklyPattern(seed int64) (*calendar.Pattern, error) {
	rng := rand.New(rand.NewSource(seed))

	var rules []calendar.RuleInput
	for wd := calendar.Monday; wd <= calendar.Sunday; wd++ {
		if rng.Intn(10) == 0 {
			continue // occasionally skip a day entirely
		}
		startHour := 6 + rng.Intn(6) // 06:00-11:00
		span := 4 + rng.Intn(9)      // 4-12 hours
		endHour := startHour + span
		if endHour > 23 {
			endHour = 23
		}
		rules = append(rules, calendar.RuleInput{
			Weekday: wd,
			Start:   calendar.NewClock(startHour, 0),
			End:     calendar.NewClock(endHour, 0),
		})
	}
	if len(rules) == 0 {
		// never generate a wholly-empty pattern; fall back to a single
		// weekday so InfeasibleError from a genuinely empty pattern isn't
		// confused with a property violation.
		rules = append(rules, calendar.RuleInput{
			Weekday: calendar.Monday,
			Start:   calendar.NewClock(9, 0),
			End:     calendar.NewClock(17, 0),
		})
	}

	return calendar.New(calendar.PatternID("proptest"), rules, nil)
}

// GenerateEngine materialises pattern into an Engine over a two-week
// horizon starting at a fixed Monday epoch, at minute resolution.
func GenerateEngine(pattern *calendar.Pattern, resourceID string) (*capacity.Engine, time.Time, error) {
	epoch := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	horizonEnd := epoch.AddDate(0, 0, 14)
	engine, err := capacity.FromCalendar(resourceID, pattern, epoch, horizonEnd, epoch, timeunit.Minute)
	return engine, epoch, err
}

// GenerateRequest produces a random, plausible FindSlot request against
// engine's horizon, deterministic for a given seed.
type Request struct {
	OperationID   string
	EarliestStart int64
	WorkUnits     int64
	AllowSplit    bool
	MinSplit      int64
}

func GenerateRequest(seed int64, engine *capacity.Engine, operationID string) Request {
	rng := rand.New(rand.NewSource(seed))
	horizonLen := engine.HorizonEnd() - engine.HorizonBegin()

	return Request{
		OperationID:   operationID,
		EarliestStart: engine.HorizonBegin() + rng.Int63n(horizonLen/2+1),
		WorkUnits:     1 + rng.Int63n(240),
		AllowSplit:    rng.Intn(2) == 0,
		MinSplit:      1 + rng.Int63n(30),
	}
}
