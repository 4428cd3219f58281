/*
Package fixtures defines the JSON rule/exception/expected-result schema
used as the portability contract between implementations (spec.md §6):
any implementation in any language validates its Working Calendar and
Capacity Engine against the same JSON documents.

Grounded on factory/policy.go's JSON-schema-to-struct conversion pattern
and api/scenarios.go's named-scenario catalogue.
*/
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brightloom/schedcore/calendar"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// RuleRow is one row of the "rules" table: a weekly working window.
// Primary key (PatternID, DayOfWeek, StartTime). EndTime < StartTime
// encodes an overnight rule.
type RuleRow struct {
	PatternID string `json:"pattern_id"`
	DayOfWeek int    `json:"day_of_week"` // 1=Monday .. 7=Sunday, ISO-8601
	StartTime string `json:"start_time"`  // "HH:MM"
	EndTime   string `json:"end_time"`    // "HH:MM"
}

// ExceptionRow is one row of the "exceptions" table: a dated override.
// Primary key (PatternID, ExceptionDate, IsWorking, StartTime).
type ExceptionRow struct {
	PatternID     string `json:"pattern_id"`
	ExceptionDate string `json:"exception_date"` // "YYYY-MM-DD"
	IsWorking     int    `json:"is_working"`     // 0 or 1
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
}

// ExpectedRow describes one query and its expected result. Op names one
// of the public operations (spec.md §6); Input and Expected are kept as
// raw JSON so the schema can grow new operations without breaking older
// readers — the conformance runner switches on Op to decode them.
type ExpectedRow struct {
	Op       string          `json:"op"`
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
}

// Dataset is one canonical scenario's full fixture document.
type Dataset struct {
	Name       string         `json:"name"`
	Resolution string         `json:"resolution"` // "second", "minute", "hour", "day"
	Epoch      string         `json:"epoch"`       // RFC3339, the zero point for int offsets
	Rules      []RuleRow      `json:"rules"`
	Exceptions []ExceptionRow `json:"exceptions"`
	Expected   []ExpectedRow  `json:"expected"`
}

// Load reads and parses a Dataset from a JSON file at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	return &ds, nil
}

// Save writes ds as indented JSON to path.
func (ds *Dataset) Save(path string) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("fixtures: marshal dataset: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// BuildPattern converts this dataset's rules and exceptions into a
// calendar.Pattern, the form the core operates on.
func (ds *Dataset) BuildPattern() (*calendar.Pattern, error) {
	rules := make([]calendar.RuleInput, 0, len(ds.Rules))
	for _, r := range ds.Rules {
		wd := calendar.Weekday(r.DayOfWeek)
		start, err := calendar.ParseClock(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("fixtures: rule %+v: %w", r, err)
		}
		end, err := calendar.ParseClock(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("fixtures: rule %+v: %w", r, err)
		}
		rules = append(rules, calendar.RuleInput{Weekday: wd, Start: start, End: end})
	}

	exceptions := make([]calendar.ExceptionInput, 0, len(ds.Exceptions))
	for _, e := range ds.Exceptions {
		date, err := parseDate(e.ExceptionDate)
		if err != nil {
			return nil, fmt.Errorf("fixtures: exception %+v: %w", e, err)
		}
		ei := calendar.ExceptionInput{Date: date, IsWorking: e.IsWorking != 0}
		if e.StartTime != "" || e.EndTime != "" {
			start, err := calendar.ParseClock(e.StartTime)
			if err != nil {
				return nil, fmt.Errorf("fixtures: exception %+v: %w", e, err)
			}
			end, err := calendar.ParseClock(e.EndTime)
			if err != nil {
				return nil, fmt.Errorf("fixtures: exception %+v: %w", e, err)
			}
			ei.HasRange = true
			ei.Start = start
			ei.End = end
		}
		exceptions = append(exceptions, ei)
	}

	return calendar.New(calendar.PatternID(ds.Name), rules, exceptions)
}
