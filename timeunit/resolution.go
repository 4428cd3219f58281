/*
Package timeunit provides the strict, lossless conversion between wall-clock
datetimes and dimensionless integer unit counts relative to an epoch.

PURPOSE:
  Everything above this package thinks in datetimes. Everything inside the
  capacity engine thinks in integers. This package is the one place the two
  worlds meet, and it meets them with zero tolerance for rounding: a
  datetime either divides evenly against a Resolution's unit size, or the
  conversion fails.

KEY CONCEPTS:
  - Resolution: an immutable (unit size, label) pair — minutes, hours, or
    any custom grain the caller needs.
  - Epoch: the zero point integers are counted from. Not part of Resolution
    itself — the same Resolution can be reused against different epochs.

DESIGN PRINCIPLES:
  1. No silent rounding. Misaligned input is an error, not a truncation.
  2. No time zones. Every datetime crossing this boundary must be naive
     local time; a zone-aware time.Time is rejected outright.
  3. Resolution is a performance knob only — nothing above this package's
     boundary should ever branch on which Resolution is in use.

SEE ALSO:
  - calendar: consumes ToDatetime/ToInt indirectly via the lazy walk
  - capacity: materialises a Pattern into bits using ToInt
*/
package timeunit

import (
	"fmt"
	"time"
)

// Resolution is an immutable unit-size configuration. The zero value is
// invalid; use one of the predefined resolutions or NewResolution.
type Resolution struct {
	unitSeconds int64
	label       string
}

// NewResolution builds a custom Resolution. unitSeconds must be positive.
func NewResolution(unitSeconds int64, label string) Resolution {
	if unitSeconds <= 0 {
		panic("timeunit: unitSeconds must be positive")
	}
	return Resolution{unitSeconds: unitSeconds, label: label}
}

// Predefined resolutions covering the two grains spec.md names explicitly.
var (
	Minute = NewResolution(60, "minute")
	Hour   = NewResolution(3600, "hour")
)

// UnitSeconds returns the number of wall-clock seconds one unit spans.
func (r Resolution) UnitSeconds() int64 { return r.unitSeconds }

// Label returns the resolution's human-readable name.
func (r Resolution) Label() string { return r.label }

// String implements fmt.Stringer.
func (r Resolution) String() string {
	if r.label != "" {
		return r.label
	}
	return fmt.Sprintf("%ds", r.unitSeconds)
}

// ToInt converts dt to an integer unit count relative to epoch under r.
//
// Fails with TimezoneError if dt (or epoch) carries a zone other than UTC
// local-naive semantics (time.Time's Location must be time.Local or
// time.UTC — anything else is treated as zone-aware for this boundary's
// purposes, since the spec's datetimes are naive local time, never a
// specific IANA zone). Fails with MisalignmentError if the whole-second
// delta between dt and epoch does not divide evenly by the resolution's
// unit size.
func (r Resolution) ToInt(dt, epoch time.Time) (int64, error) {
	if err := RequireNaive(dt); err != nil {
		return 0, err
	}
	if err := RequireNaive(epoch); err != nil {
		return 0, err
	}

	delta := dt.Sub(epoch)
	deltaSeconds := int64(delta / time.Second)
	if delta%time.Second != 0 {
		return 0, &MisalignmentError{Datetime: dt, ResidualSeconds: int64(delta % time.Second), Resolution: r}
	}
	residual := deltaSeconds % r.unitSeconds
	if residual != 0 {
		return 0, &MisalignmentError{Datetime: dt, ResidualSeconds: residual, Resolution: r}
	}
	return deltaSeconds / r.unitSeconds, nil
}

// ToDatetime converts an integer unit count n back to a naive local
// datetime, relative to epoch, under r.
func (r Resolution) ToDatetime(n int64, epoch time.Time) time.Time {
	return epoch.Add(time.Duration(n*r.unitSeconds) * time.Second)
}

// RequireNaive rejects any time.Time whose Location is not UTC or Local,
// which is how this codebase represents "zone-naive local time" — a real
// IANA zone (e.g. loaded via time.LoadLocation) signals the caller meant
// a specific zone-aware instant, which the spec's boundary never accepts.
// Exported so calendar's lazy walk (which also sits at a datetime
// boundary) can share the same rule.
func RequireNaive(t time.Time) error {
	loc := t.Location()
	if loc != time.UTC && loc != time.Local {
		return &TimezoneError{Datetime: t}
	}
	return nil
}
