package capacity

import "fmt"

// Span is a contiguous half-open integer interval [Begin, End) consumed
// by one allocation.
type Span struct {
	Begin int64
	End   int64
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Begin, s.End) }

func (s Span) Len() int64 { return s.End - s.Begin }

// AllocationRecord is an immutable description of one allocation's spans
// on one resource (spec.md §3.3). Callers may hold a record after it has
// been released; at that point it is inert data, not a live claim.
type AllocationRecord struct {
	OperationID string
	ResourceID  string
	Start       int64 // absolute first occupied unit
	Finish      int64 // absolute one-past-last occupied unit, half-open
	WorkUnits   int64
	AllowSplit  bool
	Spans       []Span // ordered, non-overlapping, strictly increasing
}

// WallTime returns Finish - Start, the elapsed span the allocation covers
// including any gaps between non-contiguous spans.
func (r *AllocationRecord) WallTime() int64 { return r.Finish - r.Start }

type allocKey struct {
	operationID string
	resourceID  string
}

func (r *AllocationRecord) key() allocKey {
	return allocKey{operationID: r.OperationID, resourceID: r.ResourceID}
}

func spansIntersectRange(spans []Span, begin, end int64) bool {
	for _, sp := range spans {
		if sp.Begin < end && begin < sp.End {
			return true
		}
	}
	return false
}

func spansContain(spans []Span, unit int64) bool {
	for _, sp := range spans {
		if unit >= sp.Begin && unit < sp.End {
			return true
		}
	}
	return false
}
