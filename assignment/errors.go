package assignment

import (
	"fmt"
	"time"
)

// OverlapError is returned when a new assignment window would overlap
// an existing one on the same resource's timeline, or when its
// effective_to is not after its effective_from.
type OverlapError struct {
	ResourceID string
	Reason     string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("assignment: resource %q: %s", e.ResourceID, e.Reason)
}

// NotAssignedError is returned when no assignment window covers the
// requested instant.
type NotAssignedError struct {
	ResourceID string
	At         time.Time
}

func (e *NotAssignedError) Error() string {
	return fmt.Sprintf("assignment: resource %q has no pattern assigned at %s", e.ResourceID, e.At.Format(time.RFC3339))
}
