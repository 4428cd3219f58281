package timeunit

import (
	"fmt"
	"time"
)

// MisalignmentError is returned when a datetime does not divide evenly
// against a Resolution's unit size relative to the epoch in use.
type MisalignmentError struct {
	Datetime        time.Time
	ResidualSeconds int64
	Resolution      Resolution
}

func (e *MisalignmentError) Error() string {
	return fmt.Sprintf("timeunit: %s does not align to %s resolution (residual %ds)",
		e.Datetime.Format(time.RFC3339), e.Resolution, e.ResidualSeconds)
}

// TimezoneError is returned when a zone-aware datetime crosses the
// timeunit boundary. The core only ever deals in naive local time.
type TimezoneError struct {
	Datetime time.Time
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("timeunit: %s carries a zone, naive local time required", e.Datetime.Format(time.RFC3339))
}
