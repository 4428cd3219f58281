package capacity

import "github.com/shopspring/decimal"

// UtilizationReport is a read-only, period-scoped breakdown of a
// window's bits, supplementing the bare FreeCount accessor: how much of
// [Begin, End) is free, how much is non-working calendar time, and how
// much is consumed by a committed allocation.
type UtilizationReport struct {
	Begin     int64
	End       int64
	Free      int64
	Occupied  int64 // non-working calendar time, not allocated
	Allocated int64 // consumed by a live AllocationRecord
	FreeRatio decimal.Decimal
}

// Total returns the window length covered by the report.
func (r *UtilizationReport) Total() int64 { return r.End - r.Begin }

// Utilization computes a UtilizationReport over [begin, end), which must
// lie within the engine's current horizon.
func (e *Engine) Utilization(begin, end int64) (*UtilizationReport, error) {
	if begin < e.horizonBegin || end > e.HorizonEnd() || end < begin {
		return nil, &InvalidInputError{Reason: "utilization range outside current horizon"}
	}

	allocated := make(map[int64]bool)
	for _, rec := range e.index {
		for _, sp := range rec.Spans {
			lo, hi := sp.Begin, sp.End
			if lo < begin {
				lo = begin
			}
			if hi > end {
				hi = end
			}
			for i := lo; i < hi; i++ {
				allocated[i] = true
			}
		}
	}

	var free, alloc int64
	for i := begin; i < end; i++ {
		idx := i - e.horizonBegin
		switch {
		case e.bits[idx]:
			free++
		case allocated[i]:
			alloc++
		}
	}

	total := end - begin
	ratio := decimal.Zero
	if total > 0 {
		ratio = decimal.NewFromInt(free).Div(decimal.NewFromInt(total))
	}

	return &UtilizationReport{
		Begin:     begin,
		End:       end,
		Free:      free,
		Occupied:  total - free - alloc,
		Allocated: alloc,
		FreeRatio: ratio,
	}, nil
}
