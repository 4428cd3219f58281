package capacity

// Commit applies record's spans to the bit vector and indexes the record
// (spec.md §4.4.3). It validates every span is still free before
// flipping any bit, so a rejected commit leaves the engine untouched.
func (e *Engine) Commit(record *AllocationRecord) (*AllocationRecord, error) {
	if record.ResourceID != e.resourceID {
		return nil, &ResourceMismatchError{RecordResourceID: record.ResourceID, EngineResourceID: e.resourceID}
	}
	key := record.key()
	if _, exists := e.index[key]; exists {
		return nil, &InvalidOperationError{Op: "commit", Reason: "record already committed"}
	}

	for _, sp := range record.Spans {
		for i := sp.Begin; i < sp.End; i++ {
			idx := i - e.horizonBegin
			if idx < 0 || idx >= int64(len(e.bits)) || !e.bits[idx] {
				return nil, &InvalidOperationError{Op: "commit", Reason: "span is not entirely free"}
			}
		}
	}

	for _, sp := range record.Spans {
		for i := sp.Begin; i < sp.End; i++ {
			e.bits[i-e.horizonBegin] = false
		}
	}
	e.index[key] = record
	return record, nil
}

// Release is the exact bitwise inverse of Commit applied to the same
// record (spec.md §4.4.3).
func (e *Engine) Release(record *AllocationRecord) error {
	if record.ResourceID != e.resourceID {
		return &ResourceMismatchError{RecordResourceID: record.ResourceID, EngineResourceID: e.resourceID}
	}
	key := record.key()
	if _, exists := e.index[key]; !exists {
		return &InvalidOperationError{Op: "release", Reason: "record not committed"}
	}

	for _, sp := range record.Spans {
		for i := sp.Begin; i < sp.End; i++ {
			e.bits[i-e.horizonBegin] = true
		}
	}
	delete(e.index, key)
	return nil
}

// Allocate is FindSlot followed by Commit, applied atomically: if Commit
// fails the engine is left exactly as FindSlot found it.
func (e *Engine) Allocate(operationID string, earliestStart, workUnits int64, allowSplit bool, minSplit int64, deadline *int64) (*AllocationRecord, error) {
	record, err := e.FindSlot(operationID, earliestStart, workUnits, allowSplit, minSplit, deadline)
	if err != nil {
		return nil, err
	}
	return e.Commit(record)
}
