package capacity

import "encoding/json"

// Snapshot is an opaque, immutable capture of an Engine's bits and
// allocation index (spec.md §4.4.6). Its only valid uses are Restore
// against the engine it was taken from (or an engine of identical
// length) and, optionally, persistence through audit.Store's
// SaveSnapshot/LoadSnapshot.
type Snapshot struct {
	bits  []bool
	index map[allocKey]*AllocationRecord
}

// Snapshot captures the engine's current bits and allocation index.
func (e *Engine) Snapshot() *Snapshot {
	bits := make([]bool, len(e.bits))
	copy(bits, e.bits)

	index := make(map[allocKey]*AllocationRecord, len(e.index))
	for k, v := range e.index {
		index[k] = v
	}
	return &Snapshot{bits: bits, index: index}
}

// Restore replaces the engine's bits and allocation index from snap.
// After Restore returns, the engine is indistinguishable from its state
// at the moment Snapshot was called, for every subsequent observation.
func (e *Engine) Restore(snap *Snapshot) error {
	if len(snap.bits) != len(e.bits) {
		return &SnapshotSizeError{SnapshotLen: len(snap.bits), EngineLen: len(e.bits)}
	}

	bits := make([]bool, len(snap.bits))
	copy(bits, snap.bits)

	index := make(map[allocKey]*AllocationRecord, len(snap.index))
	for k, v := range snap.index {
		index[k] = v
	}

	e.bits = bits
	e.index = index
	return nil
}

// wireSnapshot is Snapshot's on-the-wire shape: AllocationRecord already
// marshals cleanly, so only the map-with-struct-keys needs flattening
// into a slice for encoding/json.
type wireSnapshot struct {
	Bits    []bool              `json:"bits"`
	Records []*AllocationRecord `json:"records"`
}

// Encode serialises snap into an opaque byte blob, suitable for the
// audit package's snapshot store. Callers must treat the result as
// opaque; only DecodeSnapshot can interpret it.
func (snap *Snapshot) Encode() ([]byte, error) {
	w := wireSnapshot{Bits: snap.bits, Records: make([]*AllocationRecord, 0, len(snap.index))}
	for _, rec := range snap.index {
		w.Records = append(w.Records, rec)
	}
	return json.Marshal(w)
}

// DecodeSnapshot reverses Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	index := make(map[allocKey]*AllocationRecord, len(w.Records))
	for _, rec := range w.Records {
		index[rec.key()] = rec
	}
	return &Snapshot{bits: w.Bits, index: index}, nil
}
