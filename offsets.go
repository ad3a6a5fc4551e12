package strigo

import (
	"fmt"
)

// fillStrIDs resolves every input value to its engine ordinal. The engine
// must already be built from exactly these values, so every lookup
// succeeds; a miss means the engine and the input are out of sync and
// aborts the build.
func fillStrIDs(e Engine, values []string) ([]uint64, error) {
	rowToID := make([]uint64, len(values))
	for i, v := range values {
		id, ok := e.Lookup(v)
		if !ok {
			return nil, fmt.Errorf("%w: value at row %d not found after build", ErrInconsistent, i)
		}
		rowToID[i] = id
	}
	return rowToID, nil
}

// fillOffsets derives the ordinal -> row offsets map from rowToID with one
// ascending scan, so every list is in ascending offset order. The map is
// never persisted; it is rebuilt after every Build and Load.
func fillOffsets(rowToID []uint64) map[uint64][]uint32 {
	offsets := make(map[uint64][]uint32)
	for off, id := range rowToID {
		offsets[id] = append(offsets[id], uint32(off))
	}
	return offsets
}
