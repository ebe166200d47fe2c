package mirror

import (
	"encoding/json"
	"fmt"

	"iaros/kitlogistics/internal/logging"
)

// Clone produces an independent deep copy for C6's speculative
// forward-simulation (spec.md §4.5: "the optimizer simulates candidate
// decisions against a throwaway copy of the mirror, never the live
// one"). It round-trips through JSON rather than hand-rolling a deep
// copy, since MirrorState is already required to be JSON-serializable
// for R1.
func (m *MirrorState) Clone() *MirrorState {
	buf, err := json.Marshal(m)
	if err != nil {
		// MirrorState's exported fields are all JSON-safe by construction;
		// a marshal failure here would be a programming error.
		panic(fmt.Sprintf("mirror: clone marshal failed: %v", err))
	}
	clone := &MirrorState{}
	if err := json.Unmarshal(buf, clone); err != nil {
		panic(fmt.Sprintf("mirror: clone unmarshal failed: %v", err))
	}
	clone.cat = m.cat
	clone.logger = logging.Nop()
	return clone
}
