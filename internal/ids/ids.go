// Package ids holds the two process-wide monotonic counters the
// toolchain relies on: one for AST variable/method identity, one for
// generator label names. Neither is ever reset within a run.
//
// Both counters are plain atomic.Uint64s rather than values threaded
// through explicit context, matching the "process-global atomic
// counter" option spec.md §5/§9 calls out as acceptable.
package ids

import "sync/atomic"

// Generator hands out successive uint64 ids starting at zero.
type Generator struct {
	next atomic.Uint64
}

// Next returns the next id in sequence.
func (g *Generator) Next() uint64 {
	return g.next.Add(1) - 1
}

// Vars generates ids for AST variables and methods.
var Vars Generator

// Labels generates ids used to build globally-unique generator label
// names.
var Labels Generator
