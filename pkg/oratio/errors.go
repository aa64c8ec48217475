package oratio

import "fmt"

// ErrUnsolvable is returned when the SAT core (or a theory it coordinates)
// reaches a root-level conflict: no assignment can satisfy the current
// problem (spec §3/§7, riddle::unsolvable_exception in the reference
// implementation).
var ErrUnsolvable = fmt.Errorf("oratio: problem is unsolvable")

// ErrCancelled is returned by Solve when it is stopped early by a node or
// time limit (spec §7 "Non-goals" carve-out for external cancellation).
var ErrCancelled = fmt.Errorf("oratio: search cancelled")

// InvariantViolation reports that an internal consistency check — one of
// spec §3's documented invariants — failed. Seeing this means a bug in the
// solver itself, not an unsolvable problem instance.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("oratio: invariant %q violated: %s", e.Invariant, e.Detail)
}
