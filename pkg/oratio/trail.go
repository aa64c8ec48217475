package oratio

// layer holds the undo actions recorded at a single decision level, which
// Pop runs. This mirrors the reference solver's per-level
// bookkeeping ({old costs, new flaws, solved flaws} in spec §3/§5) but is
// expressed as a list of closures rather than three parallel slices,
// which keeps Trail.Pop a single uniform loop regardless of what kind of
// state a given push recorded — the same shape as gokando's search stack
// of frames (pkg/minikanren/solver.go's searchFrame stack), generalized
// from "one frame per branch point" to "one undo closure per mutation".
type layer struct {
	undo []func()
}

// Trail is the solver's copy-on-write-free backtracking log: instead of
// cloning state (as gokando's SolverState chain does), it records how to
// undo each mutation and replays those undos in reverse on Pop. This suits
// a DPLL-integrated solver where most state lives inside the SAT/theory
// cores already and only the flaw/resolver graph's own bookkeeping needs
// an independent undo log (spec §5). The one undo recorded here is
// Graph.solveFlaw's: Pop clears the solved mark and makes the flaw active
// again. Cost changes, and active-set changes made when a flaw's φ is
// assigned, are not recorded, so Pop does not restore them.
type Trail struct {
	layers []layer
}

// NewTrail returns an empty trail at the root decision level.
func NewTrail() *Trail { return &Trail{} }

// Level reports the current decision depth (0 == root).
func (t *Trail) Level() int { return len(t.layers) }

// Push opens a new decision level.
func (t *Trail) Push() { t.layers = append(t.layers, layer{}) }

// Record appends an undo action to the current level. At root level it
// does nothing: root-level state changes are permanent by construction
// (spec §3: decisions below root level are the only ones that backtrack).
func (t *Trail) Record(undo func()) {
	if len(t.layers) == 0 {
		return
	}
	i := len(t.layers) - 1
	t.layers[i].undo = append(t.layers[i].undo, undo)
}

// Pop undoes and discards the most recent decision level, running its
// undo actions in reverse order (last recorded, first undone) so that
// mutations are rolled back in the opposite order they were applied.
func (t *Trail) Pop() {
	if len(t.layers) == 0 {
		return
	}
	i := len(t.layers) - 1
	l := t.layers[i]
	for j := len(l.undo) - 1; j >= 0; j-- {
		l.undo[j]()
	}
	t.layers = t.layers[:i]
}
