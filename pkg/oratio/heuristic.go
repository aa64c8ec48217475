package oratio

// h1 is the relaxed-plan causal-graph heuristic (spec §3/§4.4), grounded on
// original_source/src/heuristics/h_1.cpp. Build estimates each flaw's cost
// by taking flaws from its FIFO queue and expanding them (re-queueing the
// deferrable ones) until no known flaw has an infinite estimated cost;
// AddLayer then expands the whole queue, breadth-first, for as long as
// every queued flaw still has an infinite cost.
type h1 struct {
	g *Graph

	// flawQueue holds flaws awaiting expansion, FIFO (h_1.h's flaw_q).
	flawQueue []FlawID
	// visited breaks cycles during cost propagation and deferrability
	// checks, mirroring h_1::visited's role as a recursion guard.
	visited map[FlawID]bool
	// closed remembers which flaws have already been pruned into a
	// ¬γ ∨ ¬φ clause (h_1::already_closed), used only when pruning is on.
	closed map[FlawID]bool
}

// NewH1 builds a relaxed-plan heuristic bound to g.
func NewH1(g *Graph) Heuristic {
	return &h1{g: g, visited: make(map[FlawID]bool), closed: make(map[FlawID]bool)}
}

// Enqueue appends f to the FIFO flaw queue (h_1::enqueue).
func (h *h1) Enqueue(f FlawID) { h.flawQueue = append(h.flawQueue, f) }

// PropagateCosts recomputes f's cost from its cheapest live resolver and,
// if it changed, recurses into every resolver that f supports — i.e. every
// resolver whose owning flaw's cost depends on f (h_1::propagate_costs).
func (h *h1) PropagateCosts(id FlawID) {
	f := h.g.Flaw(id)
	sat := h.g.solver.sat

	cCost := PosInf
	if sat.Value(f.Phi) != LFalse {
		if best, ok := h.g.CheapestResolver(f); ok {
			cCost = h.g.ResolverCost(best)
		}
	}

	if f.EstimatedCost.Equal(cCost) {
		return
	}
	if h.visited[id] {
		// propagating within a causal cycle: the cycle can never
		// terminate, so treat it as unreachable.
		cCost = PosInf
		if f.EstimatedCost.Equal(cCost) {
			return
		}
	}

	f.EstimatedCost = cCost
	if h.g.solver.listener != nil {
		h.g.solver.listener.FlawCostChanged(id)
	}

	h.visited[id] = true
	for _, rid := range f.Supports {
		r := h.g.Resolver(rid)
		if sat.Value(r.Rho) != LFalse {
			h.PropagateCosts(r.Flaw)
		}
	}
	delete(h.visited, id)
}

// Build expands flaws from the queue until every known flaw has a finite
// estimated cost, then flushes pending flaws and simplifies the SAT core
// (h_1::build). Must only be called at the solver's root decision level.
func (h *h1) Build() error {
	for h.anyInfinite() {
		if len(h.flawQueue) == 0 {
			return ErrUnsolvable
		}
		id := h.flawQueue[0]
		h.flawQueue = h.flawQueue[1:]

		f := h.g.Flaw(id)
		if f.Expanded {
			continue
		}
		if h.g.solver.sat.Value(f.Phi) != LFalse {
			if h.IsDeferrable(id) {
				h.flawQueue = append(h.flawQueue, id)
			} else if err := h.g.ExpandFlaw(id); err != nil {
				return err
			}
		}
	}

	h.g.collectInconsistencies()
	h.g.FlushPending()

	if !h.g.solver.sat.SimplifyDB() {
		return ErrUnsolvable
	}
	return nil
}

// AddLayer expands every flaw currently in the queue — which at this point
// must all be deferrable, per the invariant asserted in h_1::add_layer —
// repeating until at least one gains a finite cost, giving the search one
// more rung of slack to choose from. An empty queue is ErrUnsolvable only
// while some known flaw still has an infinite cost.
func (h *h1) AddLayer() error {
	for h.allInfiniteIn(h.flawQueue) {
		if len(h.flawQueue) == 0 {
			if h.anyInfinite() {
				return ErrUnsolvable
			}
			break
		}
		qSize := len(h.flawQueue)
		for i := 0; i < qSize; i++ {
			id := h.flawQueue[0]
			h.flawQueue = h.flawQueue[1:]
			f := h.g.Flaw(id)
			if f.Expanded {
				continue
			}
			if h.g.solver.sat.Value(f.Phi) != LFalse {
				if err := h.g.ExpandFlaw(id); err != nil {
					return err
				}
			}
		}
	}

	h.g.collectInconsistencies()
	h.g.FlushPending()

	if !h.g.solver.sat.SimplifyDB() {
		return ErrUnsolvable
	}
	return nil
}

// Prune adds a ¬γ ∨ ¬φ clause for every flaw still in the queue, the first
// time each is seen, then propagates. Only called when Config.Pruning is
// enabled (h_1::prune, guarded by GRAPH_PRUNING in the original).
func (h *h1) Prune() error {
	for _, id := range h.flawQueue {
		if h.closed[id] {
			continue
		}
		h.closed[id] = true
		f := h.g.Flaw(id)
		if !h.g.solver.sat.NewClause([]Lit{{Var: h.g.gamma, Negated: true}, f.Phi.Not()}) {
			return ErrUnsolvable
		}
	}
	if !h.g.solver.sat.Propagate() {
		return ErrUnsolvable
	}
	return nil
}

// IsDeferrable reports whether f can safely be expanded later
// (h_1::is_deferrable): true at once if f already has a finite cost or an
// applied resolver; otherwise false if f's φ is already true or f is
// already on the visit stack; otherwise true only if the owning flaw of
// every resolver in f's supports is itself deferrable.
func (h *h1) IsDeferrable(id FlawID) bool {
	f := h.g.Flaw(id)
	sat := h.g.solver.sat

	if f.EstimatedCost.Less(PosInf) {
		return true
	}
	for _, rid := range f.Resolvers {
		if sat.Value(h.g.Resolver(rid).Rho) == LTrue {
			return true
		}
	}
	if sat.Value(f.Phi) == LTrue || h.visited[id] {
		return false
	}

	h.visited[id] = true
	defer delete(h.visited, id)
	for _, rid := range f.Supports {
		if !h.IsDeferrable(h.g.Resolver(rid).Flaw) {
			return false
		}
	}
	return true
}

func (h *h1) anyInfinite() bool {
	for _, f := range h.g.flaws {
		if f.EstimatedCost.Equal(PosInf) {
			return true
		}
	}
	return false
}

func (h *h1) allInfiniteIn(ids []FlawID) bool {
	for _, id := range ids {
		if !h.g.Flaw(id).EstimatedCost.Equal(PosInf) {
			return false
		}
	}
	return true
}
