package oratio

import "fmt"

// Graph is the flaw/resolver bipartite AND/OR graph (spec §3/§4). Flaws and
// resolvers are stored in flat arenas and referenced by FlawID/ResolverID
// (spec §9's generational-index redesign note, replacing the reference
// implementation's owning-pointer object graph). Graph itself only knows
// the universal bookkeeping; the search-order policy (enqueue/build/
// add_layer/prune) is supplied by a Heuristic (grounded on h_1.cpp).
type Graph struct {
	solver *Solver

	flaws     []*Flaw
	resolvers []*Resolver

	// phis indexes flaws by their φ literal's variable, so a SAT
	// assignment change can find the flaws it affects.
	phis map[Var][]FlawID
	// rhos indexes resolvers by their ρ literal's variable.
	rhos map[Var][]ResolverID

	// active is the set of flaws whose φ is currently True and which have
	// not yet been solved (spec §3 invariant: exactly the "open" flaws).
	active map[FlawID]bool
	// solved tracks flaws removed from active because a chosen resolver's
	// preconditions were all settled, as opposed to negatedFlaw's removal
	// (phi forced false). Kept distinct from active so precondition
	// propagation can tell "never needed solving" apart from "not yet
	// resolved" (spec §4.5 step 3 / §8 testable property 4).
	solved map[FlawID]bool
	// pending holds flaws created before the root decision level; they are
	// initialized (computeResolvers run) once the graph reaches root level.
	pending []FlawID

	// causalLinks records every (flaw, resolver) precondition edge added
	// by AddCausalLink, kept for JSON visualization (spec §6 "graph" view)
	// in addition to living on Resolver.Preconditions / Flaw.Supports.
	causalLinks []CausalLink

	// gamma is the literal standing for "this graph is still a valid
	// relaxation of the problem" (spec §3 invariant 7, graph.h's gamma
	// field). It is TrueVar for the graph's whole life: nothing in this
	// package replaces it with a fresh variable.
	gamma Var

	heuristic Heuristic
}

// CausalLink records that Flaw was registered as a precondition of
// Resolver (spec §3 invariants 3/4/6).
type CausalLink struct {
	Flaw     FlawID
	Resolver ResolverID
}

// Heuristic supplies the search-order policy a Graph delegates to: which
// flaw to work on next, and how resolver costs propagate. Concrete
// implementations (h1) are grounded on original_source/src/heuristics/h_1.cpp.
type Heuristic interface {
	Enqueue(f FlawID)
	PropagateCosts(f FlawID)
	Build() error
	AddLayer() error
	Prune() error
	IsDeferrable(f FlawID) bool
}

// NewGraph creates an empty graph owned by s, with its gamma literal
// initialized to true (the graph starts out trivially valid).
func NewGraph(s *Solver) *Graph {
	g := &Graph{
		solver: s,
		phis:   make(map[Var][]FlawID),
		rhos:   make(map[Var][]ResolverID),
		active: make(map[FlawID]bool),
		solved: make(map[FlawID]bool),
		gamma:  TrueVar,
	}
	return g
}

// SetHeuristic installs the search-order policy. Must be called before any
// flaw is created.
func (g *Graph) SetHeuristic(h Heuristic) { g.heuristic = h }

// Gamma returns the graph-validity variable (spec §4.3).
func (g *Graph) Gamma() Var { return g.gamma }

// Flaw resolves a FlawID to its Flaw. Panics on an out-of-range id, which
// indicates a bookkeeping bug rather than recoverable user error.
func (g *Graph) Flaw(id FlawID) *Flaw {
	if int(id) < 0 || int(id) >= len(g.flaws) {
		panic(fmt.Sprintf("oratio: invalid FlawID %d", id))
	}
	return g.flaws[id]
}

// Resolver resolves a ResolverID to its Resolver.
func (g *Graph) Resolver(id ResolverID) *Resolver {
	if int(id) < 0 || int(id) >= len(g.resolvers) {
		panic(fmt.Sprintf("oratio: invalid ResolverID %d", id))
	}
	return g.resolvers[id]
}

// ActiveFlaws returns the ids of flaws currently open (φ true, unsolved).
func (g *Graph) ActiveFlaws() []FlawID {
	out := make([]FlawID, 0, len(g.active))
	for id := range g.active {
		out = append(out, id)
	}
	return out
}

// CausalLinks returns every registered precondition edge, for JSON
// visualization (spec §6).
func (g *Graph) CausalLinks() []CausalLink { return g.causalLinks }

// NewFlaw registers f in the arena, assigning its Self id, indexing it by
// φ-variable, and — if the solver is at root level — initializing it
// immediately (computing its resolvers); otherwise it is stashed in
// pending and initialized by the next FlushPending call (made by the
// heuristic's Build/AddLayer and at the start of Solve), mirroring
// solver::new_flaw's root_level() gate (src/solver.cpp).
//
// enqueue controls whether the flaw is handed to the heuristic's Enqueue
// once initialized; callers building a resolver's preconditions inline
// (rather than via the flaw queue) pass false.
func (g *Graph) NewFlaw(f *Flaw, enqueue bool) FlawID {
	id := FlawID(len(g.flaws))
	f.Self = id
	f.EstimatedCost = PosInf
	g.flaws = append(g.flaws, f)
	if _, known := g.phis[f.Phi.Var]; !known {
		g.solver.sat.Listen(f.Phi.Var, ListenerFunc(g.onVarAssigned))
	}
	g.phis[f.Phi.Var] = append(g.phis[f.Phi.Var], id)

	if !g.solver.AtRootLevel() {
		g.pending = append(g.pending, id)
		return id
	}
	g.initFlaw(id, enqueue)
	return id
}

// initFlaw posts the causal activation clause ρ(cause) ⇒ φ for every
// resolver that caused f (spec §4.1 init(), invariant 4: a resolver that
// creates a subflaw forces that subflaw's φ once applied), expands f's
// resolvers (unless it has no kind-specific computeResolvers registered
// yet, e.g. a flaw under construction), and, if its φ is already true,
// marks it active.
func (g *Graph) initFlaw(id FlawID, enqueue bool) {
	f := g.flaws[id]
	for _, cid := range f.Causes {
		cause := g.resolvers[cid]
		g.solver.sat.NewClause([]Lit{cause.Rho.Not(), f.Phi})
	}
	if g.solver.sat.Value(f.Phi) == LTrue {
		g.active[id] = true
		g.activatedFlaw(id)
	}
	if err := g.ExpandFlaw(id); err != nil {
		// computeResolvers for this flaw isn't registered yet (e.g. a
		// disjunction flaw whose disjuncts aren't known until later
		// construction); defer to an explicit ExpandFlaw call.
		_ = err
	}
	if enqueue && g.heuristic != nil {
		g.heuristic.Enqueue(id)
	}
}

// FlushPending initializes every flaw created while the solver was below
// root level, in creation order. Called once the solver returns to root
// level (spec's "postpone flaw initialization below root" rule).
func (g *Graph) FlushPending() {
	pending := g.pending
	g.pending = nil
	for _, id := range pending {
		g.initFlaw(id, true)
	}
}

// NewResolver registers r in the arena, indexes it by ρ-variable, appends
// it to its owning flaw's Resolvers list, posts ρ(r) ⇒ φ (spec §4.1
// add_resolver, invariant 3: applying a resolver forces its owning flaw's
// φ true), and — if its ρ is already true — marks it active.
func (g *Graph) NewResolver(r *Resolver) ResolverID {
	id := ResolverID(len(g.resolvers))
	r.Self = id
	g.resolvers = append(g.resolvers, r)
	if _, known := g.rhos[r.Rho.Var]; !known {
		g.solver.sat.Listen(r.Rho.Var, ListenerFunc(g.onVarAssigned))
	}
	g.rhos[r.Rho.Var] = append(g.rhos[r.Rho.Var], id)

	owner := g.flaws[r.Flaw]
	owner.Resolvers = append(owner.Resolvers, id)
	g.solver.sat.NewClause([]Lit{r.Rho.Not(), owner.Phi})

	if g.solver.sat.Value(r.Rho) == LTrue {
		g.activatedResolver(id)
	}
	return id
}

// AddCausalLink registers that resolving flaw cause is a precondition of
// applying resolver r: r gains cause in its Preconditions, and cause gains
// r in its Supports, so that cause's EstimatedCost changes propagate to
// r's owning flaw (spec §3 invariants 3/4; grounded on
// atom_flaw::compute_resolvers' get_solver().new_causal_link(t_flaw, *u_res)
// call in original_source/src/atom_flaw.cpp, which wires a unification's
// target flaw as a precondition of the new unify_atom resolver).
//
// It also checks invariant 6, which orders r's owning flaw before cause,
// i.e. position(owner) + 1 <= position(cause), so that the causal graph
// cannot cycle back through the difference-logic ordering theory. Returns
// an error if the RDL theory's lower bound on position(owner) -
// position(cause) is already positive. The check reads the current bounds
// only; the ordering constraint itself is not posted to the theory.
func (g *Graph) AddCausalLink(cause FlawID, r ResolverID) error {
	res := g.resolvers[r]
	owner := g.flaws[res.Flaw]
	causeFlaw := g.flaws[cause]

	if g.solver.rdl != nil {
		lb, _ := g.solver.rdl.Distance(owner.Position, causeFlaw.Position)
		if lb.Compare(Zero) > 0 {
			return fmt.Errorf("oratio: causal link %d -> resolver %d would cycle (position)", cause, r)
		}
	}

	res.Preconditions = append(res.Preconditions, cause)
	causeFlaw.Supports = append(causeFlaw.Supports, r)
	g.causalLinks = append(g.causalLinks, CausalLink{Flaw: cause, Resolver: r})
	if g.solver.listener != nil {
		g.solver.listener.CausalLinkAdded(CausalLink{Flaw: cause, Resolver: r})
	}
	return nil
}

// ExpandFlaw computes f's resolvers by dispatching on its Kind, via the
// function registered in computeResolversFns (flaws_*.go). It is a no-op
// if f was already expanded. Each discovered resolver is registered via
// NewResolver; the coverage clauses are then posted and f's cost is set
// from its cheapest resolver. Resolver preconditions are not queued with
// the heuristic here, and the solver's ni stack is left unchanged, so
// nothing created during expansion is gated on f's φ.
func (g *Graph) ExpandFlaw(id FlawID) error {
	f := g.flaws[id]
	if f.Expanded {
		return nil
	}
	fn, ok := computeResolversFns[f.Kind]
	if !ok {
		return fmt.Errorf("oratio: no computeResolvers registered for %s", f.Kind)
	}
	if err := fn(g, f); err != nil {
		return err
	}
	f.Expanded = true
	if err := g.postCoverage(f); err != nil {
		return err
	}
	if best, ok := g.CheapestResolver(f); ok {
		g.SetCost(id, g.ResolverCost(best))
	} else {
		g.SetCost(id, PosInf)
	}
	return nil
}

// postCoverage posts the coverage clause φ ⇒ ⋁ρ(r) over every resolver
// computeResolvers discovered for f (spec §4.1 expand(), invariant 2) and,
// for exclusive flaws, the pairwise exclusion clauses ¬ρ_i ∨ ¬ρ_j between
// every two resolvers, so the SAT core actually ties φ's truth to the
// resolver set instead of leaving the graph purely advisory.
func (g *Graph) postCoverage(f *Flaw) error {
	if len(f.Resolvers) == 0 {
		return nil
	}
	clause := make([]Lit, 0, len(f.Resolvers)+1)
	clause = append(clause, f.Phi.Not())
	for _, rid := range f.Resolvers {
		clause = append(clause, g.resolvers[rid].Rho)
	}
	if !g.solver.sat.NewClause(clause) {
		return ErrUnsolvable
	}
	if f.Exclusive {
		for i := 0; i < len(f.Resolvers); i++ {
			ri := g.resolvers[f.Resolvers[i]]
			for j := i + 1; j < len(f.Resolvers); j++ {
				rj := g.resolvers[f.Resolvers[j]]
				if !g.solver.sat.NewClause([]Lit{ri.Rho.Not(), rj.Rho.Not()}) {
					return ErrUnsolvable
				}
			}
		}
	}
	return nil
}

// SetCost updates f's estimated cost and propagates the change to every
// resolver that lists f as a precondition (f.Supports), which in turn may
// change those resolvers' owning flaws' costs — this is graph::set_cost
// in the reference implementation, here made explicit rather than
// implicit in the heuristic so unit tests can exercise propagation
// directly.
func (g *Graph) SetCost(id FlawID, cost Rational) {
	f := g.flaws[id]
	if f.EstimatedCost.Equal(cost) {
		return
	}
	f.EstimatedCost = cost
	if g.solver.listener != nil {
		g.solver.listener.FlawCostChanged(id)
	}
	if g.heuristic == nil {
		return
	}
	for _, rid := range f.Supports {
		r := g.resolvers[rid]
		if g.solver.sat.Value(r.Rho) != LFalse {
			g.heuristic.PropagateCosts(r.Flaw)
		}
	}
}

// activatedFlaw fires the Activated listener hook and marks f active.
func (g *Graph) activatedFlaw(id FlawID) {
	g.active[id] = true
	if g.solver.listener != nil {
		g.solver.listener.ActivatedFlaw(id)
	}
}

// negatedFlaw fires the Negated listener hook, removes f from the active
// set, re-propagates costs now that f can never need solving, and settles
// any resolver waiting on f as a precondition (a negated flaw can never
// need solving, so it satisfies preconditions trivially).
func (g *Graph) negatedFlaw(id FlawID) {
	delete(g.active, id)
	g.SetCost(id, Zero)
	if g.solver.listener != nil {
		g.solver.listener.NegatedFlaw(id)
	}
	g.propagateSettled(id)
}

// preconditionSettled reports whether id no longer blocks a resolver that
// lists it as a precondition: either it was actually solved, or its φ was
// forced false, so it never needed solving in the first place.
func (g *Graph) preconditionSettled(id FlawID) bool {
	if g.solved[id] {
		return true
	}
	return g.solver.sat.Value(g.flaws[id].Phi) == LFalse
}

// propagateSettled checks every resolver that lists id as a precondition
// (spec §3 invariant 3/4): once such a resolver is chosen (ρ true) and all
// of its preconditions are settled, its owning flaw is solved in turn.
func (g *Graph) propagateSettled(id FlawID) {
	for _, rid := range g.flaws[id].Supports {
		r := g.resolvers[rid]
		if g.solver.sat.Value(r.Rho) != LTrue {
			continue
		}
		settled := true
		for _, pid := range r.Preconditions {
			if !g.preconditionSettled(pid) {
				settled = false
				break
			}
		}
		if settled {
			g.solveFlaw(r.Flaw)
		}
	}
}

// solveFlaw marks f solved and drops it from the active set, recording an
// undo on the current trail layer so Pop reinstates it as active (spec
// §4.5 step 3's "terminate success when active_flaws is empty", and §8
// testable property 4's push/pop round-trip). Propagates to every
// resolver depending on f as a precondition.
func (g *Graph) solveFlaw(id FlawID) {
	if g.solved[id] {
		return
	}
	g.solved[id] = true
	wasActive := g.active[id]
	delete(g.active, id)
	g.solver.trail.Record(func() {
		delete(g.solved, id)
		if wasActive {
			g.active[id] = true
		}
	})
	g.propagateSettled(id)
}

// activatedResolver fires the Activated listener hook for resolver id.
func (g *Graph) activatedResolver(id ResolverID) {
	if g.solver.listener != nil {
		g.solver.listener.ActivatedResolver(id)
	}
}

// negatedResolver fires the Negated listener hook. Per graph.h's
// negated_resolver override, a negated resolver's owning flaw must have
// its cost recomputed, since the cheapest resolver may have changed.
func (g *Graph) negatedResolver(id ResolverID) {
	if g.solver.listener != nil {
		g.solver.listener.NegatedResolver(id)
	}
	res := g.resolvers[id]
	if best, ok := g.CheapestResolver(g.flaws[res.Flaw]); ok {
		g.SetCost(res.Flaw, g.ResolverCost(best))
	} else {
		g.SetCost(res.Flaw, PosInf)
	}
}

// onVarAssigned adapts the SAT core's per-variable Listener callback (which
// only names the variable) to OnLitAssigned's (var, value) shape, looked up
// fresh since the assignment has already landed by the time listeners fire.
func (g *Graph) onVarAssigned(v Var) {
	g.OnLitAssigned(v, g.solver.sat.Value(Lit{Var: v}))
}

// OnLitAssigned is the Graph's half of the Listener contract (spec §4.3):
// it routes a SAT variable assignment to every flaw/resolver indexed
// under that variable, firing activated/negated as appropriate. The
// Solver wires this into its SAT core's Listen call.
func (g *Graph) OnLitAssigned(v Var, val LBool) {
	if val == LUndefined {
		return
	}
	for _, fid := range g.phis[v] {
		f := g.flaws[fid]
		if g.solver.sat.Value(f.Phi) == LTrue {
			g.activatedFlaw(fid)
		} else if g.solver.sat.Value(f.Phi) == LFalse {
			g.negatedFlaw(fid)
		}
	}
	for _, rid := range g.rhos[v] {
		r := g.resolvers[rid]
		if g.solver.sat.Value(r.Rho) == LTrue {
			g.activatedResolver(rid)
		} else if g.solver.sat.Value(r.Rho) == LFalse {
			g.negatedResolver(rid)
		}
	}
}

// Check asks the heuristic to (re)build a relaxed plan over the current
// active flaws and add one new layer, per graph::check's build()/
// add_layer() pair (include/graph.h). Solve calls this once per search
// step before picking the current flaw/resolver.
func (g *Graph) Check() error {
	if g.heuristic == nil {
		return nil
	}
	if err := g.heuristic.Build(); err != nil {
		return err
	}
	if err := g.heuristic.AddLayer(); err != nil {
		return err
	}
	if g.solver.config.Pruning {
		if err := g.heuristic.Prune(); err != nil {
			return err
		}
	}
	return nil
}

// collectInconsistencies asks every registered smart type for its current
// minimal-conflict-set inconsistencies and turns each into a resource flaw
// (spec §4.6; graph::get_incs in the reference implementation). A no-op
// until smart types are registered via Solver.RegisterSmartType.
func (g *Graph) collectInconsistencies() {
	for _, st := range g.solver.smartTypes {
		for _, inc := range st.Inconsistencies() {
			g.newResourceFlaw(st, inc)
		}
	}
}

// computeResolversFns dispatches Flaw.Kind to its concrete resolver
// generator, registered by each flaws_*.go file's init().
var computeResolversFns = map[FlawKind]func(g *Graph, f *Flaw) error{}
