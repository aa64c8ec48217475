package oratio

// FlawKind discriminates the concrete flaw variants (spec §4.2), replacing
// the reference implementation's class hierarchy with a tagged union plus a
// small vtable-like dispatcher (spec §9).
type FlawKind int

const (
	KindAtomFlaw FlawKind = iota
	KindBoolFlaw
	KindEnumFlaw
	KindDisjFlaw
	KindDisjunctionFlaw
	// KindResourceFlaw covers sv_flaw/rr_flaw/cr_flaw, which share shape
	// (an overlapping atom set plus order/forbid/place resolvers) and are
	// further discriminated by ResourceKind.
	KindResourceFlaw
)

func (k FlawKind) String() string {
	switch k {
	case KindAtomFlaw:
		return "atom_flaw"
	case KindBoolFlaw:
		return "bool_flaw"
	case KindEnumFlaw:
		return "enum_flaw"
	case KindDisjFlaw:
		return "disj_flaw"
	case KindDisjunctionFlaw:
		return "disjunction_flaw"
	case KindResourceFlaw:
		return "resource_flaw"
	default:
		return "unknown_flaw"
	}
}

// FlawID is a stable, non-owning reference to a Flaw stored in the Graph's
// arena (spec §9's generational-index redesign note).
type FlawID int

// ResolverID is a stable, non-owning reference to a Resolver in the arena.
type ResolverID int

// Flaw is an open subproblem requiring resolution. It carries the universal
// fields shared by every concrete variant (spec §3); kind-specific data and
// behavior live in the Data field's concrete subtype and are dispatched
// through computeResolversFns/applyFns registered in graph.go.
type Flaw struct {
	// Self is this flaw's own arena index, set once on registration.
	Self FlawID
	Kind FlawKind

	// Phi is the Boolean literal that is True when this flaw must be
	// solved (spec §3 invariant 2/3/4).
	Phi Lit
	// Position is an integer time-point in the difference-logic ordering
	// theory, used to prevent causal cycles (spec §3 invariant 6).
	Position Var

	// Causes are the resolvers whose application created this flaw.
	Causes []ResolverID
	// Resolvers are this flaw's disjunctive candidate fixes.
	Resolvers []ResolverID
	// Supports are resolvers whose cost depends on this flaw (inverse of
	// preconditions).
	Supports []ResolverID

	// EstimatedCost is the current best-known cost to solve this flaw, or
	// PosInf if currently unreachable (spec §3 invariant 5).
	EstimatedCost Rational
	// Expanded is set once computeResolvers has run.
	Expanded bool
	// Exclusive, when true, means resolvers are mutually exclusive under
	// Phi (spec §3 invariant 2).
	Exclusive bool

	// Data holds kind-specific fields (e.g. *AtomFlawData, *BoolFlawData).
	Data interface{}
}

// CheapestResolver returns the resolver with the smallest
// IntrinsicCost + Σ precondition EstimatedCost among f's resolvers whose ρ
// is not SAT-False, ties broken by insertion order (spec §4.1). g is used to
// look up resolver/flaw data and the SAT core.
func (g *Graph) CheapestResolver(f *Flaw) (ResolverID, bool) {
	best := ResolverID(-1)
	bestCost := PosInf
	for _, rid := range f.Resolvers {
		r := g.Resolver(rid)
		if g.solver.sat.Value(r.Rho) == LFalse {
			continue
		}
		c := g.ResolverCost(rid)
		if best == -1 || c.Less(bestCost) {
			best, bestCost = rid, c
		}
	}
	return best, best != -1
}

// ResolverCost computes intrinsic_cost(r) + Σ est_cost(precondition)
// (spec §3 invariant 5).
func (g *Graph) ResolverCost(rid ResolverID) Rational {
	r := g.Resolver(rid)
	cost := r.IntrinsicCost
	for _, pid := range r.Preconditions {
		cost = cost.Add(g.Flaw(pid).EstimatedCost)
	}
	return cost
}
