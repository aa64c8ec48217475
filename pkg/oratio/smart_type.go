package oratio

// ResourceKind discriminates which concrete smart type produced a
// ResourceFlaw (spec §4.6): they share the same overlap-detection shape
// but differ in what counts as a conflict and which resolvers they offer.
type ResourceKind int

const (
	ResourceStateVariable ResourceKind = iota
	ResourceReusable
	ResourceConsumable
	ResourceAgent
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceStateVariable:
		return "sv_flaw"
	case ResourceReusable:
		return "rr_flaw"
	case ResourceConsumable:
		return "cr_flaw"
	case ResourceAgent:
		return "agent_flaw"
	default:
		return "resource_flaw"
	}
}

// ResourceChoice is one way to resolve a detected conflict: an ordering
// between two atoms, a forbidden OV assignment, or a combined allow/forbid
// pair — the order/forbid/place resolvers spec §4.6 names. The smart types
// in this package produce order choices only: their constructors set no
// resource parameter, so no forbid choices arise, and none of them builds
// place choices.
type ResourceChoice struct {
	Kind ResolverKind // KindOrderResolver, KindForbidResolver, or KindPlaceResolver
	Lit  Lit          // the stored leqs/frbs theory literal (order/forbid)
	// Allow/Forbid back a place resolver: Allow.lit on one atom's τ and
	// Forbid.lit on another's, both from the smart type's frbs table.
	Allow, Forbid Lit
	Cost          Rational
}

// ResourceInconsistency is one minimal conflict set discovered by a sweep:
// the atoms involved and the resolvers that can fix it.
type ResourceInconsistency struct {
	Kind    ResourceKind
	Atoms   []*Atom
	Choices []ResourceChoice
}

// ResourceFlawData carries resource_flaw's kind-specific state.
type ResourceFlawData struct {
	Kind    ResourceKind
	Atoms   []*Atom
	Choices []ResourceChoice
}

// OrderForbidData carries an order/forbid resolver's chosen literal.
type OrderForbidData struct {
	Lit Lit
}

// PlaceData carries a place resolver's allow/forbid pair.
type PlaceData struct {
	Allow, Forbid Lit
}

func init() {
	computeResolversFns[KindResourceFlaw] = computeResourceFlawResolvers
	applyFns[KindOrderResolver] = applyOrderForbid
	applyFns[KindForbidResolver] = applyOrderForbid
	applyFns[KindPlaceResolver] = applyPlace
}

// SmartType is the common interface for state_variable, reusable_resource,
// consumable_resource, and agent (spec §4.6): it observes atoms declared
// under a component scope and, once per graph build, reports the
// inconsistencies (overlaps, capacity violations) found by sweeping their
// timelines.
type SmartType interface {
	// Scope names the component instance this smart type observes; atoms
	// declared under a matching Atom.Scope are routed to OnNewAtom.
	Scope() string
	// OnNewAtom installs the standard ordering (leqs) and, if the atom's
	// resource parameter is Enum-typed, forbidding (frbs) literals for
	// the new atom against every previously observed atom (spec §4.6
	// steps 2-4).
	OnNewAtom(a *Atom)
	// Inconsistencies sweeps the current atom timelines and returns every
	// newly-detected, not-yet-seen minimal conflict set.
	Inconsistencies() []ResourceInconsistency
}

// newResourceFlaw turns one detected inconsistency into a resource_flaw
// with order/forbid/place resolvers (spec §4.6's closing paragraph:
// "application of order/forbid/place resolvers adds no further clauses
// beyond activation implying the stored theory literal").
func (g *Graph) newResourceFlaw(st SmartType, inc ResourceInconsistency) FlawID {
	f := &Flaw{
		Phi:      TrueLit,
		Position: g.solver.rdl.NewVar(),
		Kind:     KindResourceFlaw,
		Data:     &ResourceFlawData{Kind: inc.Kind, Atoms: inc.Atoms, Choices: inc.Choices},
	}
	id := g.NewFlaw(f, true)
	if g.solver.listener != nil {
		g.solver.listener.FlawCreated(id)
	}
	return id
}

func computeResourceFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*ResourceFlawData)
	sat := g.solver.sat
	for _, c := range data.Choices {
		switch c.Kind {
		case KindOrderResolver, KindForbidResolver:
			if sat.Value(c.Lit) == LFalse {
				continue
			}
			g.NewResolver(&Resolver{Flaw: f.Self, Kind: c.Kind, Rho: Lit{Var: sat.NewVar()}, IntrinsicCost: c.Cost, Data: &OrderForbidData{Lit: c.Lit}})
		case KindPlaceResolver:
			if sat.Value(c.Allow) == LFalse || sat.Value(c.Forbid) == LFalse {
				continue
			}
			g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindPlaceResolver, Rho: Lit{Var: sat.NewVar()}, IntrinsicCost: c.Cost, Data: &PlaceData{Allow: c.Allow, Forbid: c.Forbid}})
		}
	}
	return nil
}

func applyOrderForbid(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*OrderForbidData)
	if !g.solver.sat.NewClause([]Lit{r.Rho.Not(), data.Lit}) {
		return ErrUnsolvable
	}
	return nil
}

func applyPlace(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*PlaceData)
	s := g.solver
	if !s.sat.NewClause([]Lit{r.Rho.Not(), data.Allow}) {
		return ErrUnsolvable
	}
	if !s.sat.NewClause([]Lit{r.Rho.Not(), data.Forbid}) {
		return ErrUnsolvable
	}
	return nil
}
