package oratio

// orderPair keys the leqs table by an unordered pair of atom ids.
type orderPair struct{ a, b int }

func newOrderPair(a, b *Atom) orderPair {
	if a.ID > b.ID {
		a, b = b, a
	}
	return orderPair{a.ID, b.ID}
}

// orderLits is one candidate-ordering entry between two overlapping
// atoms: before = end(a) <= start(b), after = end(b) <= start(a), mutually
// exclusive (spec §4.6 step 2).
type orderLits struct {
	before, after Lit
}

// baseResource implements the bookkeeping shared by every smart type:
// installing ordering/forbidding literals for each new atom against every
// previously observed one, and dedup tracking for Inconsistencies (spec
// §4.6). Concrete types embed it and add their own sweep/Inconsistencies.
type baseResource struct {
	s            *Solver
	scope        string
	startArg     string
	endArg       string
	resourceArg  string // name of the Enum-typed instance parameter, if any
	atoms        []*Atom
	leqs         map[orderPair]orderLits
	frbs         map[int]map[ObjValue]Lit // atom id -> value -> ov.allows lit
	seen         map[string]bool
}

func newBaseResource(s *Solver, scope, startArg, endArg, resourceArg string) baseResource {
	return baseResource{
		s: s, scope: scope, startArg: startArg, endArg: endArg, resourceArg: resourceArg,
		leqs: make(map[orderPair]orderLits),
		frbs: make(map[int]map[ObjValue]Lit),
		seen: make(map[string]bool),
	}
}

func (b *baseResource) Scope() string { return b.scope }

// onNewAtom installs ordering and forbidding literals against every
// atom already observed (spec §4.6 steps 2-3), then records a.
func (b *baseResource) onNewAtom(a *Atom) {
	startIt, endIt := a.Arg(b.startArg), a.Arg(b.endArg)
	for _, other := range b.atoms {
		if startIt == nil || endIt == nil {
			break
		}
		oStart, oEnd := other.Arg(b.startArg), other.Arg(b.endArg)
		if oStart == nil || oEnd == nil {
			continue
		}
		before := b.s.Leq(endIt, oStart).BoolLit
		after := b.s.Leq(oEnd, startIt).BoolLit
		b.s.sat.NewClause([]Lit{before.Not(), after.Not()})
		b.leqs[newOrderPair(a, other)] = orderLits{before: before, after: after}
	}

	if b.resourceArg != "" {
		if ri := a.Arg(b.resourceArg); ri != nil && ri.Kind == KindEnum {
			vals := b.s.ov.Domain(ri.EnumVar)
			m := make(map[ObjValue]Lit, len(vals))
			for _, v := range vals {
				m[v] = b.s.ov.Allows(ri.EnumVar, v)
			}
			b.frbs[a.ID] = m
		}
	}

	b.atoms = append(b.atoms, a)
}

// activeAtoms returns the atoms still possibly occupying the resource
// (sigma not unified away).
func (b *baseResource) activeAtoms() []*Atom {
	out := make([]*Atom, 0, len(b.atoms))
	for _, a := range b.atoms {
		if b.s.sat.Value(Lit{Var: a.Sigma}) != LFalse {
			out = append(out, a)
		}
	}
	return out
}

// orderingChoices returns the order/forbid resolvers available between
// every pair in atoms: each stored leqs literal that is not False, and,
// for each atom with an Enum resource parameter, the negation of each
// stored frbs literal that is not False.
func (b *baseResource) orderingChoices(atoms []*Atom, cost Rational) []ResourceChoice {
	var out []ResourceChoice
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			ol, ok := b.leqs[newOrderPair(atoms[i], atoms[j])]
			if !ok {
				continue
			}
			if b.s.sat.Value(ol.before) != LFalse {
				out = append(out, ResourceChoice{Kind: KindOrderResolver, Lit: ol.before, Cost: cost})
			}
			if b.s.sat.Value(ol.after) != LFalse {
				out = append(out, ResourceChoice{Kind: KindOrderResolver, Lit: ol.after, Cost: cost})
			}
		}
		if m, ok := b.frbs[atoms[i].ID]; ok {
			for _, lit := range m {
				if b.s.sat.Value(lit) != LFalse {
					out = append(out, ResourceChoice{Kind: KindForbidResolver, Lit: lit.Not(), Cost: cost})
				}
			}
		}
	}
	return out
}

// StateVariable is the smart type for mutually-exclusive Interval usages
// of a single-slot resource (spec §4.6): any overlap of >= 2 atoms is a
// conflict, reported once per 2-subset.
type StateVariable struct {
	baseResource
}

// NewStateVariable constructs a state_variable smart type observing atoms
// declared under scope, whose predicate carries startArg/endArg time
// parameters.
func NewStateVariable(s *Solver, scope, startArg, endArg string) *StateVariable {
	return &StateVariable{baseResource: newBaseResource(s, scope, startArg, endArg, "")}
}

func (sv *StateVariable) OnNewAtom(a *Atom) { sv.onNewAtom(a) }

// Inconsistencies sweeps the current timeline and reports one sv_flaw for
// each 2-subset of every not-yet-seen overlapping set (spec §4.6: "any
// overlap of >= 2 atoms produces, for each 2-subset, an sv_flaw"). The
// seen check is per overlapping set, not per pair.
func (sv *StateVariable) Inconsistencies() []ResourceInconsistency {
	pulses := timeline(sv.s, sv.activeAtoms(), sv.startArg, sv.endArg, "")
	groups := overlapSets(pulses, 2, sv.seen)
	var out []ResourceInconsistency
	for _, g := range groups {
		for _, pr := range pairs(g) {
			pairAtoms := []*Atom{pr[0], pr[1]}
			out = append(out, ResourceInconsistency{
				Kind:    ResourceStateVariable,
				Atoms:   pairAtoms,
				Choices: sv.orderingChoices(pairAtoms, Half),
			})
		}
	}
	return out
}
