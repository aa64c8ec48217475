package oratio

// AtomFlawData carries atom_flaw's kind-specific state (spec §4.2):
// the atom this flaw justifies, and whether it was declared as a fact.
type AtomFlawData struct {
	Atom   *Atom
	IsFact bool
}

// UnifyAtomData carries a unify_atom resolver's kind-specific state: the
// two atoms being unified and the literals whose conjunction constitutes
// the unification (their Σ-compatibility plus the equality literal).
type UnifyAtomData struct {
	Atom, Target *Atom
	UnifLits     []Lit
}

// ActivateData carries an activate_fact/activate_goal resolver's target
// atom.
type ActivateData struct {
	Atom *Atom
}

func init() {
	computeResolversFns[KindAtomFlaw] = computeAtomFlawResolvers
	applyFns[KindActivateFact] = applyActivate
	applyFns[KindActivateGoal] = applyActivate
	applyFns[KindUnifyAtom] = applyUnifyAtom
}

// newAtomFlaw constructs the atom_flaw that justifies a newly created
// atom (spec §3: "every atom is introduced together with exactly one
// atom_flaw"), grounded on atom_flaw::atom_flaw in
// original_source/src/atom_flaw.cpp.
func newAtomFlaw(g *Graph, a *Atom, isFact bool, causes []ResolverID) *Flaw {
	return &Flaw{
		Phi:       Lit{Var: g.solver.sat.NewVar()},
		Position:  g.solver.rdl.NewVar(),
		Causes:    causes,
		Kind:      KindAtomFlaw,
		Exclusive: true,
		Data:      &AtomFlawData{Atom: a, IsFact: isFact},
	}
}

// computeAtomFlawResolvers discovers every way to close an atom_flaw: a
// unify_atom resolver for each compatible, already-expanded atom of the
// same type (excluding causal-cycle-introducing or already-unified
// targets), plus one activate_fact or activate_goal resolver (grounded on
// atom_flaw::compute_resolvers).
func computeAtomFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*AtomFlawData)
	atm := data.Atom
	s := g.solver

	if s.sat.Value(Lit{Var: atm.Sigma}) == LUndefined {
		for _, other := range s.atoms {
			if other == atm || other.Predicate != atm.Predicate {
				continue
			}
			tFlaw := other.Reason
			if tFlaw == nil || !tFlaw.Expanded {
				continue
			}
			if lb, _ := s.rdl.Distance(f.Position, tFlaw.Position); lb.Compare(Zero) > 0 {
				continue // would introduce a causal cycle
			}
			if s.sat.Value(Lit{Var: other.Sigma}) == LFalse {
				continue // already unified with something else
			}
			if !s.MatchesAtomArgs(atm, other) {
				continue
			}

			eq := s.eqAtoms(atm, other)
			if s.sat.Value(eq) == LFalse {
				continue
			}

			unifLits := []Lit{{Var: atm.Sigma, Negated: true}, {Var: other.Sigma}, eq}
			r := &Resolver{
				Flaw:          f.Self,
				Kind:          KindUnifyAtom,
				Rho:           Lit{Var: s.sat.NewVar()},
				IntrinsicCost: One,
				Data:          &UnifyAtomData{Atom: atm, Target: other, UnifLits: unifLits},
			}
			rid := g.NewResolver(r)
			if err := g.AddCausalLink(tFlaw.Self, rid); err != nil {
				return err
			}
		}
	}

	// ρ is φ itself only when no unify_atom resolver was created above; once
	// unification candidates exist, activation needs its own fresh literal
	// so exclusivity between activation and each unification is expressible
	// (spec §4.2 step 2: "ρ = φ iff resolvers are empty before adding").
	rho := f.Phi
	if len(f.Resolvers) > 0 {
		rho = Lit{Var: s.sat.NewVar()}
	}
	if data.IsFact {
		g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindActivateFact, Rho: rho, IntrinsicCost: Zero, Data: &ActivateData{Atom: atm}})
	} else {
		g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindActivateGoal, Rho: rho, IntrinsicCost: One, Data: &ActivateData{Atom: atm}})
	}
	return nil
}

// applyActivate posts sigma == true for the target atom (shared apply
// body for activate_fact/activate_goal, grounded on
// atom_flaw::activate_fact::apply / activate_goal::apply).
func applyActivate(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*ActivateData)
	if !g.solver.sat.NewClause([]Lit{r.Rho.Not(), {Var: data.Atom.Sigma}}) {
		return ErrUnsolvable
	}
	return nil
}

// applyUnifyAtom disables the unification unless the target atom can
// still be activated, and otherwise commits to the unification literals
// (grounded on atom_flaw::unify_atom::apply).
func applyUnifyAtom(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*UnifyAtomData)
	s := g.solver
	tFlaw := data.Target.Reason
	for _, rid := range tFlaw.Resolvers {
		tr := g.Resolver(rid)
		if tr.Kind == KindActivateFact || tr.Kind == KindActivateGoal {
			if !s.sat.NewClause([]Lit{tr.Rho, r.Rho.Not()}) {
				return ErrUnsolvable
			}
		}
	}
	for _, v := range data.UnifLits {
		if !s.sat.NewClause([]Lit{r.Rho.Not(), v}) {
			return ErrUnsolvable
		}
	}
	return nil
}

// eqAtoms builds the equality literal between two like-predicate atoms:
// the conjunction of their pairwise argument equalities (spec's
// supplemented general-Matches feature, filling the gap left by
// solver::eq's "Not implemented yet" stub in the reference source).
func (s *Solver) eqAtoms(a, b *Atom) Lit {
	var eqs []*Item
	for name, av := range a.Args {
		bv := b.Args[name]
		eqs = append(eqs, s.Eq(av, bv))
	}
	if len(eqs) == 0 {
		return TrueLit
	}
	return s.Conj(eqs...).BoolLit
}
