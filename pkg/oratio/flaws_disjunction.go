package oratio

// Conjunction is one disjunct of a disjunction_flaw: a sequence of facts
// to assert if this branch is chosen, plus the cost of taking it.
type Conjunction struct {
	Facts []*Item
	Cost  Rational
}

// DisjunctionFlawData carries disjunction_flaw's kind-specific state: its
// candidate conjunction branches.
type DisjunctionFlawData struct {
	Phi       Lit
	Disjuncts [][]*Item
}

// ChooseConjunctionData carries a disjunction_flaw's choose_conjunction
// resolver: which branch it commits to executing.
type ChooseConjunctionData struct {
	Facts []*Item
}

func init() {
	computeResolversFns[KindDisjunctionFlaw] = computeDisjunctionFlawResolvers
	applyFns[KindChooseConjunction] = applyChooseConjunction
}

// newDisjunctionFlaw creates a disjunction_flaw over a set of mutually
// exclusive conjunctions: one choose_conjunction resolver per branch, all
// with the same intrinsic cost 1/n for n branches (a branch carries no
// cost of its own, so branch costs are not taken into account), apply()
// asserting its facts under rho (spec §4.2; Solver.NewDisjunction fills
// in solver::new_disjunction, left as a stub in
// original_source/src/solver.cpp).
func newDisjunctionFlaw(g *Graph, phi Lit, disjuncts [][]*Item) *Flaw {
	return &Flaw{
		Phi:       phi,
		Position:  g.solver.rdl.NewVar(),
		Kind:      KindDisjunctionFlaw,
		Exclusive: true,
		Data:      &DisjunctionFlawData{Phi: phi, Disjuncts: disjuncts},
	}
}

func computeDisjunctionFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*DisjunctionFlawData)
	sat := g.solver.sat
	cost := One
	if n := len(data.Disjuncts); n > 0 {
		cost = One.Div(NewRational(int64(n), 1))
	}
	for _, branch := range data.Disjuncts {
		g.NewResolver(&Resolver{
			Flaw:          f.Self,
			Kind:          KindChooseConjunction,
			Rho:           Lit{Var: sat.NewVar()},
			IntrinsicCost: cost,
			Data:          &ChooseConjunctionData{Facts: branch},
		})
	}
	return nil
}

// applyChooseConjunction asserts every fact of the chosen branch, scoped
// under rho (spec: "apply() executes the branch").
func applyChooseConjunction(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*ChooseConjunctionData)
	s := g.solver
	for _, fact := range data.Facts {
		if !s.sat.NewClause([]Lit{r.Rho.Not(), fact.BoolLit}) {
			return ErrUnsolvable
		}
	}
	return nil
}
