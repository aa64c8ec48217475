package oratio

// DisjFlawData carries disj_flaw's kind-specific state: the candidate
// literals, and whether resolvers are mutually exclusive.
type DisjFlawData struct {
	Lits      []Lit
	Exclusive bool
}

func init() {
	computeResolversFns[KindDisjFlaw] = computeDisjFlawResolvers
	applyFns[KindChooseLit] = applyChooseLit
}

// NewDisjFlaw creates a disj_flaw over lits: one choose_lit resolver per
// literal whose SAT value is not already False, intrinsic cost
// 1/|lits| each (spec §4.2).
func NewDisjFlaw(g *Graph, lits []Lit, exclusive bool, causes []ResolverID) *Flaw {
	return &Flaw{
		Phi:       Lit{Var: g.solver.sat.NewVar()},
		Position:  g.solver.rdl.NewVar(),
		Causes:    causes,
		Kind:      KindDisjFlaw,
		Exclusive: exclusive,
		Data:      &DisjFlawData{Lits: lits, Exclusive: exclusive},
	}
}

func computeDisjFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*DisjFlawData)
	sat := g.solver.sat
	cost := One.Div(NewRational(int64(len(data.Lits)), 1))
	for _, l := range data.Lits {
		if sat.Value(l) == LFalse {
			continue
		}
		g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindChooseLit, Rho: Lit{Var: sat.NewVar()}, IntrinsicCost: cost, Data: &ChooseLitData{Value: l}})
	}
	return nil
}

// applyChooseLit posts the chosen literal as true for disj_flaw's
// choose_lit resolvers.
func applyChooseLit(g *Graph, f *Flaw, r *Resolver) error {
	data := r.Data.(*ChooseLitData)
	if !g.solver.sat.NewClause([]Lit{r.Rho.Not(), data.Value}) {
		return ErrUnsolvable
	}
	return nil
}
