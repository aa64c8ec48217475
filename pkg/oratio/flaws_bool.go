package oratio

// BoolFlawData carries bool_flaw's kind-specific state: the Boolean
// variable this flaw must decide.
type BoolFlawData struct {
	Lit Lit
}

// ChooseLitData carries a choose_value resolver for a bool_flaw: which
// literal it commits to.
type ChooseLitData struct {
	Value Lit
}

func init() {
	computeResolversFns[KindBoolFlaw] = computeBoolFlawResolvers
	applyFns[KindChooseValue] = applyChooseValue
}

// NewBoolFlaw creates a bool_flaw over b: one or two choose_value
// resolvers at cost 1/2 each for b and ¬b (spec §4.2). If the SAT core
// has already decided b, only the compatible resolver is added, at cost 0.
func NewBoolFlaw(g *Graph, b Lit, causes []ResolverID) *Flaw {
	return &Flaw{
		Phi:       Lit{Var: g.solver.sat.NewVar()},
		Position:  g.solver.rdl.NewVar(),
		Causes:    causes,
		Kind:      KindBoolFlaw,
		Exclusive: true,
		Data:      &BoolFlawData{Lit: b},
	}
}

func computeBoolFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*BoolFlawData)
	sat := g.solver.sat

	cur := sat.Value(data.Lit)
	addChoice := func(v Lit, cost Rational) {
		g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindChooseValue, Rho: Lit{Var: sat.NewVar()}, IntrinsicCost: cost, Data: &ChooseLitData{Value: v}})
	}

	switch cur {
	case LTrue:
		addChoice(data.Lit, Zero)
	case LFalse:
		addChoice(data.Lit.Not(), Zero)
	default:
		addChoice(data.Lit, Half)
		addChoice(data.Lit.Not(), Half)
	}
	return nil
}

// applyChooseValue handles the shared KindChooseValue resolver kind:
// bool_flaw's resolvers unit-post a literal, enum_flaw's resolvers assign
// an object-variable value (spec §4.2 names both "choose_value"; they are
// told apart here by their Data's concrete type).
func applyChooseValue(g *Graph, f *Flaw, r *Resolver) error {
	switch data := r.Data.(type) {
	case *ChooseLitData:
		if !g.solver.sat.NewClause([]Lit{r.Rho.Not(), data.Value}) {
			return ErrUnsolvable
		}
		return nil
	case *ChooseValueData:
		ef := f.Data.(*EnumFlawData)
		if !g.solver.ov.Assign(ef.Var, data.Value) {
			return ErrUnsolvable
		}
		return nil
	default:
		return nil
	}
}
