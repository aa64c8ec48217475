package oratio

// EnumFlawData carries enum_flaw's kind-specific state: the object
// variable this flaw must pin down to a single domain value.
type EnumFlawData struct {
	Var Var
}

// ChooseValueData carries an enum_flaw's choose_value resolver: which
// domain value it commits to.
type ChooseValueData struct {
	Value ObjValue
}

func init() {
	computeResolversFns[KindEnumFlaw] = computeEnumFlawResolvers
}

// NewEnumFlaw creates an enum_flaw over v: one choose_value resolver per
// domain value, activity literal ov.Allows(v, value), intrinsic cost
// 1/|domain| (spec §4.2).
func NewEnumFlaw(g *Graph, v Var, causes []ResolverID) *Flaw {
	return &Flaw{
		Phi:       Lit{Var: g.solver.sat.NewVar()},
		Position:  g.solver.rdl.NewVar(),
		Causes:    causes,
		Kind:      KindEnumFlaw,
		Exclusive: true,
		Data:      &EnumFlawData{Var: v},
	}
}

func computeEnumFlawResolvers(g *Graph, f *Flaw) error {
	data := f.Data.(*EnumFlawData)
	s := g.solver
	domain := s.ov.Domain(data.Var)
	if len(domain) == 0 {
		return nil
	}
	cost := One.Div(NewRational(int64(len(domain)), 1))
	for _, v := range domain {
		rho := s.ov.Allows(data.Var, v)
		g.NewResolver(&Resolver{Flaw: f.Self, Kind: KindChooseValue, Rho: rho, IntrinsicCost: cost, Data: &ChooseValueData{Value: v}})
	}
	return nil
}

