package oratio

// ResolverKind discriminates the concrete resolver variants (spec §4.2/§4.6).
type ResolverKind int

const (
	KindChooseValue ResolverKind = iota
	KindChooseLit
	KindChooseConjunction
	KindUnifyAtom
	KindActivateFact
	KindActivateGoal
	KindOrderResolver
	KindForbidResolver
	KindPlaceResolver
)

func (k ResolverKind) String() string {
	switch k {
	case KindChooseValue:
		return "choose_value"
	case KindChooseLit:
		return "choose_lit"
	case KindChooseConjunction:
		return "choose_conjunction"
	case KindUnifyAtom:
		return "unify_atom"
	case KindActivateFact:
		return "activate_fact"
	case KindActivateGoal:
		return "activate_goal"
	case KindOrderResolver:
		return "order_resolver"
	case KindForbidResolver:
		return "forbid_resolver"
	case KindPlaceResolver:
		return "place_resolver"
	default:
		return "unknown_resolver"
	}
}

// Resolver is one candidate way to close a flaw (spec §3/§4.1).
type Resolver struct {
	Self ResolverID
	Kind ResolverKind

	// Flaw is the owning flaw's arena index.
	Flaw FlawID
	// Rho is this resolver's activity literal: True iff it is applied.
	Rho Lit
	// IntrinsicCost is this resolver's own cost, excluding preconditions.
	IntrinsicCost Rational
	// Preconditions are the subflaws introduced by Apply.
	Preconditions []FlawID

	// Data holds kind-specific fields (e.g. *UnifyAtomData).
	Data interface{}
}
