package oratio

// SolverListener receives the high-level event stream spec §6 describes
// for visualization/logging purposes: flaw and resolver lifecycle events,
// cost and position changes, the currently-chosen flaw/resolver, causal
// links, and graph snapshots. All methods are optional to act on; embed
// NopSolverListener to implement only the ones you need.
type SolverListener interface {
	FlawCreated(id FlawID)
	ActivatedFlaw(id FlawID)
	NegatedFlaw(id FlawID)
	FlawCostChanged(id FlawID)
	FlawPositionChanged(id FlawID)
	CurrentFlaw(id FlawID)

	ResolverCreated(id ResolverID)
	ActivatedResolver(id ResolverID)
	NegatedResolver(id ResolverID)
	CurrentResolver(id ResolverID)

	CausalLinkAdded(link CausalLink)
	GraphChanged()
}

// NopSolverListener implements SolverListener with no-ops, so callers can
// embed it and override only the events they care about.
type NopSolverListener struct{}

func (NopSolverListener) FlawCreated(FlawID)             {}
func (NopSolverListener) ActivatedFlaw(FlawID)            {}
func (NopSolverListener) NegatedFlaw(FlawID)              {}
func (NopSolverListener) FlawCostChanged(FlawID)          {}
func (NopSolverListener) FlawPositionChanged(FlawID)      {}
func (NopSolverListener) CurrentFlaw(FlawID)              {}
func (NopSolverListener) ResolverCreated(ResolverID)      {}
func (NopSolverListener) ActivatedResolver(ResolverID)    {}
func (NopSolverListener) NegatedResolver(ResolverID)      {}
func (NopSolverListener) CurrentResolver(ResolverID)      {}
func (NopSolverListener) CausalLinkAdded(CausalLink)      {}
func (NopSolverListener) GraphChanged()                   {}
