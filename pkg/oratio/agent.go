package oratio

// Agent is the smart type for a component that executes one task at a
// time (spec §4.6; grounded on original_source/include/types/agent.h and
// src/types/agent.cpp). It reuses state_variable's single-slot overlap
// detection: an agent cannot execute two tasks whose intervals overlap.
// Impulse atoms (spec's supplemented start==end feature) are handled
// automatically since timeline reads start/end independently — an
// impulse's zero-width interval only conflicts with another atom that
// truly contains that instant.
type Agent struct {
	StateVariable
}

// NewAgent constructs an agent smart type observing atoms declared under
// scope, whose predicate carries startArg/endArg time parameters (set
// startArg == endArg for a purely impulse-based agent).
func NewAgent(s *Solver, scope, startArg, endArg string) *Agent {
	return &Agent{StateVariable: *NewStateVariable(s, scope, startArg, endArg)}
}

// IsImpulse reports whether the lower bounds of a's start and end
// arguments are equal (spec's supplemented impulse-predicate feature: an
// atom whose start == end occupies the resource for a single instant
// rather than an interval). The upper bounds are not compared.
func (a *Agent) IsImpulse(atm *Atom) bool {
	st, en := atm.Arg(a.startArg), atm.Arg(a.endArg)
	if st == nil || en == nil {
		return false
	}
	slb, _ := a.s.arithBounds(st)
	elb, _ := a.s.arithBounds(en)
	return slb.Equal(elb)
}
