package oratio

import "testing"

func newIntervalAtom(s *Solver, scope, predicate string, start, end int64) *Atom {
	return s.NewAtom(true, predicate, map[string]*Item{
		"start": s.NewIntValue(start),
		"end":   s.NewIntValue(end),
	}, scope)
}

func TestStateVariable_OverlappingAtomsProduceSVFlaw(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	s.RegisterSmartType(sv)

	newIntervalAtom(s, "table", "on", 0, 10)
	newIntervalAtom(s, "table", "on", 5, 15)

	incs := sv.Inconsistencies()
	if len(incs) != 1 {
		t.Fatalf("Inconsistencies() = %d, want 1", len(incs))
	}
	if incs[0].Kind != ResourceStateVariable {
		t.Fatalf("Kind = %v, want ResourceStateVariable", incs[0].Kind)
	}
	if len(incs[0].Atoms) != 2 {
		t.Fatalf("conflict set size = %d, want 2", len(incs[0].Atoms))
	}
}

func TestStateVariable_NonOverlappingAtomsProduceNoFlaw(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	s.RegisterSmartType(sv)

	newIntervalAtom(s, "table", "on", 0, 5)
	newIntervalAtom(s, "table", "on", 5, 10)

	if got := sv.Inconsistencies(); len(got) != 0 {
		t.Fatalf("Inconsistencies() = %v, want none for back-to-back intervals", got)
	}
}

func TestStateVariable_RepeatedSweepDoesNotRepeatFlaws(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	s.RegisterSmartType(sv)

	newIntervalAtom(s, "table", "on", 0, 10)
	newIntervalAtom(s, "table", "on", 5, 15)

	first := sv.Inconsistencies()
	second := sv.Inconsistencies()
	if len(first) != 1 {
		t.Fatalf("first sweep = %d, want 1", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("second sweep should report nothing new, got %v", second)
	}
}

func TestStateVariable_UnifiedAwayAtomIsIgnored(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	s.RegisterSmartType(sv)

	a := newIntervalAtom(s, "table", "on", 0, 10)
	newIntervalAtom(s, "table", "on", 5, 15)

	s.sat.NewClause([]Lit{{Var: a.Sigma, Negated: true}}) // force sigma false: unified away

	if got := sv.Inconsistencies(); len(got) != 0 {
		t.Fatalf("a unified-away atom should not occupy the resource, got %v", got)
	}
}

func TestCollectInconsistencies_TurnsOneIntoAResourceFlaw(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	s.RegisterSmartType(sv)

	newIntervalAtom(s, "table", "on", 0, 10)
	newIntervalAtom(s, "table", "on", 5, 15)

	before := len(s.graph.flaws)
	s.graph.collectInconsistencies()
	if len(s.graph.flaws) != before+1 {
		t.Fatalf("flaws = %d, want %d (one resource_flaw added)", len(s.graph.flaws), before+1)
	}
	last := s.graph.flaws[len(s.graph.flaws)-1]
	if last.Kind != KindResourceFlaw {
		t.Fatalf("new flaw kind = %v, want resource_flaw", last.Kind)
	}
}

func newReusableAtom(s *Solver, scope, predicate string, start, end, amount int64) *Atom {
	return s.NewAtom(true, predicate, map[string]*Item{
		"start":  s.NewIntValue(start),
		"end":    s.NewIntValue(end),
		"amount": s.NewIntValue(amount),
	}, scope)
}

func TestReusableResource_OverCapacityProducesRRFlaw(t *testing.T) {
	s := newTestSolver()
	rr := NewReusableResource(s, "crane", "start", "end", "amount", r(4))
	s.RegisterSmartType(rr)

	newReusableAtom(s, "crane", "lift", 0, 10, 3)
	newReusableAtom(s, "crane", "lift", 5, 15, 3)

	incs := rr.Inconsistencies()
	if len(incs) != 1 {
		t.Fatalf("Inconsistencies() = %d, want 1", len(incs))
	}
	if incs[0].Kind != ResourceReusable {
		t.Fatalf("Kind = %v, want ResourceReusable", incs[0].Kind)
	}
}

func TestReusableResource_WithinCapacityProducesNoFlaw(t *testing.T) {
	s := newTestSolver()
	rr := NewReusableResource(s, "crane", "start", "end", "amount", r(10))
	s.RegisterSmartType(rr)

	newReusableAtom(s, "crane", "lift", 0, 10, 3)
	newReusableAtom(s, "crane", "lift", 5, 15, 3)

	if got := rr.Inconsistencies(); len(got) != 0 {
		t.Fatalf("Inconsistencies() = %v, want none (6 <= 10)", got)
	}
}

func TestConsumableResource_NegativeAmountDrainsBelowZero(t *testing.T) {
	s := newTestSolver()
	cr := NewConsumableResource(s, "tank", "start", "end", "amount", r(10))
	s.RegisterSmartType(cr)

	newReusableAtom(s, "tank", "drain", 0, 5, -12)

	incs := cr.Inconsistencies()
	if len(incs) != 1 {
		t.Fatalf("Inconsistencies() = %d, want 1", len(incs))
	}
	if incs[0].Kind != ResourceConsumable {
		t.Fatalf("Kind = %v, want ResourceConsumable", incs[0].Kind)
	}
}

func TestConsumableResource_WithinBoundsProducesNoFlaw(t *testing.T) {
	s := newTestSolver()
	cr := NewConsumableResource(s, "tank", "start", "end", "amount", r(10))
	s.RegisterSmartType(cr)

	newReusableAtom(s, "tank", "fill", 0, 5, 4)
	newReusableAtom(s, "tank", "drain", 5, 10, -2)

	if got := cr.Inconsistencies(); len(got) != 0 {
		t.Fatalf("Inconsistencies() = %v, want none", got)
	}
}

func TestAgent_OverlappingTasksConflict(t *testing.T) {
	s := newTestSolver()
	ag := NewAgent(s, "robot", "start", "end")
	s.RegisterSmartType(ag)

	newIntervalAtom(s, "robot", "do", 0, 10)
	newIntervalAtom(s, "robot", "do", 5, 15)

	if got := ag.Inconsistencies(); len(got) != 1 {
		t.Fatalf("Inconsistencies() = %d, want 1", len(got))
	}
}

func TestAgent_IsImpulse(t *testing.T) {
	s := newTestSolver()
	ag := NewAgent(s, "robot", "start", "end")

	impulse := newIntervalAtom(s, "robot", "ping", 3, 3)
	interval := newIntervalAtom(s, "robot", "do", 0, 10)

	if !ag.IsImpulse(impulse) {
		t.Fatalf("an atom with start == end should be an impulse")
	}
	if ag.IsImpulse(interval) {
		t.Fatalf("an atom with start != end should not be an impulse")
	}
}
