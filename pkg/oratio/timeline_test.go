package oratio

import "testing"

func newActiveIntervalAtom(s *Solver, scope, predicate string, start, end int64) *Atom {
	a := newIntervalAtom(s, scope, predicate, start, end)
	s.sat.NewClause([]Lit{{Var: a.Sigma}})
	return a
}

func newActiveReusableAtom(s *Solver, scope, predicate string, start, end, amount int64) *Atom {
	a := newReusableAtom(s, scope, predicate, start, end, amount)
	s.sat.NewClause([]Lit{{Var: a.Sigma}})
	return a
}

func TestStateVariableTimeline_TracksOccupancyAcrossPulses(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")

	a := newActiveIntervalAtom(s, "table", "on", 0, 10)
	b := newActiveIntervalAtom(s, "table", "on", 10, 20)

	views := s.StateVariableTimeline(sv)
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1 instance", len(views))
	}
	tv := views[0]
	if tv.Type != "state_variable" {
		t.Fatalf("Type = %q, want state_variable", tv.Type)
	}
	// pulses at 0, 10, 20: at time 0 only a; at time 10 a has just ended
	// (end <= pulse drops it) and b starts; at 20 b ends.
	if len(tv.Values) != 3 {
		t.Fatalf("Values = %d, want 3 pulses, got %+v", len(tv.Values), tv.Values)
	}
	if len(tv.Values[0].Atoms) != 1 || tv.Values[0].Atoms[0] != a.ID {
		t.Fatalf("pulse 0 atoms = %v, want [%d]", tv.Values[0].Atoms, a.ID)
	}
	if len(tv.Values[1].Atoms) != 1 || tv.Values[1].Atoms[0] != b.ID {
		t.Fatalf("pulse 1 atoms = %v, want [%d] (a should have ended)", tv.Values[1].Atoms, b.ID)
	}
}

func TestReusableResourceTimeline_TracksOccupiedAmount(t *testing.T) {
	s := newTestSolver()
	rr := NewReusableResource(s, "crane", "start", "end", "amount", r(5))

	newActiveReusableAtom(s, "crane", "lift", 0, 10, 3)
	newActiveReusableAtom(s, "crane", "lift", 5, 15, 2)

	views := s.ReusableResourceTimeline(rr)
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	tv := views[0]
	if tv.Extra["capacity"] != "5" {
		t.Fatalf("Extra[capacity] = %v, want 5", tv.Extra["capacity"])
	}
	// at pulse 5, both atoms active: occupied should be 3+2=5
	var sawFive bool
	for _, v := range tv.Values {
		if v.Time == "5" {
			if v.Amount == nil || *v.Amount != "5" {
				t.Fatalf("occupied at t=5 = %v, want 5", v.Amount)
			}
			sawFive = true
		}
	}
	if !sawFive {
		t.Fatalf("no pulse recorded at t=5: %+v", tv.Values)
	}
}

func TestConsumableResourceTimeline_TracksRunningLevel(t *testing.T) {
	s := newTestSolver()
	cr := NewConsumableResource(s, "tank", "start", "end", "amount", r(10))

	newActiveReusableAtom(s, "tank", "fill", 0, 5, 4)
	newActiveReusableAtom(s, "tank", "drain", 5, 10, -1)

	views := s.ConsumableResourceTimeline(cr)
	tv := views[0]
	var last string
	for _, v := range tv.Values {
		if v.Amount != nil {
			last = *v.Amount
		}
	}
	if last != "3" {
		t.Fatalf("final level = %s, want 3 (4 - 1)", last)
	}
}

func TestAgentTimeline_SortsByStartOrImpulseTime(t *testing.T) {
	s := newTestSolver()
	ag := NewAgent(s, "robot", "start", "end")

	newActiveIntervalAtom(s, "robot", "do", 10, 20)
	newActiveIntervalAtom(s, "robot", "ping", 3, 3) // impulse

	views := s.AgentTimeline(ag)
	tv := views[0]
	if len(tv.Values) != 2 {
		t.Fatalf("Values = %d, want 2", len(tv.Values))
	}
	if tv.Values[0].Time != "3" {
		t.Fatalf("first scheduled time = %s, want 3 (impulse first)", tv.Values[0].Time)
	}
}

func TestSolverTimelines_DispatchesOverRegisteredSmartTypes(t *testing.T) {
	s := newTestSolver()
	sv := NewStateVariable(s, "table", "start", "end")
	ag := NewAgent(s, "robot", "start", "end")
	s.RegisterSmartType(sv)
	s.RegisterSmartType(ag)

	newActiveIntervalAtom(s, "table", "on", 0, 10)
	newActiveIntervalAtom(s, "robot", "do", 0, 10)

	st := s.Timelines()
	if st.Name != "test" {
		t.Fatalf("Name = %q, want test", st.Name)
	}
	if len(st.Timelines) != 2 {
		t.Fatalf("Timelines = %d, want 2 (one per registered smart type)", len(st.Timelines))
	}
}
