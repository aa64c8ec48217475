package oratio

import "testing"

// These exercise a single Check/TakeDecision step directly rather than
// driving Solve to completion, so each test observes the state right
// after one decision.
func TestTakeDecision_DecidesAnUndecidedBoolFlaw(t *testing.T) {
	s := newTestSolver()
	g := s.Graph()

	b := s.NewBool()
	f := NewBoolFlaw(g, b.BoolLit, nil)
	s.sat.NewClause([]Lit{f.Phi}) // force the flaw active, else nothing demands it
	g.NewFlaw(f, true)

	if err := g.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := s.TakeDecision(); err != nil {
		t.Fatalf("TakeDecision: %v", err)
	}
	if s.sat.Value(b.BoolLit) == LUndefined {
		t.Fatalf("TakeDecision should have decided b one way or the other")
	}
}

func TestTakeDecision_ActivatesAFact(t *testing.T) {
	s := newTestSolver()
	a := s.NewAtom(true, "on", map[string]*Item{"block": s.NewStringValue("a")}, "")

	f := a.Reason
	s.sat.NewClause([]Lit{f.Phi}) // force the atom_flaw active, else nothing demands it

	if err := s.graph.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := s.TakeDecision(); err != nil {
		t.Fatalf("TakeDecision: %v", err)
	}
	if s.sat.Value(Lit{Var: a.Sigma}) != LTrue {
		t.Fatalf("fact atom should end up active (sigma true)")
	}
}

func TestTakeDecision_DisjunctionPicksOneBranch(t *testing.T) {
	s := newTestSolver()
	x, y := s.NewBool(), s.NewBool()
	phi := s.NewDisjunction([][]*Item{{x}, {y}})
	s.sat.NewClause([]Lit{phi.BoolLit}) // force the disjunction active

	if err := s.graph.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := s.TakeDecision(); err != nil {
		t.Fatalf("TakeDecision: %v", err)
	}
	s.sat.Propagate()
	xTrue := s.sat.Value(x.BoolLit) == LTrue
	yTrue := s.sat.Value(y.BoolLit) == LTrue
	if xTrue == yTrue {
		t.Fatalf("exactly one branch should be asserted, got x=%v y=%v", xTrue, yTrue)
	}
}

func TestPushPop_UndoesSATAssignment(t *testing.T) {
	s := newTestSolver()
	lit := Lit{Var: s.sat.NewVar()}

	s.Push()
	s.sat.Assume(lit)
	if s.sat.Value(lit) != LTrue {
		t.Fatalf("lit should be assumed true")
	}
	s.Pop()
	if s.sat.Value(lit) != LUndefined {
		t.Fatalf("lit should be undone after Pop, got %v", s.sat.Value(lit))
	}
	if s.DecisionLevel() != 0 {
		t.Fatalf("DecisionLevel after Pop = %d, want 0", s.DecisionLevel())
	}
}

func TestAtRootLevel(t *testing.T) {
	s := newTestSolver()
	if !s.AtRootLevel() {
		t.Fatalf("a fresh solver should be at root level")
	}
	s.Push()
	if s.AtRootLevel() {
		t.Fatalf("after Push, solver should not be at root level")
	}
	s.Pop()
	if !s.AtRootLevel() {
		t.Fatalf("after matching Pop, solver should be back at root level")
	}
}

func TestNiStack_PushPopCurrentNi(t *testing.T) {
	s := newTestSolver()
	if s.CurrentNi() != TrueLit {
		t.Fatalf("CurrentNi with empty stack should be TrueLit")
	}
	lit := Lit{Var: s.sat.NewVar()}
	s.PushNi(lit)
	if s.CurrentNi() != lit {
		t.Fatalf("CurrentNi after PushNi = %v, want %v", s.CurrentNi(), lit)
	}
	s.PopNi()
	if s.CurrentNi() != TrueLit {
		t.Fatalf("CurrentNi after PopNi should revert to TrueLit")
	}
}

func TestAssertFact_ScopesUnderCurrentNi(t *testing.T) {
	s := newTestSolver()
	fact := s.NewBool()
	if err := s.AssertFact(fact); err != nil {
		t.Fatalf("AssertFact: %v", err)
	}
	s.sat.Propagate()
	if s.sat.Value(fact.BoolLit) != LTrue {
		t.Fatalf("asserted fact should be forced true at root ni scope")
	}
}

func TestEq_ArithBuildsConjunctionOfOrderings(t *testing.T) {
	s := newTestSolver()
	x := s.NewIntValue(5)
	y := s.NewIntValue(5)
	eq := s.Eq(x, y)
	if s.sat.Value(eq.BoolLit) != LTrue {
		t.Fatalf("Eq of two equal constants should be forced true, got %v", s.sat.Value(eq.BoolLit))
	}

	z := s.NewIntValue(6)
	neq := s.Eq(x, z)
	if s.sat.Value(neq.BoolLit) != LFalse {
		t.Fatalf("Eq of two distinct constants should be forced false, got %v", s.sat.Value(neq.BoolLit))
	}
}

func TestConjDisjExctOne(t *testing.T) {
	s := newTestSolver()
	a, b := s.NewBool(), s.NewBool()
	s.sat.NewClause([]Lit{a.BoolLit})
	s.sat.NewClause([]Lit{b.BoolLit})

	conj := s.Conj(a, b)
	s.sat.Propagate()
	if s.sat.Value(conj.BoolLit) != LTrue {
		t.Fatalf("Conj of two true items should be true")
	}

	x, y := s.NewBool(), s.NewBool()
	s.sat.NewClause([]Lit{x.BoolLit.Not()})
	disj := s.Disj(x, y)
	s.sat.NewClause([]Lit{y.BoolLit})
	s.sat.Propagate()
	if s.sat.Value(disj.BoolLit) != LTrue {
		t.Fatalf("Disj with one true disjunct should be true")
	}
}
