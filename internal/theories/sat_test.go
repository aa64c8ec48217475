package theories

import (
	"testing"

	"github.com/oratio-project/oratio/pkg/oratio"
)

func TestNewVar_StartsUndefined(t *testing.T) {
	s := New()
	v := s.NewVar()
	if s.Value(oratio.Lit{Var: v}) != oratio.LUndefined {
		t.Fatalf("fresh var should be undefined")
	}
}

func TestTrueVar_IsPreassignedTrue(t *testing.T) {
	s := New()
	if s.Value(oratio.TrueLit) != oratio.LTrue {
		t.Fatalf("TrueLit should be true from construction")
	}
	if s.Value(oratio.FalseLit) != oratio.LFalse {
		t.Fatalf("FalseLit (negated TrueVar) should be false")
	}
}

func TestNewClause_UnitClauseForcesItsLiteral(t *testing.T) {
	s := New()
	v := s.NewVar()
	if !s.NewClause([]oratio.Lit{{Var: v}}) {
		t.Fatalf("posting a unit clause should not conflict")
	}
	if s.Value(oratio.Lit{Var: v}) != oratio.LTrue {
		t.Fatalf("unit clause should force its literal true")
	}
}

func TestNewClause_ConflictingUnitClausesReturnFalse(t *testing.T) {
	s := New()
	v := s.NewVar()
	if !s.NewClause([]oratio.Lit{{Var: v}}) {
		t.Fatalf("first unit clause should succeed")
	}
	if s.NewClause([]oratio.Lit{{Var: v, Negated: true}}) {
		t.Fatalf("a clause contradicting an already-forced literal should conflict")
	}
}

func TestPropagate_ChainsUnitPropagationAcrossClauses(t *testing.T) {
	s := New()
	a, b, c := s.NewVar(), s.NewVar(), s.NewVar()
	// a -> b -> c, then force a.
	s.NewClause([]oratio.Lit{{Var: a, Negated: true}, {Var: b}})
	s.NewClause([]oratio.Lit{{Var: b, Negated: true}, {Var: c}})
	s.NewClause([]oratio.Lit{{Var: a}})

	if s.Value(oratio.Lit{Var: b}) != oratio.LTrue {
		t.Fatalf("b should be forced true by the a -> b clause")
	}
	if s.Value(oratio.Lit{Var: c}) != oratio.LTrue {
		t.Fatalf("c should be forced true transitively through b -> c")
	}
}

func TestAssume_FailsWhenLiteralAlreadyFalse(t *testing.T) {
	s := New()
	v := s.NewVar()
	s.NewClause([]oratio.Lit{{Var: v, Negated: true}})
	if s.Assume(oratio.Lit{Var: v}) {
		t.Fatalf("assuming an already-false literal should fail")
	}
}

func TestAssume_SucceedsAndSetsValue(t *testing.T) {
	s := New()
	v := s.NewVar()
	if !s.Assume(oratio.Lit{Var: v, Negated: true}) {
		t.Fatalf("assuming an undecided negated literal should succeed")
	}
	if s.Value(oratio.Lit{Var: v}) != oratio.LFalse {
		t.Fatalf("assuming ~v should set v false")
	}
}

func TestPushPop_UndoesAssignmentsBackToTheMark(t *testing.T) {
	s := New()
	v := s.NewVar()
	s.Push()
	s.Assume(oratio.Lit{Var: v})
	if s.Value(oratio.Lit{Var: v}) != oratio.LTrue {
		t.Fatalf("v should be true after Assume")
	}
	s.Pop()
	if s.Value(oratio.Lit{Var: v}) != oratio.LUndefined {
		t.Fatalf("v should be undefined again after Pop")
	}
	if !s.RootLevel() {
		t.Fatalf("RootLevel should report true after matching Pop")
	}
}

func TestPop_WithoutAPushIsANoOp(t *testing.T) {
	s := New()
	v := s.NewVar()
	s.NewClause([]oratio.Lit{{Var: v}})
	s.Pop()
	if s.Value(oratio.Lit{Var: v}) != oratio.LTrue {
		t.Fatalf("Pop with no matching Push should not undo root-level assignments")
	}
}

func TestRootLevel_TracksPushDepth(t *testing.T) {
	s := New()
	if !s.RootLevel() {
		t.Fatalf("a fresh SAT core should be at root level")
	}
	s.Push()
	if s.RootLevel() {
		t.Fatalf("after Push, should not be at root level")
	}
	s.Pop()
	if !s.RootLevel() {
		t.Fatalf("after matching Pop, should be back at root level")
	}
}

func TestListen_FiresOnValueChanged(t *testing.T) {
	s := New()
	v := s.NewVar()
	var seen []oratio.Var
	s.Listen(v, oratio.ListenerFunc(func(changed oratio.Var) {
		seen = append(seen, changed)
	}))
	s.NewClause([]oratio.Lit{{Var: v}})
	if len(seen) != 1 || seen[0] != v {
		t.Fatalf("listener should fire once with v, got %v", seen)
	}
}

func TestListen_DoesNotFireOnRedundantAssignment(t *testing.T) {
	s := New()
	v := s.NewVar()
	s.NewClause([]oratio.Lit{{Var: v}})
	fired := false
	s.Listen(v, oratio.ListenerFunc(func(oratio.Var) { fired = true }))
	s.NewClause([]oratio.Lit{{Var: v}})
	if fired {
		t.Fatalf("assigning a variable to its current value should not notify listeners")
	}
}

func TestSimplifyDB_IsPropagate(t *testing.T) {
	s := New()
	v := s.NewVar()
	s.NewClause([]oratio.Lit{{Var: v}})
	if !s.SimplifyDB() {
		t.Fatalf("SimplifyDB over a consistent database should succeed")
	}
}
