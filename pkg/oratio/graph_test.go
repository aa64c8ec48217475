package oratio

import (
	"testing"

	"github.com/oratio-project/oratio/internal/theories"
)

func newTestSolver() *Solver {
	sat := theories.New()
	lra := theories.NewLRA(sat)
	rdl := theories.NewRDL(sat)
	ov := theories.NewOV(sat)
	return NewSolver("test", sat, lra, rdl, ov)
}

func TestGraph_NewFlawAtRootLevelInitsImmediately(t *testing.T) {
	s := newTestSolver()
	g := s.Graph()
	g.SetHeuristic(NewH1(g))

	lit := s.sat.NewVar()
	f := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: lit}, Data: &BoolFlawData{Lit: Lit{Var: lit}}}
	s.sat.NewClause([]Lit{{Var: lit}}) // force true
	id := g.NewFlaw(f, true)

	got := g.Flaw(id)
	if !got.Expanded {
		t.Fatalf("flaw should be expanded immediately at root level")
	}
	if _, active := g.active[id]; !active {
		t.Fatalf("flaw with true phi should be active")
	}
}

func TestGraph_NewFlawBelowRootIsPending(t *testing.T) {
	s := newTestSolver()
	g := s.Graph()
	g.SetHeuristic(NewH1(g))
	s.Push()
	defer s.Pop()

	lit := s.sat.NewVar()
	f := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: lit}, Data: &BoolFlawData{Lit: Lit{Var: lit}}}
	id := g.NewFlaw(f, true)

	if g.Flaw(id).Expanded {
		t.Fatalf("flaw created below root level should not be expanded yet")
	}
	if len(g.pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(g.pending))
	}
}

func TestGraph_FlawResolverPanicOnInvalidID(t *testing.T) {
	s := newTestSolver()
	g := s.Graph()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on invalid FlawID")
		}
	}()
	g.Flaw(FlawID(42))
}

func TestGraph_SetCostPropagatesToSupports(t *testing.T) {
	s := newTestSolver()
	g := s.Graph()

	preVar := s.sat.NewVar()
	pre := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: preVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: preVar}}}
	preID := g.NewFlaw(pre, false)

	ownerVar := s.sat.NewVar()
	owner := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: ownerVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: ownerVar}}}
	ownerID := g.NewFlaw(owner, false)

	rhoVar := s.sat.NewVar()
	r := &Resolver{Kind: KindChooseValue, Flaw: ownerID, Rho: Lit{Var: rhoVar}, IntrinsicCost: Zero}
	rid := g.NewResolver(r)

	if err := g.AddCausalLink(preID, rid); err != nil {
		t.Fatalf("AddCausalLink: %v", err)
	}

	g.SetCost(preID, NewRational(3, 1))
	if got := g.ResolverCost(rid); !got.Equal(NewRational(3, 1)) {
		t.Fatalf("ResolverCost after SetCost(pre, 3) = %v, want 3", got)
	}
}

// fakeRDL is an RDL double with a hardcoded Distance, used to exercise
// AddCausalLink's cycle check without needing the real theories.RDL double
// to converge a tight bound (its window-based narrowing only tightens
// gradually over many posts, which a unit test has no reason to replicate).
type fakeRDL struct {
	next     Var
	distance Rational
}

func (f *fakeRDL) NewVar() Var                       { f.next++; return f.next }
func (f *fakeRDL) NewLeq(a, b Var, k Rational) Lit    { return TrueLit }
func (f *fakeRDL) Distance(a, b Var) (Rational, Rational) { return f.distance, f.distance }
func (f *fakeRDL) Bounds(v Var) (Rational, Rational)  { return Zero, Zero }
func (f *fakeRDL) Listen(v Var, l Listener)           {}

func TestGraph_AddCausalLinkRejectsCycle(t *testing.T) {
	s := newTestSolver()
	s.rdl = &fakeRDL{distance: One} // owner is forced strictly after cause
	g := s.Graph()

	aVar := s.sat.NewVar()
	a := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: aVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: aVar}}}
	aID := g.NewFlaw(a, false)

	bVar := s.sat.NewVar()
	b := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: bVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: bVar}}}
	bID := g.NewFlaw(b, false)

	rhoVar := s.sat.NewVar()
	r := &Resolver{Kind: KindChooseValue, Flaw: aID, Rho: Lit{Var: rhoVar}}
	rid := g.NewResolver(r)

	if err := g.AddCausalLink(bID, rid); err == nil {
		t.Fatalf("expected cycle error, got nil")
	}
}

func TestGraph_AddCausalLinkAcceptsNonCycle(t *testing.T) {
	s := newTestSolver()
	s.rdl = &fakeRDL{distance: NewRational(-1, 1)}
	g := s.Graph()

	aVar := s.sat.NewVar()
	a := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: aVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: aVar}}}
	aID := g.NewFlaw(a, false)

	bVar := s.sat.NewVar()
	b := &Flaw{Kind: KindBoolFlaw, Phi: Lit{Var: bVar}, Position: s.rdl.NewVar(), Data: &BoolFlawData{Lit: Lit{Var: bVar}}}
	bID := g.NewFlaw(b, false)

	rhoVar := s.sat.NewVar()
	r := &Resolver{Kind: KindChooseValue, Flaw: aID, Rho: Lit{Var: rhoVar}}
	rid := g.NewResolver(r)

	if err := g.AddCausalLink(bID, rid); err != nil {
		t.Fatalf("AddCausalLink: %v", err)
	}
	if len(g.CausalLinks()) != 1 {
		t.Fatalf("CausalLinks() len = %d, want 1", len(g.CausalLinks()))
	}
}
