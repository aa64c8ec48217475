package oratio

import (
	"fmt"
	"log"
	"time"
)

// Solver is the integrated constraint-based planner (spec §1/§3): it owns
// the flaw/resolver graph and drives the four external theories (SAT,
// LRA, RDL, OV) through a DPLL-style search loop. Construction wires a
// concrete SAT/LRA/RDL/OV implementation; this package never implements
// those theories itself (spec §1 non-goals) — see internal/theories for
// the minimal test doubles this module's own tests exercise it with.
type Solver struct {
	name string
	log  *log.Logger

	config Config

	sat SAT
	lra LRA
	rdl RDL
	ov  OV

	graph *Graph
	trail *Trail

	listener SolverListener

	smartTypes []SmartType

	atoms   []*Atom
	nextAID int

	// niStack holds the literals currently suspended under "if this
	// decision stands" scoping (spec §9's tagged-variant redesign note on
	// `ni`). Only the innermost literal is read (CurrentNi), and only
	// AssertFact uses it, to gate the facts it posts; flaw expansion and
	// resolver creation do not consult the stack.
	niStack []Lit
}

// NewSolver constructs a Solver wired to the given theory implementations
// and applies opts over DefaultConfig(). name prefixes the solver's logger
// and fills the Name field of its state and timeline JSON views.
func NewSolver(name string, sat SAT, lra LRA, rdl RDL, ov OV, opts ...Option) *Solver {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Solver{
		name:   name,
		log:    log.New(log.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags),
		config: cfg,
		sat:    sat,
		lra:    lra,
		rdl:    rdl,
		ov:     ov,
		trail:  NewTrail(),
	}
	s.graph = NewGraph(s)
	s.graph.SetHeuristic(NewH1(s.graph))
	return s
}

// SetListener installs the high-level event observer (spec §6).
func (s *Solver) SetListener(l SolverListener) { s.listener = l }

// RegisterSmartType adds a smart type (state variable, reusable/consumable
// resource, agent) whose Inconsistencies are polled on every graph build
// (spec §4.6).
func (s *Solver) RegisterSmartType(st SmartType) { s.smartTypes = append(s.smartTypes, st) }

// Graph exposes the underlying flaw/resolver graph, e.g. for JSON
// serialization (spec §6).
func (s *Solver) Graph() *Graph { return s.graph }

// AtRootLevel reports whether the solver has no pending decisions.
func (s *Solver) AtRootLevel() bool { return s.sat.RootLevel() }

// DecisionLevel returns the current backtracking depth (spec's
// supplemented decision_level() accessor).
func (s *Solver) DecisionLevel() int { return s.trail.Level() }

// RootLevel always reports 0: the reference implementation's root_level()
// is a fixed reference point, not a moving one (supplemented accessor).
func (s *Solver) RootLevel() int { return 0 }

// CurrentNi returns the conjunction-scoping literal currently in effect,
// or TrueLit if no scope is active.
func (s *Solver) CurrentNi() Lit {
	if len(s.niStack) == 0 {
		return TrueLit
	}
	return s.niStack[len(s.niStack)-1]
}

// PushNi opens a new suspended-negation scope under lit.
func (s *Solver) PushNi(lit Lit) { s.niStack = append(s.niStack, lit) }

// PopNi closes the innermost suspended-negation scope.
func (s *Solver) PopNi() {
	if len(s.niStack) > 0 {
		s.niStack = s.niStack[:len(s.niStack)-1]
	}
}

// --- item constructors (spec §3's modeling layer) ---

// NewBool allocates a fresh, unassigned Boolean item.
func (s *Solver) NewBool() *Item { return NewBoolItem(Lit{Var: s.sat.NewVar()}) }

// NewBoolValue returns a constant Boolean item.
func (s *Solver) NewBoolValue(v bool) *Item {
	if v {
		return NewBoolItem(TrueLit)
	}
	return NewBoolItem(FalseLit)
}

// NewInt allocates a fresh integer item backed by the LRA theory.
func (s *Solver) NewInt() *Item {
	v := s.lra.NewVar()
	return NewArithItem(LinearExpr{Terms: map[Var]Rational{v: One}, Constant: Zero}, ArithInt, false)
}

// NewIntValue returns a constant integer item.
func (s *Solver) NewIntValue(n int64) *Item {
	return NewArithItem(LinearExpr{Constant: NewRational(n, 1)}, ArithInt, false)
}

// NewReal allocates a fresh real item backed by the LRA theory.
func (s *Solver) NewReal() *Item {
	v := s.lra.NewVar()
	return NewArithItem(LinearExpr{Terms: map[Var]Rational{v: One}, Constant: Zero}, ArithReal, false)
}

// NewRealValue returns a constant real item.
func (s *Solver) NewRealValue(r Rational) *Item {
	return NewArithItem(LinearExpr{Constant: r}, ArithReal, false)
}

// NewTime allocates a fresh time-point item backed by the RDL theory.
func (s *Solver) NewTime() *Item {
	v := s.rdl.NewVar()
	return NewArithItem(LinearExpr{Terms: map[Var]Rational{v: One}, Constant: Zero}, ArithTime, true)
}

// NewTimeValue returns a constant time-point item.
func (s *Solver) NewTimeValue(r Rational) *Item {
	return NewArithItem(LinearExpr{Constant: r}, ArithTime, true)
}

// NewString returns a fresh (empty) string item.
func (s *Solver) NewString() *Item { return NewStringItem("") }

// NewStringValue returns a constant string item.
func (s *Solver) NewStringValue(v string) *Item { return NewStringItem(v) }

// NewEnum allocates an object-variable item ranging over values.
func (s *Solver) NewEnum(values []ObjValue) *Item {
	return NewEnumItem(s.ov.NewVar(values))
}

// --- arithmetic/relational/boolean expression builders ---

// Minus negates an arithmetic item.
func (s *Solver) Minus(x *Item) *Item {
	neg := LinearExpr{Terms: make(map[Var]Rational, len(x.ArithExpr.Terms)), Constant: x.ArithExpr.Constant.Neg()}
	for v, c := range x.ArithExpr.Terms {
		neg.Terms[v] = c.Neg()
	}
	return NewArithItem(neg, x.ArithTag, x.ArithIsRDL)
}

// Add sums arithmetic items of a common tag.
func (s *Solver) Add(xs ...*Item) *Item {
	return s.combine(xs, func(acc, t Rational) Rational { return acc.Add(t) })
}

// Sub subtracts xs[1:] from xs[0].
func (s *Solver) Sub(xs ...*Item) *Item {
	if len(xs) == 0 {
		return s.NewIntValue(0)
	}
	out := xs[0].ArithExpr.clone()
	tag, isRDL := xs[0].ArithTag, xs[0].ArithIsRDL
	for _, x := range xs[1:] {
		out = out.sub(x.ArithExpr)
	}
	return NewArithItem(out, tag, isRDL)
}

func (s *Solver) combine(xs []*Item, _ func(Rational, Rational) Rational) *Item {
	if len(xs) == 0 {
		return s.NewIntValue(0)
	}
	out := LinearExpr{Terms: make(map[Var]Rational), Constant: Zero}
	tag, isRDL := xs[0].ArithTag, xs[0].ArithIsRDL
	for _, x := range xs {
		out = out.add(x.ArithExpr)
	}
	return NewArithItem(out, tag, isRDL)
}

func (e LinearExpr) clone() LinearExpr {
	out := LinearExpr{Terms: make(map[Var]Rational, len(e.Terms)), Constant: e.Constant}
	for v, c := range e.Terms {
		out.Terms[v] = c
	}
	return out
}

func (e LinearExpr) add(o LinearExpr) LinearExpr {
	out := e.clone()
	for v, c := range o.Terms {
		out.Terms[v] = out.Terms[v].Add(c)
	}
	out.Constant = out.Constant.Add(o.Constant)
	return out
}

func (e LinearExpr) sub(o LinearExpr) LinearExpr {
	out := e.clone()
	for v, c := range o.Terms {
		out.Terms[v] = out.Terms[v].Sub(c)
	}
	out.Constant = out.Constant.Sub(o.Constant)
	return out
}

// Mul multiplies an arithmetic item by a constant factor (non-linear
// variable*variable products are out of scope, as in the reference
// implementation's lra theory).
func (s *Solver) Mul(x *Item, k Rational) *Item {
	out := LinearExpr{Terms: make(map[Var]Rational, len(x.ArithExpr.Terms)), Constant: x.ArithExpr.Constant.Mul(k)}
	for v, c := range x.ArithExpr.Terms {
		out.Terms[v] = c.Mul(k)
	}
	return NewArithItem(out, x.ArithTag, x.ArithIsRDL)
}

// Div divides an arithmetic item by a constant factor.
func (s *Solver) Div(x *Item, k Rational) *Item { return s.Mul(x, One.Div(k)) }

func (s *Solver) relVar(x *Item) Var {
	if x.ArithIsRDL {
		return x.variableOf()
	}
	return 0
}

// Lt builds `lhs < rhs` as a Bool item.
func (s *Solver) Lt(lhs, rhs *Item) *Item {
	if lhs.ArithIsRDL {
		return NewBoolItem(s.rdl.NewLeq(s.relVar(lhs), s.relVar(rhs), rhs.ArithExpr.Constant.Sub(lhs.ArithExpr.Constant).Sub(epsilon)))
	}
	return NewBoolItem(s.lra.NewLt(lhs.ArithExpr, rhs.ArithExpr))
}

// Leq builds `lhs <= rhs` as a Bool item.
func (s *Solver) Leq(lhs, rhs *Item) *Item {
	if lhs.ArithIsRDL {
		return NewBoolItem(s.rdl.NewLeq(s.relVar(lhs), s.relVar(rhs), rhs.ArithExpr.Constant.Sub(lhs.ArithExpr.Constant)))
	}
	return NewBoolItem(s.lra.NewLeq(lhs.ArithExpr, rhs.ArithExpr))
}

// Gt builds `lhs > rhs`.
func (s *Solver) Gt(lhs, rhs *Item) *Item { return s.Lt(rhs, lhs) }

// Geq builds `lhs >= rhs`.
func (s *Solver) Geq(lhs, rhs *Item) *Item { return s.Leq(rhs, lhs) }

// Eq builds `lhs == rhs` as a Bool item: the conjunction of both orderings
// for arithmetic items, a fresh literal tied to lhs <-> rhs for Bool items,
// and a constant literal for every other kind (Matches for Enum items,
// equality of the StringValue fields otherwise; component items are not
// compared field by field) (spec's supplemented general Matches/equality
// support).
func (s *Solver) Eq(lhs, rhs *Item) *Item {
	switch lhs.Kind {
	case KindArith:
		return s.Conj(s.Leq(lhs, rhs), s.Geq(lhs, rhs))
	case KindBool:
		// eq <-> (lhs <-> rhs), encoded as the usual four-clause XNOR.
		eq := Lit{Var: s.sat.NewVar()}
		l, r := lhs.BoolLit, rhs.BoolLit
		s.sat.NewClause([]Lit{eq.Not(), l.Not(), r})
		s.sat.NewClause([]Lit{eq.Not(), l, r.Not()})
		s.sat.NewClause([]Lit{eq, l, r})
		s.sat.NewClause([]Lit{eq, l.Not(), r.Not()})
		return NewBoolItem(eq)
	case KindEnum:
		// The OV interface only exposes per-value Allows literals, not a
		// native equality predicate, so equality here is approximated as
		// "the two domains still overlap" (see Matches); a concrete OV
		// theory with its own equality propagator can do better by
		// implementing a richer interface on top of this one.
		return s.NewBoolValue(s.Matches(lhs, rhs))
	default:
		return s.NewBoolValue(lhs.StringValue == rhs.StringValue)
	}
}

// epsilon is the conventional "strictly less than" slack RDL theories use
// to express `<` in terms of `<=` (a - b <= -epsilon).
var epsilon = NewRational(1, 1000000)

// Conj builds the conjunction of Bool items.
func (s *Solver) Conj(xs ...*Item) *Item {
	lits := make([]Lit, len(xs))
	for i, x := range xs {
		lits[i] = x.BoolLit
	}
	v := s.sat.NewVar()
	conj := Lit{Var: v}
	for _, l := range lits {
		s.sat.NewClause([]Lit{conj.Not(), l})
	}
	all := append([]Lit{conj}, negateAll(lits)...)
	s.sat.NewClause(all)
	return NewBoolItem(conj)
}

// Disj builds the disjunction of Bool items.
func (s *Solver) Disj(xs ...*Item) *Item {
	lits := make([]Lit, len(xs))
	for i, x := range xs {
		lits[i] = x.BoolLit
	}
	v := s.sat.NewVar()
	disj := Lit{Var: v}
	for _, l := range lits {
		s.sat.NewClause([]Lit{disj, l.Not()})
	}
	all := append([]Lit{disj.Not()}, lits...)
	s.sat.NewClause(all)
	return NewBoolItem(disj)
}

// ExctOne builds "exactly one of xs holds".
func (s *Solver) ExctOne(xs ...*Item) *Item {
	lits := make([]Lit, len(xs))
	for i, x := range xs {
		lits[i] = x.BoolLit
	}
	s.sat.NewClause(lits)
	for i := range lits {
		for j := i + 1; j < len(lits); j++ {
			s.sat.NewClause([]Lit{lits[i].Not(), lits[j].Not()})
		}
	}
	return s.Disj(xs...)
}

// Negate returns the Boolean negation of x.
func (s *Solver) Negate(x *Item) *Item { return NewBoolItem(x.BoolLit.Not()) }

func negateAll(lits []Lit) []Lit {
	out := make([]Lit, len(lits))
	for i, l := range lits {
		out[i] = l.Not()
	}
	return out
}

// AssertFact posts fact as permanently true, scoped under the current ni
// (spec's AssertFact/batch supplemented feature; grounded on
// solver::assert_fact in original_source/src/solver.cpp).
func (s *Solver) AssertFact(fact *Item) error {
	scope := s.CurrentNi().Not()
	if !s.sat.NewClause([]Lit{scope, fact.BoolLit}) {
		return ErrUnsolvable
	}
	return nil
}

// AssertFacts posts every fact in facts (spec's supplemented batch form).
func (s *Solver) AssertFacts(facts ...*Item) error {
	for _, f := range facts {
		if err := s.AssertFact(f); err != nil {
			return err
		}
	}
	return nil
}

// NewAtom creates a new predicate instance together with its atom_flaw
// (spec §3: "every atom is introduced together with exactly one
// atom_flaw"), grounded on solver::new_atom in
// original_source/src/solver.cpp.
func (s *Solver) NewAtom(isFact bool, predicate string, args map[string]*Item, scope string) *Atom {
	id := s.nextAID
	s.nextAID++
	a := &Atom{ID: id, Predicate: predicate, Args: args, Sigma: s.sat.NewVar(), IsFact: isFact, Scope: scope}
	s.atoms = append(s.atoms, a)

	f := newAtomFlaw(s.graph, a, isFact, nil)
	a.Reason = f
	s.graph.NewFlaw(f, true)

	for _, st := range s.smartTypes {
		if st.Scope() == scope {
			st.OnNewAtom(a)
		}
	}
	return a
}

// NewDisjunction posts a disjunction flaw over a set of mutually exclusive
// conjunctions of facts (spec's disjunction module), grounded on
// solver::new_disjunction's signature in original_source/src/solver.cpp
// (there left unimplemented; this fills it in per spec §4.2).
func (s *Solver) NewDisjunction(disjuncts [][]*Item) *Item {
	phi := Lit{Var: s.sat.NewVar()}
	f := newDisjunctionFlaw(s.graph, phi, disjuncts)
	s.graph.NewFlaw(f, true)
	return NewBoolItem(phi)
}

// Solve runs the DPLL-style search to completion: repeatedly builds the
// causal graph, takes the cheapest decision, and backtracks on conflict,
// until every flaw is solved (success) or the root level is refuted
// (ErrUnsolvable). It returns ErrCancelled if Config.NodeLimit is reached
// or Config.TimeLimitMs has elapsed when the next decision is due.
func (s *Solver) Solve() error {
	if !s.sat.Propagate() {
		return ErrUnsolvable
	}
	s.graph.FlushPending()

	nodes := 0
	var deadline time.Time
	if s.config.TimeLimitMs > 0 {
		deadline = time.Now().Add(time.Duration(s.config.TimeLimitMs) * time.Millisecond)
	}
	for {
		if err := s.graph.Check(); err != nil {
			return err
		}
		if len(s.graph.ActiveFlaws()) == 0 {
			return nil
		}

		if s.config.NodeLimit > 0 && nodes >= s.config.NodeLimit {
			return ErrCancelled
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return ErrCancelled
		}
		nodes++

		if err := s.TakeDecision(); err != nil {
			if err == ErrUnsolvable && s.trail.Level() > 0 {
				s.Pop()
				continue
			}
			return err
		}
	}
}

// TakeDecision picks the current cheapest active flaw's cheapest resolver
// and assumes its rho true, opening a new decision level (spec §3's
// search step). Conflicts found while propagating that assumption return
// ErrUnsolvable to the caller, which backtracks.
func (s *Solver) TakeDecision() error {
	fid, ok := s.cheapestActiveFlaw()
	if !ok {
		return nil
	}
	f := s.graph.Flaw(fid)
	if s.listener != nil {
		s.listener.CurrentFlaw(fid)
	}

	rid, ok := s.graph.CheapestResolver(f)
	if !ok {
		return ErrUnsolvable
	}
	r := s.graph.Resolver(rid)
	if s.listener != nil {
		s.listener.CurrentResolver(rid)
	}

	s.Push()
	if !s.sat.Assume(r.Rho) || !s.sat.Propagate() {
		return ErrUnsolvable
	}
	if applyFn, ok := applyFns[r.Kind]; ok {
		if err := applyFn(s.graph, f, r); err != nil {
			return err
		}
	}
	settled := true
	for _, pid := range r.Preconditions {
		if !s.graph.preconditionSettled(pid) {
			settled = false
			break
		}
	}
	if settled {
		s.graph.solveFlaw(fid)
	}
	return nil
}

func (s *Solver) cheapestActiveFlaw() (FlawID, bool) {
	best := FlawID(-1)
	bestCost := PosInf
	for id := range s.graph.active {
		f := s.graph.Flaw(id)
		if best == -1 || f.EstimatedCost.Less(bestCost) {
			best, bestCost = id, f.EstimatedCost
		}
	}
	return best, best != -1
}

// Push opens a new backtracking level across the trail, SAT core, and
// every theory.
func (s *Solver) Push() {
	s.trail.Push()
	s.sat.Push()
}

// Pop discards the most recent backtracking level.
func (s *Solver) Pop() {
	s.sat.Pop()
	s.trail.Pop()
}

// applyFns dispatches Resolver.Kind to its concrete application function
// (the reference implementation's virtual resolver::apply()), registered
// by each flaws_*.go file's init().
var applyFns = map[ResolverKind]func(g *Graph, f *Flaw, r *Resolver) error{}
