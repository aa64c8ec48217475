package oratio

// This file specifies, as plain interfaces, the external collaborators the
// solver drives but does not implement: a Boolean SAT core, a linear
// real-arithmetic (LRA) theory, a difference-logic-over-reals (RDL) theory,
// and an object-variable (OV) theory. Per the specification's scope, these
// are deliberately left as contracts — production propagators live outside
// this module. internal/theories provides minimal test-double
// implementations used only by this module's own tests.

// Lit is a SAT literal: a Var, possibly negated.
type Lit struct {
	Var     Var
	Negated bool
}

// Not returns the negation of l.
func (l Lit) Not() Lit { return Lit{Var: l.Var, Negated: !l.Negated} }

// Var is an opaque propositional/theory variable identifier.
type Var int

// TrueLit and FalseLit are conventional fixed literals. Var 0 is never
// allocated by a real SAT core, so it is reserved for these constants.
const (
	TrueVar  Var = 0
	FalseVar Var = -1
)

var (
	TrueLit  = Lit{Var: TrueVar, Negated: false}
	FalseLit = Lit{Var: TrueVar, Negated: true}
)

// LBool is a three-valued truth value: True, False, or Undefined (not yet
// assigned at the current decision level).
type LBool int8

const (
	LUndefined LBool = iota
	LTrue
	LFalse
)

func (b LBool) String() string {
	switch b {
	case LTrue:
		return "true"
	case LFalse:
		return "false"
	default:
		return "undefined"
	}
}

// Listener is notified when the value of a theory variable changes.
// Implementations must not assume any delivery order across listeners
// (spec §5: "order-independence is a requirement").
type Listener interface {
	OnValueChanged(v Var)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(v Var)

// OnValueChanged implements Listener.
func (f ListenerFunc) OnValueChanged(v Var) { f(v) }

// SAT is the Boolean satisfiability core the solver integrates with.
type SAT interface {
	// NewVar allocates a fresh Boolean variable.
	NewVar() Var
	// Value returns the current truth value of lit.
	Value(lit Lit) LBool
	// NewClause posts a disjunctive clause over the current decision level.
	// Returns false if the clause is immediately falsified (conflict at the
	// current level).
	NewClause(lits []Lit) bool
	// Assume tentatively assigns lit True as a search decision.
	Assume(lit Lit) bool
	// Propagate runs unit propagation to a fixed point. Returns false on
	// conflict.
	Propagate() bool
	// Push opens a new backtracking level.
	Push()
	// Pop discards the most recent backtracking level.
	Pop()
	// RootLevel reports whether no decisions are currently pushed.
	RootLevel() bool
	// SimplifyDB performs root-level clause database simplification.
	// Returns false if simplification discovers a root-level conflict.
	SimplifyDB() bool
	// Listen registers l to be notified whenever v's value changes.
	Listen(v Var, l Listener)
}

// LinearExpr is a linear combination of LRA/RDL variables plus a constant
// term, expressed as Rational coefficients.
type LinearExpr struct {
	Terms    map[Var]Rational
	Constant Rational
}

// LRA is the linear real-arithmetic theory.
type LRA interface {
	NewVar() Var
	NewLeq(lhs LinearExpr, rhs LinearExpr) Lit
	NewLt(lhs LinearExpr, rhs LinearExpr) Lit
	Value(expr LinearExpr) Rational
	Bounds(expr LinearExpr) (lb, ub Rational)
	Listen(v Var, l Listener)
}

// RDL is the difference-logic-over-reals theory: constraints of the shape
// `a - b <= k`, with an efficient shortest-path distance query.
type RDL interface {
	NewVar() Var
	NewLeq(a, b Var, k Rational) Lit
	Distance(a, b Var) (lb, ub Rational)
	Bounds(v Var) (lb, ub Rational)
	Listen(v Var, l Listener)
}

// ObjValue is an opaque object-variable value (an Item, typically an Enum
// domain member or a Component instance).
type ObjValue interface{}

// OV is the object-variable theory: variables ranging over a finite set of
// heterogeneous values, with per-value allow/forbid literals.
type OV interface {
	NewVar(values []ObjValue) Var
	Allows(v Var, val ObjValue) Lit
	Domain(v Var) []ObjValue
	Assign(v Var, val ObjValue) bool
	Forbid(v Var, val ObjValue) bool
	Listen(v Var, l Listener)
}
