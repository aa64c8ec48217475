package theories

import "github.com/oratio-project/oratio/pkg/oratio"

// LRA is a minimal linear real-arithmetic test double: it tracks interval
// bounds per variable and evaluates a constraint's current status rather
// than performing a real simplex pivot. Sufficient to exercise
// pkg/oratio's theory-facing calls (NewLeq/NewLt/Bounds) without carrying
// a full Fourier-Motzkin or simplex implementation, which spec §1 leaves
// out of scope.
type LRA struct {
	sat    *SAT
	lb, ub []oratio.Rational // indexed by Var, default [-inf substitute, +inf substitute]
}

const lraWindow = 1 << 30

// NewLRA returns an LRA theory double sharing sat's variable/listener
// space for the Bool side of its relational literals.
func NewLRA(sat *SAT) *LRA { return &LRA{sat: sat} }

func (l *LRA) NewVar() oratio.Var {
	v := l.sat.NewVar()
	for oratio.Var(len(l.lb)) <= v {
		l.lb = append(l.lb, oratio.NewRational(-lraWindow, 1))
		l.ub = append(l.ub, oratio.NewRational(lraWindow, 1))
	}
	return v
}

func (l *LRA) eval(e oratio.LinearExpr, useLower bool) oratio.Rational {
	sum := e.Constant
	for v, c := range e.Terms {
		bound := l.ub[v]
		if useLower == (c.Compare(oratio.Zero) > 0) {
			bound = l.lb[v]
		}
		sum = sum.Add(c.Mul(bound))
	}
	return sum
}

// NewLeq posts lhs <= rhs as a fresh Boolean literal, true when the
// expressions' current bounds already guarantee it and false when they
// guarantee the opposite; otherwise undefined until further narrowed.
func (l *LRA) NewLeq(lhs, rhs oratio.LinearExpr) oratio.Lit {
	v := l.sat.NewVar()
	if l.eval(lhs, false).Compare(l.eval(rhs, true)) <= 0 {
		l.sat.NewClause([]oratio.Lit{{Var: v}})
	} else if l.eval(lhs, true).Compare(l.eval(rhs, false)) > 0 {
		l.sat.NewClause([]oratio.Lit{{Var: v, Negated: true}})
	}
	return oratio.Lit{Var: v}
}

// NewLt posts lhs < rhs, approximated as lhs <= rhs - epsilon.
func (l *LRA) NewLt(lhs, rhs oratio.LinearExpr) oratio.Lit {
	eps := oratio.NewRational(1, 1000000)
	shifted := oratio.LinearExpr{Terms: rhs.Terms, Constant: rhs.Constant.Sub(eps)}
	return l.NewLeq(lhs, shifted)
}

// Value returns the midpoint of expr's current bound interval.
func (l *LRA) Value(expr oratio.LinearExpr) oratio.Rational {
	lb, ub := l.Bounds(expr)
	return lb.Add(ub).Mul(oratio.Half)
}

// Bounds returns expr's current [lower, upper] interval.
func (l *LRA) Bounds(expr oratio.LinearExpr) (oratio.Rational, oratio.Rational) {
	return l.eval(expr, true), l.eval(expr, false)
}

func (l *LRA) Listen(v oratio.Var, lis oratio.Listener) { l.sat.Listen(v, lis) }
