package theories

import "github.com/oratio-project/oratio/pkg/oratio"

// RDL is a minimal difference-logic-over-reals test double: it tracks
// each variable's bounds relative to a fixed zero reference and answers
// Distance queries from those bounds, rather than maintaining a full
// shortest-path (Bellman-Ford) graph over posted `a - b <= k` edges — a
// real RDL theory would do the latter for tightness, which spec §1
// leaves to an external collaborator.
type RDL struct {
	sat    *SAT
	lb, ub []oratio.Rational
}

const rdlWindow = 1 << 30

func NewRDL(sat *SAT) *RDL { return &RDL{sat: sat} }

func (r *RDL) NewVar() oratio.Var {
	v := r.sat.NewVar()
	for oratio.Var(len(r.lb)) <= v {
		r.lb = append(r.lb, oratio.NewRational(-rdlWindow, 1))
		r.ub = append(r.ub, oratio.NewRational(rdlWindow, 1))
	}
	return v
}

// NewLeq posts a - b <= k and returns its literal. When the fixed
// zero-reference bounds already decide the constraint, the literal is
// forced true or false; otherwise a's upper bound and b's lower bound are
// narrowed to fit it.
func (r *RDL) NewLeq(a, b oratio.Var, k oratio.Rational) oratio.Lit {
	v := r.sat.NewVar()
	// a - b <= k is implied if ub(a) - lb(b) <= k.
	if r.ub[a].Sub(r.lb[b]).Compare(k) <= 0 {
		r.sat.NewClause([]oratio.Lit{{Var: v}})
	} else if r.lb[a].Sub(r.ub[b]).Compare(k) > 0 {
		r.sat.NewClause([]oratio.Lit{{Var: v, Negated: true}})
	} else {
		if r.ub[a].Compare(r.ub[b].Add(k)) > 0 {
			r.ub[a] = r.ub[b].Add(k)
		}
		if r.lb[b].Compare(r.lb[a].Sub(k)) < 0 {
			r.lb[b] = r.lb[a].Sub(k)
		}
	}
	return oratio.Lit{Var: v}
}

// Distance returns the current [lower, upper] bound on a - b, derived
// from each variable's independent bounds (a real difference-logic theory
// would instead report the tightest shortest-path distance over posted
// edges).
func (r *RDL) Distance(a, b oratio.Var) (oratio.Rational, oratio.Rational) {
	return r.lb[a].Sub(r.ub[b]), r.ub[a].Sub(r.lb[b])
}

// Bounds returns v's own [lower, upper] bound against the zero reference.
func (r *RDL) Bounds(v oratio.Var) (oratio.Rational, oratio.Rational) {
	return r.lb[v], r.ub[v]
}

func (r *RDL) Listen(v oratio.Var, lis oratio.Listener) { r.sat.Listen(v, lis) }
