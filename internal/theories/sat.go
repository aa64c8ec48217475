// Package theories provides minimal test-double implementations of the
// four external theories pkg/oratio's Solver coordinates (SAT, LRA, RDL,
// OV). They exist only to exercise this module's own tests (spec's
// integration layer is specified as interfaces; production propagators
// are out of scope) — grounded in spirit on DoOR-Team-gophersat's
// trail/decision-level shape (solver/solver.go), simplified down to a
// watcher-free unit-propagation loop since these doubles only need to be
// correct, not fast.
package theories

import "github.com/oratio-project/oratio/pkg/oratio"

// clause is a disjunction of literals.
type clause []oratio.Lit

// SAT is a minimal trail-based Boolean satisfiability core: one decision
// level per Push, unit propagation by repeated linear scan, no clause
// learning. Correct and simple, not fast — the reference gophersat core
// (solver/solver.go) adds watched literals and conflict-driven learning,
// which a test double has no need for.
type SAT struct {
	values  []oratio.LBool // indexed by Var
	clauses []clause

	trail      []oratio.Var // assigned vars in assignment order
	levelMarks []int        // trail length at each Push

	listeners map[oratio.Var][]oratio.Listener
}

// New returns an empty SAT core with Var 0 reserved as TrueVar.
func New() *SAT {
	s := &SAT{values: make([]oratio.LBool, 1), listeners: make(map[oratio.Var][]oratio.Listener)}
	s.values[oratio.TrueVar] = oratio.LTrue
	return s
}

func (s *SAT) NewVar() oratio.Var {
	s.values = append(s.values, oratio.LUndefined)
	return oratio.Var(len(s.values) - 1)
}

func (s *SAT) litValue(l oratio.Lit) oratio.LBool {
	v := s.values[l.Var]
	if v == oratio.LUndefined {
		return oratio.LUndefined
	}
	if l.Negated {
		if v == oratio.LTrue {
			return oratio.LFalse
		}
		return oratio.LTrue
	}
	return v
}

func (s *SAT) Value(lit oratio.Lit) oratio.LBool { return s.litValue(lit) }

func (s *SAT) assign(v oratio.Var, val oratio.LBool) {
	if s.values[v] == val {
		return
	}
	s.values[v] = val
	s.trail = append(s.trail, v)
	for _, l := range s.listeners[v] {
		l.OnValueChanged(v)
	}
}

func (s *SAT) NewClause(lits []oratio.Lit) bool {
	s.clauses = append(s.clauses, append(clause(nil), lits...))
	return s.Propagate()
}

func (s *SAT) Assume(lit oratio.Lit) bool {
	if s.litValue(lit) == oratio.LFalse {
		return false
	}
	if lit.Negated {
		s.assign(lit.Var, oratio.LFalse)
	} else {
		s.assign(lit.Var, oratio.LTrue)
	}
	return true
}

func (s *SAT) Propagate() bool {
	for {
		changed := false
		for _, c := range s.clauses {
			status, unit := s.clauseStatus(c)
			switch status {
			case clauseFalse:
				return false
			case clauseUnit:
				if unit.Negated {
					s.assign(unit.Var, oratio.LFalse)
				} else {
					s.assign(unit.Var, oratio.LTrue)
				}
				changed = true
			}
		}
		if !changed {
			return true
		}
	}
}

type clauseStatusT int

const (
	clauseUnresolved clauseStatusT = iota
	clauseSatisfied
	clauseFalse
	clauseUnit
)

func (s *SAT) clauseStatus(c clause) (clauseStatusT, oratio.Lit) {
	var undef []oratio.Lit
	for _, l := range c {
		switch s.litValue(l) {
		case oratio.LTrue:
			return clauseSatisfied, oratio.Lit{}
		case oratio.LUndefined:
			undef = append(undef, l)
		}
	}
	switch len(undef) {
	case 0:
		return clauseFalse, oratio.Lit{}
	case 1:
		return clauseUnit, undef[0]
	default:
		return clauseUnresolved, oratio.Lit{}
	}
}

func (s *SAT) Push() { s.levelMarks = append(s.levelMarks, len(s.trail)) }

func (s *SAT) Pop() {
	if len(s.levelMarks) == 0 {
		return
	}
	mark := s.levelMarks[len(s.levelMarks)-1]
	s.levelMarks = s.levelMarks[:len(s.levelMarks)-1]
	for i := len(s.trail) - 1; i >= mark; i-- {
		s.values[s.trail[i]] = oratio.LUndefined
	}
	s.trail = s.trail[:mark]
}

func (s *SAT) RootLevel() bool { return len(s.levelMarks) == 0 }

func (s *SAT) SimplifyDB() bool { return s.Propagate() }

func (s *SAT) Listen(v oratio.Var, l oratio.Listener) {
	s.listeners[v] = append(s.listeners[v], l)
}
