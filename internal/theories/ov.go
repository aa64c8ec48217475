package theories

import "github.com/oratio-project/oratio/pkg/oratio"

// OV is a minimal object-variable test double: each variable owns a
// fixed-size domain of candidate values and one "allows" literal per
// value. Assigning pins the variable to a single value by falsifying
// every other allows literal; forbidding falsifies just one. This is a
// deliberately small replacement for gokando's pooled BitSetDomain
// (pkg/minikanren/domain.go): that type is specialized to dense integer
// ranges via sync.Pool-backed bitsets, which doesn't fit OV's arbitrary,
// heterogeneous ObjValue domains, so this double is written fresh in the
// same "domain as a set of allowed values" spirit rather than ported.
type OV struct {
	sat *SAT

	domains [][]oratio.ObjValue    // indexed by Var
	allows  []map[int]oratio.Lit   // indexed by Var, then by index into domains[v]
}

func NewOV(sat *SAT) *OV { return &OV{sat: sat} }

func (o *OV) NewVar(values []oratio.ObjValue) oratio.Var {
	v := o.sat.NewVar()
	for oratio.Var(len(o.domains)) <= v {
		o.domains = append(o.domains, nil)
		o.allows = append(o.allows, nil)
	}
	o.domains[v] = append([]oratio.ObjValue(nil), values...)
	m := make(map[int]oratio.Lit, len(values))
	for i := range values {
		m[i] = oratio.Lit{Var: o.sat.NewVar()}
	}
	o.allows[v] = m
	// exactly one value is eventually chosen: posted lazily by Assign, not
	// enforced up front, so that a still-wide-open domain stays Undefined.
	return v
}

func (o *OV) indexOf(v oratio.Var, val oratio.ObjValue) int {
	for i, d := range o.domains[v] {
		if d == val {
			return i
		}
	}
	return -1
}

// Allows returns the stored literal for value val of variable v.
func (o *OV) Allows(v oratio.Var, val oratio.ObjValue) oratio.Lit {
	i := o.indexOf(v, val)
	if i < 0 {
		return oratio.FalseLit
	}
	return o.allows[v][i]
}

// Domain returns the values not yet forbidden for v.
func (o *OV) Domain(v oratio.Var) []oratio.ObjValue {
	var out []oratio.ObjValue
	for i, val := range o.domains[v] {
		if o.sat.Value(o.allows[v][i]) != oratio.LFalse {
			out = append(out, val)
		}
	}
	return out
}

// Assign forbids every value of v except val.
func (o *OV) Assign(v oratio.Var, val oratio.ObjValue) bool {
	target := o.indexOf(v, val)
	if target < 0 {
		return false
	}
	for i := range o.domains[v] {
		if i == target {
			if !o.sat.NewClause([]oratio.Lit{o.allows[v][i]}) {
				return false
			}
			continue
		}
		if !o.sat.NewClause([]oratio.Lit{o.allows[v][i].Not()}) {
			return false
		}
	}
	return true
}

// Forbid falsifies val's allows literal for v.
func (o *OV) Forbid(v oratio.Var, val oratio.ObjValue) bool {
	i := o.indexOf(v, val)
	if i < 0 {
		return true
	}
	return o.sat.NewClause([]oratio.Lit{o.allows[v][i].Not()})
}

func (o *OV) Listen(v oratio.Var, lis oratio.Listener) { o.sat.Listen(v, lis) }
