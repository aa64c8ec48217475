package oratio

import "encoding/json"

// ItemView is the JSON schema for an Item (spec §6: "bool|int|real|time|
// string|enum|item values").
type ItemView struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// ToJSON renders it per spec §6's item schema, resolving the current
// value from the owning solver's theories.
func (s *Solver) ToJSON(it *Item) ItemView {
	switch it.Kind {
	case KindBool:
		switch s.sat.Value(it.BoolLit) {
		case LTrue:
			return ItemView{Type: "bool", Value: true}
		case LFalse:
			return ItemView{Type: "bool", Value: false}
		default:
			return ItemView{Type: "bool"}
		}
	case KindArith:
		lb, ub := s.arithBounds(it)
		typ := "int"
		if it.ArithTag == ArithReal {
			typ = "real"
		} else if it.ArithTag == ArithTime {
			typ = "time"
		}
		return ItemView{Type: typ, Value: []string{lb.String(), ub.String()}}
	case KindString:
		return ItemView{Type: "string", Value: it.StringValue}
	case KindEnum:
		vals := s.ov.Domain(it.EnumVar)
		return ItemView{Type: "enum", Value: vals}
	case KindComponent:
		sub := make(map[string]ItemView, len(it.SubItems))
		for name, si := range it.SubItems {
			sub[name] = s.ToJSON(si)
		}
		return ItemView{Type: "item", Value: sub}
	default:
		return ItemView{Type: "item"}
	}
}

// AtomState is an atom's external state (spec §6: "Active|Unified|
// Inactive").
type AtomState string

const (
	AtomActive   AtomState = "Active"
	AtomUnified  AtomState = "Unified"
	AtomInactive AtomState = "Inactive"
)

// AtomView is the JSON schema for an Atom.
type AtomView struct {
	ID        int                 `json:"id"`
	Predicate string              `json:"predicate"`
	State     AtomState           `json:"state"`
	Args      map[string]ItemView `json:"args"`
}

func (s *Solver) atomState(a *Atom) AtomState {
	switch s.sat.Value(Lit{Var: a.Sigma}) {
	case LTrue:
		return AtomActive
	case LFalse:
		return AtomUnified
	default:
		return AtomInactive
	}
}

// AtomJSON renders a per spec §6's atom schema.
func (s *Solver) AtomJSON(a *Atom) AtomView {
	args := make(map[string]ItemView, len(a.Args))
	for name, it := range a.Args {
		args[name] = s.ToJSON(it)
	}
	return AtomView{ID: a.ID, Predicate: a.Predicate, State: s.atomState(a), Args: args}
}

// FlawState is a flaw's external activity state (spec §6: "{active,
// forbidden, inactive}").
type FlawState string

const (
	FlawActive   FlawState = "active"
	FlawForbidden FlawState = "forbidden"
	FlawInactive FlawState = "inactive"
)

// FlawView is the JSON schema for a Flaw.
type FlawView struct {
	ID            int        `json:"id"`
	Kind          string     `json:"kind"`
	State         FlawState  `json:"state"`
	EstimatedCost string     `json:"estimated_cost"`
	Causes        []int      `json:"causes"`
	Resolvers     []int      `json:"resolvers"`
}

func (s *Solver) flawState(f *Flaw) FlawState {
	switch s.sat.Value(f.Phi) {
	case LTrue:
		return FlawActive
	case LFalse:
		return FlawForbidden
	default:
		return FlawInactive
	}
}

// FlawJSON renders f per spec §6's flaw schema.
func (s *Solver) FlawJSON(f *Flaw) FlawView {
	causes := make([]int, len(f.Causes))
	for i, c := range f.Causes {
		causes[i] = int(c)
	}
	resolvers := make([]int, len(f.Resolvers))
	for i, r := range f.Resolvers {
		resolvers[i] = int(r)
	}
	return FlawView{
		ID: int(f.Self), Kind: f.Kind.String(), State: s.flawState(f),
		EstimatedCost: f.EstimatedCost.String(), Causes: causes, Resolvers: resolvers,
	}
}

// ResolverView is the JSON schema for a Resolver.
type ResolverView struct {
	ID            int       `json:"id"`
	Kind          string    `json:"kind"`
	State         FlawState `json:"state"`
	Flaw          int       `json:"flaw"`
	IntrinsicCost string    `json:"intrinsic_cost"`
	Preconditions []int     `json:"preconditions"`
}

func (s *Solver) resolverState(r *Resolver) FlawState {
	switch s.sat.Value(r.Rho) {
	case LTrue:
		return FlawActive
	case LFalse:
		return FlawForbidden
	default:
		return FlawInactive
	}
}

// ResolverJSON renders r per spec §6's resolver schema.
func (s *Solver) ResolverJSON(r *Resolver) ResolverView {
	pre := make([]int, len(r.Preconditions))
	for i, p := range r.Preconditions {
		pre[i] = int(p)
	}
	return ResolverView{
		ID: int(r.Self), Kind: r.Kind.String(), State: s.resolverState(r),
		Flaw: int(r.Flaw), IntrinsicCost: r.IntrinsicCost.String(), Preconditions: pre,
	}
}

// GraphView is the JSON schema for the flaw/resolver graph.
type GraphView struct {
	Flaws       []FlawView     `json:"flaws"`
	Resolvers   []ResolverView `json:"resolvers"`
	CausalLinks []CausalLink   `json:"causal_links"`
}

// GraphJSON renders the solver's graph in full.
func (s *Solver) GraphJSON() GraphView {
	gv := GraphView{CausalLinks: s.graph.CausalLinks()}
	for _, f := range s.graph.flaws {
		gv.Flaws = append(gv.Flaws, s.FlawJSON(f))
	}
	for _, r := range s.graph.resolvers {
		gv.Resolvers = append(gv.Resolvers, s.ResolverJSON(r))
	}
	return gv
}

// SolverStateView is the top-level JSON schema for a solver snapshot.
type SolverStateView struct {
	Name  string     `json:"name"`
	Atoms []AtomView `json:"atoms"`
	Graph GraphView  `json:"graph"`
}

// StateJSON renders the full solver state.
func (s *Solver) StateJSON() SolverStateView {
	sv := SolverStateView{Name: s.name, Graph: s.GraphJSON()}
	for _, a := range s.atoms {
		sv.Atoms = append(sv.Atoms, s.AtomJSON(a))
	}
	return sv
}

// MarshalState is a convenience wrapper producing the indented JSON bytes
// for StateJSON, the shape cmd/planner writes to its output file.
func (s *Solver) MarshalState() ([]byte, error) {
	return json.MarshalIndent(s.StateJSON(), "", "  ")
}
