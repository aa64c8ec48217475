package oratio

import "sort"

// TimelineValue is one pulse-indexed entry of a resource's extracted
// timeline: the set of atoms active at time (or starting/ending there) plus,
// for consumable/reusable resources, the amount in effect.
type TimelineValue struct {
	Time   string  `json:"time"`
	Atoms  []int   `json:"atoms"`
	Amount *string `json:"amount,omitempty"`
}

// TimelineView is the common envelope shared by all five timeline shapes
// (Solver, Agent, StateVariable, ReusableResource, ConsumableResource):
// an id/type/name header plus kind-specific values.
type TimelineView struct {
	ID     int             `json:"id"`
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Extra  map[string]any  `json:"extra,omitempty"`
	Values []TimelineValue `json:"values"`
}

// instanceAtoms groups a smart type's active atoms by scope-instance name,
// mirroring the original's active-atom-by-tau-binding partition.
func (s *Solver) instanceAtoms(scope string) map[string][]*Atom {
	grouped := make(map[string][]*Atom)
	for _, a := range s.atoms {
		if a.Scope != scope {
			continue
		}
		if s.sat.Value(Lit{Var: a.Sigma}) != LTrue {
			continue
		}
		grouped[a.Scope] = append(grouped[a.Scope], a)
	}
	return grouped
}

// extractPulses builds the sorted pulse set and per-pulse starting/ending
// atom partition for atms on the shared startArg/endArg schema.
func (s *Solver) extractPulses(atms []*Atom, startArg, endArg string) ([]Rational, map[string][]*Atom, map[string][]*Atom) {
	starting := make(map[string][]*Atom)
	ending := make(map[string][]*Atom)
	var pulses []Rational
	seen := make(map[string]bool)
	addPulse := func(r Rational) {
		k := r.String()
		if !seen[k] {
			seen[k] = true
			pulses = append(pulses, r)
		}
	}
	for _, a := range atms {
		st, _ := s.arithBounds(a.Arg(startArg))
		en, _ := s.arithBounds(a.Arg(endArg))
		starting[st.String()] = append(starting[st.String()], a)
		ending[en.String()] = append(ending[en.String()], a)
		addPulse(st)
		addPulse(en)
	}
	sort.Slice(pulses, func(i, j int) bool { return pulses[i].Compare(pulses[j]) < 0 })
	return pulses, starting, ending
}

func atomIDs(atms []*Atom) []int {
	ids := make([]int, len(atms))
	for i, a := range atms {
		ids[i] = a.ID
	}
	return ids
}

// StateVariableTimeline renders sv's extracted timeline: one TimelineView
// per instance name, its values the ordered set of atoms holding the mutex
// slot between consecutive pulses.
func (s *Solver) StateVariableTimeline(sv *StateVariable) []TimelineView {
	var out []TimelineView
	for name, atms := range s.instanceAtoms(sv.scope) {
		pulses, starting, _ := s.extractPulses(atms, sv.startArg, sv.endArg)
		tv := TimelineView{Type: "state_variable", Name: name}
		active := map[*Atom]bool{}
		for _, p := range pulses {
			for _, a := range starting[p.String()] {
				active[a] = true
			}
			var atoms []*Atom
			for a := range active {
				en, _ := s.arithBounds(a.Arg(sv.endArg))
				if en.Compare(p) > 0 {
					atoms = append(atoms, a)
				} else {
					delete(active, a)
				}
			}
			tv.Values = append(tv.Values, TimelineValue{Time: p.String(), Atoms: atomIDs(atoms)})
		}
		out = append(out, tv)
	}
	return out
}

// ReusableResourceTimeline renders rr's extracted timeline, including the
// occupied-amount figure at each pulse alongside its capacity.
func (s *Solver) ReusableResourceTimeline(rr *ReusableResource) []TimelineView {
	var out []TimelineView
	for name, atms := range s.instanceAtoms(rr.scope) {
		pulses, starting, ending := s.extractPulses(atms, rr.startArg, rr.endArg)
		tv := TimelineView{
			Type: "reusable_resource", Name: name,
			Extra: map[string]any{"capacity": rr.capacity.String()},
		}
		occupied := Zero
		active := map[*Atom]Rational{}
		for _, p := range pulses {
			for _, a := range starting[p.String()] {
				amt, _ := s.arithBounds(a.Arg(rr.amountArg))
				active[a] = amt
				occupied = occupied.Add(amt)
			}
			amount := occupied.String()
			var atoms []*Atom
			for a := range active {
				atoms = append(atoms, a)
			}
			tv.Values = append(tv.Values, TimelineValue{Time: p.String(), Atoms: atomIDs(atoms), Amount: &amount})
			for _, a := range ending[p.String()] {
				occupied = occupied.Sub(active[a])
				delete(active, a)
			}
		}
		out = append(out, tv)
	}
	return out
}

// ConsumableResourceTimeline renders cr's extracted timeline, tracking the
// running level produced/consumed at each pulse.
func (s *Solver) ConsumableResourceTimeline(cr *ConsumableResource) []TimelineView {
	var out []TimelineView
	for name, atms := range s.instanceAtoms(cr.scope) {
		pulses, starting, _ := s.extractPulses(atms, cr.startArg, cr.endArg)
		tv := TimelineView{
			Type: "consumable_resource", Name: name,
			Extra: map[string]any{"capacity": cr.capacity.String()},
		}
		level := Zero
		for _, p := range pulses {
			var atoms []*Atom
			for _, a := range starting[p.String()] {
				amt, _ := s.arithBounds(a.Arg(cr.amountArg))
				level = level.Add(amt)
				atoms = append(atoms, a)
			}
			amount := level.String()
			tv.Values = append(tv.Values, TimelineValue{Time: p.String(), Atoms: atomIDs(atoms), Amount: &amount})
		}
		out = append(out, tv)
	}
	return out
}

// AgentTimeline renders ag's extracted timeline: a single-slot schedule
// keyed by each atom's start time (its end time, for impulse atoms).
func (s *Solver) AgentTimeline(ag *Agent) []TimelineView {
	var out []TimelineView
	for name, atms := range s.instanceAtoms(ag.scope) {
		tv := TimelineView{Type: "agent", Name: name}
		type pulsed struct {
			t Rational
			a *Atom
		}
		var ps []pulsed
		for _, a := range atms {
			arg := ag.startArg
			if ag.IsImpulse(a) {
				arg = ag.endArg
			}
			t, _ := s.arithBounds(a.Arg(arg))
			ps = append(ps, pulsed{t, a})
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i].t.Compare(ps[j].t) < 0 })
		for _, p := range ps {
			tv.Values = append(tv.Values, TimelineValue{Time: p.t.String(), Atoms: []int{p.a.ID}})
		}
		out = append(out, tv)
	}
	return out
}

// SolverTimeline renders the top-level timeline view: the solver's own
// identity plus one nested entry per smart type it coordinates.
type SolverTimeline struct {
	Name      string          `json:"name"`
	Timelines []TimelineView  `json:"timelines"`
}

// Timelines gathers every registered smart type's extracted timeline
// (spec §6's five timeline shapes), the CLI/observer-facing counterpart to
// StateJSON's flaw/resolver graph view.
func (s *Solver) Timelines() SolverTimeline {
	st := SolverTimeline{Name: s.name}
	for _, smart := range s.smartTypes {
		switch t := smart.(type) {
		case *Agent:
			st.Timelines = append(st.Timelines, s.AgentTimeline(t)...)
		case *StateVariable:
			st.Timelines = append(st.Timelines, s.StateVariableTimeline(t)...)
		case *ReusableResource:
			st.Timelines = append(st.Timelines, s.ReusableResourceTimeline(t)...)
		case *ConsumableResource:
			st.Timelines = append(st.Timelines, s.ConsumableResourceTimeline(t)...)
		}
	}
	return st
}
