package oratio

import "sort"

// pulse is one sweep-line event: an atom's interval starting or ending at
// a given time. timeline builds these from each atom's start/end RDL
// bounds, the same "compulsory part" idea gokando's Cumulative time-table
// filter uses for discrete time, generalized here to the continuous RDL
// time points spec §4.6 pulses over.
type pulse struct {
	time    Rational
	atom    *Atom
	amount  Rational // only meaningful for reusable/consumable sweeps
	starting bool
}

// timeline resolves start/end bounds for every atom in atoms using the
// given accessors and returns its pulses sorted by time, ends before
// starts at equal times (so a task ending exactly when another begins is
// not reported as overlapping, matching the half-open-interval convention
// spec §4.6 implies by calling both "start" and "end" pulses).
func timeline(s *Solver, atoms []*Atom, startArg, endArg, amountArg string) []pulse {
	pulses := make([]pulse, 0, len(atoms)*2)
	for _, a := range atoms {
		if s.sat.Value(Lit{Var: a.Sigma}) == LFalse {
			continue // unified away, does not occupy the resource
		}
		startIt, endIt := a.Arg(startArg), a.Arg(endArg)
		if startIt == nil || endIt == nil {
			continue
		}
		st, _ := s.arithBounds(startIt)
		en, _ := s.arithBounds(endIt)
		amt := One
		if amountArg != "" {
			if ai := a.Arg(amountArg); ai != nil {
				amt, _ = s.arithBounds(ai)
			}
		}
		pulses = append(pulses, pulse{time: st, atom: a, amount: amt, starting: true})
		pulses = append(pulses, pulse{time: en, atom: a, amount: amt, starting: false})
	}
	sort.SliceStable(pulses, func(i, j int) bool {
		if !pulses[i].time.Equal(pulses[j].time) {
			return pulses[i].time.Less(pulses[j].time)
		}
		// ends sort before starts at the same instant
		return !pulses[i].starting && pulses[j].starting
	})
	return pulses
}

// overlapSets sweeps pulses and returns every distinct set of atoms
// simultaneously active at some instant, sized >= minSize, deduplicated
// by their sorted atom-id key (spec §4.6: "a flaw is created only if its
// atom-set has not been seen").
func overlapSets(pulses []pulse, minSize int, seen map[string]bool) [][]*Atom {
	active := make(map[*Atom]bool)
	var out [][]*Atom
	for _, p := range pulses {
		if p.starting {
			active[p.atom] = true
		} else {
			delete(active, p.atom)
			continue
		}
		if len(active) < minSize {
			continue
		}
		group := make([]*Atom, 0, len(active))
		for a := range active {
			group = append(group, a)
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		key := overlapKey(group)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, group)
	}
	return out
}

// pairs returns every 2-subset of atoms (the minimal conflict sets
// state-variable overlap reports produce one sv_flaw each for).
func pairs(atoms []*Atom) [][2]*Atom {
	var out [][2]*Atom
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			out = append(out, [2]*Atom{atoms[i], atoms[j]})
		}
	}
	return out
}

// profileExceeds sweeps pulses and reports the first instant at which the
// running sum of amount exceeds capacity, returning the overlapping set
// at that instant (reusable_resource: "flag any overlap where summed
// amount exceeds capacity").
func profileExceeds(pulses []pulse, capacity Rational) ([]*Atom, bool) {
	active := make(map[*Atom]bool)
	sum := Zero
	for _, p := range pulses {
		if p.starting {
			active[p.atom] = true
			sum = sum.Add(p.amount)
		} else {
			sum = sum.Sub(p.amount)
			delete(active, p.atom)
			continue
		}
		if sum.Compare(capacity) > 0 {
			group := make([]*Atom, 0, len(active))
			for a := range active {
				group = append(group, a)
			}
			return group, true
		}
	}
	return nil, false
}

// profileOutOfBounds sweeps a consumable resource's linear amount profile
// (each pulse adds or removes its signed amount) and reports the first
// overlapping set at which it exits [0, capacity] (consumable_resource:
// "flag if it exits [0, capacity]").
func profileOutOfBounds(pulses []pulse, capacity Rational) ([]*Atom, bool) {
	active := make(map[*Atom]bool)
	level := Zero
	for _, p := range pulses {
		if p.starting {
			active[p.atom] = true
			level = level.Add(p.amount)
		} else {
			delete(active, p.atom)
			continue
		}
		if level.Compare(Zero) < 0 || level.Compare(capacity) > 0 {
			group := make([]*Atom, 0, len(active))
			for a := range active {
				group = append(group, a)
			}
			return group, true
		}
	}
	return nil, false
}

func overlapKey(atoms []*Atom) string {
	key := make([]byte, 0, len(atoms)*5)
	for _, a := range atoms {
		key = append(key, byte(a.ID), byte(a.ID>>8), byte(a.ID>>16), byte(a.ID>>24), ',')
	}
	return string(key)
}
