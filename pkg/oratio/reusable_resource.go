package oratio

// ReusableResource is the smart type for a resource with a fixed capacity
// shared across overlapping atoms, each consuming an amount for its
// duration (spec §4.6), grounded in spirit on gokando's Cumulative
// time-table filter (pkg/minikanren/cumulative.go), generalized from
// discrete 1-based time to continuous RDL time points and from pruning to
// conflict-set reporting.
type ReusableResource struct {
	baseResource
	amountArg string
	capacity  Rational
}

// NewReusableResource constructs a reusable_resource smart type with the
// given capacity; amountArg names the predicate parameter holding each
// atom's demand.
func NewReusableResource(s *Solver, scope, startArg, endArg, amountArg string, capacity Rational) *ReusableResource {
	return &ReusableResource{
		baseResource: newBaseResource(s, scope, startArg, endArg, ""),
		amountArg:    amountArg,
		capacity:     capacity,
	}
}

func (rr *ReusableResource) OnNewAtom(a *Atom) { rr.onNewAtom(a) }

// Inconsistencies sweeps the resource's usage profile and reports one
// rr_flaw per not-yet-seen overlapping set whose summed amount exceeds
// capacity (spec §4.6: "flag any overlap where summed amount exceeds
// capacity; produce an rr_flaw").
func (rr *ReusableResource) Inconsistencies() []ResourceInconsistency {
	var out []ResourceInconsistency
	atoms := rr.activeAtoms()
	for {
		pulses := timeline(rr.s, atoms, rr.startArg, rr.endArg, rr.amountArg)
		group, found := profileExceeds(pulses, rr.capacity)
		if !found {
			return out
		}
		key := overlapKey(sortedAtoms(group))
		if rr.seen[key] {
			// already reported; drop one atom from consideration so the
			// sweep can find the next distinct violation, if any.
			if len(group) == 0 {
				return out
			}
			atoms = removeAtom(atoms, group[0])
			continue
		}
		rr.seen[key] = true
		out = append(out, ResourceInconsistency{
			Kind:    ResourceReusable,
			Atoms:   group,
			Choices: rr.orderingChoices(group, One.Div(NewRational(int64(len(group)), 1))),
		})
		atoms = removeAtom(atoms, group[0])
	}
}

func sortedAtoms(atoms []*Atom) []*Atom {
	out := append([]*Atom(nil), atoms...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func removeAtom(atoms []*Atom, target *Atom) []*Atom {
	out := make([]*Atom, 0, len(atoms))
	for _, a := range atoms {
		if a != target {
			out = append(out, a)
		}
	}
	return out
}
