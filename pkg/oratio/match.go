package oratio

// Matches decides whether two items could be made equal (spec §9's open
// question, resolved per DESIGN.md): primitive items (Bool/Arith/String/
// Enum/Atom) match when they are not provably incompatible under the
// current assignment; Component items match when they share a type and
// every named subitem recursively matches.
//
// This is deliberately weaker than equality: it answers "could these still
// unify", not "are these already equal". Flaws call it to decide whether an
// equality literal is worth constructing at all (spec §4.2, atom_flaw step
// 1 item d).
func (s *Solver) Matches(left, right *Item) bool {
	if left == nil || right == nil {
		return left == right
	}
	if left.Kind != right.Kind {
		return false
	}
	switch left.Kind {
	case KindBool:
		lv := s.sat.Value(left.BoolLit)
		rv := s.sat.Value(right.BoolLit)
		return lv == LUndefined || rv == LUndefined || lv == rv
	case KindString:
		return left.StringValue == right.StringValue
	case KindEnum:
		// Two enum items match if their OV domains share at least one
		// candidate value.
		ld := s.ov.Domain(left.EnumVar)
		rd := make(map[ObjValue]bool, len(s.ov.Domain(right.EnumVar)))
		for _, v := range s.ov.Domain(right.EnumVar) {
			rd[v] = true
		}
		for _, v := range ld {
			if rd[v] {
				return true
			}
		}
		return false
	case KindArith:
		llb, lub := s.arithBounds(left)
		rlb, rub := s.arithBounds(right)
		// Intervals [llb,lub] and [rlb,rub] overlap.
		return llb.Compare(rub) <= 0 && rlb.Compare(lub) <= 0
	case KindAtom:
		return left.Atom != nil && right.Atom != nil && left.Atom.Predicate == right.Atom.Predicate
	case KindComponent:
		if left.ComponentType != right.ComponentType {
			return false
		}
		if len(left.SubItems) != len(right.SubItems) {
			return false
		}
		for name, li := range left.SubItems {
			ri, ok := right.SubItems[name]
			if !ok || !s.Matches(li, ri) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// arithBounds returns the current bounds of an Arith item from the
// appropriate theory (RDL for temporal quantities, LRA otherwise).
func (s *Solver) arithBounds(it *Item) (Rational, Rational) {
	if it.ArithIsRDL {
		if len(it.ArithExpr.Terms) == 0 {
			// A constant time value has no backing RDL variable.
			return it.ArithExpr.Constant, it.ArithExpr.Constant
		}
		// RDL bounds are only meaningful relative to a reference var; here
		// we report the variable's own bounds against the theory's zero
		// reference, which every RDL implementation maintains internally.
		return s.rdl.Bounds(it.variableOf())
	}
	return s.lra.Bounds(it.ArithExpr)
}

// variableOf extracts the single RDL variable backing a bare (unscaled,
// no-offset) arithmetic item, which is how positions/time-points are
// represented.
func (it *Item) variableOf() Var {
	for v := range it.ArithExpr.Terms {
		return v
	}
	return TrueVar
}

// MatchesAtomArgs reports whether atoms a and b have compatible argument
// shapes: same predicate, same argument names, and every pairwise argument
// Matches (spec §4.2 atom_flaw resolvers step 1).
func (s *Solver) MatchesAtomArgs(a, b *Atom) bool {
	if a.Predicate != b.Predicate {
		return false
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for name, av := range a.Args {
		bv, ok := b.Args[name]
		if !ok || !s.Matches(av, bv) {
			return false
		}
	}
	return true
}
